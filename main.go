package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"recipes/internal/cache"
	"recipes/internal/config"
	"recipes/internal/database"
	"recipes/internal/handlers"
	"recipes/internal/models"
	"recipes/internal/repositories"
	"recipes/internal/services"
	"recipes/pkg/rabbitmq"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(newLogger(cfg))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("server gracefully stopped")
}

func newLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

// store bundles the repositories selected by DB_DRIVER.
type store struct {
	recipes     repositories.RecipeRepository
	ingredients repositories.IngredientRepository
	ping        handlers.HealthCheck
	close       func() error
}

func openStore(cfg *config.Config) (*store, error) {
	if cfg.DBDriver == database.DriverMemory {
		mem := repositories.NewMemoryRecipeRepository()
		return &store{
			recipes:     mem,
			ingredients: repositories.NewMemoryIngredientRepository(mem),
			close:       func() error { return nil },
		}, nil
	}

	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN, cfg.LogLevel > slog.LevelDebug)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	slog.Info("connected to database", "driver", cfg.DBDriver)
	return &store{
		recipes:     repositories.NewGORMRecipeRepository(db),
		ingredients: repositories.NewGORMIngredientRepository(db),
		ping:        sqlDB.PingContext,
		close:       sqlDB.Close,
	}, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.close()

	checks := map[string]handlers.HealthCheck{}
	if st.ping != nil {
		checks["database"] = st.ping
	}

	var searchCache cache.SearchCache = cache.Noop{}
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer client.Close()
		searchCache = cache.NewRedisSearchCache(client, cfg.SearchCacheTTL)
		checks["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
	}

	var (
		publisher services.EventPublisher
		mqClient  *rabbitmq.Client
	)
	if cfg.RabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			return err
		}
		defer mqClient.Close()
		publisher = mqClient
	} else {
		slog.Info("RABBITMQ_URL not set, recipe events are not published")
	}

	recipeService := services.NewRecipeService(st.recipes, searchCache, publisher)
	ingredientService := services.NewIngredientService(st.ingredients, st.recipes, searchCache, publisher)

	if cfg.SeedData {
		seedRecipes(ctx, recipeService)
	}

	app := handlers.NewApp(handlers.AppOptions{
		Recipes:         recipeService,
		Ingredients:     ingredientService,
		RateLimitMax:    cfg.RateLimitMax,
		RateLimitWindow: cfg.RateLimitWindow,
		AccessLog:       true,
		Checks:          checks,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("starting server", "addr", cfg.AppPort, "driver", cfg.DBDriver)
		if err := app.Listen(cfg.AppPort); err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	if mqClient != nil {
		g.Go(func() error {
			return mqClient.ConsumeRecipeEvents(gctx, func(ctx context.Context, e models.RecipeEvent) error {
				slog.DebugContext(ctx, "recipe event received", "type", e.Type, "recipe_id", e.RecipeID)
				return recipeService.InvalidateCache(ctx)
			})
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")
		return app.ShutdownWithTimeout(shutdownTimeout)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// seedRecipes stores a few sample recipes. Recipes that already exist are skipped.
func seedRecipes(ctx context.Context, svc *services.RecipeService) {
	veg, nonVeg := true, false
	two, four := 2, 4
	samples := []models.RecipeInput{
		{
			RecipeName: "Tomato Salad", IsVegetarian: &veg, NumOfServings: &two,
			Instructions: "Slice the tomatoes and onion, dress with olive oil and salt.",
			Ingredients: []models.IngredientInput{
				{IngredientName: "tomato"}, {IngredientName: "onion"},
				{IngredientName: "olive oil"}, {IngredientName: "salt"},
			},
		},
		{
			RecipeName: "Roast Chicken", IsVegetarian: &nonVeg, NumOfServings: &four,
			Instructions: "Rub the chicken with butter and garlic, roast in the oven for 90 minutes.",
			Ingredients: []models.IngredientInput{
				{IngredientName: "chicken"}, {IngredientName: "butter"},
				{IngredientName: "garlic"}, {IngredientName: "salt"},
			},
		},
		{
			RecipeName: "Potato Gratin", IsVegetarian: &veg, NumOfServings: &four,
			Instructions: "Layer sliced potatoes with cream and cheese, bake in the oven for an hour.",
			Ingredients: []models.IngredientInput{
				{IngredientName: "potato"}, {IngredientName: "cream"}, {IngredientName: "cheese"},
			},
		},
	}

	for _, in := range samples {
		recipe, err := svc.Create(ctx, in)
		if err != nil {
			slog.WarnContext(ctx, "skipped seed recipe", "recipe_name", in.RecipeName, "error", err)
			continue
		}
		slog.InfoContext(ctx, "seeded recipe", "recipe_name", recipe.Name, "recipe_id", recipe.ID)
	}
}
