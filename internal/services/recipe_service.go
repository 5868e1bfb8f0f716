package services

import (
	"context"
	"log/slog"

	"recipes/internal/apperror"
	"recipes/internal/cache"
	"recipes/internal/models"
	"recipes/internal/repositories"
	"recipes/internal/search"
	"recipes/internal/validation"
)

// NameExists reports whether a recipe name is already registered.
type NameExists func(ctx context.Context, name string) (bool, error)

// ValidateUniqueName fails with a validation error when exists reports name as taken.
func ValidateUniqueName(ctx context.Context, exists NameExists, name string) error {
	taken, err := exists(ctx, name)
	if err != nil {
		return apperror.Wrap(apperror.CodeInternal, "failed to check recipe name", err)
	}
	if taken {
		return repositories.DuplicateRecipeName()
	}
	return nil
}

// RecipeService handles business logic related to recipes.
type RecipeService struct {
	repo      repositories.RecipeRepository
	validator *validation.Validator
	mutations
}

// NewRecipeService creates a new RecipeService. c and publisher may be nil.
func NewRecipeService(repo repositories.RecipeRepository, c cache.SearchCache, publisher EventPublisher) *RecipeService {
	return &RecipeService{
		repo:      repo,
		validator: validation.New(),
		mutations: newMutations(c, publisher),
	}
}

// Search parses raw query parameters into criteria and returns the matching recipes.
func (s *RecipeService) Search(ctx context.Context, raw map[string]string) ([]models.Recipe, error) {
	c, err := search.ParseCriteria(raw)
	if err == nil {
		err = c.Validate()
	}
	if err != nil {
		searchTotal.WithLabelValues(outcomeInvalid).Inc()
		return nil, err
	}

	key := c.CacheKey()
	cached, gen, ok, cacheErr := s.cache.Get(ctx, key)
	if cacheErr != nil {
		slog.WarnContext(ctx, "search cache read failed", "key", key, "error", cacheErr)
	} else if ok {
		searchTotal.WithLabelValues(outcomeHit).Inc()
		return normalizeAll(cached), nil
	}

	recipes, err := s.repo.Search(ctx, c)
	if err != nil {
		searchTotal.WithLabelValues(outcomeError).Inc()
		return nil, err
	}
	recipes = normalizeAll(recipes)
	// Without a generation from Get the result cannot be tied to a snapshot.
	if cacheErr == nil {
		if err := s.cache.Set(ctx, gen, key, recipes); err != nil {
			slog.WarnContext(ctx, "search cache write failed", "key", key, "error", err)
		}
	}
	searchTotal.WithLabelValues(outcomeMiss).Inc()
	return recipes, nil
}

// GetByID retrieves a single recipe by its ID.
func (s *RecipeService) GetByID(ctx context.Context, id string) (*models.Recipe, error) {
	recipe, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	normalize(recipe)
	return recipe, nil
}

// Create validates input, checks name uniqueness and stores a new recipe.
func (s *RecipeService) Create(ctx context.Context, in models.RecipeInput) (*models.Recipe, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}
	if err := ValidateUniqueName(ctx, s.repo.ExistsByName, in.RecipeName); err != nil {
		return nil, err
	}

	recipe := in.ToRecipe()
	if err := s.repo.Create(ctx, &recipe); err != nil {
		return nil, err
	}
	normalize(&recipe)
	s.changed(ctx, models.RecipeCreated, recipe.ID, recipe.Name)
	return &recipe, nil
}

// Update replaces the mutable fields of a recipe. Ingredients are replaced only when supplied.
func (s *RecipeService) Update(ctx context.Context, id string, in models.RecipeInput) (*models.Recipe, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.Name != in.RecipeName {
		if err := ValidateUniqueName(ctx, s.repo.ExistsByName, in.RecipeName); err != nil {
			return nil, err
		}
	}

	recipe := in.ToRecipe()
	recipe.ID = id
	if err := s.repo.Update(ctx, &recipe); err != nil {
		return nil, err
	}
	s.changed(ctx, models.RecipeUpdated, id, recipe.Name)
	return s.GetByID(ctx, id)
}

// Delete removes a recipe together with its ingredients.
func (s *RecipeService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, models.RecipeDeleted, id, "")
	return nil
}

// InvalidateCache drops cached search results. Used by the event consumer.
func (s *RecipeService) InvalidateCache(ctx context.Context) error {
	return s.cache.Invalidate(ctx)
}

func normalize(r *models.Recipe) {
	if r.Ingredients == nil {
		r.Ingredients = []models.Ingredient{}
	}
}

func normalizeAll(recipes []models.Recipe) []models.Recipe {
	if recipes == nil {
		return []models.Recipe{}
	}
	for i := range recipes {
		normalize(&recipes[i])
	}
	return recipes
}
