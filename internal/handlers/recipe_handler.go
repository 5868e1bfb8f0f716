package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"recipes/internal/models"
	"recipes/internal/search"
	"recipes/internal/services"
)

// RecipeHandler handles HTTP requests for recipes.
type RecipeHandler struct {
	service *services.RecipeService
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(service *services.RecipeService) *RecipeHandler {
	return &RecipeHandler{
		service: service,
	}
}

// RegisterRoutes registers the recipe routes with the Fiber app.
func (h *RecipeHandler) RegisterRoutes(router fiber.Router) {
	recipeRoutes := router.Group("/recipes")
	recipeRoutes.Get("/", h.HandleSearchRecipes)
	recipeRoutes.Post("/", h.HandleCreateRecipe)
	recipeRoutes.Get("/:id", h.HandleGetRecipeByID)
	recipeRoutes.Put("/:id", h.HandleUpdateRecipe)
	recipeRoutes.Patch("/:id", h.HandleUpdateRecipe)
	recipeRoutes.Delete("/:id", h.HandleDeleteRecipe)
}

// HandleSearchRecipes returns the recipes matching the query string filters.
func (h *RecipeHandler) HandleSearchRecipes(c *fiber.Ctx) error {
	recipes, err := h.service.Search(c.UserContext(), searchFilters(c))
	if err != nil {
		return err
	}
	return c.JSON(recipes)
}

// searchFilters collects the query string into filter values. Repeated
// ingredient filters are merged into one comma separated list; other repeated
// keys keep their first value.
func searchFilters(c *fiber.Ctx) map[string]string {
	filters := make(map[string]string)
	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		key := string(k)
		value := string(v)
		prev, seen := filters[key]
		if !seen || prev == "" && isListFilter(key) {
			filters[key] = value
			return
		}
		if value != "" && isListFilter(key) {
			filters[key] = prev + "," + value
		}
	})
	return filters
}

func isListFilter(key string) bool {
	return key == search.KeyIncludeIngredients || key == search.KeyExcludeIngredients
}

// HandleGetRecipeByID retrieves a single recipe by its ID.
func (h *RecipeHandler) HandleGetRecipeByID(c *fiber.Ctx) error {
	recipe, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(recipe)
}

// HandleCreateRecipe creates a new recipe.
func (h *RecipeHandler) HandleCreateRecipe(c *fiber.Ctx) error {
	var in models.RecipeInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	slog.InfoContext(c.UserContext(), "creating recipe", "recipe_name", in.RecipeName)
	recipe, err := h.service.Create(c.UserContext(), in)
	if err != nil {
		return err
	}

	c.Location("/api/v1/recipes/" + recipe.ID)
	return c.Status(fiber.StatusCreated).JSON(recipe)
}

// HandleUpdateRecipe replaces the fields of an existing recipe.
func (h *RecipeHandler) HandleUpdateRecipe(c *fiber.Ctx) error {
	var in models.RecipeInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	id := c.Params("id")
	slog.InfoContext(c.UserContext(), "updating recipe", "recipe_id", id, "recipe_name", in.RecipeName)
	recipe, err := h.service.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(recipe)
}

// HandleDeleteRecipe deletes a recipe and its ingredients.
func (h *RecipeHandler) HandleDeleteRecipe(c *fiber.Ctx) error {
	id := c.Params("id")
	slog.InfoContext(c.UserContext(), "deleting recipe", "recipe_id", id)
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusOK)
}
