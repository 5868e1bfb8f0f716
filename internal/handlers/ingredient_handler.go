package handlers

import (
	"github.com/gofiber/fiber/v2"

	"recipes/internal/models"
	"recipes/internal/services"
)

// IngredientHandler handles HTTP requests for ingredients, both nested under
// a recipe and addressed directly.
type IngredientHandler struct {
	service *services.IngredientService
}

// NewIngredientHandler creates a new IngredientHandler.
func NewIngredientHandler(service *services.IngredientService) *IngredientHandler {
	return &IngredientHandler{
		service: service,
	}
}

// RegisterRoutes registers the ingredient routes with the Fiber app.
func (h *IngredientHandler) RegisterRoutes(router fiber.Router) {
	nested := router.Group("/recipes/:id/ingredients")
	nested.Get("/", h.HandleListRecipeIngredients)
	nested.Post("/", h.HandleCreateRecipeIngredient)
	nested.Delete("/", h.HandleDeleteRecipeIngredients)

	ingredientRoutes := router.Group("/ingredients")
	ingredientRoutes.Get("/:id", h.HandleGetIngredientByID)
	ingredientRoutes.Put("/:id", h.HandleUpdateIngredient)
	ingredientRoutes.Patch("/:id", h.HandleUpdateIngredient)
	ingredientRoutes.Delete("/:id", h.HandleDeleteIngredient)
}

// HandleListRecipeIngredients lists the ingredients of a recipe.
func (h *IngredientHandler) HandleListRecipeIngredients(c *fiber.Ctx) error {
	list, err := h.service.ListByRecipeID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(list)
}

// HandleCreateRecipeIngredient adds an ingredient to a recipe.
func (h *IngredientHandler) HandleCreateRecipeIngredient(c *fiber.Ctx) error {
	var in models.IngredientInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	ingredient, err := h.service.Create(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}

	c.Location("/api/v1/ingredients/" + ingredient.ID)
	return c.Status(fiber.StatusCreated).JSON(ingredient)
}

// HandleDeleteRecipeIngredients removes every ingredient of a recipe.
func (h *IngredientHandler) HandleDeleteRecipeIngredients(c *fiber.Ctx) error {
	if err := h.service.DeleteByRecipeID(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusOK)
}

// HandleGetIngredientByID retrieves a single ingredient.
func (h *IngredientHandler) HandleGetIngredientByID(c *fiber.Ctx) error {
	ingredient, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(ingredient)
}

// HandleUpdateIngredient renames an ingredient.
func (h *IngredientHandler) HandleUpdateIngredient(c *fiber.Ctx) error {
	var in models.IngredientInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	ingredient, err := h.service.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(ingredient)
}

// HandleDeleteIngredient deletes a single ingredient.
func (h *IngredientHandler) HandleDeleteIngredient(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusOK)
}
