package repositories

import (
	"context"

	"recipes/internal/models"
)

// IngredientRepository defines the interface for ingredient data access.
type IngredientRepository interface {
	GetByID(ctx context.Context, id string) (*models.Ingredient, error)
	ListByRecipeID(ctx context.Context, recipeID string) ([]models.Ingredient, error)
	// Create appends an ingredient to its recipe.
	Create(ctx context.Context, ingredient *models.Ingredient) error
	Update(ctx context.Context, ingredient *models.Ingredient) error
	Delete(ctx context.Context, id string) error
	DeleteByRecipeID(ctx context.Context, recipeID string) error
	// ExistsByRecipeAndName reports whether recipeID owns an ingredient called
	// name other than the one identified by excludeID.
	ExistsByRecipeAndName(ctx context.Context, recipeID, name, excludeID string) (bool, error)
}
