package repositories

import (
	"context"

	"recipes/internal/models"
	"recipes/internal/search"
)

// RecipeRepository defines the interface for recipe data access.
type RecipeRepository interface {
	// Search returns the recipes matching c in storage order.
	Search(ctx context.Context, c search.Criteria) ([]models.Recipe, error)
	GetByID(ctx context.Context, id string) (*models.Recipe, error)
	Create(ctx context.Context, recipe *models.Recipe) error
	// Update replaces the scalar fields of an existing recipe. A non-nil
	// Ingredients slice replaces the owned ingredients as well.
	Update(ctx context.Context, recipe *models.Recipe) error
	// Delete removes a recipe and every ingredient it owns.
	Delete(ctx context.Context, id string) error
	ExistsByName(ctx context.Context, name string) (bool, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
}
