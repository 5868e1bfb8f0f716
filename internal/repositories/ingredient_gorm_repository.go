package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"recipes/internal/models"
)

// GORMIngredientRepository is a GORM implementation of IngredientRepository.
type GORMIngredientRepository struct {
	db *gorm.DB
}

// NewGORMIngredientRepository creates a new instance of GORMIngredientRepository.
func NewGORMIngredientRepository(db *gorm.DB) *GORMIngredientRepository {
	return &GORMIngredientRepository{
		db: db,
	}
}

// touchRecipe bumps the modified time of the owning recipe.
func touchRecipe(tx *gorm.DB, recipeID string) error {
	res := tx.Model(&models.Recipe{}).Where("id = ?", recipeID).Update("modified_time", time.Now())
	if res.Error != nil {
		return fmt.Errorf("failed to touch recipe %s: %w", recipeID, res.Error)
	}
	if res.RowsAffected == 0 {
		return RecipeNotFound(recipeID)
	}
	return nil
}

// GetByID retrieves a single ingredient by its ID.
func (r *GORMIngredientRepository) GetByID(ctx context.Context, id string) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, IngredientNotFound(id)
		}
		return nil, fmt.Errorf("failed to get ingredient by ID %s: %w", id, err)
	}
	return &ingredient, nil
}

// ListByRecipeID retrieves the ingredients of a recipe in order.
func (r *GORMIngredientRepository) ListByRecipeID(ctx context.Context, recipeID string) ([]models.Ingredient, error) {
	ingredients := []models.Ingredient{}
	if err := r.db.WithContext(ctx).Where("recipe_id = ?", recipeID).Order("position ASC").Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to list ingredients of recipe %s: %w", recipeID, err)
	}
	return ingredients, nil
}

// Create appends an ingredient after the recipe's existing ones.
func (r *GORMIngredientRepository) Create(ctx context.Context, ingredient *models.Ingredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := touchRecipe(tx, ingredient.RecipeID); err != nil {
			return err
		}
		var next int
		if err := tx.Model(&models.Ingredient{}).
			Where("recipe_id = ?", ingredient.RecipeID).
			Select("COALESCE(MAX(position), -1) + 1").
			Scan(&next).Error; err != nil {
			return fmt.Errorf("failed to compute ingredient position: %w", err)
		}
		ingredient.Position = next
		if err := tx.Create(ingredient).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return DuplicateIngredientName()
			}
			return fmt.Errorf("failed to create ingredient: %w", err)
		}
		return nil
	})
}

// Update renames an existing ingredient.
func (r *GORMIngredientRepository) Update(ctx context.Context, ingredient *models.Ingredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Ingredient{}).Where("id = ?", ingredient.ID).Update("name", ingredient.Name)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
				return DuplicateIngredientName()
			}
			return fmt.Errorf("failed to update ingredient: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return IngredientNotFound(ingredient.ID)
		}
		return touchRecipe(tx, ingredient.RecipeID)
	})
}

// Delete removes a single ingredient.
func (r *GORMIngredientRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ingredient models.Ingredient
		if err := tx.First(&ingredient, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return IngredientNotFound(id)
			}
			return fmt.Errorf("failed to get ingredient by ID %s: %w", id, err)
		}
		if err := tx.Delete(&models.Ingredient{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete ingredient: %w", err)
		}
		return touchRecipe(tx, ingredient.RecipeID)
	})
}

// DeleteByRecipeID removes every ingredient of a recipe.
func (r *GORMIngredientRepository) DeleteByRecipeID(ctx context.Context, recipeID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := touchRecipe(tx, recipeID); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&models.Ingredient{}).Error; err != nil {
			return fmt.Errorf("failed to delete ingredients of recipe %s: %w", recipeID, err)
		}
		return nil
	})
}

// ExistsByRecipeAndName reports whether the recipe already owns an ingredient with that name.
func (r *GORMIngredientRepository) ExistsByRecipeAndName(ctx context.Context, recipeID, name, excludeID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.Ingredient{}).Where("recipe_id = ? AND name = ?", recipeID, name)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check ingredient name %q: %w", name, err)
	}
	return count > 0, nil
}
