package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"recipes/internal/models"
	"recipes/internal/search"
)

// GORMRecipeRepository is a GORM implementation of RecipeRepository.
type GORMRecipeRepository struct {
	db *gorm.DB
}

// NewGORMRecipeRepository creates a new instance of GORMRecipeRepository.
func NewGORMRecipeRepository(db *gorm.DB) *GORMRecipeRepository {
	return &GORMRecipeRepository{
		db: db,
	}
}

func withIngredients(db *gorm.DB) *gorm.DB {
	return db.Preload("Ingredients", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("ingredients.position ASC")
	})
}

// Search retrieves the recipes matching c, evaluated by the database.
func (r *GORMRecipeRepository) Search(ctx context.Context, c search.Criteria) ([]models.Recipe, error) {
	scopes, err := CriteriaScopes(r.db.Dialector.Name(), c)
	if err != nil {
		return nil, err
	}

	var recipes []models.Recipe
	if err := r.db.WithContext(ctx).Scopes(scopes...).Scopes(withIngredients).
		Order("recipes.created_at ASC, recipes.id ASC").Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to search recipes: %w", err)
	}
	return recipes, nil
}

// GetByID retrieves a single recipe with its ingredients.
func (r *GORMRecipeRepository) GetByID(ctx context.Context, id string) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.db.WithContext(ctx).Scopes(withIngredients).First(&recipe, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, RecipeNotFound(id)
		}
		return nil, fmt.Errorf("failed to get recipe by ID %s: %w", id, err)
	}
	return &recipe, nil
}

// Create inserts a recipe together with its ingredients.
func (r *GORMRecipeRepository) Create(ctx context.Context, recipe *models.Recipe) error {
	recipe.ModifiedTime = time.Now()
	for i := range recipe.Ingredients {
		recipe.Ingredients[i].Position = i
	}
	if err := r.db.WithContext(ctx).Create(recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return DuplicateRecipeName()
		}
		return fmt.Errorf("failed to create recipe: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of a recipe and, when given, its ingredients.
func (r *GORMRecipeRepository) Update(ctx context.Context, recipe *models.Recipe) error {
	recipe.ModifiedTime = time.Now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Updates(map[string]any{
			"name":            recipe.Name,
			"is_vegetarian":   recipe.IsVegetarian,
			"num_of_servings": recipe.NumOfServings,
			"instructions":    recipe.Instructions,
			"modified_time":   recipe.ModifiedTime,
		})
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
				return DuplicateRecipeName()
			}
			return fmt.Errorf("failed to update recipe: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return RecipeNotFound(recipe.ID)
		}

		if recipe.Ingredients == nil {
			return nil
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.Ingredient{}).Error; err != nil {
			return fmt.Errorf("failed to replace ingredients of recipe %s: %w", recipe.ID, err)
		}
		if len(recipe.Ingredients) == 0 {
			return nil
		}
		for i := range recipe.Ingredients {
			recipe.Ingredients[i].ID = ""
			recipe.Ingredients[i].RecipeID = recipe.ID
			recipe.Ingredients[i].Position = i
		}
		if err := tx.Create(&recipe.Ingredients).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return DuplicateIngredientName()
			}
			return fmt.Errorf("failed to replace ingredients of recipe %s: %w", recipe.ID, err)
		}
		return nil
	})
}

// Delete removes a recipe and its ingredients in one transaction.
func (r *GORMRecipeRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Ingredient{}).Error; err != nil {
			return fmt.Errorf("failed to delete ingredients of recipe %s: %w", id, err)
		}
		res := tx.Delete(&models.Recipe{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete recipe: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return RecipeNotFound(id)
		}
		return nil
	})
}

// ExistsByName reports whether a recipe with the given name is stored.
func (r *GORMRecipeRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Recipe{}).Where("name = ?", name).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check recipe name %q: %w", name, err)
	}
	return count > 0, nil
}

// ExistsByID reports whether a recipe with the given id is stored.
func (r *GORMRecipeRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Recipe{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check recipe ID %s: %w", id, err)
	}
	return count > 0, nil
}
