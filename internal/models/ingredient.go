package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ingredient is owned by exactly one recipe. Names are unique within a recipe.
type Ingredient struct {
	ID       string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name     string `json:"ingredientName" gorm:"type:varchar(100);not null;uniqueIndex:idx_recipe_ingredient_name"`
	RecipeID string `json:"recipeId" gorm:"type:varchar(36);not null;index;uniqueIndex:idx_recipe_ingredient_name"`
	Position int    `json:"-" gorm:"not null;default:0"`
}

// BeforeCreate assigns an id to ingredients created without one.
func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// IngredientInput is the request body accepted when adding or renaming an ingredient.
type IngredientInput struct {
	IngredientName string `json:"ingredientName" validate:"required,size100"`
}
