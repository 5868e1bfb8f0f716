package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Recipe represents a recipe together with the ingredients it owns.
type Recipe struct {
	ID            string       `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name          string       `json:"recipeName" gorm:"uniqueIndex;type:varchar(100);not null"`
	IsVegetarian  bool         `json:"isVegetarian" gorm:"not null"`
	NumOfServings int          `json:"numOfServings" gorm:"not null"`
	Instructions  string       `json:"instructions" gorm:"type:varchar(2000);not null"`
	Ingredients   []Ingredient `json:"ingredients" gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time    `json:"-"`
	ModifiedTime  time.Time    `json:"modifiedTime"`
}

// BeforeCreate assigns an id to recipes created without one.
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// IngredientNames returns the names of the recipe's ingredients in order.
func (r *Recipe) IngredientNames() []string {
	names := make([]string, 0, len(r.Ingredients))
	for _, i := range r.Ingredients {
		names = append(names, i.Name)
	}
	return names
}

// Clone returns a deep copy so callers cannot mutate stored state through shared slices.
func (r Recipe) Clone() Recipe {
	if r.Ingredients != nil {
		r.Ingredients = append([]Ingredient(nil), r.Ingredients...)
	}
	return r
}

// RecipeInput is the request body accepted when creating or updating a recipe.
type RecipeInput struct {
	RecipeName    string            `json:"recipeName" validate:"required,size100"`
	IsVegetarian  *bool             `json:"isVegetarian" validate:"required"`
	NumOfServings *int              `json:"numOfServings" validate:"required,servings"`
	Instructions  string            `json:"instructions" validate:"required,size2000"`
	Ingredients   []IngredientInput `json:"ingredients" validate:"omitempty,max=100,unique=IngredientName,dive"`
}

// ToRecipe converts validated input into a Recipe. Ingredient positions follow input order.
func (in RecipeInput) ToRecipe() Recipe {
	r := Recipe{
		Name:         in.RecipeName,
		Instructions: in.Instructions,
	}
	if in.IsVegetarian != nil {
		r.IsVegetarian = *in.IsVegetarian
	}
	if in.NumOfServings != nil {
		r.NumOfServings = *in.NumOfServings
	}
	if in.Ingredients != nil {
		r.Ingredients = make([]Ingredient, 0, len(in.Ingredients))
		for i, ing := range in.Ingredients {
			r.Ingredients = append(r.Ingredients, Ingredient{Name: ing.IngredientName, Position: i})
		}
	}
	return r
}
