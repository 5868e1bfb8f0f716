package models

import "time"

// RecipeEventType names a change to the recipe collection.
type RecipeEventType string

const (
	RecipeCreated      RecipeEventType = "recipe.created"
	RecipeUpdated      RecipeEventType = "recipe.updated"
	RecipeDeleted      RecipeEventType = "recipe.deleted"
	IngredientsChanged RecipeEventType = "recipe.ingredients.changed"
)

// RecipeEvent is published after every persisted mutation of a recipe or its ingredients.
type RecipeEvent struct {
	Type       RecipeEventType `json:"type"`
	RecipeID   string          `json:"recipeId"`
	RecipeName string          `json:"recipeName,omitempty"`
	OccurredAt time.Time       `json:"occurredAt"`
}
