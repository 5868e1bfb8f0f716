package repositories

import "recipes/internal/apperror"

// RecipeNotFound reports a missing recipe.
func RecipeNotFound(id string) error {
	return apperror.NotFound("Not found Recipe with id = %s", id)
}

// IngredientNotFound reports a missing ingredient.
func IngredientNotFound(id string) error {
	return apperror.NotFound("Not found Ingredient with id = %s", id)
}

// DuplicateRecipeName reports a recipe name that is already taken.
func DuplicateRecipeName() error {
	return apperror.Validation("recipeName : Recipe Name is already registered")
}

// DuplicateIngredientName reports an ingredient name already used within its recipe.
func DuplicateIngredientName() error {
	return apperror.Validation("ingredientName : Ingredient is already registered for this recipe")
}
