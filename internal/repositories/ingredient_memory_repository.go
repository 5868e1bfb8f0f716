package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"recipes/internal/models"
)

// MemoryIngredientRepository is an in-memory implementation of IngredientRepository.
// Ingredients live inside the recipes held by the shared MemoryRecipeRepository.
type MemoryIngredientRepository struct {
	store *MemoryRecipeRepository
}

// NewMemoryIngredientRepository creates an ingredient repository over the given recipe store.
func NewMemoryIngredientRepository(store *MemoryRecipeRepository) *MemoryIngredientRepository {
	return &MemoryIngredientRepository{store: store}
}

// GetByID returns an ingredient by its ID.
func (r *MemoryIngredientRepository) GetByID(_ context.Context, id string) (*models.Ingredient, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	recipe, idx, ok := r.locate(id)
	if !ok {
		return nil, IngredientNotFound(id)
	}
	ing := recipe.Ingredients[idx]
	return &ing, nil
}

// ListByRecipeID returns the ingredients of a recipe in order.
func (r *MemoryIngredientRepository) ListByRecipeID(_ context.Context, recipeID string) ([]models.Ingredient, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	recipe, ok := r.store.recipes[recipeID]
	if !ok {
		return []models.Ingredient{}, nil
	}
	return append([]models.Ingredient{}, recipe.Ingredients...), nil
}

// Create appends an ingredient to its recipe.
func (r *MemoryIngredientRepository) Create(_ context.Context, ingredient *models.Ingredient) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	recipe, ok := r.store.recipes[ingredient.RecipeID]
	if !ok {
		return RecipeNotFound(ingredient.RecipeID)
	}
	if hasName(recipe.Ingredients, ingredient.Name, "") {
		return DuplicateIngredientName()
	}
	if ingredient.ID == "" {
		ingredient.ID = uuid.New().String()
	}
	ingredient.Position = len(recipe.Ingredients)
	recipe.Ingredients = append(append([]models.Ingredient{}, recipe.Ingredients...), *ingredient)
	recipe.ModifiedTime = time.Now()
	r.store.recipes[recipe.ID] = recipe
	r.store.owners[ingredient.ID] = recipe.ID
	return nil
}

// Update renames an ingredient.
func (r *MemoryIngredientRepository) Update(_ context.Context, ingredient *models.Ingredient) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	recipe, idx, ok := r.locate(ingredient.ID)
	if !ok {
		return IngredientNotFound(ingredient.ID)
	}
	if hasName(recipe.Ingredients, ingredient.Name, ingredient.ID) {
		return DuplicateIngredientName()
	}
	ings := append([]models.Ingredient{}, recipe.Ingredients...)
	ings[idx].Name = ingredient.Name
	*ingredient = ings[idx]
	recipe.Ingredients = ings
	recipe.ModifiedTime = time.Now()
	r.store.recipes[recipe.ID] = recipe
	return nil
}

// Delete removes an ingredient.
func (r *MemoryIngredientRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	recipe, idx, ok := r.locate(id)
	if !ok {
		return IngredientNotFound(id)
	}
	ings := make([]models.Ingredient, 0, len(recipe.Ingredients)-1)
	ings = append(ings, recipe.Ingredients[:idx]...)
	ings = append(ings, recipe.Ingredients[idx+1:]...)
	recipe.Ingredients = ings
	recipe.ModifiedTime = time.Now()
	r.store.recipes[recipe.ID] = recipe
	delete(r.store.owners, id)
	return nil
}

// DeleteByRecipeID removes every ingredient of a recipe.
func (r *MemoryIngredientRepository) DeleteByRecipeID(_ context.Context, recipeID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	recipe, ok := r.store.recipes[recipeID]
	if !ok {
		return RecipeNotFound(recipeID)
	}
	r.store.release(recipe.Ingredients)
	recipe.Ingredients = []models.Ingredient{}
	recipe.ModifiedTime = time.Now()
	r.store.recipes[recipeID] = recipe
	return nil
}

// ExistsByRecipeAndName reports whether the recipe already owns an ingredient with that name.
func (r *MemoryIngredientRepository) ExistsByRecipeAndName(_ context.Context, recipeID, name, excludeID string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	recipe, ok := r.store.recipes[recipeID]
	if !ok {
		return false, nil
	}
	return hasName(recipe.Ingredients, name, excludeID), nil
}

// locate finds an ingredient's recipe and index. store.mu must be held.
func (r *MemoryIngredientRepository) locate(id string) (models.Recipe, int, bool) {
	recipeID, ok := r.store.owners[id]
	if !ok {
		return models.Recipe{}, 0, false
	}
	recipe := r.store.recipes[recipeID]
	for i, ing := range recipe.Ingredients {
		if ing.ID == id {
			return recipe, i, true
		}
	}
	return models.Recipe{}, 0, false
}

func hasName(ingredients []models.Ingredient, name, exceptID string) bool {
	for _, ing := range ingredients {
		if ing.ID != exceptID && ing.Name == name {
			return true
		}
	}
	return false
}
