package repositories

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"recipes/internal/models"
	"recipes/internal/search"
)

// MemoryRecipeRepository is an in-memory implementation of RecipeRepository.
// Search evaluates composed predicates over recipes in insertion order.
type MemoryRecipeRepository struct {
	mu      sync.RWMutex
	recipes map[string]models.Recipe
	order   []string
	// owners maps ingredient ids to the id of the owning recipe.
	owners map[string]string
}

// NewMemoryRecipeRepository creates a new instance of MemoryRecipeRepository.
func NewMemoryRecipeRepository() *MemoryRecipeRepository {
	return &MemoryRecipeRepository{
		recipes: make(map[string]models.Recipe),
		owners:  make(map[string]string),
	}
}

// Search returns the recipes matching c.
func (r *MemoryRecipeRepository) Search(_ context.Context, c search.Criteria) ([]models.Recipe, error) {
	pred, err := search.Compose(c)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]models.Recipe, 0, len(r.order))
	for _, id := range r.order {
		all = append(all, r.recipes[id].Clone())
	}
	return search.Filter(all, pred), nil
}

// GetByID returns a recipe by its ID.
func (r *MemoryRecipeRepository) GetByID(_ context.Context, id string) (*models.Recipe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	recipe, ok := r.recipes[id]
	if !ok {
		return nil, RecipeNotFound(id)
	}
	recipe = recipe.Clone()
	return &recipe, nil
}

// Create adds a new recipe and its ingredients.
func (r *MemoryRecipeRepository) Create(_ context.Context, recipe *models.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.nameTaken(recipe.Name, "") {
		return DuplicateRecipeName()
	}
	if recipe.ID == "" {
		recipe.ID = uuid.New().String()
	}
	if recipe.Ingredients == nil {
		recipe.Ingredients = []models.Ingredient{}
	}
	r.adopt(recipe)
	recipe.CreatedAt = time.Now()
	recipe.ModifiedTime = recipe.CreatedAt

	r.recipes[recipe.ID] = recipe.Clone()
	r.order = append(r.order, recipe.ID)
	return nil
}

// Update modifies an existing recipe.
func (r *MemoryRecipeRepository) Update(_ context.Context, recipe *models.Recipe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.recipes[recipe.ID]
	if !ok {
		return RecipeNotFound(recipe.ID)
	}
	if r.nameTaken(recipe.Name, recipe.ID) {
		return DuplicateRecipeName()
	}

	existing.Name = recipe.Name
	existing.IsVegetarian = recipe.IsVegetarian
	existing.NumOfServings = recipe.NumOfServings
	existing.Instructions = recipe.Instructions
	if recipe.Ingredients != nil {
		r.release(existing.Ingredients)
		for i := range recipe.Ingredients {
			recipe.Ingredients[i].ID = ""
		}
		r.adopt(recipe)
		existing.Ingredients = append([]models.Ingredient{}, recipe.Ingredients...)
	}
	existing.ModifiedTime = time.Now()
	recipe.ModifiedTime = existing.ModifiedTime
	r.recipes[recipe.ID] = existing
	return nil
}

// Delete removes a recipe and its ingredients.
func (r *MemoryRecipeRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	recipe, ok := r.recipes[id]
	if !ok {
		return RecipeNotFound(id)
	}
	r.release(recipe.Ingredients)
	delete(r.recipes, id)
	for i, rid := range r.order {
		if rid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// ExistsByName reports whether a recipe with the given name is stored.
func (r *MemoryRecipeRepository) ExistsByName(_ context.Context, name string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.nameTaken(name, ""), nil
}

// ExistsByID reports whether a recipe with the given id is stored.
func (r *MemoryRecipeRepository) ExistsByID(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.recipes[id]
	return ok, nil
}

// nameTaken must be called with mu held.
func (r *MemoryRecipeRepository) nameTaken(name, exceptID string) bool {
	for id, recipe := range r.recipes {
		if id != exceptID && recipe.Name == name {
			return true
		}
	}
	return false
}

// adopt assigns ids, owner and positions to the recipe's ingredients. mu must be held.
func (r *MemoryRecipeRepository) adopt(recipe *models.Recipe) {
	for i := range recipe.Ingredients {
		ing := &recipe.Ingredients[i]
		if ing.ID == "" {
			ing.ID = uuid.New().String()
		}
		ing.RecipeID = recipe.ID
		ing.Position = i
		r.owners[ing.ID] = recipe.ID
	}
}

// release forgets ingredient ownership. mu must be held.
func (r *MemoryRecipeRepository) release(ingredients []models.Ingredient) {
	for _, ing := range ingredients {
		delete(r.owners, ing.ID)
	}
}
