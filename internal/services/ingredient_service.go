package services

import (
	"context"
	"fmt"

	"recipes/internal/cache"
	"recipes/internal/models"
	"recipes/internal/repositories"
	"recipes/internal/validation"
)

// IngredientService handles business logic related to the ingredients of a recipe.
type IngredientService struct {
	ingredients repositories.IngredientRepository
	recipes     repositories.RecipeRepository
	validator   *validation.Validator
	mutations
}

// NewIngredientService creates a new IngredientService. c and publisher may be nil.
func NewIngredientService(ingredients repositories.IngredientRepository, recipes repositories.RecipeRepository, c cache.SearchCache, publisher EventPublisher) *IngredientService {
	return &IngredientService{
		ingredients: ingredients,
		recipes:     recipes,
		validator:   validation.New(),
		mutations:   newMutations(c, publisher),
	}
}

func (s *IngredientService) requireRecipe(ctx context.Context, recipeID string) error {
	exists, err := s.recipes.ExistsByID(ctx, recipeID)
	if err != nil {
		return fmt.Errorf("failed to check recipe %s: %w", recipeID, err)
	}
	if !exists {
		return repositories.RecipeNotFound(recipeID)
	}
	return nil
}

func (s *IngredientService) requireUniqueName(ctx context.Context, recipeID, name, excludeID string) error {
	taken, err := s.ingredients.ExistsByRecipeAndName(ctx, recipeID, name, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check ingredient name: %w", err)
	}
	if taken {
		return repositories.DuplicateIngredientName()
	}
	return nil
}

// ListByRecipeID returns the ingredients of a recipe in order.
func (s *IngredientService) ListByRecipeID(ctx context.Context, recipeID string) ([]models.Ingredient, error) {
	if err := s.requireRecipe(ctx, recipeID); err != nil {
		return nil, err
	}
	list, err := s.ingredients.ListByRecipeID(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []models.Ingredient{}
	}
	return list, nil
}

// GetByID retrieves a single ingredient by its ID.
func (s *IngredientService) GetByID(ctx context.Context, id string) (*models.Ingredient, error) {
	return s.ingredients.GetByID(ctx, id)
}

// Create adds an ingredient to a recipe.
func (s *IngredientService) Create(ctx context.Context, recipeID string, in models.IngredientInput) (*models.Ingredient, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}
	if err := s.requireRecipe(ctx, recipeID); err != nil {
		return nil, err
	}
	if err := s.requireUniqueName(ctx, recipeID, in.IngredientName, ""); err != nil {
		return nil, err
	}

	ingredient := models.Ingredient{Name: in.IngredientName, RecipeID: recipeID}
	if err := s.ingredients.Create(ctx, &ingredient); err != nil {
		return nil, err
	}
	s.changed(ctx, models.IngredientsChanged, recipeID, "")
	return &ingredient, nil
}

// Update renames an ingredient within its recipe.
func (s *IngredientService) Update(ctx context.Context, id string, in models.IngredientInput) (*models.Ingredient, error) {
	if err := s.validator.Struct(in); err != nil {
		return nil, err
	}
	ingredient, err := s.ingredients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.requireUniqueName(ctx, ingredient.RecipeID, in.IngredientName, id); err != nil {
		return nil, err
	}

	ingredient.Name = in.IngredientName
	if err := s.ingredients.Update(ctx, ingredient); err != nil {
		return nil, err
	}
	s.changed(ctx, models.IngredientsChanged, ingredient.RecipeID, "")
	return ingredient, nil
}

// Delete removes a single ingredient.
func (s *IngredientService) Delete(ctx context.Context, id string) error {
	ingredient, err := s.ingredients.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.ingredients.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, models.IngredientsChanged, ingredient.RecipeID, "")
	return nil
}

// DeleteByRecipeID removes every ingredient of a recipe.
func (s *IngredientService) DeleteByRecipeID(ctx context.Context, recipeID string) error {
	if err := s.requireRecipe(ctx, recipeID); err != nil {
		return err
	}
	if err := s.ingredients.DeleteByRecipeID(ctx, recipeID); err != nil {
		return err
	}
	s.changed(ctx, models.IngredientsChanged, recipeID, "")
	return nil
}
