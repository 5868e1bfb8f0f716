package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipes/internal/apperror"
	"recipes/internal/models"
)

func ptr[T any](v T) *T { return &v }

func TestValidator_StructValidRecipe(t *testing.T) {
	v := New()
	in := models.RecipeInput{
		RecipeName:    "Pancakes",
		IsVegetarian:  ptr(true),
		NumOfServings: ptr(4),
		Instructions:  "Mix and fry.",
		Ingredients:   []models.IngredientInput{{IngredientName: "flour"}, {IngredientName: "milk"}},
	}
	assert.NoError(t, v.Struct(in))
}

func TestValidator_StructReportsEveryViolation(t *testing.T) {
	v := New()
	in := models.RecipeInput{
		RecipeName:    "",
		NumOfServings: ptr(101),
		Instructions:  "x",
		Ingredients:   []models.IngredientInput{{IngredientName: "egg"}, {IngredientName: "egg"}, {IngredientName: ""}},
	}

	err := v.Struct(in)
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeValidation))
	assert.Equal(t, []string{
		"recipeName : must not be empty",
		"isVegetarian : must not be empty",
		"numOfServings : range must be between 1 and 100",
		"ingredients : must not contain duplicates",
	}, apperror.MessagesOf(err))
}

func TestValidator_StructNestedIngredientName(t *testing.T) {
	v := New()
	in := models.RecipeInput{
		RecipeName:    "Soup",
		IsVegetarian:  ptr(false),
		NumOfServings: ptr(2),
		Instructions:  "Boil.",
		Ingredients:   []models.IngredientInput{{IngredientName: "water"}, {IngredientName: ""}},
	}

	err := v.Struct(in)
	require.Error(t, err)
	assert.Equal(t, []string{"ingredients[1].ingredientName : must not be empty"}, apperror.MessagesOf(err))
}

func TestValidServings(t *testing.T) {
	type servings struct {
		N string `json:"n" validate:"servings"`
	}
	v := New()
	for _, ok := range []string{"1", "9", "10", "99", "100"} {
		assert.NoError(t, v.Struct(servings{N: ok}), ok)
	}
	for _, bad := range []string{"0", "101", "007", "-1", "abc", "", " 5"} {
		assert.Error(t, v.Struct(servings{N: bad}), bad)
	}
}
