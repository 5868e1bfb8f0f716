package search

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipes/internal/apperror"
)

func TestParseCriteria_Empty(t *testing.T) {
	c, err := ParseCriteria(map[string]string{})
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestParseCriteria_AllFilters(t *testing.T) {
	c, err := ParseCriteria(map[string]string{
		"isVegetarian":         "false",
		"numOfServings":        "4",
		"instructionsContains": "Stir",
		"includeIngredients":   "salt,pepper,salt",
		"unknown":              "ignored",
	})
	require.NoError(t, err)

	require.NotNil(t, c.Vegetarian)
	assert.False(t, *c.Vegetarian)
	require.NotNil(t, c.Servings)
	assert.Equal(t, 4, *c.Servings)
	require.NotNil(t, c.InstructionsContains)
	assert.Equal(t, "Stir", *c.InstructionsContains)
	assert.Equal(t, []string{"salt", "pepper"}, c.IncludeIngredients)
	assert.Nil(t, c.ExcludeIngredients)
}

func TestParseCriteria_Boundaries(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]string
		want []string
	}{
		{"servings zero", map[string]string{"numOfServings": "0"},
			[]string{"numOfServings : range must be between 1 and 100"}},
		{"servings 101", map[string]string{"numOfServings": "101"},
			[]string{"numOfServings : range must be between 1 and 100"}},
		{"servings not a number", map[string]string{"numOfServings": "two"},
			[]string{"numOfServings : range must be between 1 and 100"}},
		{"vegetarian not boolean", map[string]string{"isVegetarian": "yes"},
			[]string{"isVegetarian : must be true or false"}},
		{"instructions too long", map[string]string{"instructionsContains": strings.Repeat("a", 2001)},
			[]string{"instructionsContains : size must be between 1 and 2000"}},
		{"instructions empty", map[string]string{"instructionsContains": ""},
			[]string{"instructionsContains : size must be between 1 and 2000"}},
		{"ingredient too long", map[string]string{"includeIngredients": "a," + strings.Repeat("b", 101)},
			[]string{"includeIngredients : size must be between 1 and 100"}},
		{"empty ingredient entry", map[string]string{"excludeIngredients": "a,,b"},
			[]string{"excludeIngredients : size must be between 1 and 100"}},
		{"empty ingredient list", map[string]string{"excludeIngredients": ""},
			[]string{"excludeIngredients : size must be between 1 and 100"}},
		{"too many ingredients", map[string]string{"includeIngredients": strings.Repeat("x,", 100) + "x"},
			[]string{"includeIngredients : size must be between 1 and 100"}},
		{"several violations reported together", map[string]string{
			"isVegetarian":  "maybe",
			"numOfServings": "101",
		}, []string{
			"isVegetarian : must be true or false",
			"numOfServings : range must be between 1 and 100",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCriteria(tt.raw)
			require.Error(t, err)
			assert.True(t, apperror.Is(err, apperror.CodeValidation))
			assert.Equal(t, tt.want, apperror.MessagesOf(err))
		})
	}
}

func TestParseCriteria_AcceptsBounds(t *testing.T) {
	c, err := ParseCriteria(map[string]string{
		"numOfServings":        "100",
		"instructionsContains": strings.Repeat("a", 2000),
		"excludeIngredients":   strings.Repeat("b", 100),
	})
	require.NoError(t, err)
	assert.Equal(t, 100, *c.Servings)
	assert.Len(t, *c.InstructionsContains, 2000)
	assert.Equal(t, []string{strings.Repeat("b", 100)}, c.ExcludeIngredients)
}

func TestCriteria_Validate(t *testing.T) {
	c, err := ParseCriteria(map[string]string{
		"includeIngredients": "a",
		"excludeIngredients": "c",
	})
	require.NoError(t, err)

	err = c.Validate()
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.CodeInvalidSearchCombination))
	assert.Equal(t, []string{MsgInvalidCombination}, apperror.MessagesOf(err))
}

func TestCriteria_CacheKey(t *testing.T) {
	a, err := ParseCriteria(map[string]string{"includeIngredients": "b,a", "isVegetarian": "true"})
	require.NoError(t, err)
	b, err := ParseCriteria(map[string]string{"isVegetarian": "true", "includeIngredients": "a,b,a"})
	require.NoError(t, err)
	c, err := ParseCriteria(map[string]string{"excludeIngredients": "a,b", "isVegetarian": "true"})
	require.NoError(t, err)

	assert.Equal(t, a.CacheKey(), b.CacheKey())
	assert.NotEqual(t, a.CacheKey(), c.CacheKey())
	assert.Equal(t, "", Criteria{}.CacheKey())
}
