package search

import (
	"strings"

	"recipes/internal/models"
)

// Predicate decides whether a recipe belongs to a result set.
type Predicate func(r *models.Recipe) bool

// All matches every recipe.
func All() Predicate {
	return func(*models.Recipe) bool { return true }
}

// And matches when every predicate matches. With no predicates it matches everything.
func And(preds ...Predicate) Predicate {
	return func(r *models.Recipe) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	}
}

// Vegetarian matches recipes whose vegetarian flag equals want.
func Vegetarian(want bool) Predicate {
	return func(r *models.Recipe) bool { return r.IsVegetarian == want }
}

// Servings matches recipes serving exactly n.
func Servings(n int) Predicate {
	return func(r *models.Recipe) bool { return r.NumOfServings == n }
}

// InstructionsContain matches recipes whose instructions contain text (case-sensitive).
func InstructionsContain(text string) Predicate {
	return func(r *models.Recipe) bool { return strings.Contains(r.Instructions, text) }
}

// IncludeIngredients matches recipes owning at least one ingredient named in names.
func IncludeIngredients(names []string) Predicate {
	set := nameSet(names)
	return func(r *models.Recipe) bool { return intersects(r, set) }
}

// ExcludeIngredients matches recipes owning no ingredient named in names.
func ExcludeIngredients(names []string) Predicate {
	set := nameSet(names)
	return func(r *models.Recipe) bool { return !intersects(r, set) }
}

// Compose builds the conjunction of every filter present in c. The combination
// is checked before anything is built.
func Compose(c Criteria) (Predicate, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var preds []Predicate
	if c.Vegetarian != nil {
		preds = append(preds, Vegetarian(*c.Vegetarian))
	}
	if c.Servings != nil {
		preds = append(preds, Servings(*c.Servings))
	}
	if c.InstructionsContains != nil {
		preds = append(preds, InstructionsContain(*c.InstructionsContains))
	}
	if c.IncludeIngredients != nil {
		preds = append(preds, IncludeIngredients(c.IncludeIngredients))
	}
	if c.ExcludeIngredients != nil {
		preds = append(preds, ExcludeIngredients(c.ExcludeIngredients))
	}
	if len(preds) == 0 {
		return All(), nil
	}
	return And(preds...), nil
}

// Filter returns the recipes matching p, preserving input order.
func Filter(recipes []models.Recipe, p Predicate) []models.Recipe {
	out := make([]models.Recipe, 0, len(recipes))
	for i := range recipes {
		if p(&recipes[i]) {
			out = append(out, recipes[i])
		}
	}
	return out
}

func nameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func intersects(r *models.Recipe, set map[string]struct{}) bool {
	for _, ing := range r.Ingredients {
		if _, ok := set[ing.Name]; ok {
			return true
		}
	}
	return false
}
