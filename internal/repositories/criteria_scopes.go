package repositories

import (
	"gorm.io/gorm"

	"recipes/internal/search"
)

// Scope narrows a gorm query over the recipes table.
type Scope = func(*gorm.DB) *gorm.DB

// CriteriaScopes translates c into gorm scopes over the recipes table. The
// ingredient filters become correlated EXISTS / NOT EXISTS subqueries against
// the ingredients table. dialect is the gorm dialector name and selects the
// case-sensitive containment function.
func CriteriaScopes(dialect string, c search.Criteria) ([]Scope, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var scopes []Scope
	if c.Vegetarian != nil {
		veg := *c.Vegetarian
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("recipes.is_vegetarian = ?", veg)
		})
	}
	if c.Servings != nil {
		n := *c.Servings
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("recipes.num_of_servings = ?", n)
		})
	}
	if c.InstructionsContains != nil {
		text := *c.InstructionsContains
		cond := containsCondition(dialect)
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where(cond, text)
		})
	}
	if c.IncludeIngredients != nil {
		scopes = append(scopes, ingredientExists(c.IncludeIngredients, false))
	}
	if c.ExcludeIngredients != nil {
		scopes = append(scopes, ingredientExists(c.ExcludeIngredients, true))
	}
	return scopes, nil
}

// containsCondition avoids LIKE, which is case-insensitive on sqlite and
// needs wildcard escaping everywhere.
func containsCondition(dialect string) string {
	if dialect == "postgres" {
		return "strpos(recipes.instructions, ?) > 0"
	}
	return "instr(recipes.instructions, ?) > 0"
}

func ingredientExists(names []string, negate bool) Scope {
	return func(db *gorm.DB) *gorm.DB {
		sub := db.Session(&gorm.Session{NewDB: true}).
			Table("ingredients").
			Select("1").
			Where("ingredients.recipe_id = recipes.id").
			Where("ingredients.name IN ?", names)
		if negate {
			return db.Where("NOT EXISTS (?)", sub)
		}
		return db.Where("EXISTS (?)", sub)
	}
}
