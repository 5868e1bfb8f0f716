// Package search turns optional recipe filters into a single composed predicate.
package search

import (
	"sort"
	"strconv"
	"strings"

	"recipes/internal/apperror"
	"recipes/internal/validation"
)

// Recognised query keys.
const (
	KeyVegetarian           = "isVegetarian"
	KeyServings             = "numOfServings"
	KeyInstructionsContains = "instructionsContains"
	KeyIncludeIngredients   = "includeIngredients"
	KeyExcludeIngredients   = "excludeIngredients"
)

// MsgInvalidCombination is reported when both ingredient filters are supplied.
const MsgInvalidCombination = "must choose either includeIngredients or excludeIngredients"

var validate = validation.New()

// Criteria is a validated snapshot of the optional search filters.
// A nil field means the filter is absent.
type Criteria struct {
	Vegetarian           *bool
	Servings             *int
	InstructionsContains *string
	IncludeIngredients   []string
	ExcludeIngredients   []string
}

// query mirrors the raw filter values as they arrive on the wire.
type query struct {
	IsVegetarian         *string  `json:"isVegetarian" validate:"omitnil,truefalse"`
	NumOfServings        *string  `json:"numOfServings" validate:"omitnil,servings"`
	InstructionsContains *string  `json:"instructionsContains" validate:"omitnil,size2000"`
	IncludeIngredients   []string `json:"includeIngredients" validate:"omitnil,size100,dive,size100"`
	ExcludeIngredients   []string `json:"excludeIngredients" validate:"omitnil,size100,dive,size100"`
}

// ParseCriteria validates raw filter values keyed by query parameter name.
// Unknown keys are ignored. Every violated constraint is reported in one
// validation error.
func ParseCriteria(raw map[string]string) (Criteria, error) {
	var q query
	if v, ok := raw[KeyVegetarian]; ok {
		q.IsVegetarian = &v
	}
	if v, ok := raw[KeyServings]; ok {
		q.NumOfServings = &v
	}
	if v, ok := raw[KeyInstructionsContains]; ok {
		q.InstructionsContains = &v
	}
	if v, ok := raw[KeyIncludeIngredients]; ok {
		q.IncludeIngredients = splitList(v)
	}
	if v, ok := raw[KeyExcludeIngredients]; ok {
		q.ExcludeIngredients = splitList(v)
	}

	if err := validate.Struct(q); err != nil {
		return Criteria{}, err
	}

	var c Criteria
	if q.IsVegetarian != nil {
		b := *q.IsVegetarian == "true"
		c.Vegetarian = &b
	}
	if q.NumOfServings != nil {
		n, err := strconv.Atoi(*q.NumOfServings)
		if err != nil {
			return Criteria{}, apperror.Validation(KeyServings + " : range must be between 1 and 100")
		}
		c.Servings = &n
	}
	c.InstructionsContains = q.InstructionsContains
	c.IncludeIngredients = dedupe(q.IncludeIngredients)
	c.ExcludeIngredients = dedupe(q.ExcludeIngredients)
	return c, nil
}

// Validate checks that the combination of present filters is legal.
func (c Criteria) Validate() error {
	if c.IncludeIngredients != nil && c.ExcludeIngredients != nil {
		return apperror.New(apperror.CodeInvalidSearchCombination, MsgInvalidCombination)
	}
	return nil
}

// IsEmpty reports whether no filter is present.
func (c Criteria) IsEmpty() bool {
	return c.Vegetarian == nil && c.Servings == nil && c.InstructionsContains == nil &&
		c.IncludeIngredients == nil && c.ExcludeIngredients == nil
}

// CacheKey returns a canonical representation of c. Criteria selecting the same
// recipes through differently ordered ingredient lists share a key.
func (c Criteria) CacheKey() string {
	var b strings.Builder
	if c.Vegetarian != nil {
		b.WriteString("veg=" + strconv.FormatBool(*c.Vegetarian) + ";")
	}
	if c.Servings != nil {
		b.WriteString("srv=" + strconv.Itoa(*c.Servings) + ";")
	}
	if c.InstructionsContains != nil {
		b.WriteString("ins=" + strconv.Quote(*c.InstructionsContains) + ";")
	}
	if c.IncludeIngredients != nil {
		b.WriteString("inc=" + quotedSorted(c.IncludeIngredients) + ";")
	}
	if c.ExcludeIngredients != nil {
		b.WriteString("exc=" + quotedSorted(c.ExcludeIngredients) + ";")
	}
	return b.String()
}

func splitList(v string) []string {
	if v == "" {
		return []string{}
	}
	return strings.Split(v, ",")
}

func dedupe(names []string) []string {
	if names == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func quotedSorted(names []string) string {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	for i, n := range sorted {
		sorted[i] = strconv.Quote(n)
	}
	return strings.Join(sorted, ",")
}
