// Package cache stores search results keyed by canonical criteria.
package cache

import (
	"context"

	"recipes/internal/models"
)

// SearchCache caches search results. Invalidate drops every cached result;
// it is called after any recipe or ingredient mutation.
//
// Get reports the generation it read, hit or miss. A result computed after a
// miss must be stored with that generation so an Invalidate that lands in
// between leaves it unreachable.
type SearchCache interface {
	Get(ctx context.Context, key string) (recipes []models.Recipe, gen int64, ok bool, err error)
	Set(ctx context.Context, gen int64, key string, recipes []models.Recipe) error
	Invalidate(ctx context.Context) error
}

// Noop is a SearchCache that never hits.
type Noop struct{}

// Get always misses.
func (Noop) Get(context.Context, string) ([]models.Recipe, int64, bool, error) {
	return nil, 0, false, nil
}

// Set discards the result.
func (Noop) Set(context.Context, int64, string, []models.Recipe) error { return nil }

// Invalidate does nothing.
func (Noop) Invalidate(context.Context) error { return nil }
