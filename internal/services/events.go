package services

import (
	"context"
	"log/slog"
	"time"

	"recipes/internal/cache"
	"recipes/internal/models"
)

// EventPublisher delivers recipe change events to interested consumers.
type EventPublisher interface {
	PublishRecipeEvent(ctx context.Context, event models.RecipeEvent) error
}

// mutations carries what every write path does after the store accepted a change.
type mutations struct {
	cache     cache.SearchCache
	publisher EventPublisher
}

func newMutations(c cache.SearchCache, p EventPublisher) mutations {
	if c == nil {
		c = cache.Noop{}
	}
	return mutations{cache: c, publisher: p}
}

// changed invalidates cached searches and publishes the event. Both are best effort.
func (m mutations) changed(ctx context.Context, eventType models.RecipeEventType, recipeID, recipeName string) {
	if err := m.cache.Invalidate(ctx); err != nil {
		slog.WarnContext(ctx, "failed to invalidate search cache", "recipe_id", recipeID, "error", err)
	}
	if m.publisher == nil {
		return
	}
	event := models.RecipeEvent{
		Type:       eventType,
		RecipeID:   recipeID,
		RecipeName: recipeName,
		OccurredAt: time.Now().UTC(),
	}
	if err := m.publisher.PublishRecipeEvent(ctx, event); err != nil {
		slog.WarnContext(ctx, "failed to publish recipe event", "type", eventType, "recipe_id", recipeID, "error", err)
	}
}
