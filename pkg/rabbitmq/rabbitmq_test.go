package rabbitmq

import (
	"context"
	"errors"
	"testing"
	"time"

	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"

	"recipes/internal/models"
)

// recordingAcker records the acknowledgement sent for a delivery.
type recordingAcker struct {
	acked, nacked, rejected bool
	requeue                 bool
}

func (a *recordingAcker) Ack(uint64, bool) error { a.acked = true; return nil }

func (a *recordingAcker) Nack(_ uint64, _ bool, requeue bool) error {
	a.nacked, a.requeue = true, requeue
	return nil
}

func (a *recordingAcker) Reject(_ uint64, requeue bool) error {
	a.rejected, a.requeue = true, requeue
	return nil
}

func delivery(acker *recordingAcker, body string) amqp.Delivery {
	return amqp.Delivery{Acknowledger: acker, DeliveryTag: 1, Body: []byte(body)}
}

func TestHandleDelivery_Ack(t *testing.T) {
	acker := &recordingAcker{}
	var got models.RecipeEvent
	handleDelivery(context.Background(), delivery(acker, `{"type":"recipe.created","recipeId":"1","recipeName":"Soup"}`),
		func(_ context.Context, e models.RecipeEvent) error {
			got = e
			return nil
		})

	assert.True(t, acker.acked)
	assert.Equal(t, models.RecipeCreated, got.Type)
	assert.Equal(t, "Soup", got.RecipeName)
}

func withRedeliveryDelay(t *testing.T, d time.Duration) {
	t.Helper()
	prev := redeliveryDelay
	redeliveryDelay = d
	t.Cleanup(func() { redeliveryDelay = prev })
}

func TestHandleDelivery_HandlerErrorRequeues(t *testing.T) {
	withRedeliveryDelay(t, 20*time.Millisecond)
	acker := &recordingAcker{}
	start := time.Now()
	handleDelivery(context.Background(), delivery(acker, `{"type":"recipe.deleted","recipeId":"1"}`),
		func(context.Context, models.RecipeEvent) error { return errors.New("cache down") })

	assert.True(t, acker.nacked)
	assert.True(t, acker.requeue)
	assert.False(t, acker.acked)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestHandleDelivery_RedeliveredFailureDropped(t *testing.T) {
	withRedeliveryDelay(t, time.Hour)
	acker := &recordingAcker{}
	msg := delivery(acker, `{"type":"recipe.deleted","recipeId":"1"}`)
	msg.Redelivered = true
	handleDelivery(context.Background(), msg,
		func(context.Context, models.RecipeEvent) error { return errors.New("cache down") })

	assert.True(t, acker.rejected)
	assert.False(t, acker.requeue)
	assert.False(t, acker.nacked)
}

func TestHandleDelivery_ShutdownSkipsDelay(t *testing.T) {
	withRedeliveryDelay(t, time.Hour)
	acker := &recordingAcker{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	handleDelivery(ctx, delivery(acker, `{"type":"recipe.updated","recipeId":"1"}`),
		func(context.Context, models.RecipeEvent) error { return errors.New("cache down") })

	assert.True(t, acker.nacked)
	assert.True(t, acker.requeue)
}

func TestHandleDelivery_MalformedRejected(t *testing.T) {
	acker := &recordingAcker{}
	called := false
	handleDelivery(context.Background(), delivery(acker, `not json`),
		func(context.Context, models.RecipeEvent) error { called = true; return nil })

	assert.False(t, called)
	assert.True(t, acker.rejected)
	assert.False(t, acker.requeue)
}

func TestPublishRecipeEvent_NoChannel(t *testing.T) {
	c := &Client{}
	err := c.PublishRecipeEvent(context.Background(), models.RecipeEvent{Type: models.RecipeCreated})
	assert.ErrorContains(t, err, "channel is not available")
}
