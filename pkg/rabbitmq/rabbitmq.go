package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/streadway/amqp"

	"recipes/internal/models"
)

// DefaultQueue receives every recipe change event.
const DefaultQueue = "recipe_events"

// redeliveryDelay is how long a failed event is held before it is requeued.
var redeliveryDelay = 2 * time.Second

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	// mu serializes use of channel, which is not safe for concurrent publishing.
	mu sync.Mutex
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL   string
	Queue string
}

// NewClient connects to RabbitMQ, opens a channel and declares the event queue.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Queue == "" {
		cfg.Queue = DefaultQueue
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := declare(ch, cfg.Queue); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	slog.Info("rabbitmq client connected", "queue", cfg.Queue)

	return &Client{
		conn:    conn,
		channel: ch,
		queue:   cfg.Queue,
	}, nil
}

func declare(ch *amqp.Channel, queue string) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return amqp.Queue{}, fmt.Errorf("failed to declare %s: %w", queue, err)
	}
	return q, nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// PublishRecipeEvent publishes a recipe change event as persistent JSON.
func (c *Client) PublishRecipeEvent(ctx context.Context, event models.RecipeEvent) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal recipe event: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	err = c.channel.Publish(
		"",      // default exchange
		c.queue, // routing key: the queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Type:         string(event.Type),
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	slog.DebugContext(ctx, "published recipe event", "type", event.Type, "recipe_id", event.RecipeID)
	return nil
}

// ConsumeRecipeEvents delivers events from the queue to handler until ctx is
// cancelled or the channel closes. Handler errors requeue the message;
// undecodable messages are rejected without requeue.
func (c *Client) ConsumeRecipeEvents(ctx context.Context, handler func(context.Context, models.RecipeEvent) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	c.mu.Lock()
	msgs, err := c.channel.Consume(
		c.queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	c.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	slog.Info("waiting for recipe events", "queue", c.queue)
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("recipe event delivery channel closed")
			}
			handleDelivery(ctx, msg, handler)
		}
	}
}

func handleDelivery(ctx context.Context, msg amqp.Delivery, handler func(context.Context, models.RecipeEvent) error) {
	var event models.RecipeEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		slog.WarnContext(ctx, "rejecting malformed recipe event", "delivery_tag", msg.DeliveryTag, "error", err)
		if rejectErr := msg.Reject(false); rejectErr != nil {
			slog.ErrorContext(ctx, "failed to reject message", "delivery_tag", msg.DeliveryTag, "error", rejectErr)
		}
		return
	}

	if err := handler(ctx, event); err != nil {
		// A failing event is retried once, after a pause, then dropped.
		if msg.Redelivered {
			slog.ErrorContext(ctx, "dropping recipe event after retry", "delivery_tag", msg.DeliveryTag, "type", event.Type, "error", err)
			if rejectErr := msg.Reject(false); rejectErr != nil {
				slog.ErrorContext(ctx, "failed to reject message", "delivery_tag", msg.DeliveryTag, "error", rejectErr)
			}
			return
		}
		slog.WarnContext(ctx, "failed to process recipe event", "delivery_tag", msg.DeliveryTag, "type", event.Type, "error", err)
		select {
		case <-ctx.Done():
		case <-time.After(redeliveryDelay):
		}
		if nackErr := msg.Nack(false, true); nackErr != nil {
			slog.ErrorContext(ctx, "failed to nack message", "delivery_tag", msg.DeliveryTag, "error", nackErr)
		}
		return
	}
	if ackErr := msg.Ack(false); ackErr != nil {
		slog.ErrorContext(ctx, "failed to ack message", "delivery_tag", msg.DeliveryTag, "error", ackErr)
	}
}
