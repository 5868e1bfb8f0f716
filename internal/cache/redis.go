package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"recipes/internal/models"
)

const defaultPrefix = "recipes:"

// NewRedisClient parses url and verifies the server answers a ping.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Info("connected to redis", "addr", opts.Addr)
	return client, nil
}

// RedisSearchCache keeps results under a generation number. Invalidate bumps
// the generation so stale entries are never read again and expire by TTL.
type RedisSearchCache struct {
	client redis.Cmdable
	ttl    time.Duration
	prefix string
}

// NewRedisSearchCache creates a new instance of RedisSearchCache.
func NewRedisSearchCache(client redis.Cmdable, ttl time.Duration) *RedisSearchCache {
	return &RedisSearchCache{client: client, ttl: ttl, prefix: defaultPrefix}
}

func (c *RedisSearchCache) generationKey() string {
	return c.prefix + "generation"
}

func (c *RedisSearchCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, c.generationKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read cache generation: %w", err)
	}
	return gen, nil
}

func (c *RedisSearchCache) entryKey(gen int64, key string) string {
	return fmt.Sprintf("%ssearch:%d:%s", c.prefix, gen, key)
}

// Get returns the cached result for key, if any, along with the current
// generation.
func (c *RedisSearchCache) Get(ctx context.Context, key string) ([]models.Recipe, int64, bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, 0, false, err
	}
	data, err := c.client.Get(ctx, c.entryKey(gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, gen, false, fmt.Errorf("failed to read cached search: %w", err)
	}

	var recipes []models.Recipe
	if err := json.Unmarshal(data, &recipes); err != nil {
		return nil, gen, false, fmt.Errorf("failed to decode cached search: %w", err)
	}
	return recipes, gen, true, nil
}

// Set stores recipes under key in generation gen for the configured TTL.
// A result for an already superseded generation is written but never read.
func (c *RedisSearchCache) Set(ctx context.Context, gen int64, key string, recipes []models.Recipe) error {
	data, err := json.Marshal(recipes)
	if err != nil {
		return fmt.Errorf("failed to encode search result: %w", err)
	}
	if err := c.client.Set(ctx, c.entryKey(gen, key), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache search: %w", err)
	}
	return nil
}

// Invalidate makes every previously cached result unreachable.
func (c *RedisSearchCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, c.generationKey()).Err(); err != nil {
		return fmt.Errorf("failed to invalidate search cache: %w", err)
	}
	return nil
}
