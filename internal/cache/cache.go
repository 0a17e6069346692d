package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"

	"github.com/adarshalexbalmuchu/nextnode/internal/logger"
	"github.com/adarshalexbalmuchu/nextnode/internal/model"
)

// Cache is a time-boxed request cache sitting in front of the read paths.
// A nil redis client degrades to fetch-through: reads always miss and
// writes are dropped, so the service runs without a cache backend.
type Cache struct {
	client *redis.Client
	logger *logger.Logger
}

func New(client *redis.Client, logger *logger.Logger) *Cache {
	return &Cache{client: client, logger: logger}
}

// GetJSON attempts to get the key and unmarshal it into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func (c *Cache) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if c.client == nil {
		return false, nil
	}
	s, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(s), dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and sets the key with TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if c.client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, b, ttl).Err()
}

// Invalidate removes the given keys. Best-effort.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c.client == nil || len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("cache invalidation failed", "keys", keys, "error", err)
	}
}

// Aside tries the cache first; on miss it runs fetch (with retry), which
// must write into dest, then stores the result with ttl. Cache write
// failures are logged, not surfaced.
func (c *Cache) Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := c.GetJSON(ctx, key, dest)
	if err != nil {
		c.logger.Warn("cache read failed", "key", key, "error", err)
	}
	if found {
		return nil
	}

	if err := Fetch(ctx, fetch); err != nil {
		return err
	}

	if err := c.SetJSON(ctx, key, dest, ttl); err != nil {
		c.logger.Warn("cache write failed", "key", key, "error", err)
	}
	return nil
}

const maxRetries = 3

// Fetch runs fn with exponential backoff. Authentication and permission
// failures are never retried; retrying cannot change the outcome and would
// hammer the auth path.
func Fetch(ctx context.Context, fn func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 50 * time.Millisecond

	return backoff.Retry(func() error {
		err := fn()
		if isPermanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(bo, maxRetries), ctx))
}

func isPermanent(err error) bool {
	return errors.Is(err, model.ErrAuthenticationRequired) ||
		errors.Is(err, model.ErrInsufficientPermissions) ||
		errors.Is(err, model.ErrNotFound) ||
		errors.Is(err, model.ErrValidation)
}
