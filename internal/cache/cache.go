package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"complaintdesk/internal/logger"
)

// Client wraps redis.Client but fails safe by swallowing connectivity errors.
// A nil *Client is valid and behaves as an always-empty cache.
type Client struct {
	client *redis.Client
}

// New creates a new Redis client. An empty addr disables caching and returns nil.
func New(addr, password string, db int) *Client {
	if addr == "" {
		return nil
	}
	opts := &redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	}
	return &Client{client: redis.NewClient(opts)}
}

// Ping reports whether Redis is reachable. It is only used for startup logging.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return errors.New("cache disabled")
	}
	return c.client.Ping(ctx).Err()
}

// Get returns value or nil if missing or redis unavailable.
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, nil
	}
	res, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		// fail safe: behave like cache miss
		logger.Debug().Err(err).Str("key", key).Msg("cache get failed")
		return nil, nil
	}
	return res, nil
}

// Set stores value with TTL, ignoring redis errors.
func (c *Client) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		logger.Debug().Err(err).Str("key", key).Msg("cache set failed")
	}
	return nil
}

// Delete removes a key, ignoring redis errors.
func (c *Client) Delete(ctx context.Context, key string) error {
	if c == nil || c.client == nil {
		return nil
	}
	if err := c.client.Del(ctx, key).Err(); err != nil {
		logger.Debug().Err(err).Str("key", key).Msg("cache delete failed")
	}
	return nil
}

// Incr atomically increments a counter and returns its new value. It returns
// 0 when redis is unavailable.
func (c *Client) Incr(ctx context.Context, key string) (int64, error) {
	if c == nil || c.client == nil {
		return 0, nil
	}
	n, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		logger.Debug().Err(err).Str("key", key).Msg("cache incr failed")
		return 0, nil
	}
	return n, nil
}

// Close releases the connection pool.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}
