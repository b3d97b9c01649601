// Package cache holds Redis-backed read caches.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/car-rental/internal/domain"
)

const carListKey = "cars:list"

// setIfCurrentScript writes the listing only while the version key still
// holds the version the caller read before loading from the database.
var setIfCurrentScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[2]) or '0')
if current ~= tonumber(ARGV[2]) then
	return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
return 1
`)

// CarCache caches the public car listing as a single JSON document.
type CarCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewCarCache returns a cache writing under prefix with the given TTL.
func NewCarCache(client *redis.Client, prefix string, ttl time.Duration) *CarCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CarCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *CarCache) key() string {
	if c.prefix == "" {
		return carListKey
	}
	return c.prefix + ":" + carListKey
}

func (c *CarCache) versionKey() string {
	return c.key() + ":version"
}

// GetCarList returns the cached listing; ok is false on a miss.
func (c *CarCache) GetCarList(ctx context.Context) ([]domain.Car, bool, error) {
	raw, err := c.client.Get(ctx, c.key()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get car list: %w", err)
	}
	var cars []domain.Car
	if err := json.Unmarshal(raw, &cars); err != nil {
		// A corrupt entry behaves as a miss and gets overwritten.
		return nil, false, nil
	}
	return cars, true, nil
}

// ListVersion returns the invalidation counter. Read it before loading the
// listing from the database and pass it to SetCarList.
func (c *CarCache) ListVersion(ctx context.Context) (int64, error) {
	version, err := c.client.Get(ctx, c.versionKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get car list version: %w", err)
	}
	return version, nil
}

// SetCarList stores the listing unless an invalidation happened after
// version was read. It reports whether the listing was stored.
func (c *CarCache) SetCarList(ctx context.Context, cars []domain.Car, version int64) (bool, error) {
	raw, err := json.Marshal(cars)
	if err != nil {
		return false, fmt.Errorf("marshal car list: %w", err)
	}
	stored, err := setIfCurrentScript.Run(ctx, c.client, []string{c.key(), c.versionKey()},
		raw, version, c.ttl.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("set car list: %w", err)
	}
	return stored == 1, nil
}

// InvalidateCarList drops the cached listing and bumps its version.
func (c *CarCache) InvalidateCarList(ctx context.Context) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, c.versionKey())
		pipe.Del(ctx, c.key())
		return nil
	})
	if err != nil {
		return fmt.Errorf("invalidate car list: %w", err)
	}
	return nil
}
