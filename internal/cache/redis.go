package cache

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"tokenpulse/internal/adapters/redis"
	"tokenpulse/pkg/errors"
)

// Redis adapts the Redis client to the Cache interface.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps an established Redis connection.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Get implements Cache, translating redis.Nil into a plain miss.
func (r *Redis) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	err := r.client.Get(ctx, key, dest)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, errors.Wrapf(err, "cache get %s", key)
	}
	return true, nil
}

// Set implements Cache.
func (r *Redis) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl); err != nil {
		return errors.Wrapf(err, "cache set %s", key)
	}
	return nil
}

// Delete implements Cache.
func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if err := r.client.Delete(ctx, keys...); err != nil {
		return errors.Wrap(err, "cache delete")
	}
	return nil
}
