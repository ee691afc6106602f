package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps values in Redis. Every Set refreshes the key's TTL; a TTL
// of zero keeps keys forever.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to the server described by url
// (for example redis://localhost:6379/0).
func NewRedis(ctx context.Context, url string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// WithTTL returns a store sharing the same connection with a different TTL.
func (r *RedisStore) WithTTL(ttl time.Duration) *RedisStore {
	return &RedisStore{client: r.client, ttl: ttl}
}

// Get returns the value for key.
func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key.
func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, key, value, r.ttl).Err(); err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// Tally scans every key ending in suffix.
func (r *RedisStore) Tally(ctx context.Context, suffix string) (Tally, error) {
	var t Tally
	iter := r.client.Scan(ctx, 0, "*"+suffix, 500).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		value, err := r.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return Tally{}, fmt.Errorf("tally %q: %w", key, err)
		}
		addToTally(&t, key, value, suffix)
	}
	if err := iter.Err(); err != nil {
		return Tally{}, fmt.Errorf("scan %q: %w", suffix, err)
	}
	return t, nil
}

// Close closes the connection.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
