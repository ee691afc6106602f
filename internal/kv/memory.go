package kv

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore keeps values in process memory. Entries expire after the
// configured TTL; a TTL of zero keeps them forever.
type MemoryStore struct {
	cache *cache.Cache
}

// NewMemoryStore creates a MemoryStore that purges expired items every ttl/2
// (at most every minute).
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		return &MemoryStore{cache: cache.New(cache.NoExpiration, 0)}
	}
	cleanup := ttl / 2
	if cleanup > time.Minute {
		cleanup = time.Minute
	}
	return &MemoryStore{cache: cache.New(ttl, cleanup)}
}

// Get returns the value for key.
func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	v, found := m.cache.Get(key)
	if !found {
		return "", false, nil
	}
	return v.(string), true, nil
}

// Set stores value and resets the key's expiry.
func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.cache.Set(key, value, cache.DefaultExpiration)
	return nil
}

// Tally aggregates the unexpired keys ending in suffix.
func (m *MemoryStore) Tally(_ context.Context, suffix string) (Tally, error) {
	var t Tally
	for key, item := range m.cache.Items() {
		if s, ok := item.Object.(string); ok {
			addToTally(&t, key, s, suffix)
		}
	}
	return t, nil
}
