// Package kv provides the small string key-value stores that back visitor
// state: a persistent per-profile scope and a short-lived per-session scope.
package kv

import (
	"context"
	"strconv"
	"strings"
)

// Store is a string key-value store.
type Store interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
}

// Tally summarises every key ending in a given suffix.
type Tally struct {
	Keys  int64 `json:"keys"`
	Total int64 `json:"total"`
}

// Tallier is implemented by stores that can aggregate across scopes.
type Tallier interface {
	Tally(ctx context.Context, suffix string) (Tally, error)
}

// Scoped returns a view of store whose keys are prefixed with scope and ":".
func Scoped(store Store, scope string) Store {
	return &scoped{store: store, prefix: scope + ":"}
}

type scoped struct {
	store  Store
	prefix string
}

func (s *scoped) Get(ctx context.Context, key string) (string, bool, error) {
	return s.store.Get(ctx, s.prefix+key)
}

func (s *scoped) Set(ctx context.Context, key, value string) error {
	return s.store.Set(ctx, s.prefix+key, value)
}

// addToTally adds value to t when key ends in suffix. Values that are not
// non-negative integers count as a key with total 0.
func addToTally(t *Tally, key, value, suffix string) {
	if !strings.HasSuffix(key, suffix) {
		return
	}
	t.Keys++
	if n, err := strconv.ParseInt(value, 10, 64); err == nil && n > 0 {
		t.Total += n
	}
}
