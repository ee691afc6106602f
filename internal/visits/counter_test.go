package visits

import (
	"context"
	"errors"
	"testing"

	"github.com/bhuvan2018/Portfolio/internal/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// brokenStore fails reads and/or writes on demand.
type brokenStore struct {
	kv.Store
	failGet bool
	failSet bool
	sets    int
}

func (b *brokenStore) Get(ctx context.Context, key string) (string, bool, error) {
	if b.failGet {
		return "", false, errors.New("storage disabled")
	}
	return b.Store.Get(ctx, key)
}

func (b *brokenStore) Set(ctx context.Context, key, value string) error {
	b.sets++
	if b.failSet {
		return errors.New("quota exceeded")
	}
	return b.Store.Set(ctx, key, value)
}

func get(t *testing.T, s kv.Store, key string) (string, bool) {
	t.Helper()
	v, ok, err := s.Get(context.Background(), key)
	require.NoError(t, err)
	return v, ok
}

func TestFirstLoadOnFreshProfile(t *testing.T) {
	c := NewCounter(zaptest.NewLogger(t), DefaultVisible)
	profile, session := kv.NewMemoryStore(0), kv.NewMemoryStore(0)

	d := c.Mount(context.Background(), profile, session)

	assert.Equal(t, int64(1), d.Count)
	assert.True(t, d.NewSession)
	assert.Equal(t, DefaultVisible, d.Visible)

	count, _ := get(t, profile, CountKey)
	assert.Equal(t, "1", count)
	_, flagged := get(t, session, SessionKey)
	assert.True(t, flagged)
}

func TestReloadInSameSessionDoesNotIncrement(t *testing.T) {
	c := NewCounter(zaptest.NewLogger(t), DefaultVisible)
	profile, session := kv.NewMemoryStore(0), kv.NewMemoryStore(0)

	first := c.Mount(context.Background(), profile, session)
	require.Equal(t, int64(1), first.Count)

	for i := 0; i < 5; i++ {
		d := c.Mount(context.Background(), profile, session)
		assert.Equal(t, int64(1), d.Count)
		assert.False(t, d.NewSession)
	}

	count, _ := get(t, profile, CountKey)
	assert.Equal(t, "1", count)
}

func TestRepeatViewLeavesStateUntouched(t *testing.T) {
	ctx := context.Background()
	c := NewCounter(zaptest.NewLogger(t), DefaultVisible)
	profile := &brokenStore{Store: kv.NewMemoryStore(0)}
	session := &brokenStore{Store: kv.NewMemoryStore(0)}
	require.NoError(t, profile.Store.Set(ctx, CountKey, "42"))
	require.NoError(t, session.Store.Set(ctx, SessionKey, "true"))

	d := c.Mount(ctx, profile, session)

	assert.Equal(t, int64(42), d.Count)
	assert.Zero(t, profile.sets)
	assert.Zero(t, session.sets)
}

func TestEachNewSessionAddsExactlyOne(t *testing.T) {
	c := NewCounter(zaptest.NewLogger(t), DefaultVisible)
	profile := kv.NewMemoryStore(0)

	var last int64
	for i := 1; i <= 10; i++ {
		session := kv.NewMemoryStore(0)
		d := c.Mount(context.Background(), profile, session)
		assert.Equal(t, last+1, d.Count)
		last = d.Count

		// a reload inside the same session
		again := c.Mount(context.Background(), profile, session)
		assert.Equal(t, last, again.Count)
	}
	assert.Equal(t, int64(10), last)
}

func TestMalformedCountStartsOver(t *testing.T) {
	ctx := context.Background()
	c := NewCounter(zaptest.NewLogger(t), DefaultVisible)
	profile := kv.NewMemoryStore(0)
	require.NoError(t, profile.Set(ctx, CountKey, "NaN"))

	d := c.Mount(ctx, profile, kv.NewMemoryStore(0))
	assert.Equal(t, int64(1), d.Count)
}

func TestUnreadableSessionSkipsIncrement(t *testing.T) {
	ctx := context.Background()
	c := NewCounter(zaptest.NewLogger(t), DefaultVisible)
	profile := kv.NewMemoryStore(0)
	require.NoError(t, profile.Set(ctx, CountKey, "7"))
	session := &brokenStore{Store: kv.NewMemoryStore(0), failGet: true}

	d := c.Mount(ctx, profile, session)

	assert.Equal(t, int64(7), d.Count)
	assert.False(t, d.NewSession)
	count, _ := get(t, profile, CountKey)
	assert.Equal(t, "7", count)
}

func TestUnreadableProfileShowsZero(t *testing.T) {
	c := NewCounter(zaptest.NewLogger(t), DefaultVisible)
	profile := &brokenStore{Store: kv.NewMemoryStore(0), failGet: true}
	session := kv.NewMemoryStore(0)

	d := c.Mount(context.Background(), profile, session)

	assert.Zero(t, d.Count)
	assert.False(t, d.NewSession)
	assert.Zero(t, profile.sets)
	_, flagged := get(t, session, SessionKey)
	assert.False(t, flagged)
}

func TestFailedWriteStillDisplays(t *testing.T) {
	c := NewCounter(zaptest.NewLogger(t), DefaultVisible)
	profile := &brokenStore{Store: kv.NewMemoryStore(0), failSet: true}
	session := kv.NewMemoryStore(0)

	d := c.Mount(context.Background(), profile, session)

	assert.Equal(t, int64(1), d.Count)
	_, flagged := get(t, session, SessionKey)
	assert.False(t, flagged, "session is not marked when the count was not stored")
}

func TestLabel(t *testing.T) {
	cases := map[int64]string{
		0:       "Visitors: 0",
		999:     "Visitors: 999",
		1000:    "Visitors: 1,000",
		1234567: "Visitors: 1,234,567",
	}
	for n, want := range cases {
		assert.Equal(t, want, Display{Count: n}.Label())
	}
}
