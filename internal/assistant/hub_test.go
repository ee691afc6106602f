package assistant

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubReturnsSameWidgetPerSession(t *testing.T) {
	h := NewHub(WidgetOptions{Responder: KeywordResponder{Selector: DefaultSelector()}, Scheduler: &manualScheduler{}}, time.Hour)
	defer h.Close()

	a := h.Widget("s1")
	assert.Same(t, a, h.Widget("s1"))
	assert.NotSame(t, a, h.Widget("s2"))
	assert.Equal(t, 2, h.Active())
}

func TestHubEvictionUnmounts(t *testing.T) {
	sched := &manualScheduler{}
	h := NewHub(WidgetOptions{Responder: KeywordResponder{Selector: DefaultSelector()}, Scheduler: sched}, time.Hour)

	w := h.Widget("s1")
	w.Open()
	require.True(t, w.Send("skills"))

	h.Close()

	assert.Zero(t, h.Active())
	assert.Zero(t, sched.fireAll())
	assert.False(t, w.Send("still there?"))
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestHubReplacesIdleWidgetAndUnmountsIt(t *testing.T) {
	sched := &manualScheduler{}
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	h := NewHub(WidgetOptions{Responder: KeywordResponder{Selector: DefaultSelector()}, Scheduler: sched}, time.Minute)
	h.now = clock.Now
	defer h.Close()

	old := h.Widget("s")
	old.Open()
	require.True(t, old.Send("what are your skills?"))

	clock.Advance(2 * time.Minute)
	fresh := h.Widget("s")

	assert.NotSame(t, old, fresh)
	assert.Equal(t, Closed, old.State())
	assert.False(t, old.Send("anyone?"))
	assert.Zero(t, sched.fireAll(), "the idle widget's reply must be cancelled")
	assert.Len(t, old.Turns(), 2)
	assert.Len(t, fresh.Turns(), 1)
	assert.Equal(t, 1, h.Active())
}

func TestHubRefreshesWithinTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	h := NewHub(WidgetOptions{Responder: KeywordResponder{Selector: DefaultSelector()}, Scheduler: &manualScheduler{}}, time.Minute)
	h.now = clock.Now
	defer h.Close()

	w := h.Widget("s")
	for i := 0; i < 3; i++ {
		clock.Advance(45 * time.Second)
		require.Same(t, w, h.Widget("s"))
	}

	w.Open()
	assert.True(t, w.Send("still here"))
}

func TestHubSweepDropsIdleWidgets(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	h := NewHub(WidgetOptions{Responder: KeywordResponder{Selector: DefaultSelector()}, Scheduler: &manualScheduler{}}, time.Minute)
	h.now = clock.Now
	defer h.Close()

	idle := h.Widget("idle")
	clock.Advance(50 * time.Second)
	h.Widget("busy")
	clock.Advance(30 * time.Second)

	assert.Equal(t, 1, h.sweep())
	assert.Equal(t, 1, h.Active())
	idle.Open()
	assert.Equal(t, Closed, idle.State(), "an unmounted widget cannot reopen")
}

func TestHubReset(t *testing.T) {
	sched := &manualScheduler{}
	h := NewHub(WidgetOptions{Responder: KeywordResponder{Selector: DefaultSelector()}, Scheduler: sched}, time.Hour)
	defer h.Close()

	w := h.Widget("s")
	w.Open()
	require.True(t, w.Send("hire me?"))

	h.Reset("s")
	h.Reset("unknown")

	assert.Zero(t, sched.fireAll())
	next := h.Widget("s")
	assert.NotSame(t, w, next)
	assert.Equal(t, Closed, next.State())
	assert.Equal(t, []string{Greeting}, texts(next.Turns()))
}

func texts(turns []Turn) []string {
	out := make([]string, len(turns))
	for i, t := range turns {
		out[i] = t.Text
	}
	return out
}
