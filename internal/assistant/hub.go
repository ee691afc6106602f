package assistant

import (
	"sync"
	"time"
)

type hubEntry struct {
	widget   *Widget
	lastSeen time.Time
}

// Hub keeps one Widget per visitor session. Widgets idle for longer than
// the TTL are unmounted, either by the background sweep or when the session
// comes back and gets a fresh widget.
type Hub struct {
	opts WidgetOptions
	ttl  time.Duration
	now  func() time.Time

	mu      sync.Mutex
	widgets map[string]*hubEntry

	stop     chan struct{}
	stopOnce sync.Once
}

// NewHub returns a Hub building widgets with opts and starts its sweep.
func NewHub(opts WidgetOptions, ttl time.Duration) *Hub {
	h := &Hub{
		opts:    opts,
		ttl:     ttl,
		now:     time.Now,
		widgets: make(map[string]*hubEntry),
		stop:    make(chan struct{}),
	}
	go h.sweepEvery(ttl/2 + time.Second)
	return h
}

// Widget returns the session's widget, creating it on first use or after
// the previous one went idle, and refreshes its idle timer.
func (h *Hub) Widget(sessionID string) *Widget {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	if e, ok := h.widgets[sessionID]; ok {
		if now.Sub(e.lastSeen) <= h.ttl {
			e.lastSeen = now
			return e.widget
		}
		e.widget.Unmount()
	}

	w := NewWidget(h.opts)
	h.widgets[sessionID] = &hubEntry{widget: w, lastSeen: now}
	return w
}

// Reset unmounts the session's widget so the next Widget call starts a new
// conversation. Called on every full page load.
func (h *Hub) Reset(sessionID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if e, ok := h.widgets[sessionID]; ok {
		e.widget.Unmount()
		delete(h.widgets, sessionID)
	}
}

// Active returns how many conversations are held.
func (h *Hub) Active() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.widgets)
}

// sweep unmounts and drops every widget idle for longer than the TTL.
func (h *Hub) sweep() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := h.now()
	removed := 0
	for id, e := range h.widgets {
		if now.Sub(e.lastSeen) > h.ttl {
			e.widget.Unmount()
			delete(h.widgets, id)
			removed++
		}
	}
	return removed
}

func (h *Hub) sweepEvery(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			h.sweep()
		case <-h.stop:
			return
		}
	}
}

// Close stops the sweep and unmounts every widget.
func (h *Hub) Close() {
	h.stopOnce.Do(func() { close(h.stop) })

	h.mu.Lock()
	defer h.mu.Unlock()
	for id, e := range h.widgets {
		e.widget.Unmount()
		delete(h.widgets, id)
	}
}
