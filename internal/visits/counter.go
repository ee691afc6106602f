// Package visits counts distinct browsing sessions per visitor profile.
package visits

import (
	"context"
	"strconv"
	"time"

	"github.com/bhuvan2018/Portfolio/internal/kv"
	"go.uber.org/zap"
)

// Storage keys within the profile and session scopes.
const (
	CountKey   = "visitorCount"
	SessionKey = "sessionVisit"
)

// DefaultVisible is how long the counter stays on screen after mounting.
const DefaultVisible = 5 * time.Second

// Display is what the counter shell renders.
type Display struct {
	Count      int64
	NewSession bool
	Visible    time.Duration
}

// Counter decides whether a page load starts a new session and keeps the
// per-profile total.
type Counter struct {
	log     *zap.Logger
	visible time.Duration
}

// NewCounter returns a Counter whose display hides after visible.
func NewCounter(log *zap.Logger, visible time.Duration) *Counter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Counter{log: log, visible: visible}
}

// Mount runs once per page load. A session seen for the first time bumps
// the profile count by one and marks the session; a repeat view only reads.
//
// Storage failures never abort the page: an unreadable count shows as 0,
// and any read failure skips the increment so a broken store cannot inflate
// or reset the total. Failed writes are logged while the computed value is
// still shown.
func (c *Counter) Mount(ctx context.Context, profile, session kv.Store) Display {
	d := Display{Visible: c.visible}

	_, visited, flagErr := session.Get(ctx, SessionKey)
	if flagErr != nil {
		c.log.Warn("session flag unreadable, not counting this view", zap.Error(flagErr))
	}

	count, countErr := c.readCount(ctx, profile)
	d.Count = count
	if visited || flagErr != nil || countErr != nil {
		return d
	}

	d.Count++
	d.NewSession = true

	if err := profile.Set(ctx, CountKey, strconv.FormatInt(d.Count, 10)); err != nil {
		c.log.Warn("failed to persist visitor count", zap.Error(err))
		return d
	}
	if err := session.Set(ctx, SessionKey, "true"); err != nil {
		c.log.Warn("failed to mark session as visited", zap.Error(err))
	}
	return d
}

// readCount returns the stored count. Absent or malformed values are 0;
// only a store error is returned.
func (c *Counter) readCount(ctx context.Context, profile kv.Store) (int64, error) {
	raw, ok, err := profile.Get(ctx, CountKey)
	if err != nil {
		c.log.Warn("visitor count unreadable, using 0", zap.Error(err))
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		c.log.Warn("ignoring malformed visitor count", zap.String("value", raw))
		return 0, nil
	}
	return n, nil
}

// Label renders the count the way the counter badge shows it,
// e.g. "Visitors: 12,345".
func (d Display) Label() string {
	return "Visitors: " + groupThousands(d.Count)
}

func groupThousands(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := n < 0
	if neg {
		s = s[1:]
	}
	out := make([]byte, 0, len(s)+len(s)/3)
	for i := 0; i < len(s); i++ {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
