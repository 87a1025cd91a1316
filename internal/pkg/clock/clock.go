package clock

import (
	"fmt"
	"sync"
	"time"
)

// Clock supplies the current instant and work-date in the organisation's timezone.
type Clock interface {
	Now() time.Time
	Today() time.Time
	Location() *time.Location
}

type systemClock struct {
	loc *time.Location
}

// New returns a Clock backed by time.Now, pinned to the named IANA timezone.
func New(timezone string) (Clock, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", timezone, err)
	}
	return &systemClock{loc: loc}, nil
}

func (c *systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

func (c *systemClock) Today() time.Time {
	return DateOf(c.Now())
}

func (c *systemClock) Location() *time.Location {
	return c.loc
}

// Fixed is a settable Clock for tests and replays.
type Fixed struct {
	mu  sync.RWMutex
	now time.Time
}

func NewFixed(now time.Time) *Fixed {
	return &Fixed{now: now}
}

func (f *Fixed) Now() time.Time {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.now
}

func (f *Fixed) Today() time.Time {
	return DateOf(f.Now())
}

func (f *Fixed) Location() *time.Location {
	return f.Now().Location()
}

func (f *Fixed) Set(now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = now
}

func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// DateOf truncates t to midnight in t's own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
