package repository

import (
	"sync"
	"time"
)

// MonotonicClock hands out strictly increasing timestamps at microsecond
// resolution, the precision of the created_at column.
type MonotonicClock struct {
	mu   sync.Mutex
	now  func() time.Time
	last time.Time
}

func NewMonotonicClock(now func() time.Time) *MonotonicClock {
	return &MonotonicClock{now: now}
}

func (c *MonotonicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now().UTC().Truncate(time.Microsecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}
