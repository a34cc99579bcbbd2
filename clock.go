package tokenx

import (
	"sync"
	"time"
)

// Clock supplies the current time in milliseconds since the Unix epoch.
// A real implementation and a fully controllable one are provided so
// builders can stamp deterministic issued-at values in tests.
type Clock interface {
	Milliseconds() int64
}

type systemClock struct{}

func (systemClock) Milliseconds() int64 {
	return time.Now().UnixMilli()
}

// SystemClock returns a Clock backed by the wall clock.
func SystemClock() Clock {
	return systemClock{}
}

// FixedClock reports a caller-controlled time. The zero value reports
// the epoch; use Set or Advance to move it.
type FixedClock struct {
	mu sync.Mutex
	ms int64
}

// NewFixedClock returns a FixedClock reporting the given epoch milliseconds.
func NewFixedClock(ms int64) *FixedClock {
	return &FixedClock{ms: ms}
}

// Milliseconds returns the currently configured time.
func (c *FixedClock) Milliseconds() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ms
}

// Set replaces the reported time.
func (c *FixedClock) Set(ms int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ms = ms
}

// Advance moves the reported time forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ms += d.Milliseconds()
}
