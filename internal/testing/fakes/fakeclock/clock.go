// Package fakeclock provides a controllable Clock implementation for testing.
package fakeclock

import (
	"sync"
	"time"

	"github.com/acolita/udpseam/internal/ports"
)

// Clock is a fake clock. Time moves only through Advance, Set, or the
// optional step applied after every Now.
type Clock struct {
	mu      sync.Mutex
	current time.Time
	step    time.Duration
}

// New creates a fake clock frozen at initial.
func New(initial time.Time) *Clock {
	return &Clock{current: initial}
}

// NewStepping creates a fake clock that moves forward by step after each
// call to Now, so consecutive readings differ by exactly step.
func NewStepping(initial time.Time, step time.Duration) *Clock {
	return &Clock{current: initial, step: step}
}

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.current
	c.current = c.current.Add(c.step)
	return now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.current = c.current.Add(d)
	c.mu.Unlock()
}

// Set sets the clock to t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.current = t
	c.mu.Unlock()
}

var _ ports.Clock = (*Clock)(nil)
