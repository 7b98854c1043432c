// Package realclock provides the wall-clock implementation of the Clock port.
package realclock

import (
	"time"

	"github.com/acolita/udpseam/internal/ports"
)

// Clock implements ports.Clock using time.Now.
type Clock struct{}

// New returns a new real Clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current time.
func (Clock) Now() time.Time {
	return time.Now()
}

var _ ports.Clock = Clock{}
