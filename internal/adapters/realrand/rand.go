// Package realrand provides a real implementation of the Random port using crypto/rand.
package realrand

import (
	"crypto/rand"

	"github.com/acolita/udpseam/internal/ports"
)

// Random implements ports.Random using crypto/rand.
type Random struct{}

// New returns a new real Random.
func New() *Random {
	return &Random{}
}

// Read fills b from the operating system's CSPRNG.
func (Random) Read(b []byte) (int, error) {
	return rand.Read(b)
}

var _ ports.Random = Random{}
