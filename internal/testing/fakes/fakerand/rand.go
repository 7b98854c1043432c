// Package fakerand provides a predictable Random implementation for testing.
package fakerand

import (
	"errors"
	"sync"

	"github.com/acolita/udpseam/internal/ports"
)

// Random replays a byte sequence, wrapping around when it runs out.
type Random struct {
	mu       sync.Mutex
	sequence []byte
	offset   int
	err      error
}

// New creates a fake random over sequence. A nil sequence yields 0, 1, ..., 255.
func New(sequence []byte) *Random {
	if len(sequence) == 0 {
		sequence = make([]byte, 256)
		for i := range sequence {
			sequence[i] = byte(i)
		}
	}
	return &Random{sequence: sequence}
}

// NewFailing creates a fake random whose Read always fails with err.
func NewFailing(err error) *Random {
	if err == nil {
		err = errors.New("fakerand: entropy unavailable")
	}
	return &Random{sequence: []byte{0}, err: err}
}

// Read fills b with the next bytes of the sequence.
func (r *Random) Read(b []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return 0, r.err
	}
	for i := range b {
		b[i] = r.sequence[r.offset%len(r.sequence)]
		r.offset++
	}
	return len(b), nil
}

var _ ports.Random = (*Random)(nil)
