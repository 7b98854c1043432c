package ports

import "time"

// Clock abstracts the wall clock so round-trip times are reproducible in tests.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}
