package ports

// Random is the source of probe nonces.
type Random interface {
	// Read fills b with random bytes and returns the number of bytes read.
	Read(b []byte) (n int, err error)
}
