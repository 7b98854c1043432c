// Package realfs provides the os-backed implementation of the FileSystem port.
package realfs

import (
	"io/fs"
	"os"

	"github.com/acolita/udpseam/internal/ports"
)

// FS implements ports.FileSystem using the os package.
type FS struct{}

// New returns a new real FileSystem.
func New() *FS {
	return &FS{}
}

// ReadFile reads the named file.
func (FS) ReadFile(name string) ([]byte, error) { return os.ReadFile(name) }

// WriteFile writes data to the named file.
func (FS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	return os.WriteFile(name, data, perm)
}

// MkdirAll creates path and any missing parents.
func (FS) MkdirAll(path string, perm fs.FileMode) error { return os.MkdirAll(path, perm) }

// UserHomeDir returns the current user's home directory.
func (FS) UserHomeDir() (string, error) { return os.UserHomeDir() }

// Getenv returns the value of the environment variable key.
func (FS) Getenv(key string) string { return os.Getenv(key) }

var _ ports.FileSystem = FS{}
