// Package fakefs provides an in-memory FileSystem implementation for testing.
package fakefs

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sync"

	"github.com/acolita/udpseam/internal/ports"
)

// FS is an in-memory filesystem for testing.
type FS struct {
	mu      sync.RWMutex
	files   map[string][]byte
	dirs    map[string]bool
	homeDir string
	env     map[string]string
}

// New creates an empty filesystem whose home directory is /home/test.
func New() *FS {
	return &FS{
		files:   make(map[string][]byte),
		dirs:    map[string]bool{"/": true},
		homeDir: "/home/test",
		env:     make(map[string]string),
	}
}

// ReadFile returns a copy of the named file.
func (f *FS) ReadFile(name string) ([]byte, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, ok := f.files[filepath.Clean(name)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return append([]byte(nil), data...), nil
}

// WriteFile stores a copy of data. The parent directory must exist.
func (f *FS) WriteFile(name string, data []byte, perm fs.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	name = filepath.Clean(name)
	if !f.dirs[filepath.Dir(name)] {
		return &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	f.files[name] = append([]byte(nil), data...)
	return nil
}

// MkdirAll records path and all of its parents as directories.
func (f *FS) MkdirAll(path string, perm fs.FileMode) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for p := filepath.Clean(path); ; p = filepath.Dir(p) {
		if _, isFile := f.files[p]; isFile {
			return &fs.PathError{Op: "mkdir", Path: p, Err: errors.New("not a directory")}
		}
		f.dirs[p] = true
		if p == filepath.Dir(p) {
			return nil
		}
	}
}

// UserHomeDir returns the configured home directory.
func (f *FS) UserHomeDir() (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.homeDir == "" {
		return "", errors.New("fakefs: home directory not set")
	}
	return f.homeDir, nil
}

// Getenv returns the fake environment value for key.
func (f *FS) Getenv(key string) string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.env[key]
}

// SetHomeDir changes the home directory; empty makes UserHomeDir fail.
func (f *FS) SetHomeDir(dir string) {
	f.mu.Lock()
	f.homeDir = dir
	f.mu.Unlock()
}

// SetEnv sets a fake environment variable.
func (f *FS) SetEnv(key, value string) {
	f.mu.Lock()
	f.env[key] = value
	f.mu.Unlock()
}

// AddFile creates a file and its parent directories.
func (f *FS) AddFile(name string, data []byte) {
	dir := filepath.Dir(filepath.Clean(name))
	f.MkdirAll(dir, 0755)
	f.WriteFile(name, data, 0644)
}

// Exists reports whether name is a file or a directory.
func (f *FS) Exists(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	name = filepath.Clean(name)
	_, isFile := f.files[name]
	return isFile || f.dirs[name]
}

var _ ports.FileSystem = (*FS)(nil)
