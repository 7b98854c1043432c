package fakefs

import (
	"errors"
	"io/fs"
	"testing"
)

func TestFS_ReadMissing(t *testing.T) {
	_, err := New().ReadFile("/nope")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadFile() error = %v, want fs.ErrNotExist", err)
	}
}

func TestFS_WriteNeedsParent(t *testing.T) {
	f := New()
	if err := f.WriteFile("/etc/udpseam/config.yaml", []byte("x"), 0644); err == nil {
		t.Error("WriteFile() without parent directory succeeded")
	}
	if err := f.MkdirAll("/etc/udpseam", 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := f.WriteFile("/etc/udpseam/config.yaml", []byte("x"), 0644); err != nil {
		t.Errorf("WriteFile() error = %v", err)
	}
	if !f.Exists("/etc") {
		t.Error("MkdirAll did not create /etc")
	}
}

func TestFS_ReadReturnsCopy(t *testing.T) {
	f := New()
	f.AddFile("/a/b", []byte("abc"))

	data, _ := f.ReadFile("/a/b")
	data[0] = 'z'

	again, _ := f.ReadFile("/a/b")
	if string(again) != "abc" {
		t.Errorf("ReadFile() = %q after mutation, want %q", again, "abc")
	}
}

func TestFS_HomeAndEnv(t *testing.T) {
	f := New()
	if home, err := f.UserHomeDir(); err != nil || home != "/home/test" {
		t.Errorf("UserHomeDir() = (%q, %v)", home, err)
	}
	f.SetHomeDir("")
	if _, err := f.UserHomeDir(); err == nil {
		t.Error("UserHomeDir() with empty home succeeded")
	}
	f.SetEnv("XDG_CONFIG_HOME", "/xdg")
	if got := f.Getenv("XDG_CONFIG_HOME"); got != "/xdg" {
		t.Errorf("Getenv() = %q, want /xdg", got)
	}
}
