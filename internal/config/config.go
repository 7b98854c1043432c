// Package config handles configuration parsing for udpseam.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/acolita/udpseam/internal/adapters/realfs"
	"github.com/acolita/udpseam/internal/ports"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// DefaultConfigPath returns $XDG_CONFIG_HOME/udpseam/config.yaml or
// ~/.config/udpseam/config.yaml, or "" if neither can be determined.
func DefaultConfigPath(fsys ...ports.FileSystem) string {
	f := pick(fsys)
	dir := f.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := f.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "udpseam", "config.yaml")
}

// Config represents the top-level configuration.
type Config struct {
	Network NetworkConfig `yaml:"network"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// NetworkConfig defines how sockets are bound and read.
type NetworkConfig struct {
	BindHost    string        `yaml:"bind_host"`    // host sockets bind on
	ProbeHost   string        `yaml:"probe_host"`   // host free ports are probed on
	ReadTimeout time.Duration `yaml:"read_timeout"` // 0 blocks forever
	RecvBuffer  int           `yaml:"recv_buffer"`  // receive buffer size in bytes
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level     string `yaml:"level"`     // "debug", "info", "warn", "error"
	Datagrams bool   `yaml:"datagrams"` // hex-dump datagrams at debug level
}

// MetricsConfig defines the Prometheus endpoint.
type MetricsConfig struct {
	Listen string `yaml:"listen"` // host:port, empty disables the endpoint
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Network: NetworkConfig{
			BindHost:    "0.0.0.0",
			ProbeHost:   "0.0.0.0",
			ReadTimeout: 3 * time.Second,
			RecvBuffer:  1500,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from a YAML file on top of the defaults.
// A missing file yields the defaults.
// An optional FileSystem can be passed for testing; if omitted, the real OS is used.
func Load(path string, fsys ...ports.FileSystem) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := pick(fsys).ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to a YAML file, creating its directory.
// An optional FileSystem can be passed for testing; if omitted, the real OS is used.
func Save(cfg *Config, path string, fsys ...ports.FileSystem) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	f := pick(fsys)
	if err := f.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := f.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := c.Network.BindAddr(); err != nil {
		return fmt.Errorf("%w: network.bind_host: %v", ErrInvalidConfig, err)
	}
	if _, err := c.Network.ProbeAddr(); err != nil {
		return fmt.Errorf("%w: network.probe_host: %v", ErrInvalidConfig, err)
	}
	if c.Network.ReadTimeout < 0 {
		return fmt.Errorf("%w: network.read_timeout must not be negative", ErrInvalidConfig)
	}
	if c.Network.RecvBuffer <= 0 {
		return fmt.Errorf("%w: network.recv_buffer must be positive", ErrInvalidConfig)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown logging.level %q", ErrInvalidConfig, c.Logging.Level)
	}

	if c.Metrics.Listen != "" {
		if _, _, err := net.SplitHostPort(c.Metrics.Listen); err != nil {
			return fmt.Errorf("%w: metrics.listen: %v", ErrInvalidConfig, err)
		}
	}

	return nil
}

// BindAddr parses BindHost.
func (n NetworkConfig) BindAddr() (netip.Addr, error) {
	return netip.ParseAddr(n.BindHost)
}

// ProbeAddr parses ProbeHost.
func (n NetworkConfig) ProbeAddr() (netip.Addr, error) {
	return netip.ParseAddr(n.ProbeHost)
}

func pick(fsys []ports.FileSystem) ports.FileSystem {
	if len(fsys) > 0 && fsys[0] != nil {
		return fsys[0]
	}
	return realfs.New()
}
