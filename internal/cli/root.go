// Package cli provides the udpseam command-line interface.
package cli

import (
	"fmt"
	"log/slog"
	"net/netip"

	"github.com/spf13/cobra"

	"github.com/acolita/udpseam/internal/adapters/realclock"
	"github.com/acolita/udpseam/internal/adapters/realfs"
	"github.com/acolita/udpseam/internal/adapters/realnet"
	"github.com/acolita/udpseam/internal/adapters/realrand"
	"github.com/acolita/udpseam/internal/config"
	"github.com/acolita/udpseam/internal/logging"
	"github.com/acolita/udpseam/internal/ports"
)

// Deps are the collaborators commands reach the outside world through.
type Deps struct {
	Sockets   ports.UDPSocketFactory
	FreePorts func(host netip.Addr) ports.FreePortFactory
	Clock     ports.Clock
	Random    ports.Random
	FS        ports.FileSystem
}

// DefaultDeps returns the OS-backed dependencies.
func DefaultDeps() Deps {
	return Deps{
		Sockets: realnet.NewSocketFactory(),
		FreePorts: func(host netip.Addr) ports.FreePortFactory {
			return realnet.NewFreePortFactoryOn(host)
		},
		Clock:  realclock.New(),
		Random: realrand.New(),
		FS:     realfs.New(),
	}
}

type app struct {
	deps       Deps
	configPath string
	debug      bool
	cfg        *config.Config
}

// NewRootCommand builds the command tree over deps.
func NewRootCommand(deps Deps) *cobra.Command {
	a := &app{deps: deps}

	root := &cobra.Command{
		Use:   "udpseam",
		Short: "UDP socket tooling built on a swappable network seam",
		Long: `udpseam binds UDP sockets, probes free ports and exchanges datagrams.

Every command reaches the network through the same socket interfaces the
library exposes, so it doubles as a manual test bench for them.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.loadConfig,
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to configuration file (default $XDG_CONFIG_HOME/udpseam/config.yaml)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")

	root.AddCommand(
		a.freeportCommand(),
		a.probeCommand(),
		a.echoCommand(),
		a.configCommand(),
		versionCommand(),
	)
	return root
}

// Execute runs the CLI against the real OS.
func Execute() error {
	return NewRootCommand(DefaultDeps()).Execute()
}

func (a *app) loadConfig(cmd *cobra.Command, _ []string) error {
	path := a.configPath
	if path == "" {
		path = config.DefaultConfigPath(a.deps.FS)
	}

	cfg, err := config.Load(path, a.deps.FS)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.debug {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logging.SetupWriter(cmd.ErrOrStderr(), cfg.Logging.Level)
	a.cfg = cfg
	return nil
}

// sockets returns the configured factory wrapped with debug logging.
func (a *app) sockets() ports.UDPSocketFactory {
	return logging.NewSocketFactory(a.deps.Sockets, slog.Default(), a.cfg.Logging.Datagrams)
}

// hostFlag parses an explicit host flag, falling back to the config value.
func hostFlag(flag string, fallback func() (netip.Addr, error)) (netip.Addr, error) {
	if flag == "" {
		return fallback()
	}
	addr, err := netip.ParseAddr(flag)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("parse host %q: %w", flag, err)
	}
	return addr, nil
}
