package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/acolita/udpseam/internal/config"
	"github.com/acolita/udpseam/internal/echo"
	"github.com/acolita/udpseam/internal/logging"
	"github.com/acolita/udpseam/internal/metrics"
)

func (a *app) echoCommand() *cobra.Command {
	var (
		listen      string
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "echo",
		Short: "Echo every received datagram back to its sender",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, err := netip.ParseAddrPort(listen)
			if err != nil {
				return fmt.Errorf("parse --listen: %w", err)
			}
			if !cmd.Flags().Changed("metrics-addr") {
				metricsAddr = a.cfg.Metrics.Listen
			}

			sockets := a.sockets()
			if metricsAddr != "" {
				reg := prometheus.NewRegistry()
				sockets = metrics.New(reg).Factory(sockets)

				srv, err := serveMetrics(metricsAddr, reg)
				if err != nil {
					return err
				}
				defer srv.Close()
			}

			sock, err := sockets.Bind(addr)
			if err != nil {
				return fmt.Errorf("bind %s: %w", addr, err)
			}
			defer sock.Close()

			server := echo.NewServer(sock, echo.Options{
				ReadTimeout: a.cfg.Network.ReadTimeout,
				BufSize:     a.cfg.Network.RecvBuffer,
				Logger:      slog.Default(),
			})

			if a.configPath != "" {
				watcher, err := config.NewWatcher(a.configPath, func(newCfg *config.Config) {
					if a.debug {
						newCfg.Logging.Level = "debug"
					}
					logging.SetLevel(newCfg.Logging.Level)
					server.SetReadTimeout(newCfg.Network.ReadTimeout)
				})
				if err != nil {
					slog.Warn("config hot-reload disabled", slog.String("error", err.Error()))
				} else {
					slog.Info("config hot-reload enabled", slog.String("path", a.configPath))
					defer watcher.Close()
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go func() {
				<-ctx.Done()
				sock.Close()
			}()

			slog.Info("echo server listening", slog.String("addr", addr.String()))
			err = server.Serve(ctx)
			slog.Info("echo server stopped", slog.Int64("served", server.Served()))
			if errors.Is(err, echo.ErrServerClosed) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "Local host:port to listen on")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on host:port (default metrics.listen)")
	_ = cmd.MarkFlagRequired("listen")
	return cmd
}

// serveMetrics starts a /metrics endpoint for reg on addr.
func serveMetrics(addr string, reg *prometheus.Registry) (*http.Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen for metrics on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server error", slog.String("error", err.Error()))
		}
	}()
	slog.Info("serving metrics", slog.String("addr", ln.Addr().String()))
	return srv, nil
}
