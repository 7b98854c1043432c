package cli

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/netip"
	"time"

	"github.com/spf13/cobra"

	"github.com/acolita/udpseam/internal/probe"
)

func (a *app) probeCommand() *cobra.Command {
	var (
		to      string
		payload string
		timeout time.Duration
		bind    string
	)

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Send one datagram and print the reply",
		Long: `Send one datagram from a freshly probed local port and print the reply.

Examples:
  # NAT-PMP external address request
  udpseam probe --to 192.168.1.1:5351 --payload 0000

  # Random nonce against a local echo server
  udpseam probe --to 127.0.0.1:7007 --timeout 500ms`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dest, err := netip.ParseAddrPort(to)
			if err != nil {
				return fmt.Errorf("parse --to: %w", err)
			}
			data, err := hex.DecodeString(payload)
			if err != nil {
				return fmt.Errorf("parse --payload: %w", err)
			}
			bindHost, err := hostFlag(bind, a.cfg.Network.BindAddr)
			if err != nil {
				return err
			}
			probeHost, err := a.cfg.Network.ProbeAddr()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("timeout") {
				timeout = a.cfg.Network.ReadTimeout
			}

			p := probe.New(a.sockets(), a.deps.FreePorts(probeHost), a.deps.Clock, a.deps.Random, probe.Config{
				BindHost:    bindHost,
				ReadTimeout: timeout,
				RecvBuffer:  a.cfg.Network.RecvBuffer,
			})

			res, err := p.Probe(dest, data)
			if err != nil {
				return err
			}
			if res.Truncated {
				slog.Warn("reply truncated to receive buffer", slog.Int("recv_buffer", a.cfg.Network.RecvBuffer))
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "reply %s\n", hex.EncodeToString(res.Reply))
			fmt.Fprintf(out, "from  %s\n", res.From)
			fmt.Fprintf(out, "rtt   %s\n", res.RTT)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", "", "Destination host:port")
	cmd.Flags().StringVar(&payload, "payload", "", "Payload as hex (default: random nonce)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Reply timeout, 0 waits forever (default network.read_timeout)")
	cmd.Flags().StringVar(&bind, "bind", "", "Local host to bind (default network.bind_host)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
