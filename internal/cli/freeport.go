package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) freeportCommand() *cobra.Command {
	var (
		count int
		host  string
	)

	cmd := &cobra.Command{
		Use:   "freeport",
		Short: "Print UDP ports the OS currently reports as free",
		Long: `Print UDP ports the OS currently reports as free.

Each port is found by binding port 0 and releasing it immediately, so
another process may take it before you do.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1, got %d", count)
			}
			h, err := hostFlag(host, a.cfg.Network.ProbeAddr)
			if err != nil {
				return err
			}

			factory := a.deps.FreePorts(h)
			for range count {
				port, err := factory.FreePort()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), port)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of ports to print")
	cmd.Flags().StringVar(&host, "host", "", "Host to probe on (default network.probe_host)")
	return cmd
}
