package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/acolita/udpseam/internal/config"
)

func (a *app) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
		// An unreadable existing file must not block writing a fresh one.
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	}

	var (
		path  string
		force bool
	)
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				path = a.configPath
			}
			if path == "" {
				path = config.DefaultConfigPath(a.deps.FS)
			}
			if path == "" {
				return fmt.Errorf("cannot determine config path, pass --path")
			}
			if _, err := a.deps.FS.ReadFile(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			if err := config.Save(config.DefaultConfig(), path, a.deps.FS); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().StringVar(&path, "path", "", "Where to write the file (default --config or the XDG path)")
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}
