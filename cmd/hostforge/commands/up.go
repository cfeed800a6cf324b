package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/hostforge/cmd/hostforge/handlers"
)

// Up returns the command that provisions a server and runs the setup
// pipeline on it.
//
// Optional flags:
//
//	--config, -c: Path to configuration YAML file (default: auto-detect hostforge.yaml)
//	--plain: Line-based progress output instead of the full-screen view
//
// Environment variables:
//
//	HCLOUD_TOKEN: Hetzner Cloud API token (required)
//	TS_AUTHKEY: Tailscale auth key (required only with the tailscale feature)
func Up() *cobra.Command {
	var (
		configPath string
		plain      bool
	)

	cmd := &cobra.Command{
		Use:   "up",
		Short: "Create a server and set it up",
		Long: `Create a cloud server and turn it into a ready-to-use development host.

This command creates the server on Hetzner Cloud, waits until it accepts
SSH connections, uploads this binary to it, and runs the setup pipeline
there in a live SSH session. When the pipeline finishes it prints how to
connect to the new host.

If no config file is specified, it looks for hostforge.yaml in the current
directory. Without one, an interactive wizard collects the configuration.

Examples:
  # Provision using hostforge.yaml in the current directory
  hostforge up

  # Provision using a specific config file
  hostforge up -c staging.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Up(cmd.Context(), configPath, plain)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: hostforge.yaml)")
	cmd.Flags().BoolVar(&plain, "plain", false, "Line-based progress output")

	return cmd
}
