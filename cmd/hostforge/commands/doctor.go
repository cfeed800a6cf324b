package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/hostforge/cmd/hostforge/handlers"
)

// Doctor returns the command that validates the local environment:
// required tools, configuration file, API token and API connectivity.
func Doctor() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check local prerequisites and API connectivity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Doctor(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default: hostforge.yaml)")

	return cmd
}
