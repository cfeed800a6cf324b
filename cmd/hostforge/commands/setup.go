package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/hostforge/cmd/hostforge/handlers"
)

// Setup returns the target-mode command. It runs the setup pipeline on the
// machine it is invoked on, reading its configuration from HOSTFORGE_*
// environment variables. The up command invokes it on the provisioned
// host; running it by hand on an existing Ubuntu machine works too.
func Setup() *cobra.Command {
	return &cobra.Command{
		Use:    "setup",
		Short:  "Run the setup pipeline on this machine",
		Hidden: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Setup(cmd.Context())
		},
	}
}
