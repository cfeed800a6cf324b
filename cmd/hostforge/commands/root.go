// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument
// parsing, flag binding, and validation. Command execution is delegated to
// handler functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the hostforge CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hostforge",
		Short: "Provision ready-to-use development hosts on Hetzner Cloud",
	}

	// Core commands
	cmd.AddCommand(Up())
	cmd.AddCommand(Init())
	cmd.AddCommand(Doctor())

	// Target-mode command, invoked by up on the provisioned host
	cmd.AddCommand(Setup())

	// Utility commands
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
