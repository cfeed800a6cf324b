package commands

import (
	"github.com/spf13/cobra"

	"github.com/imamik/hostforge/cmd/hostforge/handlers"
)

// Init returns the command for interactively creating a configuration.
//
// Flags:
//
//	--output, -o: Path to output file (default "hostforge.yaml")
func Init() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a configuration file",
		Long: `Interactively create a hostforge configuration file.

The wizard asks about:

  - Server identity (name, location, type, swap size)
  - The login user and SSH key to use
  - Optional features (Docker, Tailscale, mise, Node.js, Python,
    opencode, aider)

The Tailscale auth key is never written to the file; set TS_AUTHKEY in
the environment when running 'hostforge up'.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "hostforge.yaml", "Output file path")

	return cmd
}
