package commands

import (
	"os"

	"github.com/spf13/cobra"
)

// Completion returns the completion command for shell autocompletion.
func Completion() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for hostforge.

To load completions:

Bash:
  $ source <(hostforge completion bash)
  # To load completions for each session, execute once:
  $ hostforge completion bash > /etc/bash_completion.d/hostforge

Zsh:
  $ hostforge completion zsh > "${fpath[1]}/_hostforge"
  # You will need to start a new shell for this setup to take effect.

Fish:
  $ hostforge completion fish | source
  # To load completions for each session, execute once:
  $ hostforge completion fish > ~/.config/fish/completions/hostforge.fish

PowerShell:
  PS> hostforge completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
	return cmd
}
