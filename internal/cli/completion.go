package cli

import (
	"github.com/spf13/cobra"
)

// completionCommand prints a shell completion script. Widget names complete
// from the catalog at completion time.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion <bash|zsh|fish>",
		Short: "Print a shell completion script",
		Long: `Print a shell completion script for ztab.

  bash:  source <(ztab completion bash)
  zsh:   ztab completion zsh > "${fpath[1]}/_ztab"
  fish:  ztab completion fish > ~/.config/fish/completions/ztab.fish`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenBashCompletionV2(out, true)
			}
		},
	}
}
