package cmd

import (
	"github.com/spf13/cobra"
)

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion scripts",
	Long: `Generate shell completion scripts for referee.

To load completions:

Bash:
  $ source <(referee completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ referee completion bash > /etc/bash_completion.d/referee
  # macOS:
  $ referee completion bash > $(brew --prefix)/etc/bash_completion.d/referee

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ referee completion zsh > "${fpath[1]}/_referee"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ referee completion fish | source

  # To load completions for each session, execute once:
  $ referee completion fish > ~/.config/fish/completions/referee.fish

PowerShell:
  PS> referee completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> referee completion powershell > referee.ps1
  # and source this file from your PowerShell profile.
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
		case "zsh":
			return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
		case "fish":
			return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completionCmd)
}
