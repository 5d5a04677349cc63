package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/jsontree/pkg/graph"
	"github.com/matzehuels/jsontree/pkg/jsondoc"
	"github.com/matzehuels/jsontree/pkg/render/styles"
)

// completeValues offers a fixed set of flag values and no file names.
func completeValues(values ...string) cobra.CompletionFunc {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

var (
	completeFormats      = completeValues(graph.FormatSVG, graph.FormatPNG, graph.FormatPDF, graph.FormatDOT, graph.FormatJSON)
	completeVizTypes     = completeValues(graph.VizTypeTree, graph.VizTypeNodelink)
	completeInputFormats = completeValues(jsondoc.FormatJSON, jsondoc.FormatYAML)
)

func completeThemes(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return styles.Names(), cobra.ShellCompDirectiveNoFileComp
}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for jsontree.

To load completions:

Bash:
  $ source <(jsontree completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ jsontree completion bash > /etc/bash_completion.d/jsontree
  # macOS:
  $ jsontree completion bash > $(brew --prefix)/etc/bash_completion.d/jsontree

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ jsontree completion zsh > "${fpath[1]}/_jsontree"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ jsontree completion fish | source

  # To load completions for each session, execute once:
  $ jsontree completion fish > ~/.config/fish/completions/jsontree.fish

PowerShell:
  PS> jsontree completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> jsontree completion powershell > jsontree.ps1
  # and source this file from your PowerShell profile.

Once loaded, flag values complete as well:

  $ jsontree render data.json -f <TAB>        # svg png pdf dot json
  $ jsontree render data.json --theme <TAB>   # light dark
  $ jsontree render data.json -t <TAB>        # tree nodelink
  $ jsontree layout config.yml --input-format <TAB>
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(c.Out)
			case "zsh":
				return cmd.Root().GenZshCompletion(c.Out)
			case "fish":
				return cmd.Root().GenFishCompletion(c.Out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(c.Out)
			}
			return nil
		},
	}

	return cmd
}
