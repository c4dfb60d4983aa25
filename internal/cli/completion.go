package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowtower/pkg/workflow"
)

// formatOrder lists the render formats in the order completions offer them.
var formatOrder = []string{formatSVG, formatPNG, formatPDF, formatDOT, formatMermaid, formatJSON}

// documentExts are the extensions offered for workflow document arguments.
var documentExts = []string{"json", "yaml", "yml"}

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate a shell completion script for flowtower.

Completions cover commands, flags, render formats (including comma-separated
lists such as "svg,png"), layout directions, and workflow documents (.json,
.yaml, .yml) for file arguments.

  $ source <(flowtower completion bash)
  $ flowtower completion zsh > "${fpath[1]}/_flowtower"
  $ flowtower completion fish > ~/.config/fish/completions/flowtower.fish
  PS> flowtower completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			default:
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// registerCompletions wires value completions into every subcommand of root
// that takes workflow documents or the --format and --direction flags.
func registerCompletions(root *cobra.Command) {
	for _, cmd := range root.Commands() {
		switch cmd.Name() {
		case "validate", "layout", "render", "serve", "view":
			cmd.ValidArgsFunction = completeDocuments
		}
		if cmd.Flags().Lookup("format") != nil {
			_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
		}
		if cmd.Flags().Lookup("direction") != nil {
			_ = cmd.RegisterFlagCompletionFunc("direction", completeDirections)
		}
	}
}

func completeDocuments(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return documentExts, cobra.ShellCompDirectiveFilterFileExt
}

func completeDirections(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{string(workflow.Horizontal), string(workflow.Vertical)}, cobra.ShellCompDirectiveNoFileComp
}

// completeFormats completes the last entry of a comma-separated format list,
// skipping formats already named before it.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	prefix := toComplete[:strings.LastIndex(toComplete, ",")+1]
	used := make(map[string]bool)
	if prefix != "" {
		for _, f := range parseFormats(prefix) {
			used[f] = true
		}
	}
	var out []string
	for _, f := range formatOrder {
		if !used[f] {
			out = append(out, prefix+f)
		}
	}
	return out, cobra.ShellCompDirectiveNoSpace | cobra.ShellCompDirectiveNoFileComp
}
