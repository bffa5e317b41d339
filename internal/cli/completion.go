package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/memorytree/pkg/pipeline"
	"github.com/matzehuels/memorytree/pkg/render/memtree/layout"
	"github.com/matzehuels/memorytree/pkg/render/memtree/styles"
	"github.com/matzehuels/memorytree/pkg/tree"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for memorytree.

Bash:
  $ source <(memorytree completion bash)

Zsh:
  $ memorytree completion zsh > "${fpath[1]}/_memorytree"

Fish:
  $ memorytree completion fish | source

PowerShell:
  PS> memorytree completion powershell | Out-String | Invoke-Expression
`,
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
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}

	return cmd
}

// registerFlagCompletions adds value completion for enum-like flags to every
// subcommand that defines them.
func registerFlagCompletions(root *cobra.Command) {
	values := map[string][]string{
		"layout":  layout.KindNames(),
		"palette": styles.Names(),
		"policy":  {string(tree.IncludeAlways), string(tree.IncludeWithChildren)},
		"mode":    {pipeline.ModeStatic, pipeline.ModeRemote},
		"format":  pipeline.FormatNames,
	}
	for _, sub := range root.Commands() {
		for name, vals := range values {
			if sub.Flags().Lookup(name) == nil {
				continue
			}
			_ = sub.RegisterFlagCompletionFunc(name, cobra.FixedCompletions(vals, cobra.ShellCompDirectiveNoFileComp))
		}
	}
}
