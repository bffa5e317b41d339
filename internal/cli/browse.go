package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/memorytree/pkg/pipeline"
)

// browseCommand creates the browse command: an interactive terminal view of
// the fetched tree.
func (c *CLI) browseCommand() *cobra.Command {
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the memory tree in the terminal",
		Long: `Fetch the memory tree and browse it in the terminal.

Use the arrow keys to move and fold. Enter opens the selected node's link in
the default browser.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(cmd, &opts); err != nil {
				return err
			}
			ctx := cmd.Context()
			opts.Logger = loggerFromContext(ctx)

			fetched, err := c.newRunner().Fetch(ctx, opts)
			if err != nil {
				return fmt.Errorf("fetch: %w", err)
			}

			model := NewTreeBrowserModel(fetched.Tree, fetched.Degraded)
			if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
				return fmt.Errorf("browser: %w", err)
			}
			return nil
		},
	}

	bindSourceFlags(cmd.Flags(), &opts)
	return cmd
}
