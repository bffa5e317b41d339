package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/memorytree/pkg/pipeline"
)

// layoutCommand creates the layout command, which writes only the positioned
// layout as JSON.
func (c *CLI) layoutCommand() *cobra.Command {
	var output string
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Compute node positions and write them as JSON",
		Long: `Compute node positions and write them as JSON.

The output holds the canvas size, every node with its position, depth, class
and URL, and every edge with its SVG path. Use "-o -" to write to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(cmd, &opts); err != nil {
				return err
			}
			opts.Formats = []string{pipeline.FormatJSON}
			return c.runLayout(cmd.Context(), opts, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", defaultOutputBase+".layout.json", `output file ("-" for stdout)`)
	bindSourceFlags(cmd.Flags(), &opts)
	bindLayoutFlags(cmd.Flags(), &opts)
	cmd.Flags().StringVar(&opts.Palette, "palette", opts.Palette, "colour scheme recorded in the JSON")

	return cmd
}

// runLayout executes the pipeline and writes the JSON layout to output.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string) error {
	logger := loggerFromContext(ctx)
	opts.Logger = logger

	result, err := c.newRunner().Execute(ctx, opts)
	if err != nil {
		return err
	}
	data := result.Artifacts[pipeline.FormatJSON]

	if output == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printResult(result)
	printFile(output)
	printNewline()
	printNextStep("Render", appName+" render -l "+string(result.Layout.Kind))
	return nil
}
