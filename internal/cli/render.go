package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/memorytree/pkg/errors"
	"github.com/matzehuels/memorytree/pkg/pipeline"
)

// renderCommand creates the render command: the full fetch → layout → render
// pipeline, writing one file per format.
func (c *CLI) renderCommand() *cobra.Command {
	var output, formats string
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Fetch the memory tree and write rendered files",
		Long: `Fetch people and their memory objects, lay them out and write the result.

One file is written per format, named <output>.<ext>:

  svg       interactive SVG; nodes with a URL open it in a new tab
  json      positioned layout
  tree      assembled tree, readable again with --data
  dot       Graphviz source
  graphviz  SVG rendered by Graphviz

A source that cannot be read is logged and rendered as a single
"Error loading data" node.`,
		Example: `  memorytree render --data data.json --layout radial -f svg,json
  memorytree render --api https://example.org/api --item-set-label "Clinic" -o out/clinic`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(cmd, &opts); err != nil {
				return err
			}
			if cmd.Flags().Changed("format") {
				opts.Formats = parseFormats(formats)
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			_, err := c.runRender(cmd.Context(), opts, output)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", defaultOutputBase, "output base path; the format extension is appended")
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output format(s): svg (default), json, tree, dot, graphviz (comma-separated)")
	bindSourceFlags(cmd.Flags(), &opts)
	bindLayoutFlags(cmd.Flags(), &opts)
	bindStyleFlags(cmd.Flags(), &opts)

	return cmd
}

// runRender executes the pipeline and writes every artifact next to base.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, base string) ([]string, error) {
	logger := loggerFromContext(ctx)
	opts.Logger = logger
	prog := newProgress(logger)

	spinner := newSpinner(ctx, os.Stderr, "Building memory tree...")
	spinner.Start()

	result, err := c.newRunner().Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return nil, err
	}
	spinner.Stop()

	paths, err := writeArtifacts(result, base)
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Wrote %d file(s)", len(paths)))

	printResult(result)
	for _, p := range paths {
		printFile(p)
	}
	printNewline()
	printNextStep("Browse", appName+" browse")
	return paths, nil
}

// writeArtifacts writes the rendered outputs in display order and returns their paths.
func writeArtifacts(result *pipeline.Result, base string) ([]string, error) {
	if dir := filepath.Dir(base); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}

	var paths []string
	for _, format := range pipeline.FormatNames {
		data, ok := result.Artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + pipeline.FileExtension(format)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// printResult prints the run summary and, for degraded runs, the source error.
func printResult(result *pipeline.Result) {
	if result.Degraded {
		printWarning("Source unavailable, rendered placeholder")
		if result.SourceError != nil {
			printDetail("%s", errors.UserMessage(result.SourceError))
		}
	} else {
		printSuccess("Rendered %s", StyleHighlight.Render(result.Tree.Name))
	}
	printStats(result.Stats)
	printKeyValue("Layout", string(result.Layout.Kind))
	printKeyValue("Run", result.RunID)
}
