package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sgviz/pkg/graph"
	"github.com/matzehuels/sgviz/pkg/pipeline"
)

// visualizeCommand creates the visualize command for rendering from a layout.
func (c *CLI) visualizeCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		graphPath  string
		noCache    bool
	)
	opts := baseOptions()

	cmd := &cobra.Command{
		Use:   "visualize [layout.json]",
		Short: "Render visualization from a computed layout",
		Long: `Render visualization from a computed layout.

The visualize command takes a layout.json file (produced by 'layout') and
renders it to SVG, PNG, PDF or, for nodelink layouts, DOT. The layout
contains all positioning information, so this step is purely about
rendering. Pass --graph to include node metadata in SVG tooltips.

Results are cached locally for faster subsequent runs.

Use 'render' as a shortcut to go directly from a graph to visual output.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := c.mergeConfig(cmd, &opts); err != nil {
				return err
			}
			return c.runVisualize(cmd.Context(), args[0], graphPath, opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVar(&graphPath, "graph", "", "source graph, for tooltip metadata")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot, pdf, png (comma-separated)")
	cmd.Flags().BoolVar(&opts.Interactive, "interactive", true, "embed the hover-highlight script (bundle SVG)")
	cmd.Flags().BoolVar(&opts.Tooltips, "tooltips", true, "add hover tooltips (force SVG)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", opts.Scale, "PNG resolution multiplier")

	return cmd
}

// runVisualize loads the layout and renders it.
func (c *CLI) runVisualize(ctx context.Context, input, graphPath string, opts pipeline.Options, output string, noCache bool) error {
	layout, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}
	opts.VizType = layout.VizType

	var g *graph.Graph
	if graphPath != "" {
		loaded, err := graph.ReadGraphFile(graphPath)
		if err != nil {
			return fmt.Errorf("load graph %s: %w", graphPath, err)
		}
		g = &loaded
	}

	runner, err := c.newRunner(ctx, input, noCache, nil)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", layout.VizType))
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, layout, g, opts)
	if err != nil {
		spinner.StopWithError("Visualization failed")
		return fmt.Errorf("visualize: %w", err)
	}
	spinner.Stop()

	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		input:     trimLayoutSuffix(input),
		output:    output,
		cacheHit:  cacheHit,
	})
}

// trimLayoutSuffix maps graph.layout.json to graph.json so rendered files
// land next to the source as graph.svg rather than graph.layout.svg.
func trimLayoutSuffix(path string) string {
	const suffix = ".layout.json"
	if len(path) > len(suffix) && path[len(path)-len(suffix):] == suffix {
		return path[:len(path)-len(suffix)] + ".json"
	}
	return path
}
