package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sgviz/pkg/pipeline"
)

// renderCommand creates the render command, a shortcut that runs load,
// layout and visualize in one step.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		formatsStr string
		output     string
		noCache    bool
		refresh    bool
		aws        s3Flags
	)
	opts := baseOptions()
	beta := opts.BetaValue()

	cmd := &cobra.Command{
		Use:   "render [graph.json | groups.json | s3://bucket/key]",
		Short: "Render a security group graph to SVG, PNG, PDF or DOT",
		Long: `Render a security group graph to SVG, PNG, PDF or DOT.

This is a shortcut for 'layout' followed by 'visualize'. Every stage is
cached, so re-rendering with different output formats reuses the layout.

Examples:
  sgviz render groups.json
  sgviz render groups.json -t bundle --beta 0.7 -f svg,png
  sgviz render s3://audit/sg/prod.json --region eu-west-1 -o prod.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			if err := c.mergeConfig(cmd, &opts); err != nil {
				return err
			}
			applyBeta(cmd, &opts, beta)
			opts.Input = args[0]
			opts.Refresh = refresh
			return c.runRender(cmd.Context(), opts, output, noCache, &aws)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot, pdf, png (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-fetch s3:// inputs even when cached")
	cmd.Flags().BoolVar(&opts.Interactive, "interactive", true, "embed the hover-highlight script (bundle SVG)")
	cmd.Flags().BoolVar(&opts.Tooltips, "tooltips", true, "add hover tooltips (force SVG)")
	cmd.Flags().Float64Var(&opts.Scale, "scale", opts.Scale, "PNG resolution multiplier")
	layoutFlags(cmd, &opts, &beta)
	aws.register(cmd)

	return cmd
}

// runRender executes the full pipeline and writes every artifact.
func (c *CLI) runRender(ctx context.Context, opts pipeline.Options, output string, noCache bool, aws *s3Flags) error {
	runner, err := c.newRunner(ctx, opts.Input, noCache, aws)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", opts.VizType))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     opts.Input,
		output:    output,
		cacheHit:  result.CacheInfo.RenderHit,
	}); err != nil {
		return err
	}
	if output == "-" {
		return nil
	}

	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.LayoutHit)
	printDropped(result.Stats.Dropped)
	c.Logger.Debug("pipeline timings",
		"load", result.Stats.LoadTime,
		"layout", result.Stats.LayoutTime,
		"render", result.Stats.RenderTime)
	return nil
}
