package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sgviz/pkg/graph"
	"github.com/matzehuels/sgviz/pkg/pipeline"
)

// layoutCommand creates the layout command for computing visualization layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
		aws     s3Flags
	)
	opts := baseOptions()
	beta := opts.BetaValue()

	cmd := &cobra.Command{
		Use:   "layout [graph.json | groups.json | s3://bucket/key]",
		Short: "Compute a layout from a security group graph",
		Long: `Compute a layout from a security group graph.

The input is an entity graph (graph.json or graph.yaml, as written by
'convert'), a raw 'aws ec2 describe-security-groups' export, or an s3:// URI
pointing at either. The output is a layout.json file that 'visualize'
renders to SVG, PNG, PDF or DOT.

Layout types:
  force     force-directed simulation run for --ticks steps (default)
  bundle    radial cluster with hierarchical edge bundling
  nodelink  Graphviz DOT; nodes are placed at render time

Results are cached for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.mergeConfig(cmd, &opts); err != nil {
				return err
			}
			applyBeta(cmd, &opts, beta)
			opts.Input = args[0]
			opts.Refresh = refresh
			return c.runLayout(cmd.Context(), opts, output, noCache, &aws)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json, - for stdout)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "re-fetch s3:// inputs even when cached")
	layoutFlags(cmd, &opts, &beta)
	aws.register(cmd)

	return cmd
}

// runLayout loads the graph, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool, aws *s3Flags) error {
	runner, err := c.newRunner(ctx, opts.Input, noCache, aws)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, err := runner.Load(ctx, opts)
	if err != nil {
		return fmt.Errorf("load %s: %w", opts.Input, err)
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", opts.VizType))
	spinner.Start()

	layout, cacheHit, err := runner.GenerateLayoutWithCacheInfo(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = basePath("", opts.Input) + ".layout.json"
	}

	if outputPath == "-" {
		data, err := graph.MarshalLayout(layout)
		if err != nil {
			return err
		}
		out, _ := openOutput(outputPath)
		_, err = out.Write(append(data, '\n'))
		return err
	}
	if err := graph.WriteLayoutFile(layout, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(g.Nodes), len(g.Edges), cacheHit)
	printDropped(len(layout.Dropped))
	printNewline()
	printNextStep("Render", "sgviz visualize "+outputPath)

	return nil
}
