package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sgviz/pkg/graph"
	"github.com/matzehuels/sgviz/pkg/layout/force"
	"github.com/matzehuels/sgviz/pkg/pipeline"
)

// simulateCommand creates the simulate command, which runs the force layout
// interactively in the terminal.
func (c *CLI) simulateCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		aws     s3Flags
	)
	opts := baseOptions()
	opts.VizType = graph.VizTypeForce

	cmd := &cobra.Command{
		Use:   "simulate [graph.json | groups.json | s3://bucket/key]",
		Short: "Run the force simulation interactively in the terminal",
		Long: `Run the force simulation interactively in the terminal.

The simulation advances one tick per frame. Select a node with tab and
drag it with the arrow keys; the layout reheats while a node is held and
cools once it is released. Press space to pause, r to reheat and q to quit.

With --output the final positions are written as a force layout that
'visualize' can render.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.mergeConfig(cmd, &opts); err != nil {
				return err
			}
			opts.Input = args[0]
			return c.runSimulate(cmd.Context(), opts, output, noCache, &aws)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the final layout to this file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().Float64Var(&opts.Repulsion, "repulsion", opts.Repulsion, "many-body strength (negative repels)")
	cmd.Flags().Float64Var(&opts.LinkDistance, "link-distance", opts.LinkDistance, "link rest length")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed for --random-start")
	cmd.Flags().BoolVar(&opts.RandomStart, "random-start", false, "seeded random initial positions instead of phyllotaxis")
	aws.register(cmd)

	return cmd
}

func (c *CLI) runSimulate(ctx context.Context, opts pipeline.Options, output string, noCache bool, aws *s3Flags) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, opts.Input, noCache, aws)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	g, err := runner.Load(ctx, opts)
	if err != nil {
		return fmt.Errorf("load %s: %w", opts.Input, err)
	}

	opts.SetLayoutDefaults()
	simOpts := append(pipeline.ForceOptions(opts), force.WithReheatTarget(cfg.Force.ReheatAlpha))
	sim := force.NewSimulation(g.SortedNodes(), g.Edges, simOpts...)
	for _, err := range sim.InvalidLinks() {
		c.Logger.Warn("skipped link", "err", err)
	}

	p := tea.NewProgram(NewSimulationModel(sim), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run simulation: %w", err)
	}
	sim.Stop()

	printSuccess("Simulation stopped after %d ticks", sim.Ticks())
	printStats(len(g.Nodes), len(g.Edges), false)
	if output == "" {
		return nil
	}

	layout := pipeline.ForceSnapshot(sim, g, opts)
	if err := graph.WriteLayoutFile(layout, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}
	printFile(output)
	printNewline()
	printNextStep("Render", "sgviz visualize "+output)
	return nil
}
