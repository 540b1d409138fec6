package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sgviz/pkg/graph"
	"github.com/matzehuels/sgviz/pkg/source/secgroups"
)

// convertCommand creates the convert command, which turns a
// DescribeSecurityGroups export into an entity graph file.
func (c *CLI) convertCommand() *cobra.Command {
	var (
		output string
		aws    s3Flags
	)

	cmd := &cobra.Command{
		Use:   "convert [groups.json | s3://bucket/key]",
		Short: "Convert a describe-security-groups export into an entity graph",
		Long: `Convert a describe-security-groups export into an entity graph.

The input is the JSON or YAML output of 'aws ec2 describe-security-groups',
either the full response or a bare array of groups. Every group becomes a
SECURITY_GROUP node; every rule target (group pair, IPv4 or IPv6 range,
prefix list) becomes a node connected along the direction of traffic.

The output format follows the file extension (.json, .yaml, .yml).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runConvert(cmd.Context(), args[0], output, &aws)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.graph.json)")
	aws.register(cmd)

	return cmd
}

// runConvert decodes, validates and converts the export.
func (c *CLI) runConvert(ctx context.Context, input, output string, aws *s3Flags) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	data, err := readInput(ctx, input, aws)
	if err != nil {
		return err
	}

	groups, err := secgroups.Decode(data)
	if err != nil {
		return fmt.Errorf("decode %s: %w", input, err)
	}
	logger.Debug("decoded security groups", "count", len(groups))

	g, err := secgroups.Convert(groups)
	if err != nil {
		return err
	}

	if output == "" {
		output = basePath("", input) + ".graph.json"
	}
	if err := graph.WriteGraphFile(g, output); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	prog.done(fmt.Sprintf("Converted %d security groups", len(groups)))

	printFile(output)
	printStats(len(g.Nodes), len(g.Edges), false)
	printNewline()
	printNextStep("Render", "sgviz render "+output)
	return nil
}
