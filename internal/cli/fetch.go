package cli

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sgviz/pkg/source/s3"
)

// fetchCommand creates the fetch command for downloading exports from S3.
func (c *CLI) fetchCommand() *cobra.Command {
	var (
		output string
		list   bool
		aws    s3Flags
	)

	cmd := &cobra.Command{
		Use:   "fetch [s3://bucket/key]",
		Short: "Download a security group export from S3",
		Long: `Download a security group export from S3.

With --list the argument is treated as a prefix and the matching objects
are printed instead of downloaded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !s3.IsURI(args[0]) {
				return fmt.Errorf("expected an s3:// URI, got %q", args[0])
			}
			if list {
				return c.runList(cmd.Context(), args[0], &aws)
			}
			return c.runFetch(cmd.Context(), args[0], output, &aws)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: object base name, - for stdout)")
	cmd.Flags().BoolVar(&list, "list", false, "list objects under the prefix")
	aws.register(cmd)

	return cmd
}

func (c *CLI) runFetch(ctx context.Context, uri, output string, aws *s3Flags) error {
	data, err := readInput(ctx, uri, aws)
	if err != nil {
		return err
	}

	if output == "" {
		output = path.Base(uri)
	}
	out, err := openOutput(output)
	if err != nil {
		return fmt.Errorf("create %s: %w", output, err)
	}
	_, err = out.Write(data)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	if output == "-" {
		return nil
	}

	printSuccess("Fetched %s", uri)
	printFile(output)
	printDetail("%d bytes", len(data))
	printNewline()
	printNextStep("Render", "sgviz render "+output)
	return nil
}

func (c *CLI) runList(ctx context.Context, prefix string, aws *s3Flags) error {
	client, err := aws.client(ctx)
	if err != nil {
		return fmt.Errorf("initialize S3 client: %w", err)
	}

	spinner := newSpinnerWithContext(ctx, "Listing "+prefix+"...")
	spinner.Start()
	objects, err := client.List(ctx, prefix)
	if err != nil {
		spinner.StopWithError("List failed")
		return err
	}
	spinner.Stop()

	if len(objects) == 0 {
		printInfo("No objects under %s", prefix)
		return nil
	}
	for _, obj := range objects {
		printDetail("%s (%d bytes)", obj.URI, obj.Size)
	}
	return nil
}

// readInput returns the bytes of a local file or an s3:// object.
func readInput(ctx context.Context, input string, aws *s3Flags) ([]byte, error) {
	if !s3.IsURI(input) {
		data, err := os.ReadFile(input)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", input, err)
		}
		return data, nil
	}

	client, err := aws.client(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize S3 client: %w", err)
	}
	spinner := newSpinnerWithContext(ctx, "Fetching "+input+"...")
	spinner.Start()
	data, err := client.Fetch(ctx, input)
	if err != nil {
		spinner.StopWithError("Fetch failed")
		return nil, err
	}
	spinner.Stop()
	return data, nil
}
