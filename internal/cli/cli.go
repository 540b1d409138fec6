// Package cli implements the sgviz command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sgviz/pkg/buildinfo"
	"github.com/matzehuels/sgviz/pkg/cache"
	"github.com/matzehuels/sgviz/pkg/config"
	"github.com/matzehuels/sgviz/pkg/pipeline"
	"github.com/matzehuels/sgviz/pkg/source/s3"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "sgviz"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "sgviz",
		Short: "sgviz lays out security group graphs",
		Long: `sgviz turns AWS security groups, CIDR ranges and prefix lists into
force-directed, edge-bundled or Graphviz diagrams.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $SGVIZ_CONFIG or ~/.config/sgviz/config.toml)")

	root.AddCommand(c.convertCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.simulateCommand())
	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config loads the configuration file once per process.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// s3Flags holds AWS settings shared by commands that accept s3:// inputs.
type s3Flags struct {
	region   string
	profile  string
	endpoint string
}

func (f *s3Flags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.region, "region", "", "AWS region for s3:// inputs")
	cmd.Flags().StringVar(&f.profile, "profile", "", "AWS shared config profile for s3:// inputs")
	cmd.Flags().StringVar(&f.endpoint, "endpoint", "", "custom S3 endpoint (S3-compatible stores)")
}

func (f *s3Flags) client(ctx context.Context) (*s3.Client, error) {
	return s3.New(ctx, s3.Options{Region: f.region, Profile: f.profile, Endpoint: f.endpoint})
}

// newRunner creates a pipeline runner for CLI use. The S3 client is only
// built when input is an s3:// URI.
func (c *CLI) newRunner(ctx context.Context, input string, noCache bool, aws *s3Flags) (*pipeline.Runner, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, err
	}
	store, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}

	runner := pipeline.NewRunner(store, nil, c.Logger)
	runner.TTL = cfg.Cache.TTL
	if s3.IsURI(input) && aws != nil {
		client, err := aws.client(ctx)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("initialize S3 client: %w", err)
		}
		runner.Fetcher = client
	}
	return runner, nil
}

// newCache opens the configured backend. A file cache whose directory
// cannot be resolved degrades to no caching.
func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil && cfg.Cache.Backend == cache.BackendFile && cfg.Cache.Dir == "" {
		c.Logger.Debug("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.Open(ctx, cfg.CacheOptions(dir))
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/sgviz/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// baseOptions returns pipeline options seeded from the config file with
// pipeline defaults filled in. Flags are bound on top of these values.
func baseOptions() pipeline.Options {
	opts := config.Default().Options()
	opts.SetLayoutDefaults()
	opts.SetRenderDefaults()
	opts.Logger = nil
	return opts
}

// mergeConfig copies config file values into opts for every flag the user
// did not set explicitly.
func (c *CLI) mergeConfig(cmd *cobra.Command, opts *pipeline.Options) error {
	cfg, err := c.config()
	if err != nil {
		return err
	}
	fromFile := cfg.Options()
	set := func(name string) bool { return cmd.Flags().Changed(name) }

	if !set("width") {
		opts.Width = fromFile.Width
	}
	if !set("height") {
		opts.Height = fromFile.Height
	}
	if !set("repulsion") {
		opts.Repulsion = fromFile.Repulsion
	}
	if !set("link-distance") {
		opts.LinkDistance = fromFile.LinkDistance
	}
	if !set("ticks") {
		opts.Ticks = fromFile.Ticks
	}
	if !set("seed") {
		opts.Seed = fromFile.Seed
	}
	if !set("beta") {
		opts.Beta = fromFile.Beta
	}
	if !set("radius-margin") {
		opts.RadiusMargin = fromFile.RadiusMargin
	}
	if !set("format") && len(opts.Formats) == 0 {
		opts.Formats = fromFile.Formats
	}
	opts.CenterStrength = fromFile.CenterStrength
	opts.AlphaDecay = fromFile.AlphaDecay
	opts.AlphaMin = fromFile.AlphaMin
	opts.VelocityDecay = fromFile.VelocityDecay
	opts.LoopSize = fromFile.LoopSize
	opts.Logger = c.Logger
	return nil
}

// layoutFlags binds the layout knobs shared by layout, render and serve.
func layoutFlags(cmd *cobra.Command, opts *pipeline.Options, beta *float64) {
	cmd.Flags().StringVarP(&opts.VizType, "type", "t", opts.VizType, "visualization type: force (default), bundle, nodelink")
	cmd.Flags().Float64Var(&opts.Width, "width", opts.Width, "frame width")
	cmd.Flags().Float64Var(&opts.Height, "height", opts.Height, "frame height")
	cmd.Flags().Float64Var(&opts.Repulsion, "repulsion", opts.Repulsion, "many-body strength (force, negative repels)")
	cmd.Flags().Float64Var(&opts.LinkDistance, "link-distance", opts.LinkDistance, "link rest length (force)")
	cmd.Flags().IntVar(&opts.Ticks, "ticks", opts.Ticks, "simulation tick budget (force)")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed for --random-start (force)")
	cmd.Flags().BoolVar(&opts.RandomStart, "random-start", false, "seeded random initial positions instead of phyllotaxis (force)")
	cmd.Flags().Float64Var(beta, "beta", *beta, "bundling tension in [0,1] (bundle)")
	cmd.Flags().Float64Var(&opts.RadiusMargin, "radius-margin", opts.RadiusMargin, "gap between the leaf ring and the frame (bundle)")
	cmd.Flags().BoolVar(&opts.Detailed, "detailed", false, "show metadata and port labels (nodelink)")
}

// applyBeta copies the --beta flag into opts when it was set.
func applyBeta(cmd *cobra.Command, opts *pipeline.Options, beta float64) {
	if cmd.Flags().Changed("beta") {
		opts.Beta = &beta
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
