package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sgviz/pkg/metrics"
	"github.com/matzehuels/sgviz/pkg/observability"
	"github.com/matzehuels/sgviz/pkg/pipeline"
	"github.com/matzehuels/sgviz/pkg/server"
)

// serveCommand creates the serve command for the HTTP layout API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		noCache   bool
		noMetrics bool
	)
	opts := baseOptions()
	beta := opts.BetaValue()

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the layout API over HTTP.

Endpoints:
  POST /api/v1/layouts   graph or describe-security-groups body → layout JSON
  POST /api/v1/render    same body → rendered artifact (?format=svg|png|pdf|json|dot)
  GET  /healthz          liveness and build info
  GET  /metrics          Prometheus metrics

Layout flags set the defaults for requests that omit them; query parameters
override them per request.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.mergeConfig(cmd, &opts); err != nil {
				return err
			}
			applyBeta(cmd, &opts, beta)
			if !cmd.Flags().Changed("addr") {
				cfg, err := c.config()
				if err != nil {
					return err
				}
				addr = cfg.Server.Addr
			}
			return c.runServe(cmd.Context(), addr, noCache, !noMetrics, opts)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")
	layoutFlags(cmd, &opts, &beta)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache, withMetrics bool, defaults pipeline.Options) error {
	runner, err := c.newRunner(ctx, "", noCache, nil)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	srvOpts := []server.Option{server.WithDefaults(defaults)}
	if withMetrics {
		reg := metrics.NewRegistry()
		observability.SetPipelineHooks(reg)
		observability.SetCacheHooks(reg)
		observability.SetHTTPHooks(reg)
		defer observability.Reset()
		srvOpts = append(srvOpts, server.WithMetrics(reg.Handler()))
	}

	srv := server.New(runner, c.Logger, srvOpts...)

	printSuccess("Listening on %s", addr)
	printDetail("POST /api/v1/layouts, POST /api/v1/render")
	return srv.ListenAndServe(ctx, addr)
}
