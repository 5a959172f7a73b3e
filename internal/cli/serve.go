package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flowlayout/pkg/api"
	"github.com/matzehuels/flowlayout/pkg/observability"
)

// serveCommand creates the serve command running the HTTP service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		namespace string
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP layout service",
		Long: `Run the HTTP layout service.

Endpoints:
  POST /v1/layout   graph JSON in, layout JSON out
  POST /v1/render   graph or layout JSON in, SVG/PNG/PDF/JSON/DOT out
  GET  /healthz     liveness

The service shares the CLI's config file and cache settings. Use a redis or
mongo cache backend when several instances run side by side.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srvCfg := c.cfg.Server
			if cmd.Flags().Changed("addr") {
				srvCfg.Addr = addr
			}
			if cmd.Flags().Changed("namespace") {
				srvCfg.Namespace = namespace
			}

			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			hooks := observability.NewLogHooks(c.Logger)
			observability.SetLayoutHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)
			defer observability.Reset()

			defaults := c.pipelineOptions()
			defaults.Logger = nil
			srv := api.New(runner, api.Options{
				Namespace:    srvCfg.Namespace,
				MaxBodyBytes: srvCfg.MaxBodyBytes,
				Timeout:      srvCfg.Timeout,
				Defaults:     defaults,
			}, c.Logger)

			printInfo("Serving on %s", srvCfg.Addr)
			return srv.ListenAndServe(cmd.Context(), srvCfg.Addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&namespace, "namespace", "", "cache namespace for requests that do not send one")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
