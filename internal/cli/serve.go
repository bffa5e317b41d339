package cli

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/memorytree/internal/server"
	"github.com/matzehuels/memorytree/pkg/observability"
	"github.com/matzehuels/memorytree/pkg/observability/metrics"
	"github.com/matzehuels/memorytree/pkg/pipeline"
)

// serveCommand creates the serve command for the HTTP viewer.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		allowAll  bool
		noMetrics bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive viewer over HTTP",
		Long: `Serve the memory tree in the browser.

Every page load fetches the data again, so the viewer always shows the current
state of the source. Nodes with a link open it in a new tab. Query parameters
such as ?layout=radial&palette=forest override the configured options.

Prometheus metrics for pipeline stages and upstream API calls are exposed on
/metrics unless --no-metrics is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(cmd, &opts); err != nil {
				return err
			}
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			cfg := server.Config{
				Addr:     addr,
				Options:  opts,
				AllowAll: allowAll,
				Logger:   logger,
			}
			if !noMetrics {
				cfg.Gatherer = registerMetrics()
			}

			srv := server.New(cfg)
			printInfo("Viewer at %s", StyleLink.Render("http://"+srv.Addr()+"/"))
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().BoolVar(&allowAll, "cors-allow-all", false, "allow cross-origin requests from any origin")
	cmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "disable the /metrics endpoint")
	bindSourceFlags(cmd.Flags(), &opts)
	bindLayoutFlags(cmd.Flags(), &opts)
	bindStyleFlags(cmd.Flags(), &opts)

	return cmd
}

// registerMetrics installs Prometheus-backed observability hooks on a fresh
// registry and returns it for the /metrics handler.
func registerMetrics() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)
	observability.SetPipelineHooks(m)
	observability.SetHTTPHooks(m)
	return reg
}
