package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/miladsoleymani/hashmux/core"
	"github.com/miladsoleymani/hashmux/core/middleware"
	"github.com/miladsoleymani/hashmux/location"
)

func newListenCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "listen",
		Short: "Route navigations published on the configured broker until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.listen(ctx)
		},
	}
}

func (c *cli) listen(ctx context.Context) error {
	provider, err := location.Open(c.cfg.Location.Transport, c.cfg.LocationConfig(),
		location.WithProviderLogger(c.logger.WithPrefix("hashmux/location")))
	if err != nil {
		return err
	}
	defer provider.Close()

	opts := append(c.cfg.RouterOptions(),
		core.WithLogger(c.logger),
		core.WithObserver(middleware.Logging(c.logger)),
		core.WithObserver(middleware.Tracing()),
	)
	if c.cfg.MetricsAddr != "" {
		opts = append(opts, core.WithObserver(middleware.Metrics(middleware.NewPrometheusCollector())))
		srv := c.serveMetrics(c.cfg.MetricsAddr)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	r := core.New(provider, opts...)
	defer r.Destroy()

	for _, pattern := range c.cfg.Routes {
		pattern := pattern
		err := r.AddRoute(pattern, func(req *core.Request, next core.ContinueFunc) {
			c.logger.Info("route", "pattern", pattern, "href", req.Href, "params", req.Params, "splat", req.Splat, "query", req.Query)
			if req.HasNext {
				next(true, nil)
			}
		})
		if err != nil {
			return err
		}
	}

	return provider.Listen(ctx)
}

func (c *cli) serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		c.logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.logger.Error("metrics server", "err", err)
		}
	}()
	return srv
}
