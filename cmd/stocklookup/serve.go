package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"StockLookup/internal/stock"
	"StockLookup/pkg/kit"
)

func newServeCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Load the record set and serve the HTTP API (default)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, f)
		},
	}
}

func runServe(cmd *cobra.Command, f *flags) error {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}

	log := kit.NewLogger(service, cfg.Server.LogLevel)
	defer func() { _ = log.Sync() }()

	ctx := cmd.Context()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	store := stock.LoadStore(ctx, newSource(cfg.Stock), log)
	svc := stock.NewService(store, log, stock.NewMetrics(reg))

	h := stock.NewHandler(&stock.Server{Service: svc, Log: log}, stock.HTTPDeps{
		Log:             log,
		Service:         service,
		Registry:        reg,
		MetricsEnabled:  cfg.Metrics.Enabled,
		MetricsToken:    cfg.Metrics.Token,
		CORSOrigins:     kit.SplitOrigins(cfg.Server.CORSOrigins),
		RateLimitPerMin: cfg.Server.RateLimitPerMin,
		TrustProxy:      cfg.Server.TrustProxy,
	})

	if err := kit.RunHTTPServer(ctx, ":"+cfg.Server.Port, h, log); err != nil {
		log.Error("http server stopped", zap.Error(err))
		return err
	}
	return nil
}
