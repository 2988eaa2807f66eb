// Command pipeline runs the demand normalization pipeline for one or
// more stores: raw order lines in Postgres are cleaned, rolled up and
// atomically written to the normalized series table.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"reorder-forecast/internal/config"
	"reorder-forecast/internal/logging"
	"reorder-forecast/internal/observability"
	"reorder-forecast/internal/pipeline"
	"reorder-forecast/internal/storage/migrations"
	"reorder-forecast/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	stores := flag.String("stores", "", "Comma-separated store IDs to process (required)")
	flag.Parse()

	if *stores == "" {
		fmt.Fprintln(os.Stderr, "missing required -stores flag")
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Postgres.DSN == "" {
		fmt.Fprintln(os.Stderr, "postgres.dsn is required")
		os.Exit(1)
	}

	logger, err := logging.New(cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.App.MetricsBind != "" {
		go serveMetrics(cfg.App.MetricsBind, logger)
	}

	pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		logger.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := migrations.RunPostgres(ctx, pool); err != nil {
		logger.Fatal("run postgres migrations", zap.Error(err))
	}

	runner := pipeline.NewRunner(pipeline.RunnerConfig{
		Orders:   postgres.NewRawOrderLineStore(pool),
		Refunds:  postgres.NewRawRefundStore(pool),
		Mappings: postgres.NewSKUMappingStore(pool),
		Configs:  postgres.NewStoreConfigStore(pool),
		Series:   postgres.NewNormalizedSeriesStore(pool),
		Logger:   logger,
		Options: pipeline.Options{
			OutlierStrategy:     cfg.Pipeline.OutlierStrategy,
			IQRMultiplier:       cfg.Pipeline.IQRMultiplier,
			InterpolationMethod: cfg.Pipeline.InterpolationMethod,
		},
	})

	exitCode := 0
	for _, storeID := range splitStores(*stores) {
		result, err := runner.Run(ctx, storeID)
		if err != nil {
			logger.Error("pipeline run failed", zap.String("store_id", storeID), zap.Error(err))
			exitCode = 1
			continue
		}
		logger.Info("store processed",
			zap.String("store_id", storeID),
			zap.Int("output_rows", result.OutputRows))
	}
	os.Exit(exitCode)
}

func splitStores(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func serveMetrics(bind string, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	if err := http.ListenAndServe(bind, mux); err != nil {
		logger.Warn("metrics server stopped", zap.Error(err))
	}
}
