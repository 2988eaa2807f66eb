// Command forecast runs the demand forecasting engine for one or more
// stores: normalized series from Postgres are forecast by the
// configured provider and the results land in ClickHouse.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"go.uber.org/zap"

	"reorder-forecast/internal/config"
	"reorder-forecast/internal/forecast"
	"reorder-forecast/internal/forecast/awsforecast"
	"reorder-forecast/internal/logging"
	"reorder-forecast/internal/storage/clickhouse"
	"reorder-forecast/internal/storage/migrations"
	"reorder-forecast/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	stores := flag.String("stores", "", "Comma-separated store IDs to forecast (required)")
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
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.App.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	pool, err := postgres.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		logger.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	if err := migrations.RunPostgres(ctx, pool); err != nil {
		logger.Fatal("run postgres migrations", zap.Error(err))
	}

	conn, err := clickhouse.NewConn(ctx, cfg.ClickHouse.DSN)
	if err != nil {
		logger.Fatal("connect clickhouse", zap.Error(err))
	}
	defer conn.Close()

	if err := migrations.RunClickhouse(ctx, conn); err != nil {
		logger.Fatal("run clickhouse migrations", zap.Error(err))
	}

	provider, err := buildProvider(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("build forecast provider", zap.Error(err))
	}

	runner := forecast.NewRunner(forecast.RunnerConfig{
		Series:      postgres.NewNormalizedSeriesStore(pool),
		Results:     clickhouse.NewForecastResultStore(conn),
		Inventory:   postgres.NewInventoryItemStore(pool),
		Provider:    provider,
		Logger:      logger,
		HorizonDays: cfg.Forecast.HorizonDays,
	})

	exitCode := 0
	for _, storeID := range splitStores(*stores) {
		summary, err := runner.Run(ctx, storeID)
		if err != nil {
			logger.Error("forecast run failed", zap.String("store_id", storeID), zap.Error(err))
			exitCode = 1
			continue
		}
		logger.Info("store forecast",
			zap.String("store_id", storeID),
			zap.Int("skus_forecasted", summary.SKUsForecasted),
			zap.Int("skus_skipped", summary.SKUsSkipped),
			zap.Int("sku_errors", len(summary.Errors)))
	}
	os.Exit(exitCode)
}

// buildProvider assembles the configured provider. The managed kind
// needs AWS credentials, the staging bucket and the import role.
func buildProvider(ctx context.Context, cfg *config.Config, logger *zap.Logger) (forecast.Provider, error) {
	if cfg.Forecast.Provider != forecast.KindManaged {
		return forecast.FromConfig(forecast.Config{Kind: cfg.Forecast.Provider, Logger: logger})
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	svc := awsforecast.NewClient(awsCfg, cfg.AWS.RoleArn)
	objects := awsforecast.NewObjectStore(awsCfg, cfg.AWS.Bucket)

	return forecast.NewManagedProvider(svc, objects,
		forecast.WithLogger(logger),
		forecast.WithPollInterval(time.Duration(cfg.AWS.PollIntervalSeconds)*time.Second),
		forecast.WithMaxWait(time.Duration(cfg.AWS.MaxWaitSeconds)*time.Second),
	), nil
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
