package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"reorder-forecast/internal/domain"
	"reorder-forecast/internal/observability"
	"reorder-forecast/internal/storage"
	"reorder-forecast/internal/storelock"
)

// Options controls the configurable stages.
type Options struct {
	OutlierStrategy     string  // cap | flag | none
	IQRMultiplier       float64 // 0 means DefaultIQRMultiplier
	InterpolationMethod string  // zero | linear (both zero-fill)
}

// DefaultOptions returns the standard stage configuration.
func DefaultOptions() Options {
	return Options{
		OutlierStrategy:     OutlierCap,
		IQRMultiplier:       DefaultIQRMultiplier,
		InterpolationMethod: InterpolateZero,
	}
}

// RunResult summarizes one pipeline run for one store.
type RunResult struct {
	StoreID        string
	StageRowCounts map[string]int
	OutputRows     int
	Error          string
}

// RunnerConfig wires the runner's collaborators.
type RunnerConfig struct {
	Orders   storage.RawOrderLineStore
	Refunds  storage.RawRefundStore
	Mappings storage.SKUMappingStore
	Configs  storage.StoreConfigStore
	Series   storage.NormalizedSeriesStore
	Locks    *storelock.KeyedMutex
	Logger   *zap.Logger
	Options  Options
}

// Runner executes the normalization pipeline for one store at a time.
// Runs for the same store are serialized through the keyed lock;
// different stores do not contend.
type Runner struct {
	orders   storage.RawOrderLineStore
	refunds  storage.RawRefundStore
	mappings storage.SKUMappingStore
	configs  storage.StoreConfigStore
	series   storage.NormalizedSeriesStore
	locks    *storelock.KeyedMutex
	logger   *zap.Logger
	opts     Options
}

// NewRunner creates a pipeline runner.
func NewRunner(cfg RunnerConfig) *Runner {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	locks := cfg.Locks
	if locks == nil {
		locks = storelock.New()
	}
	opts := cfg.Options
	if opts.OutlierStrategy == "" {
		opts = DefaultOptions()
	}
	return &Runner{
		orders:   cfg.Orders,
		refunds:  cfg.Refunds,
		mappings: cfg.Mappings,
		configs:  cfg.Configs,
		series:   cfg.Series,
		locks:    locks,
		logger:   logger,
		opts:     opts,
	}
}

// Run executes all stages for a store and atomically replaces its
// normalized series. An empty raw-order load terminates immediately
// with zero output rows and no error. Any stage or persistence failure
// aborts the run with nothing persisted.
func (r *Runner) Run(ctx context.Context, storeID string) (*RunResult, error) {
	r.locks.Lock(storeID)
	defer r.locks.Unlock(storeID)

	start := time.Now()
	result := &RunResult{
		StoreID:        storeID,
		StageRowCounts: make(map[string]int),
	}

	fail := func(err error) (*RunResult, error) {
		result.Error = err.Error()
		observability.RecordPipelineRun("error", time.Since(start).Seconds())
		return result, err
	}

	storeCfg, err := r.loadConfig(ctx, storeID)
	if err != nil {
		return fail(err)
	}

	lines, err := r.orders.GetByStoreID(ctx, storeID)
	if err != nil {
		return fail(fmt.Errorf("load raw order lines: %w", err))
	}
	result.StageRowCounts["loaded_orders"] = len(lines)

	if len(lines) == 0 {
		r.logger.Info("no raw orders, skipping pipeline run", zap.String("store_id", storeID))
		observability.RecordPipelineRun("empty", time.Since(start).Seconds())
		return result, nil
	}

	refunds, err := r.refunds.GetByStoreID(ctx, storeID)
	if err != nil {
		return fail(fmt.Errorf("load refunds: %w", err))
	}

	mappings, err := r.mappings.GetByStoreID(ctx, storeID)
	if err != nil {
		return fail(fmt.Errorf("load sku mappings: %w", err))
	}

	rows := RowsFromOrderLines(lines)

	rows, err = TimezoneStage{}.Transform(rows)
	if err != nil {
		return fail(fmt.Errorf("timezone stage: %w", err))
	}
	result.StageRowCounts["after_timezone"] = len(rows)

	rows = CurrencyStage{Config: storeCfg}.Transform(rows)
	result.StageRowCounts["after_currency"] = len(rows)

	rows = RefundStage{Config: storeCfg, Refunds: refunds}.Transform(rows)
	result.StageRowCounts["after_refunds"] = len(rows)

	rows = NewDedupStage(mappings).Transform(rows)
	result.StageRowCounts["after_dedup"] = len(rows)

	points := RollupStage{}.Transform(rows)
	result.StageRowCounts["after_rollup"] = len(points)

	points = OutlierStage{Strategy: r.opts.OutlierStrategy, K: r.opts.IQRMultiplier}.Transform(points)
	result.StageRowCounts["after_outliers"] = len(points)

	points = GapFillStage{Method: r.opts.InterpolationMethod}.Transform(points)
	result.StageRowCounts["after_interpolation"] = len(points)

	if err := r.series.ReplaceForStore(ctx, storeID, points); err != nil {
		return fail(fmt.Errorf("persist normalized series: %w", err))
	}

	result.OutputRows = len(points)
	observability.RecordPipelineRun("ok", time.Since(start).Seconds())
	observability.RecordSeriesRowsWritten(len(points))

	r.logger.Info("pipeline run complete",
		zap.String("store_id", storeID),
		zap.Int("loaded_orders", len(lines)),
		zap.Int("output_rows", result.OutputRows),
	)

	return result, nil
}

// loadConfig resolves the store's pipeline config, falling back to
// UTC/USD with an empty rate table when none is stored.
func (r *Runner) loadConfig(ctx context.Context, storeID string) (*domain.StoreConfig, error) {
	cfg, err := r.configs.GetByStoreID(ctx, storeID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			r.logger.Warn("no store config, using defaults", zap.String("store_id", storeID))
			return &domain.StoreConfig{
				StoreID:       storeID,
				Timezone:      "UTC",
				BaseCurrency:  "USD",
				ExchangeRates: map[string]float64{},
			}, nil
		}
		return nil, fmt.Errorf("load store config: %w", err)
	}
	return cfg, nil
}
