package forecast

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"reorder-forecast/internal/domain"
	"reorder-forecast/internal/observability"
	"reorder-forecast/internal/storage"
	"reorder-forecast/internal/storelock"
)

// SKUError records a per-SKU failure that did not abort the run.
type SKUError struct {
	SKU     string
	Message string
}

// RunSummary reports the outcome of one store-level forecast run.
type RunSummary struct {
	StoreID        string
	SKUsForecasted int
	SKUsSkipped    int
	ProviderName   string
	Errors         []SKUError
}

// RunnerConfig wires the forecast runner's collaborators.
type RunnerConfig struct {
	Series    storage.NormalizedSeriesStore
	Results   storage.ForecastResultStore
	Inventory storage.InventoryItemStore

	Provider Provider

	Locks  *storelock.KeyedMutex
	Logger *zap.Logger

	// HorizonDays defaults to DefaultHorizonDays when zero.
	HorizonDays int

	// Clock overrides the time source, for tests.
	Clock func() time.Time
}

// Runner executes store-level forecast runs: it groups the normalized
// series by SKU, routes each SKU to the configured provider or the
// statistical fallback, persists the results and refreshes projected
// demand on inventory.
type Runner struct {
	series    storage.NormalizedSeriesStore
	results   storage.ForecastResultStore
	inventory storage.InventoryItemStore
	provider  Provider
	fallback  *StatisticalProvider
	locks     *storelock.KeyedMutex
	logger    *zap.Logger
	horizon   int
	now       func() time.Time
}

// NewRunner creates a forecast runner.
func NewRunner(cfg RunnerConfig) *Runner {
	r := &Runner{
		series:    cfg.Series,
		results:   cfg.Results,
		inventory: cfg.Inventory,
		provider:  cfg.Provider,
		fallback:  NewStatisticalProvider(),
		locks:     cfg.Locks,
		logger:    cfg.Logger,
		horizon:   cfg.HorizonDays,
		now:       cfg.Clock,
	}
	if r.provider == nil {
		r.provider = r.fallback
	}
	if r.locks == nil {
		r.locks = storelock.New()
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.horizon <= 0 {
		r.horizon = DefaultHorizonDays
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// Run forecasts every SKU of a store. Runs for the same store are
// serialized; per-SKU failures are collected in the summary rather
// than aborting the run.
func (r *Runner) Run(ctx context.Context, storeID string) (*RunSummary, error) {
	r.locks.Lock(storeID)
	defer r.locks.Unlock(storeID)

	start := time.Now()
	logger := r.logger.With(zap.String("store_id", storeID))

	summary := &RunSummary{
		StoreID:      storeID,
		ProviderName: r.provider.Name(),
	}

	points, err := r.series.GetByStoreID(ctx, storeID)
	if err != nil {
		observability.RecordForecastRun(r.provider.Name(), "error", time.Since(start).Seconds())
		return summary, fmt.Errorf("load normalized series: %w", err)
	}

	histories := groupBySKU(points)
	if len(histories) == 0 {
		observability.RecordForecastRun(r.provider.Name(), "empty", time.Since(start).Seconds())
		logger.Info("no series to forecast")
		return summary, nil
	}

	results := make(map[string]*domain.ForecastResult, len(histories))
	remaining := histories

	// Bulk path first. On failure fall everything back to per-SKU
	// statistical forecasting and surface one summary error.
	if r.provider != Provider(r.fallback) {
		eligible := make(map[string]History, len(histories))
		remaining = make(map[string]History, len(histories))
		for sku, h := range histories {
			if len(h) >= r.provider.MinHistoryDays() {
				eligible[sku] = h
			} else {
				remaining[sku] = h
			}
		}

		if len(eligible) > 0 {
			bulk, err := r.provider.PredictBulk(ctx, storeID, eligible, r.horizon)
			if err != nil {
				logger.Warn("bulk forecast failed, falling back", zap.Error(err))
				summary.Errors = append(summary.Errors, SKUError{
					SKU:     "*",
					Message: fmt.Sprintf("bulk forecast failed: %v", err),
				})
				for sku, h := range eligible {
					remaining[sku] = h
				}
			} else {
				for sku, res := range bulk {
					results[sku] = res
				}
			}
		}
	}

	for _, sku := range sortedKeys(remaining) {
		history := remaining[sku]
		if len(history) < r.fallback.MinHistoryDays() {
			summary.SKUsSkipped++
			observability.RecordSKUSkipped()
			continue
		}
		res, err := r.fallback.Predict(ctx, storeID, sku, history, r.horizon)
		if err != nil {
			summary.Errors = append(summary.Errors, SKUError{SKU: sku, Message: err.Error()})
			observability.RecordForecastError()
			continue
		}
		results[sku] = res
	}

	if err := r.persist(ctx, storeID, results, logger); err != nil {
		observability.RecordForecastRun(r.provider.Name(), "error", time.Since(start).Seconds())
		return summary, err
	}
	summary.SKUsForecasted = len(results)
	for range results {
		observability.RecordSKUForecasted()
	}

	observability.RecordForecastRun(r.provider.Name(), "ok", time.Since(start).Seconds())
	logger.Info("forecast run complete",
		zap.Int("skus_forecasted", summary.SKUsForecasted),
		zap.Int("skus_skipped", summary.SKUsSkipped),
		zap.Int("sku_errors", len(summary.Errors)),
		zap.Duration("elapsed", time.Since(start)))
	return summary, nil
}

// persist stamps, stores and propagates the results. The forecast date
// is the run day; projected demand is refreshed on inventory when the
// item exists.
func (r *Runner) persist(ctx context.Context, storeID string, results map[string]*domain.ForecastResult, logger *zap.Logger) error {
	if len(results) == 0 {
		return nil
	}

	now := r.now().UTC()
	batch := make([]*domain.ForecastResult, 0, len(results))
	for _, sku := range sortedResultKeys(results) {
		res := results[sku]
		res.ForecastDate = domain.Day(now)
		res.CreatedAt = now
		batch = append(batch, res)
	}

	if err := r.results.InsertBulk(ctx, batch); err != nil {
		return fmt.Errorf("persist forecast results: %w", err)
	}

	for _, res := range batch {
		err := r.inventory.UpdateProjectedDemand(ctx, storeID, res.SKU, res.PredictedDemand)
		if errors.Is(err, storage.ErrNotFound) {
			continue
		}
		if err != nil {
			logger.Warn("update projected demand failed", zap.String("sku", res.SKU), zap.Error(err))
		}
	}
	return nil
}

// groupBySKU splits the store series into per-SKU histories.
func groupBySKU(points []*domain.NormalizedSeriesPoint) map[string]History {
	histories := make(map[string]History)
	for _, p := range points {
		histories[p.SKUID] = append(histories[p.SKUID], p)
	}
	return histories
}

func sortedResultKeys(m map[string]*domain.ForecastResult) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
