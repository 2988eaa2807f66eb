package forecast

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"reorder-forecast/internal/domain"
	"reorder-forecast/internal/observability"
)

// ManagedMinDays is the history floor the managed service accepts; SKUs
// below it must be routed to the statistical fallback.
const ManagedMinDays = 14

// Managed provider defaults.
const (
	defaultPollInterval = 30 * time.Second
	defaultMaxWait      = time.Hour
)

// Managed provider errors.
var (
	// ErrServiceFailed means a service resource reached a terminal
	// failure state.
	ErrServiceFailed = errors.New("forecasting service resource failed")

	// ErrPollTimeout means a resource did not become active within the
	// wall-clock ceiling.
	ErrPollTimeout = errors.New("timed out waiting for forecasting service")
)

// ManagedProvider orchestrates an external AutoML forecasting service:
// it stages training data in an object store, provisions the service's
// resource chain, polls each resource to ACTIVE, queries per-SKU
// quantiles and tears everything down afterwards. Single-SKU Predict
// calls are delegated to the statistical provider; the managed service
// only pays off in bulk.
type ManagedProvider struct {
	svc     ServiceClient
	objects ObjectStore
	stats   *StatisticalProvider
	logger  *zap.Logger

	pollInterval time.Duration
	maxWait      time.Duration
	now          func() time.Time
}

// ManagedOption customizes a ManagedProvider.
type ManagedOption func(*ManagedProvider)

// WithLogger sets the provider logger. A nil logger is ignored.
func WithLogger(logger *zap.Logger) ManagedOption {
	return func(p *ManagedProvider) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithPollInterval sets the delay between status polls.
func WithPollInterval(d time.Duration) ManagedOption {
	return func(p *ManagedProvider) { p.pollInterval = d }
}

// WithMaxWait sets the wall-clock ceiling for any single resource to
// become active.
func WithMaxWait(d time.Duration) ManagedOption {
	return func(p *ManagedProvider) { p.maxWait = d }
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) ManagedOption {
	return func(p *ManagedProvider) { p.now = now }
}

// NewManagedProvider creates a managed provider over the given service
// and object store.
func NewManagedProvider(svc ServiceClient, objects ObjectStore, opts ...ManagedOption) *ManagedProvider {
	p := &ManagedProvider{
		svc:          svc,
		objects:      objects,
		stats:        NewStatisticalProvider(),
		logger:       zap.NewNop(),
		pollInterval: defaultPollInterval,
		maxWait:      defaultMaxWait,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Compile-time interface check.
var _ Provider = (*ManagedProvider)(nil)

// MinHistoryDays reports the managed service's history floor.
func (p *ManagedProvider) MinHistoryDays() int {
	return ManagedMinDays
}

// Name identifies the provider kind.
func (p *ManagedProvider) Name() string {
	return KindManaged
}

// Predict forecasts a single SKU. Provisioning the full service chain
// for one SKU is not worth it, so this delegates to the statistical
// provider.
func (p *ManagedProvider) Predict(ctx context.Context, storeID, sku string, history History, horizonDays int) (*domain.ForecastResult, error) {
	return p.stats.Predict(ctx, storeID, sku, history, horizonDays)
}

// teardownStep is one deferred resource deletion.
type teardownStep struct {
	name string
	fn   func(context.Context) error
}

// PredictBulk runs the full managed workflow for every eligible SKU.
// SKUs with less than 14 days of history are silently excluded; the
// caller routes them to a fallback. Any failure is all-or-nothing.
func (p *ManagedProvider) PredictBulk(ctx context.Context, storeID string, histories map[string]History, horizonDays int) (results map[string]*domain.ForecastResult, err error) {
	if horizonDays <= 0 {
		horizonDays = DefaultHorizonDays
	}

	eligible := make(map[string]History, len(histories))
	for sku, history := range histories {
		if len(history) >= ManagedMinDays {
			eligible[sku] = history
		}
	}
	if len(eligible) == 0 {
		return map[string]*domain.ForecastResult{}, nil
	}

	runID := fmt.Sprintf("run-%s-%s", storeID, uuid.NewString()[:8])
	logger := p.logger.With(zap.String("store_id", storeID), zap.String("run_id", runID))

	var steps []teardownStep
	defer func() { p.teardown(steps, logger) }()

	if err := p.objects.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure staging bucket: %w", err)
	}

	csvKey := runID + "/training.csv"
	dataPath, err := p.objects.Put(ctx, csvKey, buildTrainingCSV(eligible))
	if err != nil {
		return nil, fmt.Errorf("upload training data: %w", err)
	}
	steps = append(steps, teardownStep{"staging object", func(c context.Context) error {
		return p.objects.Delete(c, csvKey)
	}})

	groupID, err := p.svc.CreateDatasetGroup(ctx, runID+"-group")
	if err != nil {
		return nil, fmt.Errorf("create dataset group: %w", err)
	}
	steps = append(steps, teardownStep{"dataset group", func(c context.Context) error {
		return p.svc.DeleteDatasetGroup(c, groupID)
	}})

	datasetID, err := p.svc.CreateDataset(ctx, runID+"-dataset")
	if err != nil {
		return nil, fmt.Errorf("create dataset: %w", err)
	}
	steps = append(steps, teardownStep{"dataset", func(c context.Context) error {
		return p.svc.DeleteDataset(c, datasetID)
	}})

	if err := p.svc.AttachDataset(ctx, groupID, datasetID); err != nil {
		return nil, fmt.Errorf("attach dataset: %w", err)
	}

	importID, err := p.svc.CreateImportJob(ctx, runID+"-import", datasetID, dataPath)
	if err != nil {
		return nil, fmt.Errorf("create import job: %w", err)
	}
	steps = append(steps, teardownStep{"import job", func(c context.Context) error {
		return p.svc.DeleteImportJob(c, importID)
	}})
	if err := p.waitForActive(ctx, "import", func(c context.Context) (ResourceStatus, error) {
		return p.svc.DescribeImportJob(c, importID)
	}); err != nil {
		return nil, err
	}

	predictorID, err := p.svc.CreatePredictor(ctx, runID+"-predictor", groupID, horizonDays)
	if err != nil {
		return nil, fmt.Errorf("create predictor: %w", err)
	}
	steps = append(steps, teardownStep{"predictor", func(c context.Context) error {
		return p.svc.DeletePredictor(c, predictorID)
	}})
	if err := p.waitForActive(ctx, "predictor", func(c context.Context) (ResourceStatus, error) {
		return p.svc.DescribePredictor(c, predictorID)
	}); err != nil {
		return nil, err
	}

	forecastID, err := p.svc.CreateForecast(ctx, runID+"-forecast", predictorID)
	if err != nil {
		return nil, fmt.Errorf("create forecast: %w", err)
	}
	steps = append(steps, teardownStep{"forecast", func(c context.Context) error {
		return p.svc.DeleteForecast(c, forecastID)
	}})
	if err := p.waitForActive(ctx, "forecast", func(c context.Context) (ResourceStatus, error) {
		return p.svc.DescribeForecast(c, forecastID)
	}); err != nil {
		return nil, err
	}

	results = make(map[string]*domain.ForecastResult, len(eligible))
	for _, sku := range sortedKeys(eligible) {
		quantiles, err := p.svc.QueryForecast(ctx, forecastID, sku)
		if err != nil {
			return nil, fmt.Errorf("query forecast for %s: %w", sku, err)
		}
		results[sku] = p.resultFromQuantiles(storeID, sku, eligible[sku], quantiles, horizonDays)
	}

	logger.Info("managed forecast run complete", zap.Int("skus", len(results)))
	return results, nil
}

// waitForActive polls describe until the resource is active, failing on
// a terminal status, the wall-clock ceiling, or context cancellation.
func (p *ManagedProvider) waitForActive(ctx context.Context, step string, describe func(context.Context) (ResourceStatus, error)) error {
	deadline := p.now().Add(p.maxWait)
	for {
		status, err := describe(ctx)
		if err != nil {
			return fmt.Errorf("describe %s: %w", step, err)
		}
		observability.RecordManagedPoll(step)

		if status.Active() {
			return nil
		}
		if status.Failed() {
			return fmt.Errorf("%s reached status %q: %w", step, status, ErrServiceFailed)
		}
		if p.now().After(deadline) {
			return fmt.Errorf("%s still %q after %s: %w", step, status, p.maxWait, ErrPollTimeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.pollInterval):
		}
	}
}

// teardown deletes run resources in reverse creation order. Failures
// are logged and swallowed; a leaked resource must not mask the run's
// own outcome.
func (p *ManagedProvider) teardown(steps []teardownStep, logger *zap.Logger) {
	// The run context may already be cancelled; teardown still has to go out.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(context.Background()), 5*time.Minute)
	defer cancel()

	for i := len(steps) - 1; i >= 0; i-- {
		step := steps[i]
		if err := step.fn(ctx); err != nil {
			logger.Warn("teardown step failed", zap.String("resource", step.name), zap.Error(err))
			observability.RecordManagedTeardown("error")
			continue
		}
		observability.RecordManagedTeardown("ok")
	}
}

// resultFromQuantiles turns the service's daily quantile values into a
// horizon-total forecast result. p50 is the demand estimate; p10 and
// p90 bound the confidence band. Each quantile total is floored at 0.
func (p *ManagedProvider) resultFromQuantiles(storeID, sku string, history History, q QuantileForecast, horizonDays int) *domain.ForecastResult {
	demand := sumFloored(q["p50"])
	low := sumFloored(q["p10"])
	high := sumFloored(q["p90"])

	_, revenuePerUnit := seriesFromHistory(history)

	result := &domain.ForecastResult{
		StoreID:       storeID,
		SKU:           sku,
		HorizonDays:   horizonDays,
		DaysOfHistory: len(history),
		ProviderName:  KindManaged,
	}
	fillResult(result, demand, low, high, revenuePerUnit)
	return result
}

// buildTrainingCSV serializes histories into the service's import
// format: item_id,timestamp,value with daily granularity.
func buildTrainingCSV(histories map[string]History) []byte {
	var buf bytes.Buffer
	buf.WriteString("item_id,timestamp,value\n")

	for _, sku := range sortedKeys(histories) {
		points := make(History, len(histories[sku]))
		copy(points, histories[sku])
		sort.Slice(points, func(i, j int) bool {
			return points[i].SeriesDate.Before(points[j].SeriesDate)
		})
		for _, p := range points {
			fmt.Fprintf(&buf, "%s,%s,%g\n", sku, p.SeriesDate.Format("2006-01-02"), p.Quantity)
		}
	}
	return buf.Bytes()
}

func sumFloored(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	if sum < 0 {
		return 0
	}
	return sum
}

func sortedKeys(m map[string]History) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
