package forecast

import (
	"context"
	"strings"
)

// ResourceStatus is the lifecycle state reported by the managed
// forecasting service for a dataset import, predictor, or forecast.
type ResourceStatus string

// Active reports whether the resource is ready for use.
func (s ResourceStatus) Active() bool {
	return s == "ACTIVE"
}

// Failed reports whether the resource reached a terminal failure state.
// The service encodes failure variants as statuses containing "FAILED".
func (s ResourceStatus) Failed() bool {
	return strings.Contains(string(s), "FAILED")
}

// QuantileForecast maps a quantile label ("p10", "p50", "p90") to the
// daily predicted values over the forecast horizon.
type QuantileForecast map[string][]float64

// ServiceClient is the surface of the managed forecasting service the
// provider drives. Implementations live under awsforecast; tests use
// fakes.
type ServiceClient interface {
	// CreateDatasetGroup creates a container for the run's datasets and
	// returns its identifier.
	CreateDatasetGroup(ctx context.Context, name string) (string, error)

	// CreateDataset creates a time-series dataset and returns its
	// identifier.
	CreateDataset(ctx context.Context, name string) (string, error)

	// AttachDataset binds a dataset to a dataset group.
	AttachDataset(ctx context.Context, datasetGroupID, datasetID string) error

	// CreateImportJob starts loading uploaded training data into the
	// dataset and returns the job identifier.
	CreateImportJob(ctx context.Context, name, datasetID, dataPath string) (string, error)

	// DescribeImportJob reports the import job's current status.
	DescribeImportJob(ctx context.Context, importJobID string) (ResourceStatus, error)

	// CreatePredictor trains a model over the dataset group and returns
	// the predictor identifier.
	CreatePredictor(ctx context.Context, name, datasetGroupID string, horizonDays int) (string, error)

	// DescribePredictor reports the predictor's current status.
	DescribePredictor(ctx context.Context, predictorID string) (ResourceStatus, error)

	// CreateForecast materializes a forecast artifact from a trained
	// predictor and returns its identifier.
	CreateForecast(ctx context.Context, name, predictorID string) (string, error)

	// DescribeForecast reports the forecast artifact's current status.
	DescribeForecast(ctx context.Context, forecastID string) (ResourceStatus, error)

	// QueryForecast retrieves one SKU's predicted quantiles from a
	// forecast artifact.
	QueryForecast(ctx context.Context, forecastID, sku string) (QuantileForecast, error)

	// Teardown deletes, in the order given below, the run's resources.
	DeleteForecast(ctx context.Context, forecastID string) error
	DeletePredictor(ctx context.Context, predictorID string) error
	DeleteImportJob(ctx context.Context, importJobID string) error
	DeleteDataset(ctx context.Context, datasetID string) error
	DeleteDatasetGroup(ctx context.Context, datasetGroupID string) error
}

// ObjectStore stages training data where the forecasting service can
// read it.
type ObjectStore interface {
	// EnsureBucket creates the staging bucket if it does not exist.
	EnsureBucket(ctx context.Context) error

	// Put uploads the body under key and returns the full object path
	// the service should import from.
	Put(ctx context.Context, key string, body []byte) (string, error)

	// Delete removes a staged object.
	Delete(ctx context.Context, key string) error
}
