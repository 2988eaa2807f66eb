// Package awsforecast backs the managed forecast provider with Amazon
// Forecast and S3.
package awsforecast

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	forecastsvc "github.com/aws/aws-sdk-go-v2/service/forecast"
	foretypes "github.com/aws/aws-sdk-go-v2/service/forecast/types"
	"github.com/aws/aws-sdk-go-v2/service/forecastquery"

	"reorder-forecast/internal/forecast"
)

// forecastTypes are the quantiles requested from every predictor.
var forecastTypes = []string{"0.10", "0.50", "0.90"}

// Client implements forecast.ServiceClient over the Amazon Forecast
// control-plane and query APIs. Identifiers returned from Create calls
// are resource ARNs.
type Client struct {
	svc     *forecastsvc.Client
	query   *forecastquery.Client
	roleArn string
}

// NewClient creates a service client. roleArn is the IAM role Amazon
// Forecast assumes to read training data from S3.
func NewClient(cfg aws.Config, roleArn string) *Client {
	return &Client{
		svc:     forecastsvc.NewFromConfig(cfg),
		query:   forecastquery.NewFromConfig(cfg),
		roleArn: roleArn,
	}
}

// Compile-time interface check.
var _ forecast.ServiceClient = (*Client)(nil)

// CreateDatasetGroup creates a retail-domain dataset group.
func (c *Client) CreateDatasetGroup(ctx context.Context, name string) (string, error) {
	out, err := c.svc.CreateDatasetGroup(ctx, &forecastsvc.CreateDatasetGroupInput{
		DatasetGroupName: aws.String(name),
		Domain:           foretypes.DomainRetail,
	})
	if err != nil {
		return "", fmt.Errorf("create dataset group: %w", err)
	}
	return aws.ToString(out.DatasetGroupArn), nil
}

// CreateDataset creates a daily target-time-series dataset with the
// item_id/timestamp/demand schema.
func (c *Client) CreateDataset(ctx context.Context, name string) (string, error) {
	out, err := c.svc.CreateDataset(ctx, &forecastsvc.CreateDatasetInput{
		DatasetName:   aws.String(name),
		Domain:        foretypes.DomainRetail,
		DatasetType:   foretypes.DatasetTypeTargetTimeSeries,
		DataFrequency: aws.String("D"),
		Schema: &foretypes.Schema{
			Attributes: []foretypes.SchemaAttribute{
				{AttributeName: aws.String("item_id"), AttributeType: foretypes.AttributeTypeString},
				{AttributeName: aws.String("timestamp"), AttributeType: foretypes.AttributeTypeTimestamp},
				{AttributeName: aws.String("demand"), AttributeType: foretypes.AttributeTypeFloat},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("create dataset: %w", err)
	}
	return aws.ToString(out.DatasetArn), nil
}

// AttachDataset binds the dataset to the dataset group.
func (c *Client) AttachDataset(ctx context.Context, datasetGroupID, datasetID string) error {
	_, err := c.svc.UpdateDatasetGroup(ctx, &forecastsvc.UpdateDatasetGroupInput{
		DatasetGroupArn: aws.String(datasetGroupID),
		DatasetArns:     []string{datasetID},
	})
	if err != nil {
		return fmt.Errorf("update dataset group: %w", err)
	}
	return nil
}

// CreateImportJob starts loading the staged CSV into the dataset.
func (c *Client) CreateImportJob(ctx context.Context, name, datasetID, dataPath string) (string, error) {
	out, err := c.svc.CreateDatasetImportJob(ctx, &forecastsvc.CreateDatasetImportJobInput{
		DatasetImportJobName: aws.String(name),
		DatasetArn:           aws.String(datasetID),
		TimestampFormat:      aws.String("yyyy-MM-dd"),
		DataSource: &foretypes.DataSource{
			S3Config: &foretypes.S3Config{
				Path:    aws.String(dataPath),
				RoleArn: aws.String(c.roleArn),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("create dataset import job: %w", err)
	}
	return aws.ToString(out.DatasetImportJobArn), nil
}

// DescribeImportJob reports the import job status.
func (c *Client) DescribeImportJob(ctx context.Context, importJobID string) (forecast.ResourceStatus, error) {
	out, err := c.svc.DescribeDatasetImportJob(ctx, &forecastsvc.DescribeDatasetImportJobInput{
		DatasetImportJobArn: aws.String(importJobID),
	})
	if err != nil {
		return "", fmt.Errorf("describe dataset import job: %w", err)
	}
	return forecast.ResourceStatus(aws.ToString(out.Status)), nil
}

// CreatePredictor trains an AutoPredictor over the dataset group.
func (c *Client) CreatePredictor(ctx context.Context, name, datasetGroupID string, horizonDays int) (string, error) {
	out, err := c.svc.CreateAutoPredictor(ctx, &forecastsvc.CreateAutoPredictorInput{
		PredictorName:     aws.String(name),
		ForecastHorizon:   aws.Int32(int32(horizonDays)),
		ForecastFrequency: aws.String("D"),
		ForecastTypes:     forecastTypes,
		DataConfig: &foretypes.DataConfig{
			DatasetGroupArn: aws.String(datasetGroupID),
		},
	})
	if err != nil {
		return "", fmt.Errorf("create auto predictor: %w", err)
	}
	return aws.ToString(out.PredictorArn), nil
}

// DescribePredictor reports the predictor status.
func (c *Client) DescribePredictor(ctx context.Context, predictorID string) (forecast.ResourceStatus, error) {
	out, err := c.svc.DescribeAutoPredictor(ctx, &forecastsvc.DescribeAutoPredictorInput{
		PredictorArn: aws.String(predictorID),
	})
	if err != nil {
		return "", fmt.Errorf("describe auto predictor: %w", err)
	}
	return forecast.ResourceStatus(aws.ToString(out.Status)), nil
}

// CreateForecast materializes the predictor's forecast artifact.
func (c *Client) CreateForecast(ctx context.Context, name, predictorID string) (string, error) {
	out, err := c.svc.CreateForecast(ctx, &forecastsvc.CreateForecastInput{
		ForecastName:  aws.String(name),
		PredictorArn:  aws.String(predictorID),
		ForecastTypes: forecastTypes,
	})
	if err != nil {
		return "", fmt.Errorf("create forecast: %w", err)
	}
	return aws.ToString(out.ForecastArn), nil
}

// DescribeForecast reports the forecast artifact status.
func (c *Client) DescribeForecast(ctx context.Context, forecastID string) (forecast.ResourceStatus, error) {
	out, err := c.svc.DescribeForecast(ctx, &forecastsvc.DescribeForecastInput{
		ForecastArn: aws.String(forecastID),
	})
	if err != nil {
		return "", fmt.Errorf("describe forecast: %w", err)
	}
	return forecast.ResourceStatus(aws.ToString(out.Status)), nil
}

// QueryForecast fetches one SKU's daily quantile predictions.
func (c *Client) QueryForecast(ctx context.Context, forecastID, sku string) (forecast.QuantileForecast, error) {
	out, err := c.query.QueryForecast(ctx, &forecastquery.QueryForecastInput{
		ForecastArn: aws.String(forecastID),
		Filters:     map[string]string{"item_id": sku},
	})
	if err != nil {
		return nil, fmt.Errorf("query forecast: %w", err)
	}

	quantiles := make(forecast.QuantileForecast)
	if out.Forecast == nil {
		return quantiles, nil
	}
	for quantile, points := range out.Forecast.Predictions {
		values := make([]float64, 0, len(points))
		for _, p := range points {
			values = append(values, aws.ToFloat64(p.Value))
		}
		quantiles[quantile] = values
	}
	return quantiles, nil
}

// DeleteForecast removes a forecast artifact.
func (c *Client) DeleteForecast(ctx context.Context, forecastID string) error {
	_, err := c.svc.DeleteForecast(ctx, &forecastsvc.DeleteForecastInput{
		ForecastArn: aws.String(forecastID),
	})
	return err
}

// DeletePredictor removes a trained predictor.
func (c *Client) DeletePredictor(ctx context.Context, predictorID string) error {
	_, err := c.svc.DeletePredictor(ctx, &forecastsvc.DeletePredictorInput{
		PredictorArn: aws.String(predictorID),
	})
	return err
}

// DeleteImportJob removes a dataset import job.
func (c *Client) DeleteImportJob(ctx context.Context, importJobID string) error {
	_, err := c.svc.DeleteDatasetImportJob(ctx, &forecastsvc.DeleteDatasetImportJobInput{
		DatasetImportJobArn: aws.String(importJobID),
	})
	return err
}

// DeleteDataset removes a dataset.
func (c *Client) DeleteDataset(ctx context.Context, datasetID string) error {
	_, err := c.svc.DeleteDataset(ctx, &forecastsvc.DeleteDatasetInput{
		DatasetArn: aws.String(datasetID),
	})
	return err
}

// DeleteDatasetGroup removes a dataset group.
func (c *Client) DeleteDatasetGroup(ctx context.Context, datasetGroupID string) error {
	_, err := c.svc.DeleteDatasetGroup(ctx, &forecastsvc.DeleteDatasetGroupInput{
		DatasetGroupArn: aws.String(datasetGroupID),
	})
	return err
}
