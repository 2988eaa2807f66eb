package awsforecast

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"reorder-forecast/internal/forecast"
)

// ObjectStore stages training CSVs in an S3 bucket for Amazon Forecast
// to import.
type ObjectStore struct {
	client *s3.Client
	bucket string
	region string
}

// NewObjectStore creates an object store over the given bucket.
func NewObjectStore(cfg aws.Config, bucket string) *ObjectStore {
	return &ObjectStore{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: cfg.Region,
	}
}

// Compile-time interface check.
var _ forecast.ObjectStore = (*ObjectStore)(nil)

// EnsureBucket creates the staging bucket if it does not already exist.
func (o *ObjectStore) EnsureBucket(ctx context.Context) error {
	_, err := o.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(o.bucket),
	})
	if err == nil {
		return nil
	}

	input := &s3.CreateBucketInput{
		Bucket: aws.String(o.bucket),
	}
	// us-east-1 rejects an explicit location constraint.
	if o.region != "" && o.region != "us-east-1" {
		input.CreateBucketConfiguration = &s3types.CreateBucketConfiguration{
			LocationConstraint: s3types.BucketLocationConstraint(o.region),
		}
	}

	if _, err := o.client.CreateBucket(ctx, input); err != nil {
		return fmt.Errorf("create bucket %s: %w", o.bucket, err)
	}
	return nil
}

// Put uploads the body under key and returns the s3:// path Amazon
// Forecast imports from.
func (o *ObjectStore) Put(ctx context.Context, key string, body []byte) (string, error) {
	_, err := o.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return fmt.Sprintf("s3://%s/%s", o.bucket, key), nil
}

// Delete removes a staged object.
func (o *ObjectStore) Delete(ctx context.Context, key string) error {
	_, err := o.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(o.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}
