package storage

import (
	"Nutrition-Tracker/internal/utils"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type (
	// ObjectStore opens objects by key. Catalog dumps are fetched through it.
	ObjectStore interface {
		Open(ctx context.Context, key string) (io.ReadCloser, error)
	}

	AwsS3 struct {
		client *s3.Client
		bucket string
	}
)

func NewAwsS3(ctx context.Context) (*AwsS3, error) {
	region := utils.GetConfig("AWS_S3_REGION")
	bucket := utils.GetConfig("AWS_S3_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("AWS_S3_BUCKET is not configured")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if key := utils.GetConfig("AWS_ACCESS_KEY"); key != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(key, utils.GetConfig("AWS_SECRET_KEY"), ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &AwsS3{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
	}, nil
}

func (s *AwsS3) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", s.bucket, key, err)
	}
	return out.Body, nil
}
