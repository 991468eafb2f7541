// Copyright (c) 2026 Jobdeck. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package job

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/taibuivan/jobdeck/internal/platform/config"
)

// # Resume Object Storage

// S3ObjectStore implements [ObjectStore] against any S3-compatible backend
// (AWS S3, MinIO, Cloudflare R2).
type S3ObjectStore struct {
	client *s3.Client
	bucket string
}

// NewS3ObjectStore wraps an existing S3 client for the given bucket.
func NewS3ObjectStore(client *s3.Client, bucket string) *S3ObjectStore {
	return &S3ObjectStore{client: client, bucket: bucket}
}

// NewS3Client builds an S3 client from application configuration.
//
// A non-empty S3Endpoint overrides the AWS default, which is how MinIO and
// other self-hosted backends are addressed.
func NewS3Client(context context.Context, cfg *config.Config) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("s3_config_load_failed: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(options *s3.Options) {
		if cfg.S3Endpoint != "" {
			options.BaseEndpoint = aws.String(cfg.S3Endpoint)
			// Path-style addressing is required by most S3-compatible servers.
			options.UsePathStyle = true
		}
	})

	return client, nil
}

/*
Put streams an object's bytes to the bucket under the given key.

Parameters:
  - context: context.Context
  - key: string
  - contentType: string
  - body: io.Reader

Returns:
  - error: Upload failures
*/
func (store *S3ObjectStore) Put(context context.Context, key, contentType string, body io.Reader) error {
	_, err := store.client.PutObject(context, &s3.PutObjectInput{
		Bucket:      aws.String(store.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})

	if err != nil {
		return fmt.Errorf("s3_put_object_failed: %w", err)
	}

	return nil
}
