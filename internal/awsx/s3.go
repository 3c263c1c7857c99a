package awsx

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sethvargo/go-retry"

	"github.com/juanpablosotoc/zartex/internal/types"
)

// S3 is a thin wrapper over the S3 client scoped to object put/delete and
// public URL generation. Uploads are retried with backoff; deletes are not,
// since every delete in this codebase is already best-effort.
type S3 struct {
	client *s3.Client
	region string
}

const (
	putAttempts = 3
	putBackoff  = 500 * time.Millisecond
)

func NewS3(cfg aws.Config, region, baseEndpoint string) *S3 {
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if baseEndpoint != "" {
			o.BaseEndpoint = aws.String(baseEndpoint)
			o.UsePathStyle = true
		}
	})
	return &S3{client: client, region: region}
}

// PutObject uploads body to bucket/key, retrying transient failures.
func (s *S3) PutObject(ctx context.Context, bucket, key string, body []byte) error {
	backoff := retry.WithMaxRetries(putAttempts-1, retry.NewExponential(putBackoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket: aws.String(bucket),
			Key:    aws.String(key),
			Body:   bytes.NewReader(body),
		})
		if err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return types.StorageError(
			fmt.Sprintf("error uploading object %s to bucket %s", key, bucket), err)
	}
	return nil
}

// DeleteObject removes bucket/key. A missing key is not an error in S3.
func (s *S3) DeleteObject(ctx context.Context, bucket, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return types.StorageError(
			fmt.Sprintf("error deleting object %s from bucket %s", key, bucket), err)
	}
	return nil
}

// PublicURL returns the canonical virtual-hosted URL for bucket/key.
func (s *S3) PublicURL(bucket, key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, s.region, key)
}
