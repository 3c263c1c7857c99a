package blob

import (
	"context"
	"time"

	"github.com/juanpablosotoc/zartex/internal/awsx"
)

// S3Storage serves Storage from a single S3 bucket. Each network call is
// bounded by timeout; an expired deadline surfaces as a storage error and
// takes the same failure path as any other put/delete error.
type S3Storage struct {
	s3      *awsx.S3
	bucket  string
	timeout time.Duration
}

func NewS3Storage(s3 *awsx.S3, bucket string, timeout time.Duration) *S3Storage {
	return &S3Storage{s3: s3, bucket: bucket, timeout: timeout}
}

func (s *S3Storage) Put(ctx context.Context, key string, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.s3.PutObject(ctx, s.bucket, key, body)
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.s3.DeleteObject(ctx, s.bucket, key)
}

func (s *S3Storage) PublicURL(key string) string {
	return s.s3.PublicURL(s.bucket, key)
}
