// Package awsx wraps the AWS service clients used by the application
// behind small typed interfaces. Every wrapper maps SDK failures onto the
// service error kinds in internal/types so callers never inspect SDK
// error types directly.
package awsx

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"

	"github.com/juanpablosotoc/zartex/config"
)

// NewConfig builds an aws.Config for the configured region. When static
// credentials are present (local MinIO / localstack setups) they override
// the default credential chain.
func NewConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}
	return awsconfig.LoadDefaultConfig(ctx, opts...)
}
