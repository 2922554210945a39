package s3store

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sagarc03/s3proxy"
)

// Options configures the S3 client built by NewClient.
type Options struct {
	Region string
	// Endpoint overrides the service endpoint, e.g. http://localhost:9000 for MinIO.
	Endpoint     string
	UsePathStyle bool
	// AccessKey and SecretKey select static credentials. When empty the default
	// credential chain (environment, shared config, instance role) is used.
	AccessKey   string
	SecretKey   string
	MaxAttempts int
}

// NewClient loads the AWS configuration and returns an S3 client.
// It fails when no region can be resolved.
func NewClient(ctx context.Context, opts Options) (*s3.Client, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}
	if opts.MaxAttempts > 0 {
		loadOpts = append(loadOpts, awsconfig.WithRetryMaxAttempts(opts.MaxAttempts))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	if cfg.Region == "" {
		return nil, fmt.Errorf("load aws config: %w: region could not be resolved", s3proxy.ErrInvalidInput)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	})

	return client, nil
}
