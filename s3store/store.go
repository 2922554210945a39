// Package s3store provides an Amazon S3 backend for s3proxy.
// It works with AWS S3 and S3-compatible services such as MinIO, and maps
// SDK failures onto the s3proxy fetch errors.
package s3store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"github.com/sagarc03/s3proxy"
)

// GetObjectAPI is the subset of *s3.Client used by Store.
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Store reads objects from S3.
type Store struct {
	client GetObjectAPI
}

// NewStore creates a Store that issues requests through client.
func NewStore(client GetObjectAPI) *Store {
	return &Store{client: client}
}

// GetObject opens the object stored under key in bucket.
// The returned error wraps s3proxy.ErrNotFound, s3proxy.ErrConnection or s3proxy.ErrStore.
func (s *Store) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, classifyError(err)
	}
	if out.Body == nil {
		return http.NoBody, nil
	}
	return out.Body, nil
}

func classifyError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return fmt.Errorf("%w: %w", s3proxy.ErrNotFound, err)
	}

	var sendErr *smithyhttp.RequestSendError
	if errors.As(err, &sendErr) {
		return fmt.Errorf("%w: %w", s3proxy.ErrConnection, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return fmt.Errorf("%w: %w", s3proxy.ErrNotFound, err)
		default:
			return fmt.Errorf("%w: %w", s3proxy.ErrStore, err)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", s3proxy.ErrConnection, err)
	}

	return fmt.Errorf("%w: %w", s3proxy.ErrStore, err)
}
