package s3proxy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"
)

// ObjectStore defines the read capability the gateway needs from a storage backend.
// Implementations can use S3, an S3-compatible service, the local filesystem, or any
// other key-addressed store.
type ObjectStore interface {
	// GetObject opens the object stored under key in bucket.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout
	//   - bucket: The bucket holding the object
	//   - key: The object key, as produced by ResolveKey
	//
	// Returns:
	//   - io.ReadCloser: Reader for the object content
	//   - error: ErrNotFound if the key does not exist, ErrConnection for transport
	//     failures, ErrStore for any other store failure
	//
	// The caller is responsible for closing the returned ReadCloser.
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// Gateway serves objects from a single bucket. It is immutable after construction
// and safe for concurrent use.
type Gateway struct {
	store  ObjectStore
	bucket string
}

func NewGateway(store ObjectStore, cfg Config) (*Gateway, error) {
	if store == nil {
		return nil, fmt.Errorf("new gateway: %w: store cannot be nil", ErrInvalidInput)
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("new gateway: %w: bucket cannot be empty", ErrInvalidInput)
	}
	return &Gateway{
		store:  store,
		bucket: cfg.Bucket,
	}, nil
}

// Bucket returns the bucket the gateway reads from.
func (g *Gateway) Bucket() string {
	return g.bucket
}

// Resolve returns the object key for a raw request path. See ResolveKey.
func (g *Gateway) Resolve(rawPath string) (string, error) {
	return ResolveKey(rawPath)
}

// Fetch retrieves the object stored under key and buffers its whole body.
//
// The returned error wraps exactly one of ErrNotFound, ErrConnection or ErrStore,
// or the context error when ctx is done. Nothing is retried here.
func (g *Gateway) Fetch(ctx context.Context, key string) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, fmt.Errorf("fetch %q: %w", key, err)
	}

	rc, err := g.store.GetObject(ctx, g.bucket, key)
	if err != nil {
		return Object{}, fmt.Errorf("fetch %q: %w", key, classifyStoreError(err))
	}
	defer func() {
		if closeErr := rc.Close(); closeErr != nil {
			slog.Warn("failed to close object body", "key", key, "err", closeErr)
		}
	}()

	body, err := io.ReadAll(rc)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Object{}, fmt.Errorf("fetch %q: %w", key, ctxErr)
		}
		return Object{}, fmt.Errorf("fetch %q: %w: %w", key, ErrConnection, err)
	}

	return Object{
		Key:         key,
		ContentType: ContentType(key),
		Body:        body,
	}, nil
}

// Get resolves rawPath and fetches the object it addresses.
func (g *Gateway) Get(ctx context.Context, rawPath string) (Object, error) {
	key, err := g.Resolve(rawPath)
	if err != nil {
		return Object{}, fmt.Errorf("get object: %w", err)
	}

	obj, err := g.Fetch(ctx, key)
	if err != nil {
		return Object{}, fmt.Errorf("get object: %w", err)
	}

	return obj, nil
}

// Index fetches the root index document and returns it as text.
// It returns ErrNotText when the stored document is not valid UTF-8.
func (g *Gateway) Index(ctx context.Context) (string, error) {
	obj, err := g.Fetch(ctx, IndexDocument)
	if err != nil {
		return "", fmt.Errorf("get index: %w", err)
	}

	if !utf8.Valid(obj.Body) {
		return "", fmt.Errorf("get index %q: %w", obj.Key, ErrNotText)
	}

	return string(obj.Body), nil
}

// classifyStoreError makes sure every store failure carries one of the fetch
// sentinels. Errors from stores that do not classify themselves become ErrStore.
func classifyStoreError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrConnection),
		errors.Is(err, ErrStore),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrStore, err)
	}
}
