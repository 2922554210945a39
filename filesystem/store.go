// Package filesystem provides a local directory backend for s3proxy.
// Each bucket is a top-level directory under the root and keys are paths
// inside it. All access goes through os.Root, so keys cannot escape the root.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/sagarc03/s3proxy"
)

// Store provides read access to objects on the local file system.
type Store struct {
	root *os.Root
}

// NewStore creates a new Store with the given root directory.
// The root provides sandboxed file operations preventing path traversal.
func NewStore(root *os.Root) *Store {
	return &Store{root: root}
}

// GetObject opens the file for key inside the bucket directory.
// Returns s3proxy.ErrNotFound if the file does not exist or is a directory.
func (s *Store) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := filepath.FromSlash(path.Join(bucket, key))

	f, err := s.root.Open(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("open %s: %w", key, s3proxy.ErrNotFound)
		}
		return nil, fmt.Errorf("open %s: %w: %w", key, s3proxy.ErrStore, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat %s: %w: %w", key, s3proxy.ErrStore, err)
	}

	if info.IsDir() {
		_ = f.Close()
		return nil, fmt.Errorf("open %s: %w: is a directory", key, s3proxy.ErrNotFound)
	}

	return &ctxReader{ctx: ctx, f: f}, nil
}

type ctxReader struct {
	ctx context.Context
	f   *os.File
}

func (r *ctxReader) Read(p []byte) (n int, err error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.f.Read(p)
}

func (r *ctxReader) Close() error {
	return r.f.Close()
}
