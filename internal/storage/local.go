// Package storage stores uploaded objects on the local filesystem and serves
// them under a public URL prefix.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"medistore/internal/logging"
)

// ErrInvalidPath is returned for object paths that are empty, absolute or
// escape the bucket.
var ErrInvalidPath = errors.New("invalid object path")

// Local keeps objects for one bucket under root/bucket.
type Local struct {
	root    string
	bucket  string
	baseURL string
	logger  *zap.Logger
}

// NewLocal returns a store writing to root/bucket. Public URLs are
// baseURL + "/uploads/" + bucket + "/" + objectPath.
func NewLocal(root, bucket, baseURL string, logger *zap.Logger) *Local {
	return &Local{
		root:    root,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logging.OrNop(logger),
	}
}

// Upload writes r to objectPath and returns the stored path. Existing objects
// are replaced atomically.
func (l *Local) Upload(ctx context.Context, objectPath string, r io.Reader) (string, error) {
	clean, err := cleanObjectPath(objectPath)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dst := filepath.Join(l.root, l.bucket, filepath.FromSlash(clean))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return "", fmt.Errorf("create upload folder: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return "", err
	}
	n, err := io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("write object: %w", err)
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		_ = os.Remove(tmp.Name())
		return "", err
	}
	l.logger.Debug("storage: stored object", zap.String("bucket", l.bucket), zap.String("path", clean), zap.Int64("bytes", n))
	return clean, nil
}

// PublicURL returns the URL under which objectPath is served.
func (l *Local) PublicURL(objectPath string) string {
	return l.baseURL + "/uploads/" + l.bucket + "/" + strings.TrimLeft(objectPath, "/")
}

func cleanObjectPath(p string) (string, error) {
	p = strings.ReplaceAll(strings.TrimSpace(p), `\`, "/")
	if p == "" || strings.HasPrefix(p, "/") {
		return "", ErrInvalidPath
	}
	clean := path.Clean(p)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrInvalidPath
	}
	return clean, nil
}
