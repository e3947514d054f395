// internal/app/system/assets/local.go
package assets

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Local writes photos to a directory on disk that the app serves itself
// (by default public/photos, served under /static/photos).
type Local struct {
	Dir      string
	BaseURL  string
	MaxBytes int64
	Log      *zap.Logger
}

// NewLocal creates dir if needed and returns an uploader writing into it.
func NewLocal(dir, baseURL string, maxBytes int64, logger *zap.Logger) (*Local, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create photo dir: %w", err)
	}
	return &Local{
		Dir:      dir,
		BaseURL:  strings.TrimRight(baseURL, "/"),
		MaxBytes: maxBytes,
		Log:      logger,
	}, nil
}

// Upload stores the photo as <uuid>-<name> and returns BaseURL/<file>.
func (l *Local) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	im, err := readImage(r, l.MaxBytes)
	if err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := uuid.NewString()[:8] + "-" + cleanName(filename, im.ext)
	if err := os.WriteFile(filepath.Join(l.Dir, name), im.data, 0o644); err != nil {
		l.Log.Warn("local photo write failed", zap.String("dir", l.Dir), zap.Error(err))
		return "", fmt.Errorf("local: write %s: %w", name, err)
	}
	return l.BaseURL + "/" + name, nil
}
