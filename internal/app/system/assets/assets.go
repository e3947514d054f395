// internal/app/system/assets/assets.go
//
// Package assets stores member photos with an external provider and hands
// back the public URL to save on the member record.
package assets

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxBytes bounds an uploaded photo when the uploader sets no limit.
const DefaultMaxBytes int64 = 10 << 20

var (
	// ErrNotImage is returned when the uploaded content is not an image.
	ErrNotImage = errors.New("uploaded file is not an image")
	// ErrTooLarge is returned when the upload exceeds the size limit.
	ErrTooLarge = errors.New("uploaded file is too large")
)

// Uploader stores one photo and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, filename string, r io.Reader) (string, error)
}

// image is an upload that passed the content checks.
type image struct {
	data        []byte
	contentType string
	ext         string
}

// readImage reads at most max bytes from r and checks that the content
// sniffs as an image.
func readImage(r io.Reader, max int64) (image, error) {
	if max <= 0 {
		max = DefaultMaxBytes
	}
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return image{}, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > max {
		return image{}, ErrTooLarge
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return image{}, ErrNotImage
	}
	return image{data: data, contentType: mt.String(), ext: mt.Extension()}, nil
}

func (im image) reader() io.Reader { return bytes.NewReader(im.data) }

// cleanName reduces a client filename to a safe object name fragment.
func cleanName(filename, ext string) string {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	base = strings.TrimSuffix(base, path.Ext(base))

	var b strings.Builder
	for _, r := range strings.ToLower(base) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ' || r == '.':
			b.WriteRune('-')
		}
	}
	name := strings.Trim(b.String(), "-")
	if name == "" {
		name = "photo"
	}
	if len(name) > 64 {
		name = name[:64]
	}
	return name + ext
}
