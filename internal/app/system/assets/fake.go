// internal/app/system/assets/fake.go
package assets

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Fake is an in-memory Uploader for tests and local runs without a
// provider. It applies the same image checks as the real uploaders.
type Fake struct {
	BaseURL string
	Err     error

	mu    sync.Mutex
	count int
	names []string
}

// Upload records the file and returns BaseURL/<n>-<name>.
func (f *Fake) Upload(_ context.Context, filename string, r io.Reader) (string, error) {
	if f.Err != nil {
		return "", f.Err
	}
	im, err := readImage(r, 0)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count++
	name := cleanName(filename, im.ext)
	f.names = append(f.names, name)
	return fmt.Sprintf("%s/%d-%s", f.BaseURL, f.count, name), nil
}

// Uploaded lists the stored names in upload order.
func (f *Fake) Uploaded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.names...)
}
