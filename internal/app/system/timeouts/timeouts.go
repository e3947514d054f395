// Package timeouts holds the deadlines used for outbound calls made while
// serving a request: members backend calls, photo uploads and health probes.
//
// Values start at the defaults below and may be changed at startup with
// Configure or ConfigureFromEnv.
//
//   - Ping: health probes against the backend and MongoDB
//   - Fetch: list and single-member reads
//   - Write: create, update and delete
//   - Upload: sending a photo to the asset provider
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing   = 2 * time.Second
	DefaultFetch  = 8 * time.Second
	DefaultWrite  = 10 * time.Second
	DefaultUpload = 45 * time.Second
)

// Config holds timeout values. Zero fields are ignored by Configure.
type Config struct {
	Ping   time.Duration
	Fetch  time.Duration
	Write  time.Duration
	Upload time.Duration
}

func defaults() Config {
	return Config{Ping: DefaultPing, Fetch: DefaultFetch, Write: DefaultWrite, Upload: DefaultUpload}
}

var (
	mu  sync.RWMutex
	cur = defaults()
)

// Ping is the deadline for a single health probe.
func Ping() time.Duration { return Current().Ping }

// Fetch is the deadline for reading members from the backend.
func Fetch() time.Duration { return Current().Fetch }

// Write is the deadline for create, update and delete calls.
func Write() time.Duration { return Current().Write }

// Upload is the deadline for a photo upload.
func Upload() time.Duration { return Current().Upload }

// Current returns the active configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cur
}

// Configure overrides the non-zero values of cfg.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	merge(&cur.Ping, cfg.Ping)
	merge(&cur.Fetch, cfg.Fetch)
	merge(&cur.Write, cfg.Write)
	merge(&cur.Upload, cfg.Upload)
}

// Reset restores the defaults. Tests use it.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	cur = defaults()
}

// ConfigureFromEnv reads PEOPLEDIR_TIMEOUT_PING, _FETCH, _WRITE and _UPLOAD
// (Go durations such as "750ms" or "1m"). Unset or invalid values are
// skipped. It returns how many values were applied.
func ConfigureFromEnv() int {
	mu.Lock()
	defer mu.Unlock()
	n := 0
	for name, dst := range map[string]*time.Duration{
		"PEOPLEDIR_TIMEOUT_PING":   &cur.Ping,
		"PEOPLEDIR_TIMEOUT_FETCH":  &cur.Fetch,
		"PEOPLEDIR_TIMEOUT_WRITE":  &cur.Write,
		"PEOPLEDIR_TIMEOUT_UPLOAD": &cur.Upload,
	} {
		d, err := time.ParseDuration(os.Getenv(name))
		if err == nil && d > 0 {
			*dst = d
			n++
		}
	}
	return n
}

func merge(dst *time.Duration, v time.Duration) {
	if v > 0 {
		*dst = v
	}
}

// WithTimeout is context.WithTimeout whose cancel func logs when the
// deadline was hit, naming the operation.
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
