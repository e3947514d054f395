// internal/app/system/membersclient/client.go
//
// Package membersclient talks to the members REST backend:
//
//	GET    /api/members        list
//	GET    /api/members/{id}   one member
//	POST   /api/members        create (payload without id)
//	PUT    /api/members/{id}   update
//	DELETE /api/members/{id}   delete
//
// Failures are never retried.
package membersclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dalemusser/peopledir/internal/domain/models"
	"go.uber.org/zap"
)

// ErrNotFound is returned when the backend answers 404 for a single member.
var ErrNotFound = errors.New("member not found")

// NetworkError is a failed request: the transport failed (Status 0) or the
// backend answered with a non-2xx status.
type NetworkError struct {
	Op     string
	Status int
	Err    error
}

func (e *NetworkError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("members %s: status %d: %v", e.Op, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("members %s: backend returned %d", e.Op, e.Status)
	}
	return fmt.Sprintf("members %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// maxBody bounds how much of a backend response is read.
const maxBody = 8 << 20

// Client is a members API client. The zero HTTP uses http.DefaultClient.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Log     *zap.Logger
}

// New returns a client for the backend rooted at baseURL
// (for example "http://localhost:8080").
func New(baseURL string, hc *http.Client, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    hc,
		Log:     logger,
	}
}

// List fetches every member.
func (c *Client) List(ctx context.Context) ([]models.Member, error) {
	var out []models.Member
	if err := c.do(ctx, "list", http.MethodGet, c.collection(), nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Member{}
	}
	return out, nil
}

// Get fetches one member. It returns ErrNotFound for an unknown id.
func (c *Client) Get(ctx context.Context, id string) (models.Member, error) {
	var m models.Member
	err := c.do(ctx, "get", http.MethodGet, c.item(id), nil, &m)
	return m, err
}

// Create posts m without its id and returns the stored member.
func (c *Client) Create(ctx context.Context, m models.Member) (models.Member, error) {
	m.ID = ""
	var out models.Member
	err := c.do(ctx, "create", http.MethodPost, c.collection(), m, &out)
	return out, err
}

// Update replaces the member stored under id and returns the stored member.
func (c *Client) Update(ctx context.Context, id string, m models.Member) (models.Member, error) {
	m.ID = id
	var out models.Member
	err := c.do(ctx, "update", http.MethodPut, c.item(id), m, &out)
	return out, err
}

// Delete removes the member stored under id.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, "delete", http.MethodDelete, c.item(id), nil, nil)
}

// Ping checks that the list endpoint answers 2xx.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, "ping", http.MethodGet, c.collection(), nil, nil)
}

func (c *Client) collection() string { return c.BaseURL + "/api/members" }

func (c *Client) item(id string) string {
	return c.collection() + "/" + url.PathEscape(id)
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) do(ctx context.Context, op, method, target string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("members %s: encode: %w", op, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		c.Log.Warn("members request failed",
			zap.String("op", op), zap.String("url", target), zap.Error(err))
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound && op != "list" && op != "ping" {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.Log.Warn("members backend error",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.String("body", strings.TrimSpace(string(snippet))))
		return &NetworkError{Op: op, Status: resp.StatusCode}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))
		return nil
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(out); err != nil {
		c.Log.Warn("members response decode failed", zap.String("op", op), zap.Error(err))
		return &NetworkError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}
