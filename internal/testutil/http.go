package testutil

import (
	"io"
	"net/http"
	"net/http/httptest"
)

// NewHTMXRequest creates a request as HTMX sends it when swapping the
// directory workspace.
func NewHTMXRequest(method, target string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("HX-Request", "true")
	req.Header.Set("HX-Target", "workspace")
	return req
}
