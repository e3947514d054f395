// internal/app/system/viewstate/csrf.go
package viewstate

import (
	"crypto/sha256"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
)

// CSRF protects the directory's state-changing routes. The token travels in
// a form field for plain posts and in the X-CSRF-Token header for HTMX.
// The key is derived from the session key; a blank session key gets a
// random one.
func CSRF(sessionKey string, secure bool, logger *zap.Logger) func(http.Handler) http.Handler {
	var key []byte
	if sessionKey == "" {
		key = securecookie.GenerateRandomKey(32)
	} else {
		sum := sha256.Sum256([]byte("csrf:" + sessionKey))
		key = sum[:]
	}

	protect := csrf.Protect(key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logger.Warn("csrf check failed",
				zap.String("path", r.URL.Path),
				zap.Error(csrf.FailureReason(r)))
			http.Error(w, "Your form expired. Please reload the page and try again.", http.StatusForbidden)
		})),
	)

	return func(next http.Handler) http.Handler {
		h := protect(next)
		if secure {
			return h
		}
		// Over plain HTTP (dev) the origin check must not assume TLS.
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}
