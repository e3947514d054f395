// internal/app/system/viewstate/sessions.go
package viewstate

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const visitorKey = "visitor_id"

type ctxKey struct{}

// Sessions gives every browser a stable visitor id stored in a signed
// cookie. The id keys the visitor's directory state in the Registry.
type Sessions struct {
	store *sessions.CookieStore
	name  string
	log   *zap.Logger
}

// NewSessions builds the cookie store. An empty key gets a random one,
// which means visitor ids do not survive a restart; use that only in dev.
func NewSessions(key, name, domain string, secure bool, logger *zap.Logger) (*Sessions, error) {
	if name == "" {
		return nil, errors.New("session name is empty")
	}
	keyBytes := []byte(key)
	switch {
	case key == "":
		keyBytes = securecookie.GenerateRandomKey(32)
		if keyBytes == nil {
			return nil, fmt.Errorf("generate session key: no randomness available")
		}
		logger.Warn("session_key not set; using a random key, visitor state resets on restart")
	case len(key) < 32:
		logger.Warn("session key is short; 32+ chars recommended", zap.Int("length", len(key)))
	}

	store := sessions.NewCookieStore(keyBytes)
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		MaxAge:   86400 * 7,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: store, name: name, log: logger}, nil
}

// VisitorID returns the visitor id for r, issuing and saving a new one on
// the response when the request has none (or an unreadable cookie).
func (s *Sessions) VisitorID(w http.ResponseWriter, r *http.Request) (string, error) {
	sess, err := s.store.Get(r, s.name)
	if err != nil {
		var scErr securecookie.Error
		if errors.As(err, &scErr) && scErr.IsDecode() {
			s.log.Debug("visitor cookie invalid, issuing a new one", zap.Error(err))
		} else {
			s.log.Warn("visitor session read failed", zap.Error(err))
		}
	}
	if id, ok := sess.Values[visitorKey].(string); ok && id != "" {
		return id, nil
	}

	id := uuid.NewString()
	sess.Values[visitorKey] = id
	if err := sess.Save(r, w); err != nil {
		return "", fmt.Errorf("save visitor session: %w", err)
	}
	return id, nil
}

// Middleware resolves the visitor id and stores it in the request context.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := s.VisitorID(w, r)
		if err != nil {
			s.log.Error("visitor id", zap.Error(err))
			http.Error(w, "Could not start a session.", http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithVisitor(r.Context(), id)))
	})
}

// WithVisitor returns ctx carrying the visitor id.
func WithVisitor(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// Visitor returns the visitor id set by Middleware.
func Visitor(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}
