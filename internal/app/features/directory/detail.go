// internal/app/features/directory/detail.go
package directory

import (
	"errors"
	"net/http"

	"github.com/dalemusser/peopledir/internal/app/roster"
	"github.com/dalemusser/peopledir/internal/app/system/membersclient"
	"github.com/dalemusser/peopledir/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ServeDetail selects a row and fetches that member from the backend, so
// the pane shows the latest stored record rather than the list copy.
// A later selection supersedes this one.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	vid, ok := h.visitor(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	s := h.States.Apply(vid, roster.RowSelected{ID: id})
	gen := s.DetailGen

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Fetch(), h.Log, "member detail")
	defer cancel()

	m, err := h.Members.Get(ctx, id)
	switch {
	case err == nil:
		s = h.States.Apply(vid, roster.DetailLoaded{Gen: gen, Member: m})
	case errors.Is(err, membersclient.ErrNotFound):
		h.Log.Info("member detail: not found", zap.String("id", id))
		s = h.States.Apply(vid, roster.DetailFailed{Gen: gen, NotFound: true})
	default:
		h.Log.Warn("member detail failed", zap.String("id", id), zap.Error(err))
		s = h.States.Apply(vid, roster.DetailFailed{Gen: gen})
	}
	h.respond(w, r, vid, s)
}

// HandleDetailClose clears the selection and restores the full table.
func (h *Handler) HandleDetailClose(w http.ResponseWriter, r *http.Request) {
	vid, ok := h.visitor(w, r)
	if !ok {
		return
	}
	h.respond(w, r, vid, h.States.Apply(vid, roster.DetailClosed{}))
}
