// internal/app/features/directory/delete.go
package directory

import (
	"errors"
	"net/http"

	errorsfeature "github.com/dalemusser/peopledir/internal/app/features/errors"
	"github.com/dalemusser/peopledir/internal/app/roster"
	"github.com/dalemusser/peopledir/internal/app/system/membersclient"
	"github.com/dalemusser/peopledir/internal/app/system/timeouts"
	"github.com/dalemusser/peopledir/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type deleteVM struct {
	viewdata.BaseVM
	ID   string
	Name string
}

// ServeDeleteConfirm asks before deleting. HTMX gets the prompt as a
// snippet; a plain request gets it as a page.
func (h *Handler) ServeDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	vid, ok := h.visitor(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	m, found := h.States.Snapshot(vid).Store.Get(id)
	if !found {
		if isHTMX(r) {
			errorsfeature.RenderHTMXNotice(w, "That member is not in the list any more.")
			return
		}
		errorsfeature.RenderNotFound(w, r, "That member is not in the list any more.", "/directory")
		return
	}

	data := deleteVM{
		BaseVM: viewdata.NewBaseVM(r, "Delete member", "/directory"),
		ID:     m.ID,
		Name:   m.Name,
	}
	if isHTMX(r) {
		templates.RenderSnippet(w, "directory_delete_confirm", data)
		return
	}
	templates.Render(w, r, "directory_delete_page", data)
}

// HandleDelete deletes the member on the backend, then drops it from the
// store. Any failure, a 404 included, leaves the store as it was and raises
// a notice.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	vid, ok := h.visitor(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "member delete")
	defer cancel()

	var s roster.State
	err := h.Members.Delete(ctx, id)
	switch {
	case err == nil:
		s = h.States.Apply(vid, roster.Deleted{ID: id})
	case errors.Is(err, membersclient.ErrNotFound):
		h.Log.Info("member delete: not found on backend", zap.String("id", id))
		s = h.States.Apply(vid, roster.DeleteFailed{ID: id, Err: "This member no longer exists."})
	default:
		h.Log.Warn("member delete failed", zap.String("id", id), zap.Error(err))
		s = h.States.Apply(vid, roster.DeleteFailed{ID: id})
	}
	h.respond(w, r, vid, s)
}
