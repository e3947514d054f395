// internal/app/features/directory/handler.go
package directory

import (
	"context"
	"net/http"

	errorsfeature "github.com/dalemusser/peopledir/internal/app/features/errors"
	"github.com/dalemusser/peopledir/internal/app/roster"
	"github.com/dalemusser/peopledir/internal/app/system/assets"
	"github.com/dalemusser/peopledir/internal/app/system/viewstate"
	"github.com/dalemusser/peopledir/internal/domain/models"
	"go.uber.org/zap"
)

// Members is the slice of the members backend the directory uses.
// *membersclient.Client satisfies it.
type Members interface {
	List(ctx context.Context) ([]models.Member, error)
	Get(ctx context.Context, id string) (models.Member, error)
	Create(ctx context.Context, m models.Member) (models.Member, error)
	Update(ctx context.Context, id string, m models.Member) (models.Member, error)
	Delete(ctx context.Context, id string) error
}

// Handler serves the directory workspace: the member table, the detail
// pane and the create/edit form. Each visitor's workspace lives in States
// and only changes through roster events.
type Handler struct {
	Members  Members
	Uploader assets.Uploader
	States   *viewstate.Registry
	ErrLog   *errorsfeature.ErrorLogger
	Log      *zap.Logger

	// MaxUpload bounds a photo upload request body.
	MaxUpload int64
}

// NewHandler wires a directory handler.
func NewHandler(members Members, uploader assets.Uploader, states *viewstate.Registry, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Members:   members,
		Uploader:  uploader,
		States:    states,
		ErrLog:    errLog,
		Log:       logger,
		MaxUpload: assets.DefaultMaxBytes,
	}
}

// visitor returns the visitor id set by the session middleware. Without one
// there is no workspace to act on.
func (h *Handler) visitor(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := viewstate.Visitor(r.Context())
	if !ok {
		h.ErrLog.LogServerError(w, r, "directory request without visitor id", nil,
			"Your session could not be found. Please reload the page.", "/")
		return "", false
	}
	return id, true
}

// isHTMX reports whether r is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") != ""
}

// respond finishes a partial route. HTMX gets the swapped fragment; a plain
// browser request is sent back to the full page, which reflects the new
// state.
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, vid string, s roster.State) {
	if !isHTMX(r) {
		http.Redirect(w, r, "/directory", http.StatusSeeOther)
		return
	}
	h.renderWorkspace(w, r, vid, s)
}
