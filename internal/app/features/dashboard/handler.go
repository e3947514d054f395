// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"

	errorsfeature "github.com/dalemusser/peopledir/internal/app/features/errors"
	"github.com/dalemusser/peopledir/internal/app/system/timeouts"
	"github.com/dalemusser/peopledir/internal/app/system/viewdata"
	"github.com/dalemusser/peopledir/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"

	// registers the dashboard template set
	_ "github.com/dalemusser/peopledir/internal/app/features/dashboard/views"
)

// Lister lists every member. *membersclient.Client satisfies it.
type Lister interface {
	List(ctx context.Context) ([]models.Member, error)
}

type Handler struct {
	Members Lister
	ErrLog  *errorsfeature.ErrorLogger
	Log     *zap.Logger
}

func NewHandler(members Lister, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Members: members,
		ErrLog:  errLog,
		Log:     logger,
	}
}

// ServeDashboard shows directory totals computed from a fresh member list.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Fetch(), h.Log, "dashboard members list")
	defer cancel()

	members, err := h.Members.List(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "dashboard: list members", err,
			"The directory could not be reached. Please try again.", "/")
		return
	}

	templates.Render(w, r, "dashboard_view", dashboardData{
		BaseVM:  viewdata.NewBaseVM(r, "Dashboard", "/"),
		Summary: summarize(members),
	})
}
