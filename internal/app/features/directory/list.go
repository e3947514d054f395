// internal/app/features/directory/list.go
package directory

import (
	"net/http"

	"github.com/dalemusser/peopledir/internal/app/roster"
	"github.com/dalemusser/peopledir/internal/app/system/normalize"
	"github.com/dalemusser/peopledir/internal/app/system/timeouts"
	"github.com/dalemusser/peopledir/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ServePage renders the directory. Every page load refreshes the member
// list from the backend; the rest of the workspace (criteria, detail, form)
// carries over.
func (h *Handler) ServePage(w http.ResponseWriter, r *http.Request) {
	vid, ok := h.visitor(w, r)
	if !ok {
		return
	}

	s := h.States.Apply(vid, roster.LoadStarted{})
	gen := s.LoadGen

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Fetch(), h.Log, "members list")
	defer cancel()

	members, err := h.Members.List(ctx)
	if err != nil {
		h.Log.Warn("load members failed", zap.String("visitor", vid), zap.Error(err))
		s = h.States.Apply(vid, roster.LoadFailed{Gen: gen})
	} else {
		s = h.States.Apply(vid, roster.Loaded{Gen: gen, Members: members})
	}

	if isHTMX(r) {
		h.renderWorkspace(w, r, vid, s)
		return
	}
	templates.Render(w, r, "directory_page", buildWorkspace(pageBase(r), s))
	h.noticeShown(vid, s)
}

// HandleCriteria applies the search box and the role/team filters.
func (h *Handler) HandleCriteria(w http.ResponseWriter, r *http.Request) {
	vid, ok := h.visitor(w, r)
	if !ok {
		return
	}
	s := h.States.Apply(vid, roster.CriteriaChanged{Criteria: criteriaFrom(r)})
	h.respond(w, r, vid, s)
}

func criteriaFrom(r *http.Request) roster.Criteria {
	q := r.URL.Query()
	return roster.Criteria{
		Query: normalize.QueryParam(q.Get("q")),
		Roles: normalize.FilterValues(q["role"]),
		Teams: normalize.FilterValues(q["team"]),
	}
}

// renderWorkspace writes the fragment HTMX asked for. Requests targeting
// the table wrapper get only the table; everything else gets the whole
// workspace, notice included.
func (h *Handler) renderWorkspace(w http.ResponseWriter, r *http.Request, vid string, s roster.State) {
	data := buildWorkspace(pageBase(r), s)
	if r.Header.Get("HX-Target") == "table-wrap" {
		templates.RenderSnippet(w, "directory_table", data)
		return
	}
	templates.RenderSnippet(w, "directory_workspace", data)
	h.noticeShown(vid, s)
}

func pageBase(r *http.Request) viewdata.BaseVM {
	return viewdata.NewBaseVM(r, "Directory", "/dashboard")
}

// noticeShown clears the notice s rendered, unless a newer one replaced it.
func (h *Handler) noticeShown(vid string, s roster.State) {
	if s.Notice != "" {
		h.States.Apply(vid, roster.NoticeShown{Text: s.Notice})
	}
}
