// internal/app/features/directory/types.go
package directory

import (
	"slices"
	"strings"
	"unicode"

	"github.com/dalemusser/peopledir/internal/app/roster"
	"github.com/dalemusser/peopledir/internal/app/system/viewdata"
	"github.com/dalemusser/peopledir/internal/domain/models"
)

var columnLabels = map[roster.Column]string{
	roster.ColPhoto:   "",
	roster.ColName:    "Name",
	roster.ColStatus:  "Status",
	roster.ColRole:    "Role",
	roster.ColEmail:   "Email",
	roster.ColTeams:   "Teams",
	roster.ColActions: "",
}

type columnVM struct {
	Key   string
	Label string
}

type rowVM struct {
	ID       string
	Name     string
	Status   string
	Active   bool
	Role     string
	Email    string
	Teams    string
	Tone     string
	Photo    string
	Initials string
	Selected bool
}

type facetVM struct {
	Value   string
	Checked bool
}

type detailVM struct {
	CSRFToken string
	ID        string
	Loading   bool
	NotFound  bool
	Err       string
	Member    *models.Member
	Tone      string
	Initials  string
}

type formVM struct {
	CSRFToken     string
	Title         string
	Editing       bool
	Input         roster.FormInput
	Errors        roster.ValidationErrors
	PhotoField    photoVM
	Uploading     bool
	Submitting    bool
	StatusOptions []string
}

// photoVM backs the photo field fragment swapped after an upload.
type photoVM struct {
	Photo string
	Err   string
}

// workspaceData is the view model for the whole directory workspace.
type workspaceData struct {
	viewdata.BaseVM
	Notice  string
	Loading bool

	Query    string
	Roles    []facetVM
	Teams    []facetVM
	Filtered bool

	Columns []columnVM
	Show    map[string]bool
	Reduced bool
	Rows    []rowVM
	Total   int
	Shown   int

	Detail *detailVM
	Form   *formVM
}

func buildWorkspace(base viewdata.BaseVM, s roster.State) workspaceData {
	visible := roster.Visible(s)
	cols := roster.Columns(s)
	selected := s.Mode.DetailID()

	data := workspaceData{
		BaseVM:   base,
		Notice:   s.Notice,
		Loading:  s.Loading,
		Query:    s.Criteria.Query,
		Filtered: !s.Criteria.IsZero(),
		Show:     make(map[string]bool, len(cols)),
		Reduced:  s.Mode.Columns() == roster.Reduced,
		Total:    s.Store.Len(),
		Shown:    len(visible),
	}

	for _, c := range cols {
		data.Columns = append(data.Columns, columnVM{Key: string(c), Label: columnLabels[c]})
		data.Show[string(c)] = true
	}

	roles, teams := roster.Facets(s.Store.All())
	data.Roles = facets(roles, s.Criteria.Roles)
	data.Teams = facets(teams, s.Criteria.Teams)

	data.Rows = make([]rowVM, 0, len(visible))
	for _, m := range visible {
		data.Rows = append(data.Rows, rowVM{
			ID:       m.ID,
			Name:     m.Name,
			Status:   m.Status,
			Active:   strings.EqualFold(m.Status, models.StatusActive),
			Role:     m.Role,
			Email:    m.Email,
			Teams:    m.Teams,
			Tone:     roster.TeamTone(m.Teams),
			Photo:    m.ProfilePhoto,
			Initials: initials(m.Name),
			Selected: m.ID == selected,
		})
	}

	if selected != "" {
		d := s.Detail
		dv := &detailVM{
			CSRFToken: base.CSRFToken,
			ID:        selected,
			Loading:   d.Loading,
			NotFound:  d.NotFound,
			Err:       d.Err,
			Member:    d.Member,
		}
		if d.Member != nil {
			dv.Tone = roster.TeamTone(d.Member.Teams)
			dv.Initials = initials(d.Member.Name)
		}
		data.Detail = dv
	}

	if s.Mode.FormOpen() {
		data.Form = buildForm(s)
		data.Form.CSRFToken = base.CSRFToken
	}
	return data
}

func buildForm(s roster.State) *formVM {
	f := &formVM{
		Title:         "Add member",
		Editing:       s.Mode.Kind == roster.Editing,
		Input:         s.Form.Input,
		Errors:        s.Form.Errors,
		PhotoField:    photoVM{Photo: s.Form.Photo()},
		Uploading:     s.Form.Uploading,
		Submitting:    s.Form.Submitting,
		StatusOptions: []string{models.StatusActive, models.StatusInactive},
	}
	if f.Editing {
		f.Title = "Edit member"
	}
	// Keep a free-text status the backend sent us selectable.
	if st := s.Form.Input.Status; st != "" && !slices.Contains(f.StatusOptions, st) {
		f.StatusOptions = append(f.StatusOptions, st)
	}
	return f
}

func facets(values, checked []string) []facetVM {
	out := make([]facetVM, 0, len(values))
	for _, v := range values {
		out = append(out, facetVM{Value: v, Checked: slices.Contains(checked, v)})
	}
	return out
}

// initials is the avatar fallback: first letter of the first two words.
func initials(name string) string {
	var out []rune
	for _, w := range strings.Fields(name) {
		out = append(out, unicode.ToUpper([]rune(w)[0]))
		if len(out) == 2 {
			break
		}
	}
	if len(out) == 0 {
		return "?"
	}
	return string(out)
}
