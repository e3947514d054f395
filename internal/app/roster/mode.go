// internal/app/roster/mode.go
package roster

// Kind tags the view mode.
type Kind int

const (
	Browsing Kind = iota
	Viewing
	Editing
	Creating
)

func (k Kind) String() string {
	switch k {
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	case Creating:
		return "creating"
	default:
		return "browsing"
	}
}

// Mode is what the directory workspace is showing.
//
// ID is the record being viewed (Viewing) or edited (Editing). Over is set
// only while a form is open and names the record whose detail view the form
// was opened over; closing the form returns to that detail.
type Mode struct {
	Kind Kind
	ID   string
	Over string
}

// BrowsingMode is the table alone.
func BrowsingMode() Mode { return Mode{Kind: Browsing} }

// ViewingMode shows the detail of one record next to the table.
func ViewingMode(id string) Mode { return Mode{Kind: Viewing, ID: id} }

// EditingMode opens the edit form for id, over the detail of over (may be "").
func EditingMode(id, over string) Mode { return Mode{Kind: Editing, ID: id, Over: over} }

// CreatingMode opens the create form, over the detail of over (may be "").
func CreatingMode(over string) Mode { return Mode{Kind: Creating, Over: over} }

// FormOpen reports whether a create or edit form is showing.
func (m Mode) FormOpen() bool {
	return m.Kind == Editing || m.Kind == Creating
}

// DetailID is the record whose detail view is showing, or "".
func (m Mode) DetailID() string {
	switch m.Kind {
	case Viewing:
		return m.ID
	case Editing, Creating:
		return m.Over
	}
	return ""
}

// Underneath is the mode a form returns to when it closes.
func (m Mode) Underneath() Mode {
	if !m.FormOpen() {
		return m
	}
	if m.Over != "" {
		return ViewingMode(m.Over)
	}
	return BrowsingMode()
}

// ColumnMode selects the table's column set.
type ColumnMode int

const (
	Full ColumnMode = iota
	Reduced
)

// Columns is derived from the mode: Reduced while a detail view is showing.
func (m Mode) Columns() ColumnMode {
	if m.DetailID() != "" {
		return Reduced
	}
	return Full
}

// Column is one table column.
type Column string

const (
	ColPhoto   Column = "photo"
	ColName    Column = "name"
	ColStatus  Column = "status"
	ColRole    Column = "role"
	ColEmail   Column = "email"
	ColTeams   Column = "teams"
	ColActions Column = "actions"
)

var (
	fullColumns    = []Column{ColPhoto, ColName, ColStatus, ColRole, ColEmail, ColTeams, ColActions}
	reducedColumns = []Column{ColPhoto, ColName, ColStatus}
)

// ColumnSet lists the columns for cm.
func ColumnSet(cm ColumnMode) []Column {
	if cm == Reduced {
		return append([]Column(nil), reducedColumns...)
	}
	return append([]Column(nil), fullColumns...)
}
