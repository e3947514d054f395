// internal/app/roster/state.go
package roster

import "github.com/dalemusser/peopledir/internal/domain/models"

// State is everything the directory workspace shows for one visitor.
// It only changes through Update.
type State struct {
	Store    Store
	Criteria Criteria
	Mode     Mode
	Detail   Detail
	Form     Form
	Loading  bool
	Notice   string

	// One generation per asynchronous operation. A response carrying an
	// older generation belongs to a superseded request.
	LoadGen   uint64
	DetailGen uint64
	UploadGen uint64
	SubmitGen uint64
}

// Detail is the detail pane. Member is nil until the fetch completes.
type Detail struct {
	ID       string
	Member   *models.Member
	Loading  bool
	NotFound bool
	Err      string
}

// Form is the open create or edit form.
type Form struct {
	Input         FormInput
	Errors        ValidationErrors
	ExistingPhoto string
	PendingPhoto  string
	Uploading     bool
	Submitting    bool
}

// Photo is the photo the form would submit right now.
func (f Form) Photo() string {
	return MergePhoto(f.PendingPhoto, f.ExistingPhoto)
}

// Visible is the filtered member list, in store order.
func Visible(s State) []models.Member {
	return Apply(s.Store.All(), s.Criteria)
}

// Columns is the table's column set for s.
func Columns(s State) []Column {
	return ColumnSet(s.Mode.Columns())
}
