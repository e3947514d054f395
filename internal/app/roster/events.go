// internal/app/roster/events.go
package roster

import "github.com/dalemusser/peopledir/internal/domain/models"

// Event is something that happened to the directory: user input or the
// result of a backend or upload call.
type Event interface{ event() }

// List load.
type (
	LoadStarted struct{}
	Loaded      struct {
		Gen     uint64
		Members []models.Member
	}
	LoadFailed struct {
		Gen uint64
		Err string
	}
)

// CriteriaChanged replaces the search and filter criteria.
type CriteriaChanged struct{ Criteria Criteria }

// Detail view.
type (
	RowSelected  struct{ ID string }
	DetailLoaded struct {
		Gen    uint64
		Member models.Member
	}
	DetailFailed struct {
		Gen      uint64
		NotFound bool
		Err      string
	}
	DetailClosed struct{}
)

// Form lifecycle.
type (
	AddRequested  struct{}
	EditRequested struct{ ID string }
	FormClosed    struct{}
)

// Photo upload.
type (
	UploadStarted struct{}
	PhotoUploaded struct {
		Gen uint64
		URL string
	}
	UploadFailed struct {
		Gen uint64
		Err string
	}
)

// Submit.
type (
	SubmitRejected struct {
		Input  FormInput
		Errors ValidationErrors
	}
	SubmitStarted   struct{ Input FormInput }
	SubmitSucceeded struct {
		Gen uint64
		// ID is the record that was updated; "" for a create.
		ID     string
		Member models.Member
	}
	SubmitFailed struct {
		Gen uint64
		Err string
	}
)

// Delete.
type (
	Deleted      struct{ ID string }
	DeleteFailed struct {
		ID  string
		Err string
	}
)

// NoticeShown clears the notice once it has been rendered. Text is the
// notice that was rendered; a different notice raised since then stays.
type NoticeShown struct{ Text string }

func (LoadStarted) event()     {}
func (Loaded) event()          {}
func (LoadFailed) event()      {}
func (CriteriaChanged) event() {}
func (RowSelected) event()     {}
func (DetailLoaded) event()    {}
func (DetailFailed) event()    {}
func (DetailClosed) event()    {}
func (AddRequested) event()    {}
func (EditRequested) event()   {}
func (FormClosed) event()      {}
func (UploadStarted) event()   {}
func (PhotoUploaded) event()   {}
func (UploadFailed) event()    {}
func (SubmitRejected) event()  {}
func (SubmitStarted) event()   {}
func (SubmitSucceeded) event() {}
func (SubmitFailed) event()    {}
func (Deleted) event()         {}
func (DeleteFailed) event()    {}
func (NoticeShown) event()     {}
