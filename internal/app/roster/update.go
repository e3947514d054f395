// internal/app/roster/update.go
package roster

import "github.com/dalemusser/peopledir/internal/domain/models"

// Notices shown when an operation fails without a more specific message.
const (
	noticeLoad    = "Could not load the member list."
	noticeDetail  = "Could not load this member."
	noticeGone    = "This member no longer exists."
	noticeUpload  = "The photo could not be uploaded."
	noticeSave    = "The member could not be saved."
	noticeDelete  = "The member could not be deleted."
	noticeMissing = "That member is not in the list any more."
)

// Update applies e to s and returns the new state. It is the only way the
// directory state changes. Responses whose generation is older than the
// current one for their operation are ignored.
func Update(s State, e Event) State {
	switch e := e.(type) {

	case LoadStarted:
		s.LoadGen++
		s.Loading = true

	case Loaded:
		if e.Gen != s.LoadGen {
			return s
		}
		s.Store = NewStore(e.Members)
		s.Loading = false

	case LoadFailed:
		if e.Gen != s.LoadGen {
			return s
		}
		s.Loading = false
		s.Notice = orDefault(e.Err, noticeLoad)

	case CriteriaChanged:
		s.Criteria = e.Criteria

	case RowSelected:
		if e.ID == "" {
			return s
		}
		s.DetailGen++
		d := Detail{ID: e.ID, Loading: true}
		if s.Detail.ID == e.ID {
			d.Member = s.Detail.Member // keep showing the last fetch while refreshing
		}
		s.Detail = d
		if s.Mode.FormOpen() {
			s.Mode.Over = e.ID
		} else {
			s.Mode = ViewingMode(e.ID)
		}

	case DetailLoaded:
		if e.Gen != s.DetailGen || s.Mode.DetailID() == "" {
			return s
		}
		m := e.Member
		s.Detail.Member = &m
		s.Detail.Loading = false
		s.Detail.NotFound = false
		s.Detail.Err = ""

	case DetailFailed:
		if e.Gen != s.DetailGen || s.Mode.DetailID() == "" {
			return s
		}
		s.Detail.Loading = false
		s.Detail.NotFound = e.NotFound
		if e.NotFound {
			s.Detail.Member = nil
			s.Detail.Err = noticeGone
		} else {
			s.Detail.Err = orDefault(e.Err, noticeDetail)
		}
		s.Notice = s.Detail.Err

	case DetailClosed:
		s = closeDetail(s)

	case AddRequested:
		s = openForm(s, CreatingMode(s.Mode.DetailID()), Form{
			Input: FormInput{Status: models.StatusActive},
		})

	case EditRequested:
		m, ok := s.Store.Get(e.ID)
		if !ok {
			s.Notice = noticeMissing
			return s
		}
		s = openForm(s, EditingMode(e.ID, s.Mode.DetailID()), Form{
			Input:         InputFrom(m),
			ExistingPhoto: m.ProfilePhoto,
		})

	case FormClosed:
		s = closeForm(s)

	case UploadStarted:
		if !s.Mode.FormOpen() {
			return s
		}
		s.UploadGen++
		s.Form.Uploading = true

	case PhotoUploaded:
		if e.Gen != s.UploadGen || !s.Mode.FormOpen() {
			return s
		}
		s.Form.PendingPhoto = e.URL
		s.Form.Uploading = false

	case UploadFailed:
		if e.Gen != s.UploadGen || !s.Mode.FormOpen() {
			return s
		}
		s.Form.Uploading = false
		s.Notice = orDefault(e.Err, noticeUpload)

	case SubmitRejected:
		if !s.Mode.FormOpen() {
			return s
		}
		s.Form.Input = e.Input
		s.Form.Errors = e.Errors

	case SubmitStarted:
		if !s.Mode.FormOpen() {
			return s
		}
		s.SubmitGen++
		s.Form.Input = e.Input
		s.Form.Errors = nil
		s.Form.Submitting = true

	case SubmitSucceeded:
		// The backend has written the record whether or not this response
		// is current, so the store always takes it.
		if e.ID == "" {
			s.Store = s.Store.Insert(e.Member)
		} else if st, ok := s.Store.Replace(e.ID, e.Member); ok {
			s.Store = st
		} else {
			s.Store = s.Store.Insert(e.Member)
		}
		if s.Detail.ID != "" && (s.Detail.ID == e.ID || s.Detail.ID == e.Member.ID) {
			m := e.Member
			s.Detail.Member = &m
		}
		if e.Gen == s.SubmitGen && s.Mode.FormOpen() {
			s = closeForm(s)
		}

	case SubmitFailed:
		if e.Gen != s.SubmitGen || !s.Mode.FormOpen() {
			return s
		}
		s.Form.Submitting = false
		s.Notice = orDefault(e.Err, noticeSave)

	case Deleted:
		s.Store = s.Store.Remove(e.ID)
		if s.Mode.Kind == Editing && s.Mode.ID == e.ID {
			s = closeForm(s)
		}
		if s.Mode.DetailID() == e.ID {
			s = closeDetail(s)
		}

	case DeleteFailed:
		s.Notice = orDefault(e.Err, noticeDelete)

	case NoticeShown:
		if s.Notice == e.Text {
			s.Notice = ""
		}
	}
	return s
}

// closeDetail hides the detail pane. A form open over it stays open.
func closeDetail(s State) State {
	s.DetailGen++ // drop any fetch still in flight
	s.Detail = Detail{}
	if s.Mode.FormOpen() {
		s.Mode.Over = ""
	} else {
		s.Mode = BrowsingMode()
	}
	return s
}

func openForm(s State, m Mode, f Form) State {
	s.UploadGen++
	s.SubmitGen++
	s.Mode = m
	s.Form = f
	return s
}

// closeForm returns to the mode underneath the form and drops its state.
func closeForm(s State) State {
	if !s.Mode.FormOpen() {
		return s
	}
	s.UploadGen++
	s.SubmitGen++
	s.Mode = s.Mode.Underneath()
	s.Form = Form{}
	return s
}

func orDefault(msg, def string) string {
	if msg == "" {
		return def
	}
	return msg
}
