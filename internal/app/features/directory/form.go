// internal/app/features/directory/form.go
package directory

import (
	"errors"
	"net/http"

	"github.com/dalemusser/peopledir/internal/app/roster"
	"github.com/dalemusser/peopledir/internal/app/system/assets"
	"github.com/dalemusser/peopledir/internal/app/system/limits"
	"github.com/dalemusser/peopledir/internal/app/system/membersclient"
	"github.com/dalemusser/peopledir/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ServeNew opens the create form.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	vid, ok := h.visitor(w, r)
	if !ok {
		return
	}
	h.respond(w, r, vid, h.States.Apply(vid, roster.AddRequested{}))
}

// ServeEdit opens the edit form prefilled from the list copy of the record.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	vid, ok := h.visitor(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	h.respond(w, r, vid, h.States.Apply(vid, roster.EditRequested{ID: id}))
}

// HandleFormClose cancels the form and drops its pending upload and errors.
func (h *Handler) HandleFormClose(w http.ResponseWriter, r *http.Request) {
	vid, ok := h.visitor(w, r)
	if !ok {
		return
	}
	h.respond(w, r, vid, h.States.Apply(vid, roster.FormClosed{}))
}

// HandleSubmit validates the form and, when it passes, creates or updates
// the member. Invalid input never reaches the backend.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	vid, ok := h.visitor(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, limits.MaxMemberForm)
	if err := parseForm(r); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse member form", err, "The form could not be read.", "/directory")
		return
	}

	s := h.States.Snapshot(vid)
	if !s.Mode.FormOpen() {
		h.respond(w, r, vid, s)
		return
	}

	in := inputFrom(r)
	member, verrs := roster.Validate(in)
	if verrs != nil {
		h.respond(w, r, vid, h.States.Apply(vid, roster.SubmitRejected{Input: in, Errors: verrs}))
		return
	}

	s = h.States.Apply(vid, roster.SubmitStarted{Input: in})
	if !s.Mode.FormOpen() {
		h.respond(w, r, vid, s)
		return
	}
	gen, mode := s.SubmitGen, s.Mode
	member.ProfilePhoto = s.Form.Photo()

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Write(), h.Log, "member save")
	defer cancel()

	var (
		saved     = member
		err       error
		updatedID string
	)
	if mode.Kind == roster.Editing {
		updatedID = mode.ID
		saved, err = h.Members.Update(ctx, mode.ID, member)
	} else {
		saved, err = h.Members.Create(ctx, member)
	}

	if err != nil {
		msg := ""
		if errors.Is(err, membersclient.ErrNotFound) {
			msg = "This member no longer exists."
		}
		h.Log.Warn("member save failed",
			zap.String("mode", mode.Kind.String()),
			zap.String("id", updatedID),
			zap.Error(err))
		s = h.States.Apply(vid, roster.SubmitFailed{Gen: gen, Err: msg})
	} else {
		s = h.States.Apply(vid, roster.SubmitSucceeded{Gen: gen, ID: updatedID, Member: saved})
	}
	h.respond(w, r, vid, s)
}

// parseForm accepts urlencoded and multipart bodies.
func parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(limits.MultipartMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

// inputFrom reads the fixed form field set as typed.
func inputFrom(r *http.Request) roster.FormInput {
	return roster.FormInput{
		Name:        r.PostFormValue("name"),
		Status:      r.PostFormValue("status"),
		Role:        r.PostFormValue("role"),
		Email:       r.PostFormValue("email"),
		Teams:       r.PostFormValue("teams"),
		WorkEmail:   r.PostFormValue("workEmail"),
		DOB:         r.PostFormValue("dob"),
		Gender:      r.PostFormValue("gender"),
		Nationality: r.PostFormValue("nationality"),
		ContactNo:   r.PostFormValue("contactNo"),
	}
}

// HandlePhoto uploads a photo as soon as it is chosen. The returned URL is
// held on the form until submit. Requests targeting the photo field get
// only that field back so the rest of the form keeps what was typed.
func (h *Handler) HandlePhoto(w http.ResponseWriter, r *http.Request) {
	vid, ok := h.visitor(w, r)
	if !ok {
		return
	}

	s := h.States.Snapshot(vid)
	if !s.Mode.FormOpen() {
		h.respond(w, r, vid, s)
		return
	}

	s = h.States.Apply(vid, roster.UploadStarted{})
	gen := s.UploadGen

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUpload+limits.MultipartMemory)
	url, err := h.upload(r)
	errMsg := ""
	if err != nil {
		errMsg = uploadMessage(err)
		h.Log.Warn("photo upload failed", zap.String("visitor", vid), zap.Error(err))
		s = h.States.Apply(vid, roster.UploadFailed{Gen: gen, Err: errMsg})
		if errMsg == "" {
			errMsg = s.Notice
		}
	} else {
		s = h.States.Apply(vid, roster.PhotoUploaded{Gen: gen, URL: url})
	}

	if isHTMX(r) && r.Header.Get("HX-Target") == "photo-field" {
		templates.RenderSnippet(w, "directory_photo_field", photoVM{Photo: s.Form.Photo(), Err: errMsg})
		h.noticeShown(vid, s)
		return
	}
	h.respond(w, r, vid, s)
}

func (h *Handler) upload(r *http.Request) (string, error) {
	if err := r.ParseMultipartForm(limits.MultipartMemory); err != nil {
		return "", err
	}
	file, hdr, err := r.FormFile("photo")
	if err != nil {
		return "", err
	}
	defer file.Close()
	if hdr.Size > h.MaxUpload {
		return "", assets.ErrTooLarge
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Upload(), h.Log, "photo upload")
	defer cancel()
	return h.Uploader.Upload(ctx, hdr.Filename, file)
}

// uploadMessage is what the visitor sees for an upload failure; "" means
// the generic notice.
func uploadMessage(err error) string {
	var tooBig *http.MaxBytesError
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return "Choose a photo to upload."
	case errors.As(err, &tooBig), errors.Is(err, assets.ErrTooLarge):
		return "The photo is too large."
	case errors.Is(err, assets.ErrNotImage):
		return "Only image files can be uploaded."
	}
	return ""
}
