package directory_test

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/dalemusser/peopledir/internal/app/features/directory"
	uierrors "github.com/dalemusser/peopledir/internal/app/features/errors"
	"github.com/dalemusser/peopledir/internal/app/roster"
	"github.com/dalemusser/peopledir/internal/app/system/assets"
	"github.com/dalemusser/peopledir/internal/app/system/membersclient"
	"github.com/dalemusser/peopledir/internal/app/system/viewstate"
	"github.com/dalemusser/peopledir/internal/domain/models"
	"github.com/dalemusser/peopledir/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

const visitor = "visitor-1"

type testEnv struct {
	h        *directory.Handler
	router   chi.Router
	backend  *testutil.FakeBackend
	uploader *assets.Fake
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	backend := testutil.NewFakeBackend(t, testutil.SampleMembers()...)
	logger := zap.NewNop()
	client := membersclient.New(backend.URL, backend.Client(), logger)
	uploader := &assets.Fake{BaseURL: "https://img.example.com"}
	h := directory.NewHandler(client, uploader, viewstate.NewRegistry(), uierrors.NewErrorLogger(logger), logger)
	return &testEnv{h: h, router: directory.Routes(h, nil), backend: backend, uploader: uploader}
}

// loaded seeds the visitor's store as a page load would, without a backend
// call, so tests can count calls from here on.
func (e *testEnv) loaded() roster.State {
	s := e.h.States.Apply(visitor, roster.LoadStarted{})
	return e.h.States.Apply(visitor, roster.Loaded{Gen: s.LoadGen, Members: testutil.SampleMembers()})
}

func (e *testEnv) state() roster.State {
	return e.h.States.Snapshot(visitor)
}

// do sends a plain browser request (no HTMX) for the visitor.
func (e *testEnv) do(t *testing.T, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req = req.WithContext(viewstate.WithVisitor(req.Context(), visitor))
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status: got %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if got := rec.Header().Get("Location"); got != "/directory" {
		t.Errorf("Location: got %q, want %q", got, "/directory")
	}
}

func ids(ms []models.Member) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ID)
	}
	return out
}

func validForm(name string) url.Values {
	return url.Values{
		"name":   {name},
		"status": {"Active"},
		"role":   {"Dev"},
		"email":  {strings.ToLower(name) + "@example.com"},
		"teams":  {"Team A"},
	}
}

func TestServePage_LoadsStore(t *testing.T) {
	env := newTestEnv(t)

	env.do(t, http.MethodGet, "/", nil)

	s := env.state()
	if s.Loading {
		t.Error("Loading: still true after load")
	}
	if diff := cmp.Diff(testutil.SampleMembers(), s.Store.All()); diff != "" {
		t.Errorf("store mismatch (-want +got):\n%s", diff)
	}
	if got := env.backend.Calls(); len(got) != 1 || got[0] != "GET /api/members" {
		t.Errorf("backend calls: got %v", got)
	}
}

func TestServePage_BackendFailureKeepsStore(t *testing.T) {
	env := newTestEnv(t)
	env.loaded()
	env.backend.FailWith(http.MethodGet, http.StatusInternalServerError)

	env.do(t, http.MethodGet, "/", nil)

	s := env.state()
	if s.Loading {
		t.Error("Loading: still true after failure")
	}
	if s.Store.Len() != 3 {
		t.Errorf("store len: got %d, want 3", s.Store.Len())
	}
}

func TestHandleCriteria(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty", "", []string{"1", "2", "3"}},
		{"substring", "q=an", []string{"1"}},
		{"case insensitive", "q=TEAM%20b", []string{"2", "3"}},
		{"role filter", "role=Design", []string{"2"}},
		{"blank role ignored", "role=", []string{"1", "2", "3"}},
		{"leading space kept", "q=%20a", []string{"1"}},
		{"team and query", "team=Team+B&q=dev", []string{"3"}},
		{"two roles", "role=Dev&role=Design", []string{"1", "2", "3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.loaded()

			rec := env.do(t, http.MethodGet, "/table?"+tt.query, nil)
			assertRedirect(t, rec)

			if diff := cmp.Diff(tt.want, ids(roster.Visible(env.state()))); diff != "" {
				t.Errorf("visible ids (-want +got):\n%s", diff)
			}
			if n := len(env.backend.Calls()); n != 0 {
				t.Errorf("backend calls: got %d, want 0", n)
			}
		})
	}
}

func TestServeDetail_FetchesAndNarrowsColumns(t *testing.T) {
	env := newTestEnv(t)
	env.loaded()

	for range 2 {
		rec := env.do(t, http.MethodGet, "/2", nil)
		assertRedirect(t, rec)

		s := env.state()
		if s.Mode != roster.ViewingMode("2") {
			t.Fatalf("mode: got %+v, want viewing 2", s.Mode)
		}
		if s.Mode.Columns() != roster.Reduced {
			t.Errorf("columns: got %v, want reduced", s.Mode.Columns())
		}
		if s.Detail.Member == nil || s.Detail.Member.Name != "Bob" {
			t.Errorf("detail member: got %+v", s.Detail.Member)
		}
	}
	if got := env.backend.CallCount(http.MethodGet); got != 2 {
		t.Errorf("GET calls: got %d, want 2", got)
	}
}

func TestServeDetail_NotFound(t *testing.T) {
	env := newTestEnv(t)
	env.loaded()

	env.do(t, http.MethodGet, "/99", nil)

	s := env.state()
	if !s.Detail.NotFound {
		t.Error("NotFound: got false, want true")
	}
	if s.Notice != "This member no longer exists." {
		t.Errorf("notice: got %q", s.Notice)
	}
	if s.Store.Len() != 3 {
		t.Errorf("store len: got %d, want 3", s.Store.Len())
	}
}

func TestHandleDetailClose_RestoresFullColumns(t *testing.T) {
	env := newTestEnv(t)
	env.loaded()
	env.do(t, http.MethodGet, "/1", nil)

	rec := env.do(t, http.MethodPost, "/detail/close", nil)
	assertRedirect(t, rec)

	s := env.state()
	if s.Mode != roster.BrowsingMode() {
		t.Errorf("mode: got %+v, want browsing", s.Mode)
	}
	if s.Mode.Columns() != roster.Full {
		t.Errorf("columns: got %v, want full", s.Mode.Columns())
	}
}

func TestHandleSubmit_InvalidCreateNeverPosts(t *testing.T) {
	env := newTestEnv(t)
	env.loaded()
	env.do(t, http.MethodGet, "/new", nil)

	form := validForm("")
	rec := env.do(t, http.MethodPost, "/form", form)
	assertRedirect(t, rec)

	if got := env.backend.CallCount(http.MethodPost); got != 0 {
		t.Errorf("POST calls: got %d, want 0", got)
	}
	s := env.state()
	if s.Mode.Kind != roster.Creating {
		t.Errorf("mode: got %v, want creating", s.Mode.Kind)
	}
	if _, ok := s.Form.Errors["Name"]; !ok {
		t.Errorf("form errors: got %v, want Name", s.Form.Errors)
	}
}

func TestHandleSubmit_CreateAppearsInActiveSearch(t *testing.T) {
	env := newTestEnv(t)
	env.loaded()
	env.do(t, http.MethodGet, "/table?q=zed", nil)
	env.do(t, http.MethodGet, "/new", nil)

	rec := env.do(t, http.MethodPost, "/form", validForm("Zed"))
	assertRedirect(t, rec)

	s := env.state()
	if s.Mode.FormOpen() {
		t.Error("form still open after successful create")
	}
	if diff := cmp.Diff([]string{"101"}, ids(roster.Visible(s))); diff != "" {
		t.Errorf("visible ids (-want +got):\n%s", diff)
	}
	if got := env.backend.CallCount(http.MethodGet); got != 0 {
		t.Errorf("GET calls: got %d, want 0 (no refetch)", got)
	}
}

func TestHandleSubmit_UpdateReplacesInPlace(t *testing.T) {
	env := newTestEnv(t)
	env.loaded()
	env.do(t, http.MethodGet, "/3/edit", nil)

	form := validForm("Cy")
	form.Set("role", "Lead")
	env.do(t, http.MethodPost, "/form", form)

	calls := env.backend.Calls()
	if len(calls) != 1 || calls[0] != "PUT /api/members/3" {
		t.Fatalf("backend calls: got %v", calls)
	}
	s := env.state()
	if diff := cmp.Diff([]string{"1", "2", "3"}, ids(s.Store.All())); diff != "" {
		t.Errorf("store order (-want +got):\n%s", diff)
	}
	got, _ := s.Store.Get("3")
	if got.Role != "Lead" {
		t.Errorf("role: got %q, want %q", got.Role, "Lead")
	}
	if got.ProfilePhoto != "https://cdn.example.com/cy.jpg" {
		t.Errorf("photo: got %q, want existing photo kept", got.ProfilePhoto)
	}
}

func TestHandleSubmit_BackendFailureKeepsForm(t *testing.T) {
	env := newTestEnv(t)
	env.loaded()
	env.do(t, http.MethodGet, "/new", nil)
	env.backend.FailWith(http.MethodPost, http.StatusInternalServerError)

	env.do(t, http.MethodPost, "/form", validForm("Zed"))

	s := env.state()
	if s.Mode.Kind != roster.Creating {
		t.Errorf("mode: got %v, want creating", s.Mode.Kind)
	}
	if s.Form.Submitting {
		t.Error("Submitting: still true after failure")
	}
	if s.Store.Len() != 3 {
		t.Errorf("store len: got %d, want 3", s.Store.Len())
	}
	if s.Notice == "" {
		t.Error("notice: want a failure notice")
	}
}

func multipartPhoto(t *testing.T, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("photo", filename)
	if err != nil {
		t.Fatalf("CreateFormFile: %v", err)
	}
	if _, err := fw.Write(data); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func (e *testEnv) upload(t *testing.T, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := multipartPhoto(t, filename, data)
	req := httptest.NewRequest(http.MethodPost, "/form/photo", body)
	req.Header.Set("Content-Type", ct)
	req = req.WithContext(viewstate.WithVisitor(req.Context(), visitor))
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)

func TestHandlePhoto_HeldUntilSubmit(t *testing.T) {
	env := newTestEnv(t)
	env.loaded()
	env.do(t, http.MethodGet, "/new", nil)

	rec := env.upload(t, "me.png", pngBytes)
	assertRedirect(t, rec)

	s := env.state()
	if s.Form.Uploading {
		t.Error("Uploading: still true")
	}
	if !strings.HasPrefix(s.Form.PendingPhoto, "https://img.example.com/") {
		t.Fatalf("pending photo: got %q", s.Form.PendingPhoto)
	}
	if n := len(env.backend.Calls()); n != 0 {
		t.Errorf("backend calls before submit: got %d, want 0", n)
	}

	pending := s.Form.PendingPhoto
	env.do(t, http.MethodPost, "/form", validForm("Zed"))

	stored := env.backend.Members()
	if got := stored[len(stored)-1].ProfilePhoto; got != pending {
		t.Errorf("stored photo: got %q, want %q", got, pending)
	}
}

func TestHandlePhoto_RejectsNonImage(t *testing.T) {
	env := newTestEnv(t)
	env.loaded()
	env.do(t, http.MethodGet, "/new", nil)

	env.upload(t, "notes.txt", []byte("definitely not a picture"))

	s := env.state()
	if s.Form.PendingPhoto != "" {
		t.Errorf("pending photo: got %q, want empty", s.Form.PendingPhoto)
	}
	if s.Notice != "Only image files can be uploaded." {
		t.Errorf("notice: got %q", s.Notice)
	}
	if len(env.uploader.Uploaded()) != 0 {
		t.Errorf("uploaded: got %v, want none", env.uploader.Uploaded())
	}
}

func TestHandlePhoto_NoFormIgnored(t *testing.T) {
	env := newTestEnv(t)
	env.loaded()

	env.upload(t, "me.png", pngBytes)

	if got := env.uploader.Uploaded(); len(got) != 0 {
		t.Errorf("uploaded without a form: %v", got)
	}
}

func TestHandleDelete_SelectedRecordClosesDetail(t *testing.T) {
	env := newTestEnv(t)
	env.loaded()
	env.do(t, http.MethodGet, "/2", nil)

	rec := env.do(t, http.MethodPost, "/2/delete", nil)
	assertRedirect(t, rec)

	s := env.state()
	if diff := cmp.Diff([]string{"1", "3"}, ids(s.Store.All())); diff != "" {
		t.Errorf("store ids (-want +got):\n%s", diff)
	}
	if s.Mode != roster.BrowsingMode() {
		t.Errorf("mode: got %+v, want browsing", s.Mode)
	}
	if s.Mode.Columns() != roster.Full {
		t.Errorf("columns: got %v, want full", s.Mode.Columns())
	}
	if diff := cmp.Diff([]string{"1", "3"}, ids(env.backend.Members())); diff != "" {
		t.Errorf("backend ids (-want +got):\n%s", diff)
	}
}

func TestHandleDelete_FailureKeepsStore(t *testing.T) {
	env := newTestEnv(t)
	env.loaded()
	env.backend.FailWith(http.MethodDelete, http.StatusInternalServerError)

	env.do(t, http.MethodPost, "/2/delete", nil)

	s := env.state()
	if s.Store.Len() != 3 {
		t.Errorf("store len: got %d, want 3", s.Store.Len())
	}
	if s.Notice != "The member could not be deleted." {
		t.Errorf("notice: got %q", s.Notice)
	}
}

func TestHandleDelete_NotFoundKeepsStore(t *testing.T) {
	env := newTestEnv(t)
	env.loaded()
	env.backend.FailWith(http.MethodDelete, http.StatusNotFound)

	env.do(t, http.MethodPost, "/2/delete", nil)

	s := env.state()
	if s.Store.Len() != 3 {
		t.Errorf("store len: got %d, want 3", s.Store.Len())
	}
	if _, ok := s.Store.Get("2"); !ok {
		t.Error("member 2 dropped from store")
	}
	if s.Notice != "This member no longer exists." {
		t.Errorf("notice: got %q", s.Notice)
	}
}

func TestMissingVisitor(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/detail/close", nil)
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if env.h.States.Len() != 0 {
		t.Errorf("registry len: got %d, want 0", env.h.States.Len())
	}
}

func TestHTMXRequestGetsFragmentNotRedirect(t *testing.T) {
	env := newTestEnv(t)
	env.loaded()

	req := testutil.NewHTMXRequest(http.MethodGet, "/new", nil)
	req = req.WithContext(viewstate.WithVisitor(req.Context(), visitor))
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)

	if loc := rec.Header().Get("Location"); loc != "" {
		t.Errorf("Location: got %q, want none for HTMX", loc)
	}
	if env.state().Mode.Kind != roster.Creating {
		t.Errorf("mode: got %v, want creating", env.state().Mode.Kind)
	}
}
