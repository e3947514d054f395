package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/dalemusser/peopledir/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// FakeBackend is an in-memory members API on an httptest server.
// Tests seed it, point a client at URL, and inspect Calls afterwards.
type FakeBackend struct {
	*httptest.Server

	mu      sync.Mutex
	members []models.Member
	nextID  int
	calls   []string
	fail    map[string]int // "METHOD" -> status to answer with
}

// NewFakeBackend starts a fake backend seeded with ms. It is closed when the
// test ends.
func NewFakeBackend(t *testing.T, ms ...models.Member) *FakeBackend {
	t.Helper()
	fb := &FakeBackend{
		members: append([]models.Member(nil), ms...),
		nextID:  100,
		fail:    map[string]int{},
	}
	fb.Server = httptest.NewServer(fb.routes())
	t.Cleanup(fb.Close)
	return fb
}

// FailWith makes every request with the given method answer status.
func (fb *FakeBackend) FailWith(method string, status int) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.fail[method] = status
}

// Calls returns "METHOD /path" for every request served so far.
func (fb *FakeBackend) Calls() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]string(nil), fb.calls...)
}

// CallCount counts requests with the given method.
func (fb *FakeBackend) CallCount(method string) int {
	n := 0
	for _, c := range fb.Calls() {
		if strings.HasPrefix(c, method+" ") {
			n++
		}
	}
	return n
}

// Members returns the backend's current records.
func (fb *FakeBackend) Members() []models.Member {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return append([]models.Member(nil), fb.members...)
}

func (fb *FakeBackend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(fb.record)
	r.Route("/api/members", func(r chi.Router) {
		r.Get("/", fb.list)
		r.Post("/", fb.create)
		r.Get("/{id}", fb.get)
		r.Put("/{id}", fb.update)
		r.Delete("/{id}", fb.remove)
	})
	return r
}

// record logs the call, takes the lock for the handler and applies any
// forced failure.
func (fb *FakeBackend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		fb.calls = append(fb.calls, r.Method+" "+r.URL.Path)
		if status, ok := fb.fail[r.Method]; ok {
			http.Error(w, "forced failure", status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (fb *FakeBackend) list(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, fb.members)
}

func (fb *FakeBackend) create(w http.ResponseWriter, r *http.Request) {
	var m models.Member
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	fb.nextID++
	m.ID = strconv.Itoa(fb.nextID)
	fb.members = append(fb.members, m)
	writeJSON(w, http.StatusCreated, m)
}

func (fb *FakeBackend) get(w http.ResponseWriter, r *http.Request) {
	i := fb.indexOf(chi.URLParam(r, "id"))
	if i < 0 {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, fb.members[i])
}

func (fb *FakeBackend) update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	i := fb.indexOf(id)
	if i < 0 {
		http.NotFound(w, r)
		return
	}
	var m models.Member
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		http.Error(w, "bad json", http.StatusBadRequest)
		return
	}
	m.ID = id
	fb.members[i] = m
	writeJSON(w, http.StatusOK, m)
}

func (fb *FakeBackend) remove(w http.ResponseWriter, r *http.Request) {
	i := fb.indexOf(chi.URLParam(r, "id"))
	if i < 0 {
		http.NotFound(w, r)
		return
	}
	fb.members = append(fb.members[:i:i], fb.members[i+1:]...)
	w.WriteHeader(http.StatusNoContent)
}

func (fb *FakeBackend) indexOf(id string) int {
	for i, m := range fb.members {
		if m.ID == id {
			return i
		}
	}
	return -1
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// SampleMembers is a small roster used across handler tests.
func SampleMembers() []models.Member {
	return []models.Member{
		{ID: "1", Name: "Ann", Status: models.StatusActive, Role: "Dev", Email: "ann@example.com", Teams: "Team A"},
		{ID: "2", Name: "Bob", Status: models.StatusActive, Role: "Design", Email: "bob@example.com", Teams: "Team B"},
		{ID: "3", Name: "Cy", Status: models.StatusInactive, Role: "Dev", Email: "cy@example.com", Teams: "Team B", ProfilePhoto: "https://cdn.example.com/cy.jpg"},
	}
}
