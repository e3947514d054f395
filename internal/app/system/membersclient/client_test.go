package membersclient_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/dalemusser/peopledir/internal/app/system/membersclient"
	"github.com/dalemusser/peopledir/internal/domain/models"
	"github.com/dalemusser/peopledir/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

func newClient(t *testing.T, ms ...models.Member) (*membersclient.Client, *testutil.FakeBackend) {
	t.Helper()
	fb := testutil.NewFakeBackend(t, ms...)
	return membersclient.New(fb.URL+"/", fb.Client(), zap.NewNop()), fb
}

func TestList(t *testing.T) {
	c, _ := newClient(t, testutil.SampleMembers()...)
	got, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if diff := cmp.Diff(testutil.SampleMembers(), got); diff != "" {
		t.Errorf("List mismatch (-want +got):\n%s", diff)
	}
}

func TestList_EmptyIsNotNil(t *testing.T) {
	c, _ := newClient(t)
	got, err := c.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got == nil {
		t.Error("List: got nil slice, want empty")
	}
}

func TestGet_NotFound(t *testing.T) {
	c, _ := newClient(t, testutil.SampleMembers()...)
	_, err := c.Get(context.Background(), "404")
	if !errors.Is(err, membersclient.ErrNotFound) {
		t.Errorf("Get(unknown): got %v, want ErrNotFound", err)
	}
}

func TestCreate_SendsNoID(t *testing.T) {
	c, fb := newClient(t)
	m, err := c.Create(context.Background(), models.Member{ID: "client-side", Name: "Dee", Status: "Active", Role: "QA", Email: "dee@example.com", Teams: "Team D"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.ID == "" || m.ID == "client-side" {
		t.Errorf("Create ID: got %q, want server-assigned", m.ID)
	}
	if diff := cmp.Diff([]string{"POST /api/members"}, fb.Calls()); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}
}

func TestUpdate(t *testing.T) {
	c, fb := newClient(t, testutil.SampleMembers()...)
	in := models.Member{Name: "Cyrus", Status: "Active", Role: "Lead", Email: "cy@example.com", Teams: "Team C"}
	got, err := c.Update(context.Background(), "3", in)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	in.ID = "3"
	if diff := cmp.Diff(in, got); diff != "" {
		t.Errorf("Update mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"PUT /api/members/3"}, fb.Calls()); diff != "" {
		t.Errorf("calls (-want +got):\n%s", diff)
	}
}

func TestDelete(t *testing.T) {
	c, fb := newClient(t, testutil.SampleMembers()...)
	if err := c.Delete(context.Background(), "2"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := len(fb.Members()); got != 2 {
		t.Errorf("backend members: got %d, want 2", got)
	}
	if err := c.Delete(context.Background(), "2"); !errors.Is(err, membersclient.ErrNotFound) {
		t.Errorf("second Delete: got %v, want ErrNotFound", err)
	}
}

func TestServerError_IsNetworkError(t *testing.T) {
	c, fb := newClient(t, testutil.SampleMembers()...)
	fb.FailWith(http.MethodGet, http.StatusInternalServerError)

	_, err := c.List(context.Background())
	var ne *membersclient.NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("List: got %v, want *NetworkError", err)
	}
	if ne.Status != http.StatusInternalServerError {
		t.Errorf("Status: got %d, want %d", ne.Status, http.StatusInternalServerError)
	}
	if fb.CallCount(http.MethodGet) != 1 {
		t.Errorf("GET calls: got %d, want 1 (no retries)", fb.CallCount(http.MethodGet))
	}
}

func TestTransportError_IsNetworkError(t *testing.T) {
	fb := testutil.NewFakeBackend(t)
	c := membersclient.New(fb.URL, nil, nil)
	fb.Close()

	err := c.Ping(context.Background())
	var ne *membersclient.NetworkError
	if !errors.As(err, &ne) {
		t.Fatalf("Ping: got %v, want *NetworkError", err)
	}
	if ne.Status != 0 || ne.Err == nil {
		t.Errorf("NetworkError: got status %d err %v", ne.Status, ne.Err)
	}
}
