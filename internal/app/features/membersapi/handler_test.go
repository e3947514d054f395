package membersapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/peopledir/internal/app/features/membersapi"
	"github.com/dalemusser/peopledir/internal/app/system/membersclient"
	"github.com/dalemusser/peopledir/internal/domain/models"
	"github.com/dalemusser/peopledir/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestServer(t *testing.T) (*httptest.Server, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := membersapi.NewHandler(db, zap.NewNop())
	r := chi.NewRouter()
	r.Mount("/api/members", membersapi.Routes(h))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, testutil.NewFixtures(t, db)
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestStatusCodes(t *testing.T) {
	srv, fx := newTestServer(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	ann := fx.CreateMember(ctx, "Ann", "Dev", "Team A")
	base := srv.URL + "/api/members"
	missing := primitive.NewObjectID().Hex()

	tests := []struct {
		name   string
		method string
		url    string
		body   string
		want   int
	}{
		{"list", http.MethodGet, base, "", http.StatusOK},
		{"get", http.MethodGet, base + "/" + ann.ID.Hex(), "", http.StatusOK},
		{"get unknown", http.MethodGet, base + "/" + missing, "", http.StatusNotFound},
		{"get bad id", http.MethodGet, base + "/nope", "", http.StatusBadRequest},
		{"create bad json", http.MethodPost, base, "{", http.StatusBadRequest},
		{"create invalid", http.MethodPost, base, `{"name":"","email":"x"}`, http.StatusBadRequest},
		{"update unknown", http.MethodPut, base + "/" + missing,
			`{"name":"Zed","status":"Active","role":"Dev","email":"zed@example.com","teams":"Team A"}`, http.StatusNotFound},
		{"delete unknown", http.MethodDelete, base + "/" + missing, "", http.StatusNotFound},
		{"delete bad id", http.MethodDelete, base + "/nope", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, tt.method, tt.url, tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("status: got %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestInvalidPayloadReportsFields(t *testing.T) {
	srv, _ := newTestServer(t)

	resp := do(t, http.MethodPost, srv.URL+"/api/members", `{"name":"Zed","email":"not-an-email"}`)

	var body struct {
		Fields map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, f := range []string{"Email", "Status", "Role", "Teams"} {
		if _, ok := body.Fields[f]; !ok {
			t.Errorf("fields: missing %q in %v", f, body.Fields)
		}
	}
	if _, ok := body.Fields["Name"]; ok {
		t.Errorf("fields: Name reported but was given")
	}
}

// The directory's own client drives a full round trip against the API.
func TestRoundTripWithClient(t *testing.T) {
	srv, _ := newTestServer(t)
	c := membersclient.New(srv.URL, srv.Client(), zap.NewNop())
	ctx := context.Background()

	created, err := c.Create(ctx, models.Member{
		Name: "  Zed  Zero ", Status: "active", Role: "Dev",
		Email: "Zed@Example.com", Teams: "Team A", ProfilePhoto: "https://img.example.com/z.png",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := primitive.ObjectIDFromHex(created.ID); err != nil {
		t.Errorf("created id %q is not an ObjectID hex", created.ID)
	}
	if created.Name != "Zed Zero" || created.Status != "Active" || created.Email != "zed@example.com" {
		t.Errorf("created not normalized: %+v", created)
	}

	created.Role = "Lead"
	updated, err := c.Update(ctx, created.ID, created)
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Role != "Lead" || updated.ProfilePhoto != created.ProfilePhoto {
		t.Errorf("updated: got %+v", updated)
	}

	got, err := c.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != updated {
		t.Errorf("Get: got %+v, want %+v", got, updated)
	}

	if err := c.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := c.Get(ctx, created.ID); err != membersclient.ErrNotFound {
		t.Errorf("Get after delete: got %v, want ErrNotFound", err)
	}

	list, err := c.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("List after delete: got %d members", len(list))
	}
}
