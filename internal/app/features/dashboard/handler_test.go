package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	errorsfeature "github.com/dalemusser/peopledir/internal/app/features/errors"
	"github.com/dalemusser/peopledir/internal/domain/models"
	"github.com/dalemusser/peopledir/internal/testutil"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
)

type failingLister struct{}

func (failingLister) List(context.Context) ([]models.Member, error) {
	return nil, errors.New("backend down")
}

func TestSummarize(t *testing.T) {
	ms := append(testutil.SampleMembers(),
		models.Member{ID: "4", Name: "Di", Status: "on leave", Role: "Dev", Teams: "Team A"},
		models.Member{ID: "5", Name: "Ed", Status: "active", Role: "Ops", Teams: ""},
	)

	got := summarize(ms)

	if got.Total != 5 || got.Active != 3 || got.Inactive != 1 || got.Other != 1 {
		t.Errorf("totals: got total=%d active=%d inactive=%d other=%d, want 5/3/1/1",
			got.Total, got.Active, got.Inactive, got.Other)
	}

	wantTeams := []string{"Team A", "Team B"}
	var teams []string
	for _, tc := range got.Teams {
		teams = append(teams, tc.Team)
		if tc.Count != 2 {
			t.Errorf("team %q count: got %d, want 2", tc.Team, tc.Count)
		}
	}
	if diff := cmp.Diff(wantTeams, teams); diff != "" {
		t.Errorf("teams (-want +got):\n%s", diff)
	}

	wantRoles := []roleCount{{"Dev", 3}, {"Design", 1}, {"Ops", 1}}
	if diff := cmp.Diff(wantRoles, got.Roles); diff != "" {
		t.Errorf("roles (-want +got):\n%s", diff)
	}
}

func TestSummarize_Empty(t *testing.T) {
	got := summarize(nil)
	if got.Total != 0 || len(got.Teams) != 0 || len(got.Roles) != 0 {
		t.Errorf("summarize(nil): got %+v", got)
	}
}

func TestServeDashboard_BackendDown(t *testing.T) {
	logger := zap.NewNop()
	h := NewHandler(failingLister{}, errorsfeature.NewErrorLogger(logger), logger)

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	h.ServeDashboard(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}
