// internal/app/features/dashboard/common.go
package dashboard

import (
	"sort"
	"strings"

	"github.com/dalemusser/peopledir/internal/app/roster"
	"github.com/dalemusser/peopledir/internal/app/system/viewdata"
	"github.com/dalemusser/peopledir/internal/domain/models"
)

type dashboardData struct {
	viewdata.BaseVM
	Summary summary
}

// summary holds the directory totals shown on the dashboard.
type summary struct {
	Total    int
	Active   int
	Inactive int
	Other    int // any other free-text status
	Teams    []teamCount
	Roles    []roleCount
}

type teamCount struct {
	Team  string
	Tone  string
	Count int
}

type roleCount struct {
	Role  string
	Count int
}

func summarize(members []models.Member) summary {
	s := summary{Total: len(members)}
	teams := map[string]int{}
	roles := map[string]int{}

	for _, m := range members {
		switch {
		case strings.EqualFold(m.Status, models.StatusActive):
			s.Active++
		case strings.EqualFold(m.Status, models.StatusInactive):
			s.Inactive++
		default:
			s.Other++
		}
		if t := strings.TrimSpace(m.Teams); t != "" {
			teams[t]++
		}
		if r := strings.TrimSpace(m.Role); r != "" {
			roles[r]++
		}
	}

	for t, n := range teams {
		s.Teams = append(s.Teams, teamCount{Team: t, Tone: roster.TeamTone(t), Count: n})
	}
	sort.Slice(s.Teams, func(i, j int) bool {
		if s.Teams[i].Count != s.Teams[j].Count {
			return s.Teams[i].Count > s.Teams[j].Count
		}
		return s.Teams[i].Team < s.Teams[j].Team
	})

	for r, n := range roles {
		s.Roles = append(s.Roles, roleCount{Role: r, Count: n})
	}
	sort.Slice(s.Roles, func(i, j int) bool {
		if s.Roles[i].Count != s.Roles[j].Count {
			return s.Roles[i].Count > s.Roles[j].Count
		}
		return s.Roles[i].Role < s.Roles[j].Role
	})
	return s
}
