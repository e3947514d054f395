// internal/app/roster/filter.go
package roster

import (
	"hash/fnv"
	"slices"
	"strings"

	"github.com/dalemusser/peopledir/internal/domain/models"
)

// Criteria narrows the directory table. The zero value matches everything.
type Criteria struct {
	Query string
	Roles []string
	Teams []string
}

// IsZero reports whether c selects the whole source.
func (c Criteria) IsZero() bool {
	return c.Query == "" && len(c.Roles) == 0 && len(c.Teams) == 0
}

// Apply returns the members of source that satisfy c, in source order.
//
// The query is a case-insensitive substring match against name, role or
// teams, taken as given: whitespace in it is significant. Role and team
// filters require the member's trimmed value to be in the given set. The three dimensions are AND-ed together.
// Optional fields (work email, dob and the rest) are never examined.
func Apply(source []models.Member, c Criteria) []models.Member {
	if c.IsZero() {
		return source
	}
	q := strings.ToLower(c.Query)

	out := make([]models.Member, 0, len(source))
	for _, m := range source {
		if q != "" && !matchesQuery(m, q) {
			continue
		}
		if len(c.Roles) > 0 && !slices.Contains(c.Roles, strings.TrimSpace(m.Role)) {
			continue
		}
		if len(c.Teams) > 0 && !slices.Contains(c.Teams, strings.TrimSpace(m.Teams)) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func matchesQuery(m models.Member, q string) bool {
	return strings.Contains(strings.ToLower(m.Name), q) ||
		strings.Contains(strings.ToLower(m.Role), q) ||
		strings.Contains(strings.ToLower(m.Teams), q)
}

// Facets lists the distinct, sorted, non-empty roles and teams in source.
// They populate the filter panel.
func Facets(source []models.Member) (roles, teams []string) {
	rs := map[string]struct{}{}
	ts := map[string]struct{}{}
	for _, m := range source {
		if r := strings.TrimSpace(m.Role); r != "" {
			rs[r] = struct{}{}
		}
		if t := strings.TrimSpace(m.Teams); t != "" {
			ts[t] = struct{}{}
		}
	}
	for r := range rs {
		roles = append(roles, r)
	}
	for t := range ts {
		teams = append(teams, t)
	}
	slices.Sort(roles)
	slices.Sort(teams)
	return roles, teams
}

// teamTones are the badge colors teams are spread over.
var teamTones = []string{"indigo", "emerald", "amber", "rose", "sky", "violet", "teal", "orange"}

// TeamTone returns the badge color for a team. The same team always gets
// the same color.
func TeamTone(team string) string {
	team = strings.ToLower(strings.TrimSpace(team))
	if team == "" {
		return "gray"
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(team))
	return teamTones[h.Sum32()%uint32(len(teamTones))]
}
