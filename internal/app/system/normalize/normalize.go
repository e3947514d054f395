// Package normalize cleans user-entered values before they are validated,
// filtered on, or sent to the members API.
package normalize

import (
	"html"
	"strings"

	"github.com/dalemusser/peopledir/internal/domain/models"
	"github.com/microcosm-cc/bluemonday"
)

// maxQueryRunes caps free-text search input.
const maxQueryRunes = 200

var strict = bluemonday.StrictPolicy()

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name and collapses runs of whitespace. Case is kept.
func Name(s string) string {
	return strings.Join(strings.Fields(Text(s)), " ")
}

// Text strips any markup from free text and trims it. The result is plain
// text: entities the sanitizer escapes are decoded again, since templates
// escape on output.
func Text(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || !strings.ContainsAny(s, "<>&") {
		return s
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// Status maps the conventional statuses onto their canonical spelling
// ("active" -> "Active"). Any other status is kept as typed, trimmed.
func Status(s string) string {
	s = Text(s)
	switch {
	case strings.EqualFold(s, models.StatusActive):
		return models.StatusActive
	case strings.EqualFold(s, models.StatusInactive):
		return models.StatusInactive
	}
	return s
}

// QueryParam caps the length of a search query. Whitespace is kept; a
// leading or trailing space is part of what the user searches for.
func QueryParam(s string) string {
	if r := []rune(s); len(r) > maxQueryRunes {
		s = string(r[:maxQueryRunes])
	}
	return s
}

// FilterValues trims each value, drops empties, and removes duplicates
// while keeping first-seen order. No values means no filter.
func FilterValues(vals []string) []string {
	if len(vals) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(vals))
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
