package rental

import (
	"strings"
)

// MatchesSearch reports whether a scooty's model or location contains the
// search term, case-insensitively. An empty term matches everything.
func MatchesSearch(model, location, term string) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(model), term) ||
		strings.Contains(strings.ToLower(location), term)
}
