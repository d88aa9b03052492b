package collection

import (
	"strings"

	"golang.org/x/text/cases"
)

// Matcher tests records against a case-insensitive substring query over
// title, director, genres, and tags.
type Matcher struct {
	fold   cases.Caser
	needle string
}

// NewMatcher prepares query for repeated matching. An empty query matches
// every record.
func NewMatcher(query string) *Matcher {
	fold := cases.Fold()
	return &Matcher{fold: fold, needle: fold.String(query)}
}

// Match reports whether rec contains the query in any searchable field.
func (m *Matcher) Match(rec Record) bool {
	if m.needle == "" {
		return true
	}
	if m.contains(rec.Title) || m.contains(rec.Director) {
		return true
	}
	for _, g := range rec.Genre {
		if m.contains(g) {
			return true
		}
	}
	for _, tag := range rec.Tags {
		if m.contains(tag) {
			return true
		}
	}
	return false
}

func (m *Matcher) contains(value string) bool {
	return strings.Contains(m.fold.String(value), m.needle)
}
