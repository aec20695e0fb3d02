package paging

import (
	"time"

	"github.com/phillip/trust-manager-go/apperr"
)

// Sentinel closes the prefix range: a term T matches every value in
// [T, T+Sentinel).
const Sentinel = "\uf8ff"

// DefaultPageSize is used when a caller passes a non-positive page size.
const DefaultPageSize = 10

// Mode selects the ordering a page is read under. The zero value is the
// default mode: newest first by sort field.
type Mode struct {
	Field string // search field, empty in default mode
	Term  string
}

// Default returns the default (newest first) mode.
func Default() Mode { return Mode{} }

// PrefixSearch returns a mode matching records whose field starts with term.
func PrefixSearch(field, term string) Mode {
	return Mode{Field: field, Term: term}
}

func (m Mode) IsSearch() bool { return m.Field != "" || m.Term != "" }

// Validate rejects half-specified search modes.
func (m Mode) Validate() error {
	if !m.IsSearch() {
		return nil
	}
	if m.Field == "" {
		return apperr.Invalid("field", "search field is required")
	}
	if m.Term == "" {
		return apperr.Invalid("q", "search term must not be empty")
	}
	return nil
}

// Matches reports whether value falls inside the prefix range of m.
// Every value matches in default mode.
func (m Mode) Matches(value string) bool {
	if !m.IsSearch() {
		return true
	}
	return value >= m.Term && value < m.Term+Sentinel
}

func (m Mode) key() string {
	if !m.IsSearch() {
		return "default"
	}
	return "prefix:" + m.Field + ":" + m.Term
}

// Position locates a record in the total order of a collection.
type Position struct {
	ID     string
	Sort   time.Time
	Search string
}

// Less reports whether a is ordered before b under mode m.
func Less(m Mode, a, b Position) bool {
	if m.IsSearch() && a.Search != b.Search {
		return a.Search < b.Search
	}
	if !a.Sort.Equal(b.Sort) {
		return a.Sort.After(b.Sort)
	}
	return a.ID < b.ID
}
