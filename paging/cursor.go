package paging

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/phillip/trust-manager-go/apperr"
)

// Cursor points at the last record of a page under the ordering it was
// issued for. It must be discarded whenever the mode changes.
type Cursor struct {
	Mode   string    `json:"m"`
	ID     string    `json:"i"`
	Sort   time.Time `json:"s"`
	Search string    `json:"q,omitempty"`
}

func cursorAt(m Mode, p Position) *Cursor {
	c := &Cursor{Mode: m.key(), ID: p.ID, Sort: p.Sort}
	if m.IsSearch() {
		c.Search = p.Search
	}
	return c
}

func (c *Cursor) Position() Position {
	return Position{ID: c.ID, Sort: c.Sort, Search: c.Search}
}

// check returns ErrInvalidCursor when c cannot continue a listing in mode m.
func (c *Cursor) check(m Mode) error {
	if c.Mode != m.key() {
		return fmt.Errorf("%w: issued for %q, used with %q", apperr.ErrInvalidCursor, c.Mode, m.key())
	}
	if c.ID == "" {
		return fmt.Errorf("%w: missing record id", apperr.ErrInvalidCursor)
	}
	if m.IsSearch() && !m.Matches(c.Search) {
		return fmt.Errorf("%w: %q is outside the search range", apperr.ErrInvalidCursor, c.Search)
	}
	return nil
}

// Encode renders the cursor as a URL-safe token.
func (c *Cursor) Encode() string {
	if c == nil {
		return ""
	}
	raw, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(raw)
}

// DecodeCursor parses a token produced by Encode. An empty token yields a
// nil cursor (first page).
func DecodeCursor(token string) (*Cursor, error) {
	if token == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidCursor, err)
	}
	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidCursor, err)
	}
	return &c, nil
}
