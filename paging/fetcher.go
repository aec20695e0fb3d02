package paging

import (
	"context"

	"github.com/phillip/trust-manager-go/apperr"
)

// Query is what a Source receives for one page read. After is nil on the
// first page; Limit already includes the look-ahead record.
type Query struct {
	Mode  Mode
	After *Position
	Limit int
}

// Source reads ordered records from a named collection. Implementations
// must return records strictly after q.After under q.Mode's ordering.
type Source[T any] interface {
	Name() string
	Find(ctx context.Context, q Query) ([]T, error)
}

// Page is one slice of an ordered listing.
type Page[T any] struct {
	Items   []T     `json:"items"`
	Next    *Cursor `json:"-"`
	HasMore bool    `json:"has_more"`
}

// Fetcher reads pages from a Source. It keeps no state between calls.
type Fetcher[T any] struct {
	src      Source[T]
	position func(T) Position
}

func NewFetcher[T any](src Source[T], position func(T) Position) *Fetcher[T] {
	return &Fetcher[T]{src: src, position: position}
}

// Fetch reads the page after cursor (nil for the first page). It asks the
// source for one record more than pageSize so HasMore is exact rather than
// inferred from a full page. On error no items are returned.
func (f *Fetcher[T]) Fetch(ctx context.Context, mode Mode, cursor *Cursor, pageSize int) (Page[T], error) {
	if f.src.Name() == "" {
		return Page[T]{}, apperr.Invalid("collection", "collection name is required")
	}
	if err := mode.Validate(); err != nil {
		return Page[T]{}, err
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	q := Query{Mode: mode, Limit: pageSize + 1}
	if cursor != nil {
		if err := cursor.check(mode); err != nil {
			return Page[T]{}, err
		}
		pos := cursor.Position()
		q.After = &pos
	}

	items, err := f.src.Find(ctx, q)
	if err != nil {
		return Page[T]{}, apperr.Unavailable("find "+f.src.Name(), err)
	}

	page := Page[T]{Items: items}
	if len(items) > pageSize {
		page.Items = items[:pageSize]
		page.HasMore = true
		page.Next = cursorAt(mode, f.position(page.Items[pageSize-1]))
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return page, nil
}
