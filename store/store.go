// Package store declares the document store boundary the handlers and the
// content sync write through. memstore and mongostore implement it.
package store

import (
	"context"

	"github.com/phillip/trust-manager-go/paging"
)

// Collection is one named collection of T. Insert assigns the id and both
// timestamps; Update replaces every field but the id and created_at.
type Collection[T any] interface {
	paging.Source[T]
	Insert(ctx context.Context, doc *T) error
	Get(ctx context.Context, id string) (T, error)
	Update(ctx context.Context, id string, doc *T) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	// Sum adds up a numeric field over the whole collection.
	Sum(ctx context.Context, field string) (int64, error)
}

// Upserter writes documents keyed by their natural key (models.Keyed).
// created reports whether a new document was inserted.
type Upserter[T any] interface {
	Upsert(ctx context.Context, doc *T) (created bool, err error)
}
