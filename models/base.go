package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/trust-manager-go/paging"
)

// Base holds the fields the store assigns.
type Base struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

func (b *Base) Meta() *Base { return b }

// Stamp assigns a fresh id and both timestamps.
func (b *Base) Stamp(now time.Time) {
	b.ID = primitive.NewObjectID()
	b.CreatedAt = now
	b.UpdatedAt = now
}

// Schema names the collection a document lives in and the fields it is
// ordered and searched by (bson names).
type Schema struct {
	Collection  string
	SortField   string
	SearchField string
}

// Document is implemented by pointers to every persisted entity.
type Document interface {
	Meta() *Base
	Schema() Schema
	Validate() error
	Position() paging.Position
}

// Doc constrains PT to be *T implementing Document.
type Doc[T any] interface {
	*T
	Document
}

// Keyed documents carry a natural key other than their id; upserts match on it.
type Keyed interface {
	UpsertKey() (field string, value any)
}

func position(b Base, sort time.Time, search string) paging.Position {
	return paging.Position{ID: b.ID.Hex(), Sort: sort, Search: search}
}

// PositionOf returns the ordering position of v.
func PositionOf[T any, PT Doc[T]](v T) paging.Position {
	return PT(&v).Position()
}

// IDOf returns the hex id of v.
func IDOf[T any, PT Doc[T]](v T) string {
	return PT(&v).Meta().ID.Hex()
}

// SchemaOf returns the schema of T.
func SchemaOf[T any, PT Doc[T]]() Schema {
	var zero T
	return PT(&zero).Schema()
}
