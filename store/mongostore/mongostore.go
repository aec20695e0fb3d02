// Package mongostore implements the store boundary on MongoDB. Listings use
// keyset pagination: the cursor position becomes a range predicate matching
// the sort, so concurrent inserts never shift a page.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/phillip/trust-manager-go/apperr"
	"github.com/phillip/trust-manager-go/models"
	"github.com/phillip/trust-manager-go/paging"
)

const (
	readTimeout  = 10 * time.Second
	writeTimeout = 5 * time.Second
)

type Collection[T any, PT models.Doc[T]] struct {
	col    *mongo.Collection
	schema models.Schema
}

func New[T any, PT models.Doc[T]](db *mongo.Database) *Collection[T, PT] {
	schema := models.SchemaOf[T, PT]()
	return &Collection[T, PT]{col: db.Collection(schema.Collection), schema: schema}
}

func (c *Collection[T, PT]) Name() string { return c.schema.Collection }

func (c *Collection[T, PT]) Find(ctx context.Context, q paging.Query) ([]T, error) {
	filter, err := listFilter(c.schema, q)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(listSort(c.schema, q.Mode))
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	cursor, err := c.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Unavailable("find "+c.schema.Collection, err)
	}
	items := []T{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, apperr.Unavailable("decode "+c.schema.Collection, err)
	}
	return items, nil
}

func (c *Collection[T, PT]) Insert(ctx context.Context, doc *T) error {
	PT(doc).Meta().Stamp(time.Now().UTC())

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if _, err := c.col.InsertOne(ctx, doc); err != nil {
		return apperr.Unavailable("insert "+c.schema.Collection, err)
	}
	return nil
}

func (c *Collection[T, PT]) Get(ctx context.Context, id string) (T, error) {
	var doc T
	oid, err := parseID(id)
	if err != nil {
		return doc, err
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	err = c.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return doc, fmt.Errorf("%s %s: %w", c.schema.Collection, id, apperr.ErrNotFound)
	}
	if err != nil {
		return doc, apperr.Unavailable("get "+c.schema.Collection, err)
	}
	return doc, nil
}

func (c *Collection[T, PT]) Update(ctx context.Context, id string, doc *T) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	set, err := setFields(doc)
	if err != nil {
		return err
	}
	set["updated_at"] = now

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	res, err := c.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return apperr.Unavailable("update "+c.schema.Collection, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s %s: %w", c.schema.Collection, id, apperr.ErrNotFound)
	}
	meta := PT(doc).Meta()
	meta.ID = oid
	meta.UpdatedAt = now
	return nil
}

func (c *Collection[T, PT]) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	res, err := c.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return apperr.Unavailable("delete "+c.schema.Collection, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("%s %s: %w", c.schema.Collection, id, apperr.ErrNotFound)
	}
	return nil
}

func (c *Collection[T, PT]) Count(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	n, err := c.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, apperr.Unavailable("count "+c.schema.Collection, err)
	}
	return n, nil
}

func (c *Collection[T, PT]) Sum(ctx context.Context, field string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	cursor, err := c.col.Aggregate(ctx, sumPipeline(field))
	if err != nil {
		return 0, apperr.Unavailable("sum "+c.schema.Collection, err)
	}
	var rows []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, apperr.Unavailable("sum "+c.schema.Collection, err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}

// Upsert matches on the document's models.Keyed key and updates in place,
// so re-running an import never duplicates.
func (c *Collection[T, PT]) Upsert(ctx context.Context, doc *T) (bool, error) {
	keyed, ok := any(PT(doc)).(models.Keyed)
	if !ok {
		return false, fmt.Errorf("%s documents have no upsert key", c.schema.Collection)
	}
	field, value := keyed.UpsertKey()

	now := time.Now().UTC()
	set, err := setFields(doc)
	if err != nil {
		return false, err
	}
	set["updated_at"] = now
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"_id": primitive.NewObjectID(), "created_at": now},
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	res, err := c.col.UpdateOne(ctx, bson.M{field: value}, update, options.Update().SetUpsert(true))
	if err != nil {
		return false, apperr.Unavailable("upsert "+c.schema.Collection, err)
	}
	return res.UpsertedCount > 0, nil
}

// EnsureIndexes creates the compound indexes both listing modes sort by,
// and a unique index on the upsert key of keyed documents.
func (c *Collection[T, PT]) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	idx := []mongo.IndexModel{
		{Keys: listSort(c.schema, paging.Default())},
		{Keys: listSort(c.schema, paging.PrefixSearch(c.schema.SearchField, "-"))},
	}
	var zero T
	if keyed, ok := any(PT(&zero)).(models.Keyed); ok {
		field, _ := keyed.UpsertKey()
		idx = append(idx, mongo.IndexModel{Keys: bson.D{{Key: field, Value: 1}}, Options: options.Index().SetUnique(true)})
	}
	if _, err := c.col.Indexes().CreateMany(ctx, idx); err != nil {
		return apperr.Unavailable("indexes "+c.schema.Collection, err)
	}
	return nil
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return oid, apperr.Invalid("id", "invalid id %q", id)
	}
	return oid, nil
}

// setFields renders doc as a $set document without the fields the store owns.
func setFields(doc any) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	delete(m, "_id")
	delete(m, "created_at")
	delete(m, "updated_at")
	return m, nil
}
