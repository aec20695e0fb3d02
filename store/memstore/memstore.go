// Package memstore is an in-process document store with the same ordering
// and prefix-range semantics as the MongoDB store. It backs tests and the
// "memory" data backend.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/trust-manager-go/apperr"
	"github.com/phillip/trust-manager-go/models"
	"github.com/phillip/trust-manager-go/paging"
)

type Collection[T any, PT models.Doc[T]] struct {
	mu     sync.Mutex
	schema models.Schema
	items  []T
	now    func() time.Time

	// Fail, when set, fails every call with ErrBackendUnavailable wrapping it.
	Fail error
}

func New[T any, PT models.Doc[T]]() *Collection[T, PT] {
	return &Collection[T, PT]{schema: models.SchemaOf[T, PT](), now: time.Now}
}

// Seed stores docs as given, keeping ids and timestamps that are already set.
func (c *Collection[T, PT]) Seed(docs ...T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, d := range docs {
		meta := PT(&d).Meta()
		if meta.ID.IsZero() {
			meta.ID = primitive.NewObjectID()
		}
		if meta.CreatedAt.IsZero() {
			meta.CreatedAt = c.now()
			meta.UpdatedAt = meta.CreatedAt
		}
		c.items = append(c.items, d)
	}
}

// failure reports the injected Fail as a backend error.
func (c *Collection[T, PT]) failure(op string) error {
	if c.Fail == nil {
		return nil
	}
	return fmt.Errorf("%w: %s %s: %w", apperr.ErrBackendUnavailable, op, c.schema.Collection, c.Fail)
}

func (c *Collection[T, PT]) Name() string { return c.schema.Collection }

func (c *Collection[T, PT]) Find(_ context.Context, q paging.Query) ([]T, error) {
	if err := c.failure("find"); err != nil {
		return nil, err
	}
	if q.Mode.IsSearch() && q.Mode.Field != c.schema.SearchField {
		return nil, apperr.Invalid("field", "%s is not searchable on %s", q.Mode.Field, c.schema.Collection)
	}

	c.mu.Lock()
	matched := make([]T, 0, len(c.items))
	for _, it := range c.items {
		pos := PT(&it).Position()
		if !q.Mode.Matches(pos.Search) {
			continue
		}
		if q.After != nil && !paging.Less(q.Mode, *q.After, pos) {
			continue
		}
		matched = append(matched, it)
	}
	c.mu.Unlock()

	sort.Slice(matched, func(i, j int) bool {
		return paging.Less(q.Mode, PT(&matched[i]).Position(), PT(&matched[j]).Position())
	})
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

func (c *Collection[T, PT]) Insert(_ context.Context, doc *T) error {
	if err := c.failure("insert"); err != nil {
		return err
	}
	PT(doc).Meta().Stamp(c.now())
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append(c.items, *doc)
	return nil
}

func (c *Collection[T, PT]) indexOf(id string) (int, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return -1, apperr.Invalid("id", "invalid id %q", id)
	}
	for i := range c.items {
		if PT(&c.items[i]).Meta().ID == oid {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%s %s: %w", c.schema.Collection, id, apperr.ErrNotFound)
}

func (c *Collection[T, PT]) Get(_ context.Context, id string) (T, error) {
	var zero T
	if err := c.failure("get"); err != nil {
		return zero, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	i, err := c.indexOf(id)
	if err != nil {
		return zero, err
	}
	return c.items[i], nil
}

func (c *Collection[T, PT]) Update(_ context.Context, id string, doc *T) error {
	if err := c.failure("update"); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	i, err := c.indexOf(id)
	if err != nil {
		return err
	}
	old := PT(&c.items[i]).Meta()
	meta := PT(doc).Meta()
	meta.ID = old.ID
	meta.CreatedAt = old.CreatedAt
	meta.UpdatedAt = c.now()
	c.items[i] = *doc
	return nil
}

func (c *Collection[T, PT]) Delete(_ context.Context, id string) error {
	if err := c.failure("delete"); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	i, err := c.indexOf(id)
	if err != nil {
		return err
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	return nil
}

func (c *Collection[T, PT]) Count(context.Context) (int64, error) {
	if err := c.failure("count"); err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return int64(len(c.items)), nil
}

// Sum reads field through the documents' bson encoding so it sees the
// same names the MongoDB store does.
func (c *Collection[T, PT]) Sum(_ context.Context, field string) (int64, error) {
	if err := c.failure("sum"); err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	var total int64
	for i := range c.items {
		m, err := toM(&c.items[i])
		if err != nil {
			return 0, err
		}
		switch v := m[field].(type) {
		case int64:
			total += v
		case int32:
			total += int64(v)
		case float64:
			total += int64(v)
		}
	}
	return total, nil
}

// Upsert matches on the document's models.Keyed key.
func (c *Collection[T, PT]) Upsert(_ context.Context, doc *T) (bool, error) {
	if err := c.failure("upsert"); err != nil {
		return false, err
	}
	keyed, ok := any(PT(doc)).(models.Keyed)
	if !ok {
		return false, fmt.Errorf("%s documents have no upsert key", c.schema.Collection)
	}
	field, value := keyed.UpsertKey()

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		m, err := toM(&c.items[i])
		if err != nil {
			return false, err
		}
		if fmt.Sprint(m[field]) != fmt.Sprint(value) {
			continue
		}
		old := PT(&c.items[i]).Meta()
		meta := PT(doc).Meta()
		meta.ID = old.ID
		meta.CreatedAt = old.CreatedAt
		meta.UpdatedAt = c.now()
		c.items[i] = *doc
		return false, nil
	}
	PT(doc).Meta().Stamp(c.now())
	c.items = append(c.items, *doc)
	return true, nil
}

func toM(v any) (bson.M, error) {
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}
