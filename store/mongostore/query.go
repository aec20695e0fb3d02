package mongostore

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/phillip/trust-manager-go/apperr"
	"github.com/phillip/trust-manager-go/models"
	"github.com/phillip/trust-manager-go/paging"
)

// listSort mirrors paging.Less: sort field newest first, id ascending, and
// in search mode the search field ascending ahead of both.
func listSort(s models.Schema, m paging.Mode) bson.D {
	sort := bson.D{}
	if m.IsSearch() {
		sort = append(sort, bson.E{Key: s.SearchField, Value: 1})
	}
	return append(sort,
		bson.E{Key: s.SortField, Value: -1},
		bson.E{Key: "_id", Value: 1},
	)
}

func listFilter(s models.Schema, q paging.Query) (bson.M, error) {
	var clauses []bson.M
	if q.Mode.IsSearch() {
		if q.Mode.Field != s.SearchField {
			return nil, apperr.Invalid("field", "%s is not searchable on %s", q.Mode.Field, s.Collection)
		}
		clauses = append(clauses, bson.M{s.SearchField: bson.M{
			"$gte": q.Mode.Term,
			"$lt":  q.Mode.Term + paging.Sentinel,
		}})
	}
	if q.After != nil {
		after, err := afterClause(s, q.Mode, *q.After)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, after)
	}

	switch len(clauses) {
	case 0:
		return bson.M{}, nil
	case 1:
		return clauses[0], nil
	}
	return bson.M{"$and": clauses}, nil
}

// afterClause selects the records ordered strictly after p. Documents with
// no sort value (null) sort after every dated one in descending order.
func afterClause(s models.Schema, m paging.Mode, p paging.Position) (bson.M, error) {
	oid, err := primitive.ObjectIDFromHex(p.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad record id %q", apperr.ErrInvalidCursor, p.ID)
	}

	var sortAfter []bson.M
	if p.Sort.IsZero() {
		sortAfter = []bson.M{
			{s.SortField: nil, "_id": bson.M{"$gt": oid}},
		}
	} else {
		sortAfter = []bson.M{
			{s.SortField: bson.M{"$lt": p.Sort}},
			{s.SortField: nil},
			{s.SortField: p.Sort, "_id": bson.M{"$gt": oid}},
		}
	}

	if !m.IsSearch() {
		return bson.M{"$or": sortAfter}, nil
	}

	or := []bson.M{{s.SearchField: bson.M{"$gt": p.Search}}}
	for _, c := range sortAfter {
		withSearch := bson.M{s.SearchField: p.Search}
		for k, v := range c {
			withSearch[k] = v
		}
		or = append(or, withSearch)
	}
	return bson.M{"$or": or}, nil
}

func sumPipeline(field string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$" + field}}},
		}}},
	}
}
