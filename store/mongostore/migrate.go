package mongostore

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/phillip/trust-manager-go/apperr"
	"github.com/phillip/trust-manager-go/models"
)

const migrateTimeout = 2 * time.Minute

// legacyDates matches sort values older clients stored as strings, epoch
// milliseconds or timestamps. MongoDB orders those by BSON type after every
// date, so keyset predicates on dates never reach them.
func legacyDates(field string) bson.M {
	return bson.M{field: bson.M{"$type": bson.A{"string", "long", "timestamp"}}}
}

// normalizedDate is the $set that stores v the way models.DateValue writes
// it today. A value that does not read as a date becomes null and the
// original moves to <field>_legacy.
func normalizedDate(field string, v bson.RawValue) bson.M {
	var d models.DateValue
	if err := d.UnmarshalBSONValue(v.Type, v.Value); err == nil {
		if t, ok := d.Instant(); ok {
			return bson.M{field: t}
		}
	}
	return bson.M{field: nil, field + "_legacy": v}
}

// NormalizeDates rewrites legacy sort values as BSON dates and reports how
// many documents changed.
func (c *Collection[T, PT]) NormalizeDates(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, migrateTimeout)
	defer cancel()

	field := c.schema.SortField
	cursor, err := c.col.Find(ctx, legacyDates(field), options.Find().SetProjection(bson.M{field: 1}))
	if err != nil {
		return 0, apperr.Unavailable("normalize "+c.schema.Collection, err)
	}
	defer cursor.Close(ctx)

	var writes []mongo.WriteModel
	for cursor.Next(ctx) {
		id := cursor.Current.Lookup("_id")
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": id}).
			SetUpdate(bson.M{"$set": normalizedDate(field, cursor.Current.Lookup(field))}))
	}
	if err := cursor.Err(); err != nil {
		return 0, apperr.Unavailable("normalize "+c.schema.Collection, err)
	}
	if len(writes) == 0 {
		return 0, nil
	}

	res, err := c.col.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, apperr.Unavailable("normalize "+c.schema.Collection, err)
	}
	return res.ModifiedCount, nil
}
