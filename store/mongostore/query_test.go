package mongostore

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/phillip/trust-manager-go/apperr"
	"github.com/phillip/trust-manager-go/models"
	"github.com/phillip/trust-manager-go/paging"
)

var donations = models.Donation{}.Schema()

func TestListSort(t *testing.T) {
	require.Equal(t, bson.D{{Key: "date", Value: -1}, {Key: "_id", Value: 1}},
		listSort(donations, paging.Default()))

	require.Equal(t, bson.D{{Key: "donor", Value: 1}, {Key: "date", Value: -1}, {Key: "_id", Value: 1}},
		listSort(donations, paging.PrefixSearch("donor", "Jo")))
}

func TestListFilterFirstPage(t *testing.T) {
	f, err := listFilter(donations, paging.Query{Mode: paging.Default(), Limit: 11})
	require.NoError(t, err)
	require.Empty(t, f)

	f, err = listFilter(donations, paging.Query{Mode: paging.PrefixSearch("donor", "Jo"), Limit: 11})
	require.NoError(t, err)
	require.Equal(t, bson.M{"donor": bson.M{"$gte": "Jo", "$lt": "Jo" + paging.Sentinel}}, f)
}

func TestListFilterRejectsOtherField(t *testing.T) {
	_, err := listFilter(donations, paging.Query{Mode: paging.PrefixSearch("purpose", "x")})
	require.True(t, apperr.IsValidation(err))
}

func TestListFilterAfterDefault(t *testing.T) {
	oid := primitive.NewObjectID()
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	f, err := listFilter(donations, paging.Query{
		Mode:  paging.Default(),
		After: &paging.Position{ID: oid.Hex(), Sort: at},
	})
	require.NoError(t, err)
	require.Equal(t, bson.M{"$or": []bson.M{
		{"date": bson.M{"$lt": at}},
		{"date": nil},
		{"date": at, "_id": bson.M{"$gt": oid}},
	}}, f)
}

func TestListFilterAfterUndatedRecord(t *testing.T) {
	oid := primitive.NewObjectID()
	f, err := listFilter(donations, paging.Query{
		Mode:  paging.Default(),
		After: &paging.Position{ID: oid.Hex()},
	})
	require.NoError(t, err)
	require.Equal(t, bson.M{"$or": []bson.M{
		{"date": nil, "_id": bson.M{"$gt": oid}},
	}}, f)
}

func TestListFilterAfterSearch(t *testing.T) {
	oid := primitive.NewObjectID()
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	f, err := listFilter(donations, paging.Query{
		Mode:  paging.PrefixSearch("donor", "Jo"),
		After: &paging.Position{ID: oid.Hex(), Sort: at, Search: "John"},
	})
	require.NoError(t, err)

	and, ok := f["$and"].([]bson.M)
	require.True(t, ok)
	require.Len(t, and, 2)
	require.Equal(t, bson.M{"$or": []bson.M{
		{"donor": bson.M{"$gt": "John"}},
		{"donor": "John", "date": bson.M{"$lt": at}},
		{"donor": "John", "date": nil},
		{"donor": "John", "date": at, "_id": bson.M{"$gt": oid}},
	}}, and[1])
}

func TestListFilterBadCursorID(t *testing.T) {
	_, err := listFilter(donations, paging.Query{
		Mode:  paging.Default(),
		After: &paging.Position{ID: "nope", Sort: time.Now()},
	})
	require.True(t, errors.Is(err, apperr.ErrInvalidCursor))
}

func TestSetFieldsDropsStoreOwnedFields(t *testing.T) {
	d := models.Donation{Donor: "A", Amount: 5, Date: models.ISODate("2024-01-02"), Kind: "general"}
	d.Stamp(time.Now())

	m, err := setFields(&d)
	require.NoError(t, err)
	require.NotContains(t, m, "_id")
	require.NotContains(t, m, "created_at")
	require.NotContains(t, m, "updated_at")
	require.Equal(t, "A", m["donor"])
	require.Equal(t, int64(5), m["amount"])
	require.Equal(t, primitive.NewDateTimeFromTime(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)), m["date"])
}
