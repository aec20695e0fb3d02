package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/phillip/trust-manager-go/apperr"
	"github.com/phillip/trust-manager-go/models"
	"github.com/phillip/trust-manager-go/paging"
)

func TestInsertGetUpdateDelete(t *testing.T) {
	ctx := context.Background()
	c := New[models.Expense]()

	e := models.Expense{Title: "Hall hire", Amount: 4500, Date: models.ISODate("2024-04-02")}
	require.NoError(t, c.Insert(ctx, &e))
	require.False(t, e.ID.IsZero())
	require.False(t, e.CreatedAt.IsZero())

	got, err := c.Get(ctx, e.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, "Hall hire", got.Title)

	got.Amount = 5000
	got.CreatedAt = time.Time{}
	require.NoError(t, c.Update(ctx, e.ID.Hex(), &got))
	again, err := c.Get(ctx, e.ID.Hex())
	require.NoError(t, err)
	require.EqualValues(t, 5000, again.Amount)
	require.Equal(t, e.CreatedAt, again.CreatedAt)

	require.NoError(t, c.Delete(ctx, e.ID.Hex()))
	_, err = c.Get(ctx, e.ID.Hex())
	require.True(t, errors.Is(err, apperr.ErrNotFound))
	require.True(t, errors.Is(c.Delete(ctx, e.ID.Hex()), apperr.ErrNotFound))
}

func TestGetInvalidID(t *testing.T) {
	c := New[models.Link]()
	_, err := c.Get(context.Background(), "not-hex")
	require.True(t, apperr.IsValidation(err))
}

func TestCountAndSum(t *testing.T) {
	ctx := context.Background()
	c := New[models.Donation]()
	c.Seed(
		models.Donation{Donor: "A", Amount: 10, Date: models.ISODate("2024-01-01"), Kind: "general"},
		models.Donation{Donor: "B", Amount: 32, Date: models.ISODate("2024-01-02"), Kind: "general"},
	)

	n, err := c.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	total, err := c.Sum(ctx, "amount")
	require.NoError(t, err)
	require.EqualValues(t, 42, total)
}

func TestUpsertByKey(t *testing.T) {
	ctx := context.Background()
	c := New[models.Post]()

	created, err := c.Upsert(ctx, &models.Post{SourceID: 7, Title: "First"})
	require.NoError(t, err)
	require.True(t, created)

	created, err = c.Upsert(ctx, &models.Post{SourceID: 7, Title: "First, edited"})
	require.NoError(t, err)
	require.False(t, created)

	items, err := c.Find(ctx, paging.Query{Mode: paging.Default()})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "First, edited", items[0].Title)
}

func TestUpsertWithoutKey(t *testing.T) {
	c := New[models.Link]()
	_, err := c.Upsert(context.Background(), &models.Link{Title: "x", URL: "https://x.org"})
	require.Error(t, err)
}

func TestFindSearchUsesPrefixRange(t *testing.T) {
	c := New[models.Member]()
	c.Seed(
		models.Member{Name: "Jo"},
		models.Member{Name: "John"},
		models.Member{Name: "joanna"},
		models.Member{Name: "Mary"},
	)

	items, err := c.Find(context.Background(), paging.Query{Mode: paging.PrefixSearch("name", "Jo")})
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, "Jo", items[0].Name)
	require.Equal(t, "John", items[1].Name)

	_, err = c.Find(context.Background(), paging.Query{Mode: paging.PrefixSearch("email", "Jo")})
	require.True(t, apperr.IsValidation(err))
}

func TestFail(t *testing.T) {
	c := New[models.Meeting]()
	boom := errors.New("connection refused")
	c.Fail = boom

	_, err := c.Find(context.Background(), paging.Query{})
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, err, apperr.ErrBackendUnavailable)
	require.ErrorIs(t, c.Insert(context.Background(), &models.Meeting{}), boom)
}
