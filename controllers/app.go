package controllers

import (
	"context"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	config "github.com/phillip/trust-manager-go/config"
	models "github.com/phillip/trust-manager-go/models"
	store "github.com/phillip/trust-manager-go/store"
	memstore "github.com/phillip/trust-manager-go/store/memstore"
	mongostore "github.com/phillip/trust-manager-go/store/mongostore"
	utils "github.com/phillip/trust-manager-go/utils"
)

// Stores is one collection per entity.
type Stores struct {
	Members    store.Collection[models.Member]
	Trustees   store.Collection[models.Trustee]
	Donations  store.Collection[models.Donation]
	Expenses   store.Collection[models.Expense]
	Activities store.Collection[models.Activity]
	Resources  store.Collection[models.Resource]
	Meetings   store.Collection[models.Meeting]
	Links      store.Collection[models.Link]
	Posts      store.Collection[models.Post]
}

func MemoryStores() *Stores {
	return &Stores{
		Members:    memstore.New[models.Member](),
		Trustees:   memstore.New[models.Trustee](),
		Donations:  memstore.New[models.Donation](),
		Expenses:   memstore.New[models.Expense](),
		Activities: memstore.New[models.Activity](),
		Resources:  memstore.New[models.Resource](),
		Meetings:   memstore.New[models.Meeting](),
		Links:      memstore.New[models.Link](),
		Posts:      memstore.New[models.Post](),
	}
}

// MongoStores opens every collection in db, rewrites legacy sort dates as
// BSON dates and makes sure the listing indexes exist.
func MongoStores(ctx context.Context, db *mongo.Database) (*Stores, error) {
	members := mongostore.New[models.Member](db)
	trustees := mongostore.New[models.Trustee](db)
	donations := mongostore.New[models.Donation](db)
	expenses := mongostore.New[models.Expense](db)
	activities := mongostore.New[models.Activity](db)
	resources := mongostore.New[models.Resource](db)
	meetings := mongostore.New[models.Meeting](db)
	links := mongostore.New[models.Link](db)
	posts := mongostore.New[models.Post](db)

	g, gctx := errgroup.WithContext(ctx)
	for _, col := range []interface {
		EnsureIndexes(context.Context) error
		NormalizeDates(context.Context) (int64, error)
	}{
		members, trustees, donations, expenses, activities, resources, meetings, links, posts,
	} {
		g.Go(func() error {
			if _, err := col.NormalizeDates(gctx); err != nil {
				return err
			}
			return col.EnsureIndexes(gctx)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Stores{
		Members:    members,
		Trustees:   trustees,
		Donations:  donations,
		Expenses:   expenses,
		Activities: activities,
		Resources:  resources,
		Meetings:   meetings,
		Links:      links,
		Posts:      posts,
	}, nil
}

// App is what every handler closes over. Media and Mail are nil when the
// matching service is not configured.
type App struct {
	Cfg    *config.Config
	Log    zerolog.Logger
	Stores *Stores
	Media  utils.Media
	Mail   utils.Mailer
}
