package contentsync

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	models "github.com/phillip/trust-manager-go/models"
	store "github.com/phillip/trust-manager-go/store"
)

const DefaultPerPage = 20

// Report counts what one run did.
type Report struct {
	Fetched int `json:"fetched"`
	Created int `json:"created"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// Syncer copies every remote post into the posts collection, keyed by
// source id, so running it again updates in place.
type Syncer struct {
	client  *Client
	posts   store.Upserter[models.Post]
	perPage int
	log     zerolog.Logger
}

func NewSyncer(client *Client, posts store.Upserter[models.Post], perPage int, log zerolog.Logger) *Syncer {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}
	return &Syncer{client: client, posts: posts, perPage: perPage, log: log}
}

// Run pages through the remote listing until an empty page, a short page
// or the reported page count. It stops at the first failure and returns
// the counts so far.
func (s *Syncer) Run(ctx context.Context) (Report, error) {
	var rep Report
	for page := 1; ; page++ {
		res, err := s.client.Posts(ctx, page, s.perPage)
		if err != nil {
			return rep, fmt.Errorf("fetch page %d: %w", page, err)
		}
		rep.Fetched += len(res.Posts)

		for i := range res.Posts {
			p := &res.Posts[i]
			if err := p.Validate(); err != nil {
				s.log.Warn().Err(err).Int("page", page).Msg("skipping post")
				rep.Skipped++
				continue
			}
			created, err := s.posts.Upsert(ctx, p)
			if err != nil {
				return rep, fmt.Errorf("store post %d: %w", p.SourceID, err)
			}
			if created {
				rep.Created++
			} else {
				rep.Updated++
			}
		}
		s.log.Debug().Int("page", page).Int("posts", len(res.Posts)).Msg("page synced")

		if len(res.Posts) < s.perPage || (res.TotalPages > 0 && page >= res.TotalPages) {
			return rep, nil
		}
	}
}
