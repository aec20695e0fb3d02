// Command contentsync copies the blog's posts into the posts collection once.
package main

import (
	"context"
	"os"

	config "github.com/phillip/trust-manager-go/config"
	contentsync "github.com/phillip/trust-manager-go/contentsync"
	logging "github.com/phillip/trust-manager-go/logging"
	models "github.com/phillip/trust-manager-go/models"
	mongostore "github.com/phillip/trust-manager-go/store/mongostore"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.AppEnv)

	if cfg.BlogAPIURL == "" {
		logger.Fatal().Msg("BLOG_API_URL is required")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.DataBackend != config.BackendMongo {
		logger.Fatal().Str("backend", cfg.DataBackend).Msg("content sync needs the mongo backend")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.SyncTimeout)
	defer cancel()

	if err := cfg.Connect(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer func() { _ = cfg.MongoClient.Disconnect(context.Background()) }()

	posts := mongostore.New[models.Post](cfg.Database())
	if err := posts.EnsureIndexes(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare posts collection")
	}

	syncer := contentsync.NewSyncer(contentsync.NewClient(cfg.BlogAPIURL), posts, cfg.BlogPageSize, logger)
	rep, err := syncer.Run(ctx)
	ev := logger.Info()
	if err != nil {
		ev = logger.Error().Err(err)
	}
	ev.Int("fetched", rep.Fetched).
		Int("created", rep.Created).
		Int("updated", rep.Updated).
		Int("skipped", rep.Skipped).
		Msg("content sync finished")
	if err != nil {
		cancel()
		_ = cfg.MongoClient.Disconnect(context.Background())
		os.Exit(1)
	}
}
