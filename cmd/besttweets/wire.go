package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"besttweets/internal/config"
	"besttweets/internal/ingest"
	"besttweets/internal/oauthflow"
	"besttweets/internal/rank"
	"besttweets/internal/session"
	"besttweets/internal/store"
	"besttweets/internal/store/redisstore"
	"besttweets/internal/store/sqlite"
	"besttweets/internal/web"
	"besttweets/internal/xclient"
)

type app struct {
	*web.Server
	tokens store.TokenStore
}

func (a *app) Close() error { return a.tokens.Close() }

// build assembles the service from cfg. Storage picks both the token store and,
// for redis, where pending OAuth sessions live.
func build(ctx context.Context, cfg config.Config, log *zap.Logger) (*app, error) {
	var (
		tokens   store.TokenStore
		sessions session.Store
	)
	switch cfg.Storage.Driver {
	case "redis":
		rdb, err := redisstore.Open(ctx, cfg.Storage.RedisURL)
		if err != nil {
			return nil, err
		}
		tokens = redisstore.NewTokens(rdb)
		sessions = redisstore.NewSessions(rdb, cfg.Server.SessionTTL)
	case "sqlite", "":
		db, err := sqlite.Open(cfg.Storage.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		tokens = db
		sessions = session.NewMemory(cfg.Server.SessionTTL)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}

	client := xclient.New(xclient.Config{
		BaseURL:        cfg.Upstream.APIBaseURL,
		ConsumerKey:    cfg.Credentials.ConsumerKey,
		ConsumerSecret: cfg.Credentials.ConsumerSecret,
		Timeout:        cfg.Upstream.Timeout,
		RPS:            cfg.Upstream.RPS,
		Burst:          cfg.Upstream.Burst,
	}, log.Named("xclient"))

	srv, err := web.New(web.Options{
		Controller:  oauthflow.NewController(client, tokens, log.Named("oauthflow")),
		Tokens:      tokens,
		Fetcher:     ingest.NewFetcher(client, cfg.Edition.BatchSize, log.Named("ingest")),
		Pipeline:    rank.New(cfg.Edition.RetweetWeight, cfg.Edition.MaxItems, cfg.Edition.DaysToFetch),
		Sessions:    sessions,
		SessionTTL:  cfg.Server.SessionTTL,
		PublicURL:   cfg.Server.PublicURL,
		ServiceName: cfg.Server.ServiceName,
		Logger:      log.Named("web"),
	})
	if err != nil {
		_ = tokens.Close()
		return nil, err
	}
	return &app{Server: srv, tokens: tokens}, nil
}
