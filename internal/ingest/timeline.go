// Package ingest pulls a subscriber's recent posts from upstream.
package ingest

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"besttweets/internal/apperr"
	"besttweets/internal/model"
)

// MaxBatch is the largest page the timeline endpoint serves in one call.
const MaxBatch = 200

// Timeline is the upstream call the Fetcher depends on.
type Timeline interface {
	UserTimeline(ctx context.Context, cred model.Credential, userID string, count int) ([]model.ActivityItem, error)
}

// Fetcher reads one batch of the identity's own timeline. There is no pagination.
type Fetcher struct {
	client Timeline
	batch  int
	log    *zap.Logger
}

func NewFetcher(client Timeline, batch int, log *zap.Logger) *Fetcher {
	if batch <= 0 || batch > MaxBatch {
		batch = MaxBatch
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{client: client, batch: batch, log: log}
}

// FetchRecentActivity returns up to one batch of items in upstream order, newest first.
// Every failure comes back as an *apperr.Error.
func (f *Fetcher) FetchRecentActivity(ctx context.Context, id model.Identity, cred model.Credential) ([]model.ActivityItem, error) {
	const op = "ingest.fetch_recent"
	if !cred.Valid() {
		return nil, apperr.E(apperr.KindNoCredential, op, errors.New("empty credential"))
	}
	items, err := f.client.UserTimeline(ctx, cred, string(id), f.batch)
	if err != nil {
		var ae *apperr.Error
		if !errors.As(err, &ae) {
			err = apperr.E(apperr.KindTransient, op, err)
		}
		f.log.Warn("timeline fetch failed",
			zap.String("identity", string(id)),
			zap.String("op", apperr.OpOf(err)),
			zap.Stringer("kind", apperr.KindOf(err)),
			zap.Error(err))
		return nil, err
	}
	if len(items) > f.batch {
		items = items[:f.batch]
	}
	// order is passed through as upstream returned it (newest first)
	f.log.Debug("timeline fetched", zap.String("identity", string(id)), zap.Int("items", len(items)))
	return items, nil
}
