package redisstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"besttweets/internal/model"
	"besttweets/internal/store"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb, err := Open(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestTokensPutGet(t *testing.T) {
	mr, rdb := newRedis(t)
	ts := NewTokens(rdb)
	ctx := context.Background()

	_, err := ts.Get(ctx, "42")
	require.True(t, errors.Is(err, store.ErrNotFound))

	require.NoError(t, ts.Put(ctx, "42", model.Credential{Token: "t1", Secret: "s1"}))
	require.NoError(t, ts.Put(ctx, "42", model.Credential{Token: "t2", Secret: "s2"}))
	c, err := ts.Get(ctx, "42")
	require.NoError(t, err)
	require.Equal(t, model.Credential{Token: "t2", Secret: "s2"}, c)
	require.Equal(t, "t2", mr.HGet("user:42", "token"))
}

func TestTokensRejectsPartialAndIgnoresHalfRecords(t *testing.T) {
	mr, rdb := newRedis(t)
	ts := NewTokens(rdb)
	ctx := context.Background()
	require.ErrorIs(t, ts.Put(ctx, "1", model.Credential{Secret: "s"}), store.ErrPartialCredential)

	mr.HSet("user:2", "token", "only")
	_, err := ts.Get(ctx, "2")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSessionsExpire(t *testing.T) {
	mr, rdb := newRedis(t)
	ss := NewSessions(rdb, time.Minute)
	ctx := context.Background()

	p, err := ss.Load(ctx, "abc")
	require.NoError(t, err)
	require.Nil(t, p)

	want := &model.PendingAuthorization{ReturnURL: "https://x/cb", RequestToken: "rt", RequestSecret: "rs"}
	require.NoError(t, ss.Save(ctx, "abc", want))
	got, err := ss.Load(ctx, "abc")
	require.NoError(t, err)
	require.Equal(t, want, got)

	other, err := ss.Load(ctx, "other")
	require.NoError(t, err)
	require.Nil(t, other)

	mr.FastForward(2 * time.Minute)
	got, err = ss.Load(ctx, "abc")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestSessionsSaveNilDeletes(t *testing.T) {
	_, rdb := newRedis(t)
	ss := NewSessions(rdb, time.Minute)
	ctx := context.Background()
	require.NoError(t, ss.Save(ctx, "abc", &model.PendingAuthorization{ReturnURL: "u"}))
	require.NoError(t, ss.Save(ctx, "abc", nil))
	got, err := ss.Load(ctx, "abc")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestSessionsTakeConsumes(t *testing.T) {
	mr, rdb := newRedis(t)
	ss := NewSessions(rdb, time.Minute)
	ctx := context.Background()
	want := &model.PendingAuthorization{ReturnURL: "https://x/cb", RequestToken: "rt", RequestSecret: "rs"}
	require.NoError(t, ss.Save(ctx, "abc", want))

	got, err := ss.Take(ctx, "abc")
	require.NoError(t, err)
	require.Equal(t, want, got)
	require.False(t, mr.Exists("oauth:session:abc"))

	again, err := ss.Take(ctx, "abc")
	require.NoError(t, err)
	require.Nil(t, again)
}
