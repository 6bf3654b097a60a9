// Package redisstore keeps credentials and pending OAuth state in Redis.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"besttweets/internal/model"
	"besttweets/internal/store"
)

// Open connects to the Redis server at rawURL (redis://[:password@]host:port[/db]).
func Open(ctx context.Context, rawURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// Tokens is a TokenStore with one hash per identity.
type Tokens struct{ rdb *redis.Client }

func NewTokens(rdb *redis.Client) *Tokens { return &Tokens{rdb: rdb} }

func userKey(id model.Identity) string { return fmt.Sprintf("user:%s", id) }

// Put writes token and secret with one HSET so readers never see half a credential.
func (t *Tokens) Put(ctx context.Context, id model.Identity, cred model.Credential) error {
	if !cred.Valid() {
		return store.ErrPartialCredential
	}
	return t.rdb.HSet(ctx, userKey(id), "token", cred.Token, "secret", cred.Secret).Err()
}

func (t *Tokens) Get(ctx context.Context, id model.Identity) (model.Credential, error) {
	vals, err := t.rdb.HGetAll(ctx, userKey(id)).Result()
	if err != nil {
		return model.Credential{}, err
	}
	c := model.Credential{Token: vals["token"], Secret: vals["secret"]}
	if !c.Valid() {
		return model.Credential{}, store.ErrNotFound
	}
	return c, nil
}

func (t *Tokens) Close() error { return t.rdb.Close() }

// Sessions stores pending authorizations under oauth:session:<id> with a TTL.
type Sessions struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessions(rdb *redis.Client, ttl time.Duration) *Sessions { return &Sessions{rdb: rdb, ttl: ttl} }

func sessionKey(id string) string { return "oauth:session:" + id }

func (s *Sessions) Load(ctx context.Context, id string) (*model.PendingAuthorization, error) {
	return decodePending(s.rdb.Get(ctx, sessionKey(id)).Bytes())
}

// Take uses GETDEL so two callbacks on one session cannot both consume it.
func (s *Sessions) Take(ctx context.Context, id string) (*model.PendingAuthorization, error) {
	return decodePending(s.rdb.GetDel(ctx, sessionKey(id)).Bytes())
}

func decodePending(b []byte, err error) (*model.PendingAuthorization, error) {
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var p model.PendingAuthorization
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &p, nil
}

func (s *Sessions) Save(ctx context.Context, id string, p *model.PendingAuthorization) error {
	if p == nil {
		return s.Delete(ctx, id)
	}
	b, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, sessionKey(id), b, s.ttl).Err()
}

func (s *Sessions) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, sessionKey(id)).Err()
}

var _ store.TokenStore = (*Tokens)(nil)
