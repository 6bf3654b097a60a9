// Package store defines the durable identity -> credential mapping.
package store

import (
	"context"
	"errors"

	"besttweets/internal/model"
)

// ErrNotFound is returned by Get for identities with no stored credential.
var ErrNotFound = errors.New("store: credential not found")

// TokenStore persists one credential per identity. Put overwrites; there is no delete.
type TokenStore interface {
	Get(ctx context.Context, id model.Identity) (model.Credential, error)
	Put(ctx context.Context, id model.Identity, cred model.Credential) error
	Close() error
}

// ErrPartialCredential is returned by Put when token or secret is empty.
var ErrPartialCredential = errors.New("store: credential needs both token and secret")
