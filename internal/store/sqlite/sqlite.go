// Package sqlite is the default TokenStore, a single-file SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "modernc.org/sqlite"

	"besttweets/internal/model"
	"besttweets/internal/store"
)

// DB wraps a SQLite database holding subscriber credentials.
type DB struct{ sql *sql.DB }

func Open(path string) (*DB, error) {
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// every pooled connection would get its own empty database
		d.SetMaxOpenConns(1)
	}
	if _, err := d.Exec(`PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL; PRAGMA busy_timeout=5000;`); err != nil {
		_ = d.Close()
		return nil, err
	}
	db := &DB{sql: d}
	if err := db.migrate(); err != nil {
		_ = d.Close()
		return nil, err
	}
	return db, nil
}

func (d *DB) Close() error { return d.sql.Close() }

func (d *DB) migrate() error {
	_, err := d.sql.Exec(`
	CREATE TABLE IF NOT EXISTS credentials (
	  identity_id TEXT PRIMARY KEY,
	  token TEXT NOT NULL,
	  secret TEXT NOT NULL,
	  updated_at INTEGER NOT NULL
	);
	`)
	return err
}

// Put stores cred for id, replacing any earlier one in a single statement.
func (d *DB) Put(ctx context.Context, id model.Identity, cred model.Credential) error {
	if !cred.Valid() {
		return store.ErrPartialCredential
	}
	_, err := d.sql.ExecContext(ctx, `INSERT INTO credentials(identity_id, token, secret, updated_at) VALUES(?,?,?,?)
	ON CONFLICT(identity_id) DO UPDATE SET token=excluded.token, secret=excluded.secret, updated_at=excluded.updated_at`,
		string(id), cred.Token, cred.Secret, time.Now().UTC().Unix())
	return err
}

func (d *DB) Get(ctx context.Context, id model.Identity) (model.Credential, error) {
	row := d.sql.QueryRowContext(ctx, `SELECT token, secret FROM credentials WHERE identity_id=?`, string(id))
	var c model.Credential
	if err := row.Scan(&c.Token, &c.Secret); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Credential{}, store.ErrNotFound
		}
		return model.Credential{}, err
	}
	return c, nil
}

var _ store.TokenStore = (*DB)(nil)
