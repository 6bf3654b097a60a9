package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"besttweets/internal/model"
	"besttweets/internal/store"
)

func TestPutGetOverwrite(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	ctx := context.Background()
	if _, err := db.Get(ctx, "42"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := db.Put(ctx, "42", model.Credential{Token: "t1", Secret: "s1"}); err != nil {
		t.Fatal(err)
	}
	if err := db.Put(ctx, "42", model.Credential{Token: "t2", Secret: "s2"}); err != nil {
		t.Fatal(err)
	}
	c, err := db.Get(ctx, "42")
	if err != nil || c != (model.Credential{Token: "t2", Secret: "s2"}) {
		t.Fatalf("credential mismatch: %v %+v", err, c)
	}
}

func TestPutRejectsPartial(t *testing.T) {
	db, err := Open(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	if err := db.Put(context.Background(), "42", model.Credential{Token: "t"}); !errors.Is(err, store.ErrPartialCredential) {
		t.Fatalf("expected partial error, got %v", err)
	}
	if _, err := db.Get(context.Background(), "42"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("partial write must not be stored")
	}
}

func TestSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.db")
	db, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := db.Put(context.Background(), "7", model.Credential{Token: "t", Secret: "s"}); err != nil {
		t.Fatal(err)
	}
	_ = db.Close()
	db, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()
	c, err := db.Get(context.Background(), "7")
	if err != nil || c.Token != "t" {
		t.Fatalf("credential lost across reopen: %v %+v", err, c)
	}
}
