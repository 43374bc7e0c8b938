package licenses

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/artledger/internal/common"
	"github.com/dmitrijs2005/artledger/internal/dbx"
	"github.com/dmitrijs2005/artledger/internal/server/models"
)

func newLicense(key, hash, owner string) *models.License {
	return &models.License{
		Key:   key,
		Owner: owner,
		File:  models.OriginalFile{Hash: hash, Payload: []byte("payload"), Author: "author-1", Price: 200},
	}
}

func TestMemoryCreateAndGet(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	created, err := r.Create(ctx, newLicense("key-1", "h1", "buyer-1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Index != 1 {
		t.Fatalf("expected index 1, got %d", created.Index)
	}

	got, err := r.GetByKey(ctx, "key-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Owner != "buyer-1" || got.File.Hash != "h1" {
		t.Fatalf("unexpected record: %+v", got)
	}
}

func TestMemoryCreateDuplicateKey(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	if _, err := r.Create(ctx, newLicense("key-1", "h1", "buyer-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Create(ctx, newLicense("key-1", "h2", "buyer-2")); err == nil {
		t.Fatalf("expected an error for a duplicate key")
	}
}

func TestMemoryGetByKeyNotFound(t *testing.T) {
	r := NewMemoryRepository()

	_, err := r.GetByKey(context.Background(), "missing")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestMemoryGetIndexSentinel(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	idx, err := r.GetIndex(ctx, "missing")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if idx != 0 {
		t.Fatalf("expected sentinel 0, got %d", idx)
	}
}

func TestMemorySnapshotIsolation(t *testing.T) {
	r := NewMemoryRepository()
	ctx := context.Background()

	in := newLicense("key-1", "h1", "buyer-1")
	if _, err := r.Create(ctx, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	in.File.Payload[0] = 'X'

	got, _ := r.GetByKey(ctx, "key-1")
	if string(got.File.Payload) != "payload" {
		t.Fatalf("stored snapshot mutated through caller slice: %q", got.File.Payload)
	}
}

func TestMemoryCreateJournalUndo(t *testing.T) {
	r := NewMemoryRepository()

	j := dbx.NewJournal()
	ctx := dbx.WithJournal(context.Background(), j)

	if _, err := r.Create(ctx, newLicense("key-1", "h1", "buyer-1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	j.Rollback()

	idx, _ := r.GetIndex(context.Background(), "key-1")
	if idx != 0 {
		t.Fatalf("rollback left the license visible, index %d", idx)
	}
}
