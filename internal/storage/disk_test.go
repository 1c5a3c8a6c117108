package storage

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDiskDocumentStoreRoundTrip(t *testing.T) {
	store, err := NewDiskDocumentStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	if err := store.Write(ctx, "report.txt", []byte("hello")); err != nil {
		t.Fatal(err)
	}
	got, err := store.Read(ctx, "report.txt")
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello" {
		t.Errorf("unexpected content %q", got)
	}

	exists, err := store.Exists(ctx, "report.txt")
	if err != nil || !exists {
		t.Errorf("expected document to exist, got %v %v", exists, err)
	}
	exists, err = store.Exists(ctx, "other.txt")
	if err != nil || exists {
		t.Errorf("expected document to not exist, got %v %v", exists, err)
	}
}

func TestDiskDocumentStoreReadMissing(t *testing.T) {
	store, err := NewDiskDocumentStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Read(context.Background(), "missing.txt"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestDiskDocumentStoreRejectsTraversal(t *testing.T) {
	store, err := NewDiskDocumentStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, id := range []string{"", "..", "a/b.txt", `a\b.txt`} {
		if err := store.Write(ctx, id, []byte("x")); err == nil {
			t.Errorf("expected error for id %q", id)
		}
	}
}

func TestDiskDocumentStoreList(t *testing.T) {
	store, err := NewDiskDocumentStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	store.Write(ctx, "old.txt", []byte("a"))
	time.Sleep(10 * time.Millisecond)
	store.Write(ctx, "new.md", []byte("bb"))

	docs, err := store.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].Filename != "new.md" {
		t.Errorf("expected newest first, got %s", docs[0].Filename)
	}
	if docs[0].Type != ".md" {
		t.Errorf("unexpected type %s", docs[0].Type)
	}
	if docs[1].Size != 1 {
		t.Errorf("unexpected size %d", docs[1].Size)
	}
}

func TestDiskDocumentStoreDelete(t *testing.T) {
	store, err := NewDiskDocumentStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	store.Write(ctx, "doc.txt", []byte("x"))
	if err := store.Delete(ctx, "doc.txt"); err != nil {
		t.Fatal(err)
	}
	// Deleting again is a no-op.
	if err := store.Delete(ctx, "doc.txt"); err != nil {
		t.Fatal(err)
	}
}
