// Package storage persists original documents on disk and chunk sets in SQLite.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/mundap/internal/models"
)

// ErrNotFound is returned when a document or cached chunk set does not exist.
var ErrNotFound = errors.New("not found")

// ErrCorrupt is returned when a cached chunk set cannot be decoded.
var ErrCorrupt = errors.New("cache entry corrupt")

// DocumentStore persists raw document files keyed by document ID.
type DocumentStore interface {
	Write(ctx context.Context, id string, content []byte) error
	Read(ctx context.Context, id string) ([]byte, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context) ([]models.DocumentInfo, error)
}

// ChunkCache persists the chunk set produced by ingestion so a restart does
// not force re-extraction and re-splitting.
type ChunkCache interface {
	Put(ctx context.Context, id string, chunks []models.Chunk) error
	Get(ctx context.Context, id string) ([]models.Chunk, error)
	Delete(ctx context.Context, id string) error
	CountDocuments(ctx context.Context) (int64, error)
	CountChunks(ctx context.Context) (int64, error)
	Close() error
}
