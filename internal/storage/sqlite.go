package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/mundap/internal/models"
)

// SQLiteChunkCache implements ChunkCache using SQLite.
type SQLiteChunkCache struct {
	db *sql.DB
}

// NewSQLiteChunkCache opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteChunkCache(dbPath string) (*SQLiteChunkCache, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteChunkCache{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS document_chunks (
		document_id TEXT NOT NULL,
		chunk_index INTEGER NOT NULL,
		content TEXT NOT NULL,
		metadata TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (document_id, chunk_index)
	);

	CREATE INDEX IF NOT EXISTS idx_chunks_document_id ON document_chunks(document_id);
	`
	_, err := db.Exec(schema)
	return err
}

// Put replaces the cached chunk set for id in a single transaction.
func (c *SQLiteChunkCache) Put(ctx context.Context, id string, chunks []models.Chunk) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM document_chunks WHERE document_id = ?`, id); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO document_chunks (document_id, chunk_index, content, metadata, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now()
	for i, chunk := range chunks {
		metadataJSON, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, id, i, chunk.Content, string(metadataJSON), now); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Get returns the cached chunk set for id ordered by chunk_index.
// Returns ErrNotFound when no chunks are cached and ErrCorrupt when a row
// cannot be decoded.
func (c *SQLiteChunkCache) Get(ctx context.Context, id string) ([]models.Chunk, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT content, metadata FROM document_chunks
		 WHERE document_id = ? ORDER BY chunk_index`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []models.Chunk
	for rows.Next() {
		var chunk models.Chunk
		var metadataJSON string
		if err := rows.Scan(&chunk.Content, &metadataJSON); err != nil {
			return nil, err
		}
		if metadataJSON != "" {
			if err := json.Unmarshal([]byte(metadataJSON), &chunk.Metadata); err != nil {
				return nil, fmt.Errorf("chunk metadata for %s: %w", id, ErrCorrupt)
			}
		}
		chunks = append(chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("chunks for %s: %w", id, ErrNotFound)
	}
	return chunks, nil
}

// Delete removes the cached chunk set for id.
func (c *SQLiteChunkCache) Delete(ctx context.Context, id string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM document_chunks WHERE document_id = ?`, id)
	return err
}

// CountDocuments returns the number of documents with cached chunks.
func (c *SQLiteChunkCache) CountDocuments(ctx context.Context) (int64, error) {
	var count int64
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT document_id) FROM document_chunks`).Scan(&count)
	return count, err
}

// CountChunks returns the total number of cached chunks.
func (c *SQLiteChunkCache) CountChunks(ctx context.Context) (int64, error) {
	var count int64
	err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM document_chunks`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (c *SQLiteChunkCache) Close() error {
	return c.db.Close()
}
