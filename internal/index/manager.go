package index

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/mundap/internal/embedding"
	"github.com/hyperjump/mundap/internal/extract"
	"github.com/hyperjump/mundap/internal/models"
	"github.com/hyperjump/mundap/internal/storage"
)

// Manager builds per-document indexes and keeps them resident in memory.
// Chunk text is persisted in the chunk cache so a restart only costs
// re-embedding, not re-extraction. Vectors are never persisted.
type Manager struct {
	store     storage.DocumentStore
	cache     storage.ChunkCache
	extractor *extract.Extractor
	chunker   *Chunker
	embedder  embedding.Embedder
	logger    *zap.Logger

	mu       sync.RWMutex
	resident map[string]*models.DocumentIndex

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewManager creates an index manager.
func NewManager(store storage.DocumentStore, cache storage.ChunkCache, extractor *extract.Extractor, chunker *Chunker, embedder embedding.Embedder, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:     store,
		cache:     cache,
		extractor: extractor,
		chunker:   chunker,
		embedder:  embedder,
		logger:    logger,
		resident:  make(map[string]*models.DocumentIndex),
		locks:     make(map[string]*sync.Mutex),
	}
}

// lockFor returns the mutex serializing index writes for one document ID.
func (m *Manager) lockFor(id string) *sync.Mutex {
	m.locksMu.Lock()
	defer m.locksMu.Unlock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	return l
}

// Build extracts, chunks, and embeds the stored document, caches the chunk
// set, and makes the index resident. Concurrent builds for the same ID are
// serialized; builds for different IDs run in parallel.
func (m *Manager) Build(ctx context.Context, id string) (*models.DocumentIndex, error) {
	l := m.lockFor(id)
	l.Lock()
	defer l.Unlock()
	return m.buildLocked(ctx, id)
}

func (m *Manager) buildLocked(ctx context.Context, id string) (*models.DocumentIndex, error) {
	content, err := m.store.Read(ctx, id)
	if err != nil {
		return nil, err
	}
	text, err := m.extractor.ExtractBytes(content, filepath.Ext(id))
	if err != nil {
		return nil, fmt.Errorf("failed to extract %s: %w", id, err)
	}

	chunks := m.chunker.Split(text)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("document %s produced no chunks", id)
	}
	for i := range chunks {
		chunks[i].Metadata[models.MetaKeySource] = id
	}

	// The index becomes resident only once the chunk set is cached, so a
	// failed build leaves nothing behind for Load to serve.
	idx, err := m.embed(ctx, id, chunks)
	if err != nil {
		return nil, err
	}
	if err := m.cache.Put(ctx, id, chunks); err != nil {
		return nil, fmt.Errorf("failed to cache chunks for %s: %w", id, err)
	}
	m.publish(idx)

	m.logger.Info("document indexed",
		zap.String("document_id", id),
		zap.Int("chunks", len(chunks)))
	return idx, nil
}

// Load returns the index for id, building it if needed. Resolution order:
// resident index, cached chunks (re-embedded), full rebuild from the stored
// file. A corrupt cache entry falls through to a rebuild.
func (m *Manager) Load(ctx context.Context, id string) (*models.DocumentIndex, error) {
	m.mu.RLock()
	idx, ok := m.resident[id]
	m.mu.RUnlock()
	if ok {
		return idx, nil
	}

	l := m.lockFor(id)
	l.Lock()
	defer l.Unlock()

	// Re-check under the document lock in case another goroutine built it.
	m.mu.RLock()
	idx, ok = m.resident[id]
	m.mu.RUnlock()
	if ok {
		return idx, nil
	}

	chunks, err := m.cache.Get(ctx, id)
	switch {
	case err == nil:
		idx, err := m.embed(ctx, id, chunks)
		if err != nil {
			return nil, err
		}
		m.publish(idx)
		m.logger.Debug("index restored from chunk cache",
			zap.String("document_id", id),
			zap.Int("chunks", len(chunks)))
		return idx, nil
	case errors.Is(err, storage.ErrNotFound), errors.Is(err, storage.ErrCorrupt):
		if errors.Is(err, storage.ErrCorrupt) {
			m.logger.Warn("chunk cache entry corrupt, rebuilding",
				zap.String("document_id", id))
		}
		return m.buildLocked(ctx, id)
	default:
		return nil, err
	}
}

func (m *Manager) embed(ctx context.Context, id string, chunks []models.Chunk) (*models.DocumentIndex, error) {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Content
	}
	vectors, err := m.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed %s: %w", id, err)
	}

	return &models.DocumentIndex{
		DocumentID: id,
		Chunks:     chunks,
		Vectors:    vectors,
		CreatedAt:  time.Now(),
	}, nil
}

func (m *Manager) publish(idx *models.DocumentIndex) {
	m.mu.Lock()
	m.resident[idx.DocumentID] = idx
	m.mu.Unlock()
}

// Invalidate drops the resident index and the cached chunk set for id.
func (m *Manager) Invalidate(ctx context.Context, id string) error {
	l := m.lockFor(id)
	l.Lock()
	defer l.Unlock()

	m.mu.Lock()
	delete(m.resident, id)
	m.mu.Unlock()
	return m.cache.Delete(ctx, id)
}

// Resident returns the number of indexes currently held in memory.
func (m *Manager) Resident() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.resident)
}
