// Package chat exposes the document question-answering pipeline: ingest,
// ask, remove, and the supporting document operations.
package chat

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/mundap/internal/answer"
	"github.com/hyperjump/mundap/internal/extract"
	"github.com/hyperjump/mundap/internal/index"
	"github.com/hyperjump/mundap/internal/models"
	"github.com/hyperjump/mundap/internal/retriever"
	"github.com/hyperjump/mundap/internal/storage"
)

// Service orchestrates ingestion and chat over ingested documents.
type Service struct {
	store       storage.DocumentStore
	cache       storage.ChunkCache
	manager     *index.Manager
	retriever   *retriever.Retriever
	synthesizer *answer.Synthesizer
	extractor   *extract.Extractor
	logger      *zap.Logger

	defaultStyle models.AnswerStyle
	defaultTemp  float64
}

// Config wires the service's collaborators and defaults.
type Config struct {
	Store        storage.DocumentStore
	Cache        storage.ChunkCache
	Manager      *index.Manager
	Retriever    *retriever.Retriever
	Synthesizer  *answer.Synthesizer
	Extractor    *extract.Extractor
	Logger       *zap.Logger
	DefaultStyle models.AnswerStyle
	DefaultTemp  float64
}

// NewService creates the chat service.
func NewService(cfg Config) *Service {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.DefaultStyle == "" {
		cfg.DefaultStyle = models.StyleProfessional
	}
	if cfg.DefaultTemp == 0 {
		cfg.DefaultTemp = 0.7
	}
	return &Service{
		store:        cfg.Store,
		cache:        cfg.Cache,
		manager:      cfg.Manager,
		retriever:    cfg.Retriever,
		synthesizer:  cfg.Synthesizer,
		extractor:    cfg.Extractor,
		logger:       cfg.Logger,
		defaultStyle: cfg.DefaultStyle,
		defaultTemp:  cfg.DefaultTemp,
	}
}

// Ingest stores the raw document and builds its index. When id is empty a
// UUID-based id is generated from ext. A failed build rolls the stored file
// back so no half-ingested state remains.
func (s *Service) Ingest(ctx context.Context, id string, content []byte, ext string) (*models.IngestResult, error) {
	if len(content) == 0 {
		return nil, fmt.Errorf("document content is empty")
	}
	if id == "" {
		if ext != "" && !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		id = uuid.New().String() + ext
	}

	if err := s.store.Write(ctx, id, content); err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}
	idx, err := s.manager.Build(ctx, id)
	if err != nil {
		// Roll back so a retry starts clean.
		if derr := s.store.Delete(ctx, id); derr != nil {
			s.logger.Warn("rollback delete failed", zap.String("document_id", id), zap.Error(derr))
		}
		_ = s.manager.Invalidate(ctx, id)
		return nil, fmt.Errorf("ingest %s: %w", id, err)
	}

	return &models.IngestResult{
		DocumentID: id,
		ChunkCount: len(idx.Chunks),
	}, nil
}

// Reindex rebuilds the index for a document already present in the store,
// without rewriting the stored file. Used when the file changed on disk.
func (s *Service) Reindex(ctx context.Context, id string) (*models.IngestResult, error) {
	idx, err := s.manager.Build(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reindex %s: %w", id, err)
	}
	return &models.IngestResult{
		DocumentID: id,
		ChunkCount: len(idx.Chunks),
	}, nil
}

// Ask answers a question against one ingested document.
func (s *Service) Ask(ctx context.Context, req models.ChatRequest) (*models.ChatAnswer, error) {
	if req.DocumentID == "" || req.Question == "" {
		return nil, fmt.Errorf("document id and question are required")
	}

	idx, err := s.manager.Load(ctx, req.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("ask %s: %w", req.DocumentID, err)
	}

	results, keywords, err := s.retriever.Retrieve(ctx, idx, req.Question)
	if err != nil {
		return nil, fmt.Errorf("ask %s: %w", req.DocumentID, err)
	}

	style := s.defaultStyle
	if req.Style != "" {
		style = models.ParseAnswerStyle(req.Style)
	}
	temp := s.defaultTemp
	if req.Temperature != nil {
		temp = *req.Temperature
	}

	return s.synthesizer.Synthesize(ctx, req.DocumentID, req.Question, results, keywords, style, temp)
}

// Remove deletes the document, its cached chunks, and the resident index.
func (s *Service) Remove(ctx context.Context, id string) error {
	if err := s.manager.Invalidate(ctx, id); err != nil {
		return fmt.Errorf("failed to invalidate index for %s: %w", id, err)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete document %s: %w", id, err)
	}
	s.logger.Info("document removed", zap.String("document_id", id))
	return nil
}

// List returns info for all stored documents, newest first.
func (s *Service) List(ctx context.Context) ([]models.DocumentInfo, error) {
	return s.store.List(ctx)
}

// Content returns the extracted text of a stored document.
func (s *Service) Content(ctx context.Context, id string) (string, error) {
	raw, err := s.store.Read(ctx, id)
	if err != nil {
		return "", err
	}
	text, err := s.extractor.ExtractBytes(raw, filepath.Ext(id))
	if err != nil {
		return "", fmt.Errorf("failed to extract %s: %w", id, err)
	}
	return text, nil
}

// Status reports storage and index counters.
type Status struct {
	Documents       int64 `json:"documents"`
	CachedChunks    int64 `json:"cached_chunks"`
	ResidentIndexes int   `json:"resident_indexes"`
}

// Status returns current document, chunk, and resident index counts.
func (s *Service) Status(ctx context.Context) (*Status, error) {
	docs, err := s.cache.CountDocuments(ctx)
	if err != nil {
		return nil, err
	}
	chunks, err := s.cache.CountChunks(ctx)
	if err != nil {
		return nil, err
	}
	return &Status{
		Documents:       docs,
		CachedChunks:    chunks,
		ResidentIndexes: s.manager.Resident(),
	}, nil
}
