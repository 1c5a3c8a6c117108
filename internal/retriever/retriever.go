package retriever

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/mundap/internal/embedding"
	"github.com/hyperjump/mundap/internal/models"
	"github.com/hyperjump/mundap/pkg/utils"
)

// Default result limits for the two search stages and the merged list.
const (
	DefaultVectorTopK  = 10
	DefaultKeywordTopK = 5
	DefaultMaxResults  = 10
)

// Retriever combines vector similarity search with keyword matching over a
// document index. Keyword hits rank first because exact term matches are
// higher precision for short factual questions; vector hits fill the rest.
type Retriever struct {
	embedder    embedding.Embedder
	vectorTopK  int
	keywordTopK int
	maxResults  int
	logger      *zap.Logger
}

// Option configures a Retriever.
type Option func(*Retriever)

// WithLimits overrides the per-stage and merged result limits.
func WithLimits(vectorTopK, keywordTopK, maxResults int) Option {
	return func(r *Retriever) {
		if vectorTopK > 0 {
			r.vectorTopK = vectorTopK
		}
		if keywordTopK > 0 {
			r.keywordTopK = keywordTopK
		}
		if maxResults > 0 {
			r.maxResults = maxResults
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Retriever) {
		r.logger = logger
	}
}

// New creates a retriever that embeds questions with embedder.
func New(embedder embedding.Embedder, opts ...Option) *Retriever {
	r := &Retriever{
		embedder:    embedder,
		vectorTopK:  DefaultVectorTopK,
		keywordTopK: DefaultKeywordTopK,
		maxResults:  DefaultMaxResults,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retrieve returns up to maxResults chunks relevant to the question, keyword
// matches first, plus the extracted keyword set. Results are deterministic
// for a fixed index and question: similarity ties are broken by chunk source
// order.
func (r *Retriever) Retrieve(ctx context.Context, idx *models.DocumentIndex, question string) ([]models.RetrievalResult, []string, error) {
	if idx == nil {
		return nil, nil, fmt.Errorf("index is nil")
	}
	if len(idx.Chunks) == 0 {
		return nil, nil, fmt.Errorf("index for %s has no chunks", idx.DocumentID)
	}

	queryVec, err := r.embedder.Embed(ctx, question)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to embed question: %w", err)
	}

	vectorHits := r.vectorSearch(idx, queryVec)
	keywords := ExtractKeywords(question)
	keywordHits := r.keywordSearch(idx, keywords)

	merged := r.merge(idx, keywordHits, vectorHits)

	r.logger.Debug("retrieval complete",
		zap.String("document_id", idx.DocumentID),
		zap.Int("vector_hits", len(vectorHits)),
		zap.Int("keyword_hits", len(keywordHits)),
		zap.Int("merged", len(merged)),
		zap.Strings("keywords", keywords))
	return merged, keywords, nil
}

type scoredChunk struct {
	position int
	score    float64
}

// vectorSearch scores every chunk by cosine similarity to the query vector
// and returns the top vectorTopK positions.
func (r *Retriever) vectorSearch(idx *models.DocumentIndex, queryVec []float32) []scoredChunk {
	scored := make([]scoredChunk, 0, len(idx.Vectors))
	for i, vec := range idx.Vectors {
		scored = append(scored, scoredChunk{
			position: i,
			score:    utils.CosineSimilarity(queryVec, vec),
		})
	}
	// Stable sort keeps source order for equal scores.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})
	if len(scored) > r.vectorTopK {
		scored = scored[:r.vectorTopK]
	}
	return scored
}

type keywordHit struct {
	position int
	matched  []string
}

// keywordSearch counts, per chunk, how many distinct keywords appear as a
// substring of the lower-cased chunk text. Chunks with at least one match are
// ranked by match count, ties broken by source order, top keywordTopK kept.
func (r *Retriever) keywordSearch(idx *models.DocumentIndex, keywords []string) []keywordHit {
	if len(keywords) == 0 {
		return nil
	}
	var hits []keywordHit
	for i, chunk := range idx.Chunks {
		content := strings.ToLower(chunk.Content)
		var matched []string
		for _, kw := range keywords {
			if strings.Contains(content, kw) {
				matched = append(matched, kw)
			}
		}
		if len(matched) > 0 {
			hits = append(hits, keywordHit{position: i, matched: matched})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return len(hits[i].matched) > len(hits[j].matched)
	})
	if len(hits) > r.keywordTopK {
		hits = hits[:r.keywordTopK]
	}
	return hits
}

// merge concatenates keyword hits then vector hits, de-duplicating by exact
// chunk content and capping at maxResults.
func (r *Retriever) merge(idx *models.DocumentIndex, keywordHits []keywordHit, vectorHits []scoredChunk) []models.RetrievalResult {
	vectorScores := make(map[int]float64, len(vectorHits))
	for _, h := range vectorHits {
		vectorScores[h.position] = h.score
	}

	var results []models.RetrievalResult
	seen := make(map[string]struct{})

	add := func(res models.RetrievalResult) bool {
		if len(results) >= r.maxResults {
			return false
		}
		if _, ok := seen[res.Chunk.Content]; ok {
			return true
		}
		seen[res.Chunk.Content] = struct{}{}
		results = append(results, res)
		return true
	}

	for _, h := range keywordHits {
		res := models.RetrievalResult{
			Chunk:             idx.Chunks[h.position],
			Position:          h.position,
			KeywordMatchCount: len(h.matched),
			MatchedKeywords:   h.matched,
			FromKeyword:       true,
		}
		if score, ok := vectorScores[h.position]; ok {
			s := score
			res.VectorScore = &s
		}
		if !add(res) {
			return results
		}
	}
	for _, h := range vectorHits {
		s := h.score
		if !add(models.RetrievalResult{
			Chunk:       idx.Chunks[h.position],
			Position:    h.position,
			VectorScore: &s,
		}) {
			return results
		}
	}
	return results
}
