// Package models defines core data structures for chunks, indexes, retrieval
// results, and chat answers.
package models

import "time"

// Metadata keys set on chunks during ingestion.
const (
	MetaKeyPosition = "position"
	MetaKeySource   = "source"
)

// Chunk is a contiguous span of normalized source text, the unit of retrieval.
// A Chunk is immutable once created and is owned by the DocumentIndex that
// created it.
type Chunk struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// DocumentIndex is the searchable representation of one source document.
// Chunks are in source order; Vectors is parallel to Chunks
// (len(Chunks) == len(Vectors)). Source order is the tie-break order for
// equal-relevance results and is stable across reloads.
type DocumentIndex struct {
	DocumentID string      `json:"document_id"`
	Chunks     []Chunk     `json:"chunks"`
	Vectors    [][]float32 `json:"-"`
	CreatedAt  time.Time   `json:"created_at"`
}

// RetrievalResult is one scored candidate chunk produced by the hybrid
// retriever. It references the index's chunk content; it does not own it.
type RetrievalResult struct {
	Chunk    Chunk `json:"chunk"`
	Position int   `json:"position"`
	// VectorScore is the cosine similarity to the query (higher is better),
	// set only when the chunk was in the vector search result set.
	VectorScore *float64 `json:"vector_score,omitempty"`
	// KeywordMatchCount is the number of distinct query keywords found as
	// substrings of the chunk text.
	KeywordMatchCount int      `json:"keyword_match_count"`
	MatchedKeywords   []string `json:"matched_keywords,omitempty"`
	// FromKeyword is true when the chunk came from the keyword search subset.
	FromKeyword bool `json:"from_keyword"`
}
