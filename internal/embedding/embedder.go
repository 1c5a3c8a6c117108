// Package embedding provides text embedding via an external provider, with caching.
package embedding

import "context"

// Embedder produces vector embeddings for text.
// EmbedBatch preserves input order 1:1. Provider failures surface as errors;
// there is no fallback vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}
