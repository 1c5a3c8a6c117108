package embedding

import (
	"context"
	"hash/fnv"
	"math"

	"github.com/hyperjump/mundap/pkg/utils"
)

// MockEmbedder derives unit vectors from a hash of the input text. The same
// text always embeds to the same vector, so retrieval over mock embeddings is
// reproducible. Used in tests and as the offline fallback when no provider
// key is configured.
type MockEmbedder struct {
	dimensions int
}

// NewMockEmbedder returns a deterministic embedder producing vectors of the
// given dimensions (384 when dimensions <= 0).
func NewMockEmbedder(dimensions int) *MockEmbedder {
	if dimensions <= 0 {
		dimensions = 384
	}
	return &MockEmbedder{dimensions: dimensions}
}

// Embed returns the deterministic embedding for text.
func (e *MockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	h := fnv.New32a()
	h.Write([]byte(text))
	seed := float64(h.Sum32())

	vec := make([]float32, e.dimensions)
	for i := range vec {
		vec[i] = float32(math.Sin(seed*float64(i+1))*0.1 + 0.01)
	}
	utils.NormalizeL2(vec)
	return vec, nil
}

// EmbedBatch embeds each text in order.
func (e *MockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vecs := make([][]float32, len(texts))
	for i, text := range texts {
		v, err := e.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		vecs[i] = v
	}
	return vecs, nil
}

// Dimensions returns the embedding dimension.
func (e *MockEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op.
func (e *MockEmbedder) Close() error {
	return nil
}
