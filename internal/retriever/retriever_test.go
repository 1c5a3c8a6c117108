package retriever

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/hyperjump/mundap/internal/embedding"
	"github.com/hyperjump/mundap/internal/models"
)

func newTestIndex(t *testing.T, embedder embedding.Embedder, contents ...string) *models.DocumentIndex {
	t.Helper()
	chunks := make([]models.Chunk, len(contents))
	for i, c := range contents {
		chunks[i] = models.Chunk{
			Content:  c,
			Metadata: map[string]string{models.MetaKeyPosition: fmt.Sprint(i)},
		}
	}
	vectors, err := embedder.EmbedBatch(context.Background(), contents)
	if err != nil {
		t.Fatal(err)
	}
	return &models.DocumentIndex{
		DocumentID: "doc.txt",
		Chunks:     chunks,
		Vectors:    vectors,
		CreatedAt:  time.Now(),
	}
}

func TestRetrieveKeywordFirst(t *testing.T) {
	embedder := embedding.NewMockEmbedder(32)
	idx := newTestIndex(t, embedder,
		"the weather today is sunny",
		"risk control plan for the audit",
		"unrelated text about cooking",
	)
	r := New(embedder)

	results, keywords, err := r.Retrieve(context.Background(), idx, "What is the risk control plan?")
	if err != nil {
		t.Fatal(err)
	}
	if len(keywords) == 0 {
		t.Fatal("expected keywords")
	}
	if len(results) == 0 {
		t.Fatal("expected results")
	}
	first := results[0]
	if !first.FromKeyword {
		t.Error("expected a keyword hit in first position")
	}
	if first.Position != 1 {
		t.Errorf("expected chunk 1 first, got %d", first.Position)
	}
	if first.KeywordMatchCount != 5 {
		// is, the, risk, control, plan: matching is substring-based, so
		// "is" counts via "risk".
		t.Errorf("expected 5 matched keywords, got %d (%v)", first.KeywordMatchCount, first.MatchedKeywords)
	}
}

func TestRetrieveDeduplicates(t *testing.T) {
	embedder := embedding.NewMockEmbedder(32)
	idx := newTestIndex(t, embedder,
		"risk control plan",
		"something entirely different",
	)
	r := New(embedder)

	results, _, err := r.Retrieve(context.Background(), idx, "risk control plan")
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[string]int)
	for _, res := range results {
		seen[res.Chunk.Content]++
	}
	for content, n := range seen {
		if n != 1 {
			t.Errorf("chunk %q appears %d times", content, n)
		}
	}
	// The chunk qualifying for both sets keeps its keyword-priority position
	// and carries its vector score.
	if !results[0].FromKeyword {
		t.Error("expected keyword hit first")
	}
	if results[0].VectorScore == nil {
		t.Error("expected vector score on a chunk in both result sets")
	}
}

func TestRetrieveZeroKeywords(t *testing.T) {
	embedder := embedding.NewMockEmbedder(32)
	idx := newTestIndex(t, embedder, "alpha", "beta", "gamma")
	r := New(embedder)

	results, keywords, err := r.Retrieve(context.Background(), idx, "???")
	if err != nil {
		t.Fatal(err)
	}
	if len(keywords) != 0 {
		t.Errorf("expected no keywords, got %v", keywords)
	}
	if len(results) == 0 || len(results) > DefaultMaxResults {
		t.Errorf("expected 1..%d vector results, got %d", DefaultMaxResults, len(results))
	}
	for _, res := range results {
		if res.FromKeyword {
			t.Error("no result should come from keyword search")
		}
		if res.VectorScore == nil {
			t.Error("vector results should carry a score")
		}
	}
}

func TestRetrieveDeterministic(t *testing.T) {
	embedder := embedding.NewMockEmbedder(32)
	contents := make([]string, 20)
	for i := range contents {
		contents[i] = fmt.Sprintf("chunk number %d about auditing and risk", i)
	}
	idx := newTestIndex(t, embedder, contents...)
	r := New(embedder)

	first, _, err := r.Retrieve(context.Background(), idx, "tell me about risk")
	if err != nil {
		t.Fatal(err)
	}
	second, _, err := r.Retrieve(context.Background(), idx, "tell me about risk")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated retrieval should return identical results")
	}
}

func TestRetrieveCapsResults(t *testing.T) {
	embedder := embedding.NewMockEmbedder(32)
	contents := make([]string, 30)
	for i := range contents {
		contents[i] = fmt.Sprintf("distinct chunk %d mentioning audit", i)
	}
	idx := newTestIndex(t, embedder, contents...)
	r := New(embedder, WithLimits(10, 5, 7))

	results, _, err := r.Retrieve(context.Background(), idx, "audit report")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) > 7 {
		t.Errorf("expected at most 7 results, got %d", len(results))
	}
}

func TestRetrieveKeywordTieBreakBySourceOrder(t *testing.T) {
	embedder := embedding.NewMockEmbedder(32)
	idx := newTestIndex(t, embedder,
		"audit scope statement",
		"audit scope overview",
	)
	r := New(embedder)

	results, _, err := r.Retrieve(context.Background(), idx, "audit scope")
	if err != nil {
		t.Fatal(err)
	}
	if len(results) < 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Position != 0 || results[1].Position != 1 {
		t.Errorf("tie on match count should keep source order, got %d then %d",
			results[0].Position, results[1].Position)
	}
}
