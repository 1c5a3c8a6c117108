// Package index builds and caches per-document chunk indexes.
package index

import (
	"strconv"
	"strings"

	"github.com/hyperjump/mundap/internal/models"
)

// Chunker splits text into overlapping character-based chunks, preferring to
// cut at paragraph, line, sentence, or word boundaries.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// Boundary separators tried in order when cutting a chunk.
var separators = []string{"\n\n", "\n", ". ", " "}

// NewChunker creates a chunker with the given size and overlap (in runes).
func NewChunker(chunkSize, chunkOverlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 2000
	}
	if chunkOverlap < 0 {
		chunkOverlap = 0
	}
	if chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize - 1
	}
	return &Chunker{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// Split cuts text into chunks of at most chunkSize runes. Consecutive chunks
// share chunkOverlap runes so context at a cut point appears in both. Every
// chunk is an exact substring of text and together they cover all of it.
func (c *Chunker) Split(text string) []models.Chunk {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	var chunks []models.Chunk
	start := 0
	for {
		end := start + c.chunkSize
		if end >= len(runes) {
			chunks = append(chunks, c.newChunk(string(runes[start:]), len(chunks)))
			break
		}
		cut := c.findCut(runes, start, end)
		chunks = append(chunks, c.newChunk(string(runes[start:cut]), len(chunks)))
		// Stepping back by the overlap still advances because the cut is
		// always past start+overlap.
		start = cut - c.chunkOverlap
	}
	return chunks
}

// findCut picks the cut position in (start+overlap, end]. It prefers the last
// separator occurrence inside the window, falling back to a hard cut at end.
func (c *Chunker) findCut(runes []rune, start, end int) int {
	window := string(runes[start:end])
	min := c.chunkOverlap + 1
	for _, sep := range separators {
		idx := strings.LastIndex(window, sep)
		if idx < 0 {
			continue
		}
		// Cut after the separator so it stays with the leading chunk.
		cut := len([]rune(window[:idx+len(sep)]))
		if cut >= min {
			return start + cut
		}
	}
	return end
}

func (c *Chunker) newChunk(content string, position int) models.Chunk {
	return models.Chunk{
		Content: content,
		Metadata: map[string]string{
			models.MetaKeyPosition: strconv.Itoa(position),
		},
	}
}
