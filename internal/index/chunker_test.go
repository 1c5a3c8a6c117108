package index

import (
	"strings"
	"testing"

	"github.com/hyperjump/mundap/internal/models"
)

func TestChunkerShortText(t *testing.T) {
	c := NewChunker(2000, 400)
	chunks := c.Split("short document")
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Content != "short document" {
		t.Errorf("unexpected content %q", chunks[0].Content)
	}
	if chunks[0].Metadata[models.MetaKeyPosition] != "0" {
		t.Errorf("unexpected position %q", chunks[0].Metadata[models.MetaKeyPosition])
	}
}

func TestChunkerEmptyText(t *testing.T) {
	c := NewChunker(100, 20)
	if chunks := c.Split(""); chunks != nil {
		t.Errorf("expected nil for empty text, got %d chunks", len(chunks))
	}
}

func TestChunkerSizeAndOverlap(t *testing.T) {
	c := NewChunker(100, 20)
	var b strings.Builder
	for i := 0; i < 120; i++ {
		b.WriteString("word word word words. ")
	}
	text := b.String()

	chunks := c.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, ch := range chunks {
		n := len([]rune(ch.Content))
		if n > 100 {
			t.Errorf("chunk %d has %d runes, exceeds size", i, n)
		}
		if !strings.Contains(text, ch.Content) {
			t.Errorf("chunk %d is not a substring of the input", i)
		}
	}
	// Consecutive chunks share the overlap region.
	for i := 1; i < len(chunks); i++ {
		prev := []rune(chunks[i-1].Content)
		tail := string(prev[len(prev)-20:])
		if !strings.HasPrefix(chunks[i].Content, tail) {
			t.Errorf("chunk %d does not start with the previous chunk's tail", i)
		}
	}
}

func TestChunkerCoversFullText(t *testing.T) {
	c := NewChunker(50, 10)
	text := strings.Repeat("가나다라마바사아 자차카타파하. ", 40)

	chunks := c.Split(text)
	// Rebuild the text by dropping each chunk's leading overlap.
	var b strings.Builder
	for i, ch := range chunks {
		runes := []rune(ch.Content)
		if i == 0 {
			b.WriteString(ch.Content)
			continue
		}
		b.WriteString(string(runes[10:]))
	}
	if b.String() != text {
		t.Error("chunks do not cover the full input text")
	}
}

func TestChunkerPrefersSentenceBoundary(t *testing.T) {
	c := NewChunker(60, 10)
	text := "First sentence ends here. Second sentence is a bit longer and spills over the window boundary for sure."
	chunks := c.Split(text)
	if len(chunks) < 2 {
		t.Fatalf("expected at least 2 chunks, got %d", len(chunks))
	}
	if !strings.HasSuffix(chunks[0].Content, ". ") {
		t.Errorf("expected first chunk to end at a sentence boundary, got %q", chunks[0].Content)
	}
}

func TestChunkerProgressWithNoBoundaries(t *testing.T) {
	c := NewChunker(30, 10)
	text := strings.Repeat("x", 200)
	chunks := c.Split(text)
	if len(chunks) == 0 {
		t.Fatal("expected chunks")
	}
	for i, ch := range chunks {
		if len(ch.Content) > 30 {
			t.Errorf("chunk %d too long: %d", i, len(ch.Content))
		}
	}
	last := chunks[len(chunks)-1].Content
	if !strings.HasSuffix(text, last) {
		t.Error("last chunk should end at the end of the text")
	}
}
