package answer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hyperjump/mundap/internal/llm"
	"github.com/hyperjump/mundap/internal/models"
)

func testResults() []models.RetrievalResult {
	return []models.RetrievalResult{
		{Chunk: models.Chunk{Content: "the audit covers three systems"}, FromKeyword: true, KeywordMatchCount: 2},
		{Chunk: models.Chunk{Content: "risk assessment happens quarterly"}},
	}
}

func TestSynthesizePromptContents(t *testing.T) {
	gen := &llm.MockGenerator{Response: "The audit covers three systems."}
	s := NewSynthesizer(gen)

	ans, err := s.Synthesize(context.Background(), "doc.txt", "What does the audit cover?",
		testResults(), []string{"audit", "cover"}, models.StyleProfessional, 0.7)
	if err != nil {
		t.Fatal(err)
	}
	if len(gen.Prompts) != 1 {
		t.Fatalf("expected 1 prompt, got %d", len(gen.Prompts))
	}
	prompt := gen.Prompts[0]
	if !strings.Contains(prompt, "chunk 1:\nthe audit covers three systems") {
		t.Error("prompt missing labeled first chunk")
	}
	if !strings.Contains(prompt, "chunk 2:\nrisk assessment happens quarterly") {
		t.Error("prompt missing labeled second chunk")
	}
	if !strings.Contains(prompt, "Question: What does the audit cover?") {
		t.Error("prompt missing question")
	}
	if !strings.Contains(prompt, RefusalSentence) {
		t.Error("prompt missing refusal instruction")
	}
	if ans.RawText != "The audit covers three systems." {
		t.Errorf("unexpected raw text %q", ans.RawText)
	}
	if ans.DocumentID != "doc.txt" {
		t.Errorf("unexpected document id %q", ans.DocumentID)
	}
	if len(ans.Sources) != 2 {
		t.Errorf("expected 2 sources, got %d", len(ans.Sources))
	}
	if ans.Keywords[0] != "audit" {
		t.Errorf("keywords not carried through: %v", ans.Keywords)
	}
}

func TestSynthesizeStyleDirectives(t *testing.T) {
	for _, style := range []models.AnswerStyle{
		models.StyleProfessional, models.StyleFriendly, models.StyleConcise, models.StyleDefault,
	} {
		gen := &llm.MockGenerator{Response: "ok"}
		s := NewSynthesizer(gen)
		if _, err := s.Synthesize(context.Background(), "d", "q", testResults(), nil, style, 0); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(gen.Prompts[0], styleDirectives[style]) {
			t.Errorf("style %s directive missing from prompt", style)
		}
	}

	// Unknown style falls back to the default directive.
	gen := &llm.MockGenerator{Response: "ok"}
	s := NewSynthesizer(gen)
	s.Synthesize(context.Background(), "d", "q", testResults(), nil, models.AnswerStyle("weird"), 0)
	if !strings.Contains(gen.Prompts[0], styleDirectives[models.StyleDefault]) {
		t.Error("unknown style should use the default directive")
	}
}

func TestSynthesizeGeneratorError(t *testing.T) {
	gen := &llm.MockGenerator{Err: errors.New("provider down")}
	s := NewSynthesizer(gen)
	if _, err := s.Synthesize(context.Background(), "d", "q", testResults(), nil, models.StyleDefault, 0); err == nil {
		t.Fatal("expected error when generator fails")
	}
}

func TestSynthesizeClassifiesQuestion(t *testing.T) {
	gen := &llm.MockGenerator{Response: "ok"}
	s := NewSynthesizer(gen)
	ans, err := s.Synthesize(context.Background(), "d", "리스크 관리 계획은?", testResults(), nil, models.StyleDefault, 0)
	if err != nil {
		t.Fatal(err)
	}
	if ans.QuestionType != CategoryRiskManagement {
		t.Errorf("expected risk category, got %s", ans.QuestionType)
	}
}
