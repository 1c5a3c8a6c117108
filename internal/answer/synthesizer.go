package answer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/mundap/internal/llm"
	"github.com/hyperjump/mundap/internal/models"
)

// RefusalSentence is the fixed reply the model is instructed to emit when the
// retrieved context does not answer the question. It is the grounding
// guarantee against fabricated answers and must appear verbatim in every
// prompt.
const RefusalSentence = "Sorry, the document does not contain information relevant to this question."

// DefaultMaxSourceChars is the display truncation limit for cited sources.
const DefaultMaxSourceChars = 250

var styleDirectives = map[models.AnswerStyle]string{
	models.StyleProfessional: "You are an assistant that provides accurate, professional answers grounded in document content. Give clear, factual answers based on the information in the provided document.",
	models.StyleFriendly:     "You are an assistant that provides friendly, easy-to-understand answers grounded in document content. Explain complex concepts simply and answer in an approachable tone.",
	models.StyleConcise:      "You are an assistant that provides concise, to-the-point answers grounded in document content. Deliver only the essential information without filler.",
	models.StyleDefault:      "You are an assistant that provides accurate answers grounded in document content. Answer based on the information in the provided document.",
}

// Synthesizer builds a grounded prompt from retrieved chunks, invokes the
// generator, and applies the presentation transforms.
type Synthesizer struct {
	generator      llm.Generator
	maxSourceChars int
	emphasize      *regexp.Regexp
	logger         *zap.Logger
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithMaxSourceChars overrides the source truncation limit.
func WithMaxSourceChars(n int) Option {
	return func(s *Synthesizer) {
		if n > 0 {
			s.maxSourceChars = n
		}
	}
}

// WithEmphasisTerms sets the domain terms bolded in formatted answers.
func WithEmphasisTerms(terms []string) Option {
	return func(s *Synthesizer) {
		s.emphasize = CompileEmphasis(terms)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Synthesizer) {
		s.logger = logger
	}
}

// NewSynthesizer creates a synthesizer backed by generator.
func NewSynthesizer(generator llm.Generator, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		generator:      generator,
		maxSourceChars: DefaultMaxSourceChars,
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Synthesize answers the question from the retrieved chunks. The whole
// operation fails if the generator fails; no partial answer is returned.
func (s *Synthesizer) Synthesize(ctx context.Context, documentID, question string, results []models.RetrievalResult, keywords []string, style models.AnswerStyle, temperature float64) (*models.ChatAnswer, error) {
	prompt := buildPrompt(question, results, style)

	raw, err := s.generator.Generate(ctx, prompt, temperature)
	if err != nil {
		return nil, fmt.Errorf("synthesis for %s failed: %w", documentID, err)
	}

	ans := &models.ChatAnswer{
		DocumentID:    documentID,
		RawText:       raw,
		FormattedText: FormatAnswer(raw, s.emphasize),
		Sources:       FormatSources(results, s.maxSourceChars),
		QuestionType:  ClassifyQuestion(question),
		Keywords:      keywords,
	}
	s.logger.Debug("answer synthesized",
		zap.String("document_id", documentID),
		zap.String("question_type", ans.QuestionType),
		zap.Int("sources", len(ans.Sources)))
	return ans, nil
}

func buildPrompt(question string, results []models.RetrievalResult, style models.AnswerStyle) string {
	directive, ok := styleDirectives[style]
	if !ok {
		directive = styleDirectives[models.StyleDefault]
	}

	var b strings.Builder
	b.WriteString(directive)
	b.WriteString("\n\nThe following is relevant information extracted from the document:\n\n")
	for i, res := range results {
		fmt.Fprintf(&b, "chunk %d:\n%s\n\n", i+1, res.Chunk.Content)
	}
	b.WriteString("Question: ")
	b.WriteString(question)
	b.WriteString("\n\nAnswer the question based on the document information above. ")
	b.WriteString("Use only what the document states and do not add anything that is not in it. ")
	b.WriteString("If there is no relevant information, reply exactly: \"")
	b.WriteString(RefusalSentence)
	b.WriteString("\"")
	return b.String()
}
