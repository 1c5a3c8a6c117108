package answer

import (
	"regexp"
	"strings"

	"github.com/hyperjump/mundap/internal/models"
	"github.com/hyperjump/mundap/pkg/utils"
)

var (
	// Requires a letter before the period so numbered list markers,
	// decimals, and ellipses are not broken into paragraphs.
	sentenceBreakPattern = regexp.MustCompile(`(\pL)\.\s+`)
	numberedPattern      = regexp.MustCompile(`(?m)^(\d+\.\s)`)
	dashPattern          = regexp.MustCompile(`(?m)^-\s+`)
	extraNewlinePattern  = regexp.MustCompile(`\n{3,}`)
)

// FormatAnswer applies the deterministic presentation transform to raw model
// output: paragraph breaks after sentences, bolded numbered list markers,
// dash lines as bullets, emphasized domain terms, and at most two consecutive
// newlines. emphasize may be nil.
func FormatAnswer(raw string, emphasize *regexp.Regexp) string {
	out := sentenceBreakPattern.ReplaceAllString(raw, "$1.\n\n")
	out = numberedPattern.ReplaceAllString(out, "**$1**")
	out = dashPattern.ReplaceAllString(out, "• ")
	if emphasize != nil {
		out = emphasize.ReplaceAllString(out, "**$0**")
	}
	out = extraNewlinePattern.ReplaceAllString(out, "\n\n")
	return out
}

// CompileEmphasis builds the term-emphasis pattern from a list of literal
// terms. Terms are tried in the given order, so longer terms should come
// first to avoid partial matches inside them. Returns nil for an empty list.
func CompileEmphasis(terms []string) *regexp.Regexp {
	if len(terms) == 0 {
		return nil
	}
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return regexp.MustCompile(strings.Join(quoted, "|"))
}

// FormatSources converts retrieved chunks into citation sources. Content is
// truncated to maxChars with an ellipsis and whitespace-collapsed; chunks
// from the keyword subset are tagged high relevance, the rest medium.
func FormatSources(results []models.RetrievalResult, maxChars int) []models.Source {
	sources := make([]models.Source, len(results))
	for i, res := range results {
		relevance := models.RelevanceMedium
		if res.FromKeyword {
			relevance = models.RelevanceHigh
		}
		label := res.Chunk.Metadata[models.MetaKeySource]
		if label == "" {
			label = "document content"
		}
		sources[i] = models.Source{
			ID:        i,
			Content:   utils.CollapseWhitespace(utils.Truncate(res.Chunk.Content, maxChars)),
			Relevance: relevance,
			Label:     label,
		}
	}
	return sources
}
