// Package cli provides CLI output helpers for Mundap.
package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hyperjump/mundap/internal/models"
	"github.com/hyperjump/mundap/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// WriteAnswer writes a chat answer to w in the given format.
func WriteAnswer(w io.Writer, ans *models.ChatAnswer, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ans)
	default:
		writeAnswerText(w, ans)
		return nil
	}
}

func writeAnswerText(w io.Writer, ans *models.ChatAnswer) {
	fmt.Fprintf(w, "\n%s\n\n", ans.FormattedText)
	fmt.Fprintf(w, "Question type: %s\n", ans.QuestionType)
	if len(ans.Keywords) > 0 {
		fmt.Fprintf(w, "Keywords: %v\n", ans.Keywords)
	}
	if len(ans.Sources) > 0 {
		fmt.Fprintf(w, "\n--- Sources (%d) ---\n", len(ans.Sources))
		for _, src := range ans.Sources {
			fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
			fmt.Fprintf(w, "[%d] %s | relevance: %s\n", src.ID, src.Label, src.Relevance)
			fmt.Fprintf(w, "%s\n", utils.Truncate(src.Content, 200))
		}
	}
}

// WriteDocuments writes a document listing to w in the given format.
func WriteDocuments(w io.Writer, docs []models.DocumentInfo, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(docs)
	default:
		if len(docs) == 0 {
			fmt.Fprintln(w, "No documents.")
			return nil
		}
		fmt.Fprintf(w, "%d document(s):\n", len(docs))
		for _, doc := range docs {
			fmt.Fprintf(w, "  %-40s %8d bytes  %s\n",
				doc.Filename, doc.Size, doc.Modified.Format("2006-01-02 15:04:05"))
		}
		return nil
	}
}

// WriteIngestResult writes an ingestion report to w in the given format.
func WriteIngestResult(w io.Writer, res *models.IngestResult, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	default:
		fmt.Fprintf(w, "Ingested %s (%d chunks)\n", res.DocumentID, res.ChunkCount)
		return nil
	}
}
