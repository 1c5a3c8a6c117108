package models

// AnswerStyle selects the system directive used when synthesizing an answer.
type AnswerStyle string

const (
	StyleProfessional AnswerStyle = "professional"
	StyleFriendly     AnswerStyle = "friendly"
	StyleConcise      AnswerStyle = "concise"
	StyleDefault      AnswerStyle = "default"
)

// ParseAnswerStyle maps a style name to an AnswerStyle. The Korean names used
// by existing callers are accepted as aliases. Unknown or empty input falls
// back to StyleDefault.
func ParseAnswerStyle(s string) AnswerStyle {
	switch s {
	case "professional", "전문적":
		return StyleProfessional
	case "friendly", "친근한":
		return StyleFriendly
	case "concise", "간결한":
		return StyleConcise
	default:
		return StyleDefault
	}
}

// RelevanceTier is a coarse confidence label attached to a cited source.
type RelevanceTier string

const (
	RelevanceHigh   RelevanceTier = "high"
	RelevanceMedium RelevanceTier = "medium"
)

// Source is a cited excerpt attached to a ChatAnswer. Content is truncated and
// whitespace-collapsed for display.
type Source struct {
	ID        int           `json:"id"`
	Content   string        `json:"content"`
	Relevance RelevanceTier `json:"relevance"`
	Label     string        `json:"source"`
}

// ChatAnswer is a synthesized, grounded answer with citation sources.
type ChatAnswer struct {
	DocumentID    string   `json:"document_id"`
	RawText       string   `json:"raw_text"`
	FormattedText string   `json:"answer"`
	Sources       []Source `json:"sources"`
	QuestionType  string   `json:"question_type"`
	Keywords      []string `json:"keywords_found,omitempty"`
}

// ChatRequest is a question against one ingested document.
type ChatRequest struct {
	DocumentID  string   `json:"document_id"`
	Question    string   `json:"question"`
	Style       string   `json:"style,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
}
