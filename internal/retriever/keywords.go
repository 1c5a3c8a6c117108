// Package retriever ranks document chunks for a question using vector
// similarity combined with keyword matching.
package retriever

import (
	"strings"
	"unicode"
)

// Korean grammatical particles that carry no search value on their own.
var stopWords = map[string]struct{}{
	"은": {}, "는": {}, "이": {}, "가": {},
	"을": {}, "를": {}, "에": {}, "의": {},
	"와": {}, "과": {}, "으로": {}, "로": {},
}

// ExtractKeywords lower-cases the question, keeps only letters and digits,
// splits on whitespace, and drops single-character tokens, stop words, and
// duplicates. Order of first occurrence is preserved.
func ExtractKeywords(question string) []string {
	lowered := strings.ToLower(question)
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, lowered)

	var keywords []string
	seen := make(map[string]struct{})
	for _, token := range strings.Fields(cleaned) {
		if len([]rune(token)) <= 1 {
			continue
		}
		if _, ok := stopWords[token]; ok {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		keywords = append(keywords, token)
	}
	return keywords
}
