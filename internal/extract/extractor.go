// Package extract provides text extraction from uploaded document bytes.
package extract

import (
	"fmt"
	"strings"

	"github.com/hyperjump/mundap/internal/textenc"
)

// Extractor extracts plain text from document bytes.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractBytes extracts text from content based on the given extension
// (including the leading dot, e.g. ".pdf").
//
// PDF and XLSX have dedicated extractors and bypass encoding resolution.
// DOCX is tried as an OOXML package first and falls back to plain text.
// Everything else (.txt, .md, .doc, unknown) is treated as plain text of
// unknown encoding and resolved via textenc.
func (e *Extractor) ExtractBytes(content []byte, ext string) (string, error) {
	switch strings.ToLower(ext) {
	case ".pdf":
		return extractPDF(content)
	case ".xlsx":
		return extractExcel(content)
	case ".docx":
		if text, err := extractDOCX(content); err == nil && text != "" {
			return text, nil
		}
		return resolvePlain(content)
	default:
		return resolvePlain(content)
	}
}

func resolvePlain(content []byte) (string, error) {
	text, _, err := textenc.Resolve(content)
	if err != nil {
		return "", fmt.Errorf("resolve text encoding: %w", err)
	}
	return text, nil
}
