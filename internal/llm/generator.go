// Package llm provides answer generation via an external chat model.
package llm

import "context"

// Generator produces free-form text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string, temperature float64) (string, error)
	Close() error
}
