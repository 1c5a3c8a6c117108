package llm

import "context"

// MockGenerator returns canned responses for tests and offline use.
type MockGenerator struct {
	// Response is returned by every Generate call. When empty, the prompt is
	// echoed back.
	Response string
	// Err, when set, is returned instead of a response.
	Err error
	// Prompts records every prompt passed to Generate.
	Prompts []string
}

// Generate records the prompt and returns the configured response.
func (g *MockGenerator) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	g.Prompts = append(g.Prompts, prompt)
	if g.Err != nil {
		return "", g.Err
	}
	if g.Response == "" {
		return prompt, nil
	}
	return g.Response, nil
}

// Close is a no-op for MockGenerator.
func (g *MockGenerator) Close() error {
	return nil
}
