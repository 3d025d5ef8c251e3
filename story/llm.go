package story

import "context"

// LLMClient abstracts the text-generation backend so it can be replaced or
// stubbed in tests. Implementations send the prompt verbatim and return the
// first completion's text unmodified.
type LLMClient interface {
	Complete(ctx context.Context, prompt Prompt, opts CallOptions) (string, error)
}

// CallOptions carries the per-call tuning knobs.
type CallOptions struct {
	Temperature float64
	MaxTokens   int64
	// Retries is the gateway's total attempt budget, not the number of
	// retries after a first try. Zero falls back to the gateway default.
	Retries int
}

// LLMSettings holds the base configuration for concrete clients.
type LLMSettings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}
