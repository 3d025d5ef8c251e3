package story

import "context"

// Revision temperatures sit between the judge's and the generator's:
// creative enough to rewrite, constrained enough to preserve the plot.
const (
	refineTemperature       = 0.75
	userFeedbackTemperature = 0.7
	refineMaxTokens         = 2000
)

// Refiner rewrites a story against itemized judge feedback or a free-text
// user change request. The prior story is replaced, never merged.
type Refiner struct {
	gw *Gateway
}

func NewRefiner(gw *Gateway) *Refiner {
	return &Refiner{gw: gw}
}

// Refine applies the judge's feedback items, rendered as a bulleted list in
// priority order.
func (r *Refiner) Refine(ctx context.Context, text string, feedback []string) (string, error) {
	return r.gw.Invoke(ctx, BuildRefinePrompt(text, feedback), CallOptions{
		Temperature: refineTemperature,
		MaxTokens:   refineMaxTokens,
	})
}

// ApplyUserFeedback applies a single free-text change request. Unlike Refine
// the feedback is arbitrary end-user text, but the composed instruction keeps
// the same characters-and-plot constraint.
func (r *Refiner) ApplyUserFeedback(ctx context.Context, text, change string) (string, error) {
	return r.gw.Invoke(ctx, BuildUserFeedbackPrompt(text, change), CallOptions{
		Temperature: userFeedbackTemperature,
		MaxTokens:   refineMaxTokens,
	})
}
