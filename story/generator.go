package story

import "context"

// Generation temperature favors creative variation; the token ceiling is
// generous because stories never approach it.
const (
	generateTemperature = 0.85
	generateMaxTokens   = 2000
)

// Generator produces the initial story draft. It is a one-shot creative
// step: no validation of length or content happens here, that is the
// judge's job.
type Generator struct {
	gw *Gateway
}

func NewGenerator(gw *Gateway) *Generator {
	return &Generator{gw: gw}
}

// Generate builds a story for the raw request text under the given mood.
// Unknown moods silently fall back to the default tone.
func (g *Generator) Generate(ctx context.Context, request, mood string) (string, error) {
	return g.gw.Invoke(ctx, BuildStoryPrompt(request, mood), CallOptions{
		Temperature: generateTemperature,
		MaxTokens:   generateMaxTokens,
	})
}
