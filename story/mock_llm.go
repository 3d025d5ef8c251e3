package story

import (
	"context"
	"strings"
)

// MockLLM is a placeholder client for local runs without a real backend.
// It echoes a tiny canned story for generation prompts and an always-approving
// verdict for evaluation prompts, so the full pipeline can be exercised offline.
type MockLLM struct{}

func (m MockLLM) Complete(_ context.Context, prompt Prompt, _ CallOptions) (string, error) {
	if strings.Contains(prompt.System, "evaluate") || strings.Contains(prompt.System, "Respond in JSON") {
		return `{"thinking": "canned verdict", "score": 8, "feedback": [], "approved": true}`, nil
	}

	var sb strings.Builder
	sb.WriteString("Once upon a time there was a quiet little lantern who loved the evening.\n\n")
	sb.WriteString("It heard a wish: ")
	sb.WriteString(prompt.User)
	sb.WriteString("\n\nThe lantern glowed softly, the stars settled in, and everyone drifted off to sleep.")
	return sb.String(), nil
}
