package story

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const verdictJSON = `{
	"thinking": "adheres to the request, calm ending, gentle lesson",
	"score": 8,
	"feedback": ["dialogue could be warmer"],
	"approved": true
}`

func TestParseEvaluationPlainJSON(t *testing.T) {
	ev := ParseEvaluation(verdictJSON)
	assert.Equal(t, 8, ev.Score)
	assert.Equal(t, []string{"dialogue could be warmer"}, ev.Feedback)
	assert.True(t, ev.Approved)
}

func TestParseEvaluationFencedMatchesUnwrapped(t *testing.T) {
	unwrapped := ParseEvaluation(verdictJSON)

	fenced := "```json\n" + verdictJSON + "\n```"
	assert.Equal(t, unwrapped, ParseEvaluation(fenced))

	noTag := "```\n" + verdictJSON + "\n```"
	assert.Equal(t, unwrapped, ParseEvaluation(noTag))

	withProse := "Here is my evaluation:\n\n```json\n" + verdictJSON + "\n```\n"
	assert.Equal(t, unwrapped, ParseEvaluation(withProse))
}

func TestParseEvaluationGarbageReturnsSentinel(t *testing.T) {
	for _, raw := range []string{
		"",
		"I think the story is quite nice overall.",
		"```json\nnot json at all\n```",
		"[1, 2, 3]",
		"42",
	} {
		ev := ParseEvaluation(raw)
		assert.True(t, ev.IsSentinel(), "input %q should yield the sentinel", raw)
		assert.Equal(t, 5, ev.Score)
		assert.False(t, ev.Approved)
	}
}

func TestParseEvaluationMissingFieldsDefault(t *testing.T) {
	ev := ParseEvaluation(`{"thinking": "hmm"}`)
	assert.Equal(t, 5, ev.Score)
	assert.Empty(t, ev.Feedback)
	assert.False(t, ev.Approved)
	// Defaults are not the sentinel: the reply parsed, it was just incomplete.
	assert.False(t, ev.IsSentinel())
}

func TestParseEvaluationDiscardsThinking(t *testing.T) {
	ev := ParseEvaluation(`{"thinking": "secret scaffold", "score": 9, "feedback": [], "approved": true}`)
	assert.Equal(t, Evaluation{Score: 9, Feedback: []string{}, Approved: true}, ev)
}

func TestJudgeNeverRaisesOnMalformedReply(t *testing.T) {
	gw, _ := newTestGateway(t, &flakyLLM{reply: "total garbage, no json"})
	judge := NewJudge(gw, zap.NewNop())

	ev, err := judge.Judge(context.Background(), "a story", "a request")
	require.NoError(t, err)
	assert.True(t, ev.IsSentinel())
}

func TestJudgeSurfacesGatewayExhaustion(t *testing.T) {
	gw, _ := newTestGateway(t, &flakyLLM{failures: 100})
	judge := NewJudge(gw, zap.NewNop())

	_, err := judge.Judge(context.Background(), "a story", "a request")
	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
}
