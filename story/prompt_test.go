package story

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToneForUnknownMoodFallsBack(t *testing.T) {
	assert.Equal(t, Moods[DefaultMood], ToneFor("grumpy"))
	assert.Equal(t, Moods["cozy"], ToneFor("cozy"))
}

func TestBuildStoryPromptComposition(t *testing.T) {
	p := BuildStoryPrompt("a story about a shy dragon who makes a friend", "cozy")

	assert.Contains(t, p.System, Moods["cozy"])
	assert.Contains(t, p.System, SafetyBoundaries)
	assert.Contains(t, p.System, "wind-down effect")
	assert.Contains(t, p.User, "a story about a shy dragon who makes a friend")
}

func TestBuildStoryPromptUnknownMoodUsesDefaultTone(t *testing.T) {
	unknown := BuildStoryPrompt("a bunny story", "grumpy")
	known := BuildStoryPrompt("a bunny story", DefaultMood)
	assert.Equal(t, known, unknown)
}

func TestBuildJudgePromptCarriesThreshold(t *testing.T) {
	p := BuildJudgePrompt("once upon a time", "a dragon story")
	assert.Contains(t, p.System, fmt.Sprintf("score >= %d", ApproveThreshold))
	assert.Contains(t, p.User, "Original request: a dragon story")
	assert.Contains(t, p.User, "once upon a time")
}

func TestRefineAndUserFeedbackPromptsDifferOnlyInRendering(t *testing.T) {
	const text = "once there was a quiet owl"

	refine := BuildRefinePrompt(text, []string{"too long", "ending too abrupt"})
	user := BuildUserFeedbackPrompt(text, "make the owl purple")

	// Same constraint set: characters and plot are preserved in both.
	assert.Equal(t, refine.System, user.System)
	assert.Contains(t, refine.System, "Keep the same characters and basic plot")

	// Judge feedback is a bulleted list in priority order.
	listIdx := strings.Index(refine.User, "- too long")
	assert.GreaterOrEqual(t, listIdx, 0)
	assert.Greater(t, strings.Index(refine.User, "- ending too abrupt"), listIdx)
	assert.Contains(t, refine.User, text)

	// User feedback is embedded as free text, not a list.
	assert.Contains(t, user.User, "make the owl purple")
	assert.NotContains(t, user.User, "- make the owl purple")
	assert.Contains(t, user.User, text)
}
