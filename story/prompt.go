package story

import (
	"fmt"
	"strings"
)

// Prompt is the ordered message pair sent to the LLM: system instructions
// first, then one user turn.
type Prompt struct {
	System string
	User   string
}

// ApproveThreshold is the minimum score at which the judge is instructed to
// approve a story. It only appears in the judge's instructions; the pipeline
// trusts the judge's approved flag verbatim.
const ApproveThreshold = 7

// --- Prompts live here for easy tuning ---

const storySystemPrompt = `You write bedtime stories for children ages 5-10.

Your stories:
- Use simple words but aren't boring
- Have a clear beginning, middle, and end
- Include dialogue between characters
- Teach a gentle lesson without being preachy
- End calmly so kids can drift off to sleep
- Pace gets slower and more soothing toward the end (wind-down effect)

Mood: %s
%s
Length: About 400-500 words. No headers or formatting - just the story.`

const judgeSystemPrompt = `You evaluate children's bedtime stories. Be constructive but honest.

First, think through each criterion, then score:
1. Request adherence - does it match what was asked for? characters, setting, theme?
2. Age-appropriateness - nothing scary, vocabulary fits 5-10 year olds?
3. Engagement - would a kid stay interested?
4. Pacing - right length, builds then resolves tension, calms down at end?
5. Lesson - has a gentle moral woven in naturally?
6. Safety - no medical advice, nothing anxiety-inducing, no scary elements?

After evaluating each, give an overall score 1-10.

Respond in JSON:
{
    "thinking": "brief evaluation of each criterion",
    "score": <1-10>,
    "feedback": ["specific issue 1", "specific issue 2"],
    "approved": <true if score >= %d>
}

Be specific in feedback - vague comments don't help improve the story.`

const refineSystemPrompt = `You improve children's bedtime stories based on feedback.

Keep the same characters and basic plot. Focus only on the specific issues raised.
Don't add headers or meta-commentary - just output the improved story.`

// BuildStoryPrompt composes the initial generation prompt. The raw request
// text is embedded unmodified; unknown moods fall back to the default tone.
func BuildStoryPrompt(request, mood string) Prompt {
	return Prompt{
		System: fmt.Sprintf(storySystemPrompt, ToneFor(mood), SafetyBoundaries),
		User:   fmt.Sprintf("Write a bedtime story based on this request: %s", request),
	}
}

// BuildJudgePrompt composes the evaluation prompt for a story against the
// request that produced it.
func BuildJudgePrompt(text, originalRequest string) Prompt {
	return Prompt{
		System: fmt.Sprintf(judgeSystemPrompt, ApproveThreshold),
		User:   fmt.Sprintf("Original request: %s\n\nStory to evaluate:\n%s", originalRequest, text),
	}
}

// BuildRefinePrompt composes a revision prompt from judge feedback, rendered
// as a bulleted list in priority order.
func BuildRefinePrompt(text string, feedback []string) Prompt {
	var sb strings.Builder
	for _, item := range feedback {
		sb.WriteString("- ")
		sb.WriteString(item)
		sb.WriteString("\n")
	}
	return Prompt{
		System: refineSystemPrompt,
		User:   fmt.Sprintf("Feedback to address:\n%s\nOriginal story:\n%s", sb.String(), text),
	}
}

// BuildUserFeedbackPrompt composes a revision prompt from a single free-text
// change request. Same constraints as BuildRefinePrompt; only the feedback
// rendering differs.
func BuildUserFeedbackPrompt(text, change string) Prompt {
	return Prompt{
		System: refineSystemPrompt,
		User:   fmt.Sprintf("User requested this change: %s\n\nCurrent story:\n%s", change, text),
	}
}
