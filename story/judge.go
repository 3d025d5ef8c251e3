package story

import (
	"context"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
	"go.uber.org/zap"
)

// Low temperature favors consistent, reproducible scoring over creativity.
const (
	judgeTemperature = 0.3
	judgeMaxTokens   = 2000
)

// Judge scores a story against the original request using a second model
// call. A reply that cannot be parsed never surfaces as an error; it
// degrades to the sentinel evaluation instead.
type Judge struct {
	gw     *Gateway
	logger *zap.Logger
}

func NewJudge(gw *Gateway, logger *zap.Logger) *Judge {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Judge{gw: gw, logger: logger}
}

// Judge evaluates the story. The returned error covers backend failure only;
// malformed replies fall back to the sentinel with a warning so degradation
// stays visible in logs without crashing the pipeline.
func (j *Judge) Judge(ctx context.Context, text, originalRequest string) (Evaluation, error) {
	raw, err := j.gw.Invoke(ctx, BuildJudgePrompt(text, originalRequest), CallOptions{
		Temperature: judgeTemperature,
		MaxTokens:   judgeMaxTokens,
	})
	if err != nil {
		return Evaluation{}, err
	}

	ev := ParseEvaluation(raw)
	if ev.IsSentinel() {
		j.logger.Warn("judge reply could not be parsed, using sentinel verdict",
			zap.String("reply", raw))
	}
	return ev, nil
}

// ParseEvaluation turns a raw judge reply into a structured verdict. The
// reply is trimmed, an enclosing markdown fence (with optional language tag)
// is stripped, and the remainder is read as JSON. Missing score defaults to
// 5, missing feedback to empty, missing approved to false. Anything that is
// not a JSON object yields the sentinel. The model's "thinking" field is a
// reasoning scaffold and is discarded.
func ParseEvaluation(raw string) Evaluation {
	clean := strings.TrimSpace(raw)
	if block, ok := extractFencedBlock(clean); ok {
		clean = strings.TrimSpace(block)
	}

	doc := gjson.Parse(clean)
	if !gjson.Valid(clean) || !doc.IsObject() {
		return SentinelEvaluation()
	}

	ev := Evaluation{Score: 5, Feedback: []string{}}
	if score := doc.Get("score"); score.Exists() {
		ev.Score = int(score.Int())
	}
	for _, item := range doc.Get("feedback").Array() {
		ev.Feedback = append(ev.Feedback, item.String())
	}
	ev.Approved = doc.Get("approved").Bool()
	return ev
}

// extractFencedBlock returns the content of the first fenced code block in
// the reply, if any. Models routinely wrap JSON in ```json fences; parsing
// the markdown instead of slicing strings keeps odd fence placements working.
func extractFencedBlock(raw string) (string, bool) {
	src := []byte(raw)
	doc := goldmark.New().Parser().Parse(gmtext.NewReader(src))

	var content string
	found := false
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		var sb strings.Builder
		lines := fcb.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			sb.Write(seg.Value(src))
		}
		content = sb.String()
		found = true
		return ast.WalkStop, nil
	})
	return content, found
}
