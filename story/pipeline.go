package story

import (
	"context"

	"go.uber.org/zap"
)

// Pipeline drives the generate → judge → (refine → judge)* loop under an
// attempt budget. All transient-failure retry lives in the gateway; the
// pipeline itself never retries.
type Pipeline struct {
	generator *Generator
	judge     *Judge
	refiner   *Refiner
	logger    *zap.Logger
}

// NewPipeline wires the three components over one shared gateway.
func NewPipeline(gw *Gateway, logger *zap.Logger) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		generator: NewGenerator(gw),
		judge:     NewJudge(gw, logger),
		refiner:   NewRefiner(gw),
		logger:    logger,
	}
}

// CreateStory generates a story, judges it, and refines it until it is
// approved or maxAttempts judging rounds are spent. Budgets below 1 are
// clamped to 1: generate, judge once, return. The final evaluation is
// returned alongside the story whether or not it was approved; the loop
// never refines past the budget.
func (p *Pipeline) CreateStory(ctx context.Context, request, mood string, maxAttempts int) (string, Evaluation, error) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	p.logger.Info("generating story",
		zap.String("request", request),
		zap.String("mood", mood),
		zap.Int("max_attempts", maxAttempts))

	text, err := p.generator.Generate(ctx, request, mood)
	if err != nil {
		return "", Evaluation{}, err
	}

	var eval Evaluation
	for attempt := 0; attempt < maxAttempts; attempt++ {
		eval, err = p.judge.Judge(ctx, text, request)
		if err != nil {
			return "", Evaluation{}, err
		}

		p.logger.Info("story judged",
			zap.Int("attempt", attempt+1),
			zap.Int("score", eval.Score),
			zap.Bool("approved", eval.Approved),
			zap.Bool("sentinel", eval.IsSentinel()),
			zap.Strings("feedback", eval.Feedback))

		if eval.Approved {
			break
		}
		if attempt == maxAttempts-1 {
			break
		}

		text, err = p.refiner.Refine(ctx, text, eval.Feedback)
		if err != nil {
			return "", Evaluation{}, err
		}
	}

	return text, eval, nil
}

// Revise applies a free-text user change request to an existing story,
// outside the judged attempt loop.
func (p *Pipeline) Revise(ctx context.Context, text, change string) (string, error) {
	return p.refiner.ApplyUserFeedback(ctx, text, change)
}
