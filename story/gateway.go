package story

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultRetries is the gateway's attempt budget when CallOptions.Retries is zero.
const DefaultRetries = 3

// ExhaustedError is returned once the gateway's attempt budget is spent.
// It wraps the last underlying failure.
type ExhaustedError struct {
	Attempts int
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("backend call failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *ExhaustedError) Unwrap() error { return e.Err }

// Gateway is the single point of contact with the text-generation backend.
// Every other component builds prompts and interprets replies; only the
// gateway performs network calls, retries, and pacing.
type Gateway struct {
	llm       LLMClient
	limiter   *rate.Limiter
	retries   int
	baseDelay time.Duration
	sleep     func(context.Context, time.Duration) error
	logger    *zap.Logger
}

// GatewayOption customizes a Gateway.
type GatewayOption func(*Gateway)

// WithRateLimit paces backend calls at r requests per second with the given burst.
func WithRateLimit(r rate.Limit, burst int) GatewayOption {
	return func(g *Gateway) { g.limiter = rate.NewLimiter(r, burst) }
}

// WithBaseDelay overrides the backoff time unit (default one second).
func WithBaseDelay(d time.Duration) GatewayOption {
	return func(g *Gateway) { g.baseDelay = d }
}

// WithLogger attaches a logger for retry visibility.
func WithLogger(logger *zap.Logger) GatewayOption {
	return func(g *Gateway) { g.logger = logger }
}

// WithRetries overrides the default per-call attempt budget.
func WithRetries(n int) GatewayOption {
	return func(g *Gateway) {
		if n > 0 {
			g.retries = n
		}
	}
}

func NewGateway(llm LLMClient, opts ...GatewayOption) (*Gateway, error) {
	if llm == nil {
		return nil, fmt.Errorf("llm client is required")
	}
	g := &Gateway{
		llm:       llm,
		retries:   DefaultRetries,
		baseDelay: time.Second,
		sleep:     sleepCtx,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Invoke sends the prompt to the backend, retrying transient failures with
// exponential backoff: the delay before retry k+1 is baseDelay<<k, uncapped,
// no jitter. A Retries budget of N means at most N total attempts; there is
// no sleep after the final failure. On success the completion text is
// returned unmodified.
func (g *Gateway) Invoke(ctx context.Context, prompt Prompt, opts CallOptions) (string, error) {
	retries := opts.Retries
	if retries <= 0 {
		retries = g.retries
	}

	var lastErr error
	for attempt := 0; attempt < retries; attempt++ {
		if g.limiter != nil {
			if err := g.limiter.Wait(ctx); err != nil {
				return "", err
			}
		}

		out, err := g.llm.Complete(ctx, prompt, opts)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if attempt == retries-1 {
			break
		}
		delay := g.baseDelay << uint(attempt)
		g.logger.Warn("backend call failed, backing off",
			zap.Int("attempt", attempt+1),
			zap.Duration("delay", delay),
			zap.Error(err))
		if err := g.sleep(ctx, delay); err != nil {
			return "", err
		}
	}

	return "", &ExhaustedError{Attempts: retries, Err: lastErr}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
