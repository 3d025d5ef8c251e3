package story

import (
	"context"
	"sync"
	"time"
)

// Turn records one revision of the session's story.
type Turn struct {
	Comment   string    `json:"comment"`
	Text      string    `json:"text"`
	Summary   string    `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
}

// Session holds the multi-turn context for one story: the judged first cut
// plus any user-driven revisions. It lives only for the process lifetime.
// Methods are safe for concurrent use; revisions to the same session are
// serialized so each one sees the text the previous one produced.
type Session struct {
	ID          string
	Request     string
	Mood        string
	MaxAttempts int

	mu      sync.Mutex
	text    string
	eval    Evaluation
	history []Turn

	pipeline *Pipeline
}

// NewSession creates a session; no story has been generated yet.
func NewSession(id, request, mood string, maxAttempts int, pipeline *Pipeline) *Session {
	return &Session{
		ID:          id,
		Request:     request,
		Mood:        mood,
		MaxAttempts: maxAttempts,
		pipeline:    pipeline,
	}
}

// Propose runs the full judged pipeline to produce the first story.
func (s *Session) Propose(ctx context.Context) (string, Evaluation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text, eval, err := s.pipeline.CreateStory(ctx, s.Request, s.Mood, s.MaxAttempts)
	if err != nil {
		return "", Evaluation{}, err
	}
	s.text = text
	s.eval = eval
	s.appendTurn("initial request", "draft")
	return text, eval, nil
}

// Revise replaces the current story with one that applies the user's change
// request. The last judged evaluation is kept; user revisions are not
// re-judged.
func (s *Session) Revise(ctx context.Context, change string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	text, err := s.pipeline.Revise(ctx, s.text, change)
	if err != nil {
		return "", err
	}
	s.text = text
	s.appendTurn(change, "revision")
	return text, nil
}

// Snapshot returns the current story, its last judged evaluation, and a copy
// of the revision history.
func (s *Session) Snapshot() (string, Evaluation, []Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := make([]Turn, len(s.history))
	copy(history, s.history)
	return s.text, s.eval, history
}

func (s *Session) appendTurn(comment, summary string) {
	s.history = append(s.history, Turn{
		Comment:   comment,
		Text:      s.text,
		Summary:   summary,
		CreatedAt: time.Now(),
	})
}
