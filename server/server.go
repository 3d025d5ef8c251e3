package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bedtime_story_generator/story"
)

// requestTimeout caps one judged pipeline run, including gateway backoff.
const requestTimeout = 120 * time.Second

type Server struct {
	pipeline *story.Pipeline
	defaults story.Config
	store    *sessionStore
	logger   *zap.Logger
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*story.Session
}

func newStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*story.Session)}
}

func (s *sessionStore) set(id string, sess *story.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = sess
}

func (s *sessionStore) get(id string) (*story.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

func New(pipeline *story.Pipeline, defaults story.Config, logger *zap.Logger) (*Server, error) {
	if pipeline == nil {
		return nil, errors.New("story pipeline required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		pipeline: pipeline,
		defaults: defaults,
		store:    newStore(),
		logger:   logger,
	}, nil
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/stories", s.handleStoryCreate)
	mux.HandleFunc("/api/stories/", s.handleStoryByID)
	return s.logMiddleware(mux)
}

// --- Handlers ---

type storyCreateReq struct {
	Request     string `json:"request"`
	Mood        string `json:"mood"`
	MaxAttempts int    `json:"max_attempts"`
}

type storyResp struct {
	SessionID   string           `json:"session_id"`
	Text        string           `json:"text"`
	Evaluation  story.Evaluation `json:"evaluation"`
	ReadingTime string           `json:"reading_time"`
	History     []story.Turn     `json:"history"`
}

type reviseReq struct {
	Feedback string `json:"feedback"`
}

func (s *Server) handleStoryCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req storyCreateReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Request) == "" {
		http.Error(w, "request text is required", http.StatusBadRequest)
		return
	}
	mood := req.Mood
	if mood == "" {
		mood = story.DefaultMood
	}
	attempts := req.MaxAttempts
	if attempts < 1 {
		attempts = s.defaults.MaxAttempts
	}

	id := uuid.New().String()
	sess := story.NewSession(id, req.Request, mood, attempts, s.pipeline)

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()
	text, eval, err := sess.Propose(ctx)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	s.store.set(id, sess)
	_, _, history := sess.Snapshot()
	writeJSON(w, storyResp{
		SessionID:   id,
		Text:        text,
		Evaluation:  eval,
		ReadingTime: story.EstimateReadingTime(text),
		History:     history,
	})
}

func (s *Server) handleStoryByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/stories/")
	if id == "" {
		http.NotFound(w, r)
		return
	}
	sess, ok := s.store.get(id)
	if !ok {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		text, eval, history := sess.Snapshot()
		writeJSON(w, storyResp{
			SessionID:   id,
			Text:        text,
			Evaluation:  eval,
			ReadingTime: story.EstimateReadingTime(text),
			History:     history,
		})
	case http.MethodPost:
		var req reviseReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Feedback) == "" {
			http.Error(w, "feedback text is required", http.StatusBadRequest)
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
		defer cancel()
		if _, err := sess.Revise(ctx, req.Feedback); err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		text, eval, history := sess.Snapshot()
		writeJSON(w, storyResp{
			SessionID:   id,
			Text:        text,
			Evaluation:  eval,
			ReadingTime: story.EstimateReadingTime(text),
			History:     history,
		})
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", time.Since(start)))
	})
}
