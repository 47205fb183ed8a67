// Package api exposes engine sessions over HTTP. Each request carries a
// session token minted at game start or resume; the engine serializes turns
// per session, so the transport stays a thin request/response wrapper.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aldersgate/greyfriars/internal/engine"
)

// Server serves game sessions over HTTP.
type Server struct {
	Engine  *engine.Engine
	Version string

	mu       sync.Mutex
	sessions map[string]*engine.Session
}

// Handler builds the HTTP mux. Session-creating endpoints are rate limited
// per IP; turn endpoints are not, since they require a valid token.
func (s *Server) Handler() http.Handler {
	s.sessions = make(map[string]*engine.Session)

	createLimiter := NewRateLimiter(30, time.Hour)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/game", RateLimitMiddleware(createLimiter, s.handleNewGame))
	mux.HandleFunc("POST /api/v1/resume", RateLimitMiddleware(createLimiter, s.handleResume))
	mux.HandleFunc("POST /api/v1/input", s.handleInput)
	mux.HandleFunc("POST /api/v1/timed", s.handleTimed)
	mux.HandleFunc("GET /api/v1/player", s.handlePlayer)
	mux.HandleFunc("GET /api/v1/party", s.handleParty)
	mux.HandleFunc("GET /api/v1/status", s.handleStatus)
	return mux
}

func (s *Server) register(sess *engine.Session) string {
	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = sess
	s.mu.Unlock()
	return token
}

func (s *Server) session(token string) (*engine.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	return sess, ok
}

type newGameRequest struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type turnResponse struct {
	Session string      `json:"session,omitempty"`
	Turn    engine.Turn `json:"turn"`
}

func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	sess, turn, err := s.Engine.StartNewGame(req.Name, req.Role)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, turnResponse{Session: s.register(sess), Turn: turn})
}

func (s *Server) handleResume(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	sess, turn, err := s.Engine.Resume(req.Code)
	if err != nil {
		// Verification failures are expected and recoverable.
		writeJSON(w, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, turnResponse{Session: s.register(sess), Turn: turn})
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Session string `json:"session"`
		Text    string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	sess, ok := s.session(req.Session)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	writeJSON(w, turnResponse{Turn: sess.HandleInput(req.Text)})
}

func (s *Server) handleTimed(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Session string `json:"session"`
		Choice  int    `json:"choice"` // 0 = time's up
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	sess, ok := s.session(req.Session)
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	writeJSON(w, turnResponse{Turn: sess.ResolveTimed(req.Choice)})
}

func (s *Server) handlePlayer(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(r.URL.Query().Get("session"))
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	writeJSON(w, sess.PlayerOverview())
}

func (s *Server) handleParty(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(r.URL.Query().Get("session"))
	if !ok {
		http.Error(w, "unknown session", http.StatusNotFound)
		return
	}
	ov, inParty := sess.PartyOverview()
	if !inParty {
		writeJSON(w, map[string]string{"party": "none"})
		return
	}
	writeJSON(w, ov)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	open := len(s.sessions)
	s.mu.Unlock()
	writeJSON(w, map[string]any{"version": s.Version, "sessions": open})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response", "error", err)
	}
}
