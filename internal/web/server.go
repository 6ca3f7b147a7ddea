// Package web serves the EcoNexus browser chat widget and its JSON API.
package web

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/econexus/econexus/internal/chat"
	"github.com/econexus/econexus/internal/config"
	apierrors "github.com/econexus/econexus/internal/errors"
	"github.com/econexus/econexus/internal/models"
)

//go:embed static/index.html
var widgetHTML []byte

const (
	maxBodyBytes       = 16 << 10
	shutdownTimeout    = 5 * time.Second
	sessionIdleTTL     = 30 * time.Minute
	cleanupInterval    = 5 * time.Minute
	defaultMaxSessions = 1000
)

// ConversationFactory creates a fresh conversation for a new chat_id
type ConversationFactory func() *chat.Conversation

type session struct {
	conv     *chat.Conversation
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Server hosts one conversation per chat_id. Conversations are stored once a
// message is posted, expire after sessionIdleTTL and are capped at maxSessions.
type Server struct {
	cfg        config.ServerConfig
	newConv    ConversationFactory
	log        zerolog.Logger
	httpServer *http.Server

	maxSessions int
	idleTTL     time.Duration
	now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*session
}

type messageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

type conversationResponse struct {
	ChatID      string           `json:"chat_id"`
	Messages    []models.Message `json:"messages"`
	Status      models.Status    `json:"status"`
	StatusLabel string           `json:"status_label"`
	Busy        bool             `json:"busy"`
}

type errorResponse struct {
	Error  string `json:"error"`
	ChatID string `json:"chat_id,omitempty"`
}

// NewServer creates a widget server. Conversations are created lazily through newConv.
func NewServer(cfg config.ServerConfig, newConv ConversationFactory, log zerolog.Logger) *Server {
	maxSessions := cfg.MaxSessions
	if maxSessions <= 0 {
		maxSessions = defaultMaxSessions
	}
	return &Server{
		cfg:         cfg,
		newConv:     newConv,
		log:         log,
		maxSessions: maxSessions,
		idleTTL:     sessionIdleTTL,
		now:         time.Now,
		sessions:    make(map[string]*session),
	}
}

// Handler returns the HTTP routes of the widget
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleUI)
	mux.HandleFunc("GET /api/conversation", s.handleConversation)
	mux.HandleFunc("POST /api/messages", s.handleMessage)
	mux.HandleFunc("POST /api/reset", s.handleReset)
	return mux
}

// Run serves until ctx is cancelled, then shuts the server down gracefully
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.cleanupLoop(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.cfg.Addr).Msg("widget server listening")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("widget server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.log.Info().Msg("widget server shutting down")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown widget server: %w", err)
	}
	return nil
}

// lookup returns the stored conversation for chatID. Unknown or missing IDs get
// a fresh, unstored conversation so reads never grow the session map.
func (s *Server) lookup(chatID string) (string, *chat.Conversation) {
	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return uuid.NewString(), s.newConv()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[chatID]; ok {
		sess.lastSeen = s.now()
		return chatID, sess.conv
	}
	return chatID, s.newConv()
}

// session returns the session for chatID, storing a new one (and minting an ID) when needed
func (s *Server) session(chatID string) (string, *session) {
	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		chatID = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if sess, ok := s.sessions[chatID]; ok {
		sess.lastSeen = now
		return chatID, sess
	}

	if len(s.sessions) >= s.maxSessions {
		s.pruneLocked(now)
	}
	if len(s.sessions) >= s.maxSessions {
		s.evictOldestLocked()
	}

	sess := &session{
		conv:     s.newConv(),
		limiter:  s.newLimiter(),
		lastSeen: now,
	}
	s.sessions[chatID] = sess
	return chatID, sess
}

// cleanupLoop removes idle sessions until ctx is done
func (s *Server) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.pruneSessions()
		}
	}
}

// pruneSessions drops sessions idle for longer than idleTTL
func (s *Server) pruneSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if n := s.pruneLocked(s.now()); n > 0 {
		s.log.Debug().Int("removed", n).Int("remaining", len(s.sessions)).Msg("pruned idle conversations")
	}
}

// pruneLocked removes idle sessions that are not awaiting a reply. Caller holds mu.
func (s *Server) pruneLocked(now time.Time) int {
	cutoff := now.Add(-s.idleTTL)
	removed := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) && !sess.conv.Busy() {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// evictOldestLocked removes the least recently seen session, preferring idle ones. Caller holds mu.
func (s *Server) evictOldestLocked() {
	var oldestID string
	var oldest time.Time
	oldestBusy := true

	for id, sess := range s.sessions {
		busy := sess.conv.Busy()
		better := oldestID == "" ||
			(oldestBusy && !busy) ||
			(oldestBusy == busy && sess.lastSeen.Before(oldest))
		if better {
			oldestID, oldest, oldestBusy = id, sess.lastSeen, busy
		}
	}
	if oldestID != "" {
		delete(s.sessions, oldestID)
		s.log.Debug().Str("chat_id", oldestID).Msg("evicted conversation")
	}
}

func (s *Server) sessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Server) newLimiter() *rate.Limiter {
	limit := rate.Inf
	if s.cfg.RateLimit > 0 {
		limit = rate.Limit(s.cfg.RateLimit)
	}
	burst := s.cfg.Burst
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(limit, burst)
}

func (s *Server) handleUI(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(widgetHTML)
}

func (s *Server) handleConversation(w http.ResponseWriter, r *http.Request) {
	chatID, conv := s.lookup(r.URL.Query().Get("chat_id"))
	s.writeJSON(w, http.StatusOK, snapshot(chatID, conv))
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "ongeldig verzoek"})
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bericht is leeg", ChatID: strings.TrimSpace(req.ChatID)})
		return
	}

	chatID, sess := s.session(req.ChatID)
	if !sess.limiter.Allow() {
		s.writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "te veel berichten, probeer het zo opnieuw", ChatID: chatID})
		return
	}

	// A dropped browser connection must not cancel the reply; only the client
	// timeout and Reset do.
	res, err := sess.conv.Submit(context.WithoutCancel(r.Context()), req.Text)
	switch {
	case errors.Is(err, chat.ErrEmptyInput):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bericht is leeg", ChatID: chatID})
		return
	case errors.Is(err, chat.ErrBusy):
		s.writeJSON(w, http.StatusConflict, errorResponse{Error: "EcoNexus is nog bezig met een antwoord", ChatID: chatID})
		return
	case err != nil:
		s.log.Error().Err(err).Str("chat_id", chatID).Msg("submit failed")
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "interne fout", ChatID: chatID})
		return
	}
	if res.Err != nil {
		s.log.Debug().
			Str("chat_id", chatID).
			Str("kind", apierrors.KindOf(res.Err).String()).
			Int("http_status", apierrors.GetHTTPStatus(res.Err)).
			Msg("reply fell back")
	}

	s.writeJSON(w, http.StatusOK, snapshot(chatID, sess.conv))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := decodeBody(w, r, &req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "ongeldig verzoek"})
		return
	}

	chatID, conv := s.lookup(req.ChatID)
	conv.Reset()
	s.writeJSON(w, http.StatusOK, snapshot(chatID, conv))
}

func snapshot(chatID string, conv *chat.Conversation) conversationResponse {
	status := conv.Status()
	return conversationResponse{
		ChatID:      chatID,
		Messages:    conv.Messages(),
		Status:      status,
		StatusLabel: status.Label(),
		Busy:        conv.Busy(),
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("write response")
	}
}
