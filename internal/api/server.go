// Package api exposes the crewdesk core over HTTP/JSON.
package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/crewdeskhq/crewdesk/internal/analyzer"
	"github.com/crewdeskhq/crewdesk/internal/brain"
	"github.com/crewdeskhq/crewdesk/internal/chat"
	"github.com/crewdeskhq/crewdesk/internal/entity"
	"github.com/crewdeskhq/crewdesk/internal/models"
	"github.com/crewdeskhq/crewdesk/internal/registry"
	"github.com/crewdeskhq/crewdesk/internal/router"
)

const maxBodyBytes = 1 << 20 // 1 MB

// Server is an HTTP API server exposing persona, brain, chat, routing and
// analysis operations.
type Server struct {
	registry  *registry.Registry
	brain     *brain.Store
	chat      *chat.Service
	router    router.Router
	analyzer  analyzer.Analyzer
	entities  *entity.Store
	logger    *slog.Logger
	authToken string // empty = no auth required
	limiter   *rate.Limiter
}

// Options configures a Server.
type Options struct {
	AuthToken string
	RateLimit float64 // requests per second; <= 0 disables limiting
	RateBurst int
}

// NewServer creates a new Server with the given dependencies.
func NewServer(reg *registry.Registry, br *brain.Store, ch *chat.Service, rt router.Router, an analyzer.Analyzer, es *entity.Store, logger *slog.Logger, opts Options) *Server {
	s := &Server{
		registry:  reg,
		brain:     br,
		chat:      ch,
		router:    rt,
		analyzer:  an,
		entities:  es,
		logger:    logger,
		authToken: opts.AuthToken,
	}
	if opts.RateLimit > 0 {
		burst := opts.RateBurst
		if burst <= 0 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return s
}

// Handler returns an http.Handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check, no auth required.
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	mux.HandleFunc("GET /v1/personas", s.wrap(s.handleListPersonas))
	mux.HandleFunc("POST /v1/personas", s.wrap(s.handleAddPersona))
	mux.HandleFunc("POST /v1/personas/seed", s.wrap(s.handleSeed))
	mux.HandleFunc("GET /v1/personas/{id}", s.wrap(s.handleGetPersona))
	mux.HandleFunc("PATCH /v1/personas/{id}", s.wrap(s.handleUpdatePersona))
	mux.HandleFunc("DELETE /v1/personas/{id}", s.wrap(s.handleDeletePersona))

	mux.HandleFunc("GET /v1/personas/{id}/messages", s.wrap(s.handleHistory))
	mux.HandleFunc("POST /v1/personas/{id}/messages", s.wrap(s.handleSend))
	mux.HandleFunc("DELETE /v1/personas/{id}/messages", s.wrap(s.handleClear))

	mux.HandleFunc("GET /v1/users/{user}/brain", s.wrap(s.handleListBrain))
	mux.HandleFunc("POST /v1/users/{user}/brain", s.wrap(s.handleAddBrain))
	mux.HandleFunc("GET /v1/users/{user}/brain/search", s.wrap(s.handleSearchBrain))
	mux.HandleFunc("PATCH /v1/users/{user}/brain/{id}", s.wrap(s.handleUpdateBrain))
	mux.HandleFunc("DELETE /v1/users/{user}/brain/{id}", s.wrap(s.handleDeleteBrain))

	mux.HandleFunc("POST /v1/route", s.wrap(s.handleRoute))
	mux.HandleFunc("POST /v1/analyze", s.wrap(s.handleAnalyze))
	mux.HandleFunc("GET /v1/stats", s.wrap(s.handleStats))

	return mux
}

// --- middleware ---

// wrap applies rate limiting and bearer token auth to a handler.
func (s *Server) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			s.writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		if s.authToken != "" {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) != 1 {
				s.writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
		}
		next(w, r)
	}
}

// --- persona handlers ---

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// addPersonaRequest is the body accepted by POST /v1/personas.
type addPersonaRequest struct {
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Avatar      string   `json:"avatar"`
	Color       string   `json:"color"`
	Specialties []string `json:"specialties"`
}

func (s *Server) handleAddPersona(w http.ResponseWriter, r *http.Request) {
	var req addPersonaRequest
	if !s.decode(w, r, &req) {
		return
	}

	p, err := s.registry.Add(r.Context(), req.Name, req.Role, req.Avatar, req.Color, req.Specialties)
	if err != nil {
		s.writeOpError(w, "add persona", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleListPersonas(w http.ResponseWriter, r *http.Request) {
	personas := s.registry.List(r.Context())
	if personas == nil {
		personas = []models.Persona{}
	}
	s.writeJSON(w, http.StatusOK, personas)
}

func (s *Server) handleGetPersona(w http.ResponseWriter, r *http.Request) {
	p, err := s.registry.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeOpError(w, "get persona", err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdatePersona(w http.ResponseWriter, r *http.Request) {
	var upd models.PersonaUpdate
	if !s.decode(w, r, &upd) {
		return
	}

	p, err := s.registry.Update(r.Context(), r.PathValue("id"), upd)
	if err != nil {
		s.writeOpError(w, "update persona", err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePersona(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.Remove(r.Context(), r.PathValue("id")); err != nil {
		s.writeOpError(w, "delete persona", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// seedRequest is the body accepted by POST /v1/personas/seed.
type seedRequest struct {
	BusinessType string `json:"business_type"`
}

func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request) {
	var req seedRequest
	if !s.decode(w, r, &req) {
		return
	}

	created, err := s.registry.SeedDefaults(r.Context(), models.BusinessType(req.BusinessType))
	if err != nil {
		s.writeOpError(w, "seed personas", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, created)
}

// --- chat handlers ---

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	history := s.chatHistory(r.Context(), r.PathValue("id"))
	s.writeJSON(w, http.StatusOK, history)
}

// sendRequest is the body accepted by POST /v1/personas/{id}/messages.
type sendRequest struct {
	Content     string              `json:"content"`
	Attachments []models.Attachment `json:"attachments"`
	Images      []string            `json:"images"`
}

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	var req sendRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Content == "" {
		s.writeError(w, http.StatusBadRequest, "content is required")
		return
	}

	reply, err := s.chat.Send(r.Context(), r.PathValue("id"), req.Content, req.Attachments, req.Images)
	if err != nil {
		s.writeOpError(w, "send message", err)
		return
	}
	s.writeJSON(w, http.StatusOK, reply)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.chat.StartNew(r.Context(), r.PathValue("id")); err != nil {
		s.writeOpError(w, "clear conversation", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"cleared": true})
}

// --- brain handlers ---

// addBrainRequest is the body accepted by POST /v1/users/{user}/brain.
type addBrainRequest struct {
	Type       string `json:"type"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	FileURL    string `json:"file_url"`
	FileType   string `json:"file_type"`
	EmployeeID string `json:"employee_id"`
}

func (s *Server) handleAddBrain(w http.ResponseWriter, r *http.Request) {
	var req addBrainRequest
	if !s.decode(w, r, &req) {
		return
	}

	item, err := s.brain.Add(r.Context(), r.PathValue("user"), brain.AddInput{
		Type:       models.KnowledgeType(req.Type),
		Title:      req.Title,
		Content:    req.Content,
		FileURL:    req.FileURL,
		FileType:   req.FileType,
		EmployeeID: req.EmployeeID,
	})
	if err != nil {
		s.writeOpError(w, "add knowledge item", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleListBrain(w http.ResponseWriter, r *http.Request) {
	var typeFilter *models.KnowledgeType
	if t := r.URL.Query().Get("type"); t != "" {
		kt := models.KnowledgeType(t)
		if !kt.IsValid() {
			s.writeError(w, http.StatusBadRequest, "invalid type filter")
			return
		}
		typeFilter = &kt
	}

	items := s.brain.ListByUser(r.Context(), r.PathValue("user"), typeFilter)
	if items == nil {
		items = []models.KnowledgeItem{}
	}
	s.writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleSearchBrain(w http.ResponseWriter, r *http.Request) {
	items := s.brain.Search(r.Context(), r.PathValue("user"), r.URL.Query().Get("q"))
	if items == nil {
		items = []models.KnowledgeItem{}
	}
	s.writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleUpdateBrain(w http.ResponseWriter, r *http.Request) {
	var upd models.KnowledgeUpdate
	if !s.decode(w, r, &upd) {
		return
	}

	item, err := s.brain.Update(r.Context(), r.PathValue("user"), r.PathValue("id"), upd)
	if err != nil {
		s.writeOpError(w, "update knowledge item", err)
		return
	}
	s.writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteBrain(w http.ResponseWriter, r *http.Request) {
	if err := s.brain.Remove(r.Context(), r.PathValue("user"), r.PathValue("id")); err != nil {
		s.writeOpError(w, "delete knowledge item", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// --- routing & analysis handlers ---

// routeRequest is the body accepted by POST /v1/route.
type routeRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	var req routeRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Question == "" {
		s.writeError(w, http.StatusBadRequest, "question is required")
		return
	}

	p, err := s.router.Route(s.registry.List(r.Context()), req.Question)
	if err != nil {
		if errors.Is(err, router.ErrNoPersonas) {
			s.writeError(w, http.StatusNotFound, "no personas available")
			return
		}
		s.writeOpError(w, "route question", err)
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

// analyzeRequest is the body accepted by POST /v1/analyze.
type analyzeRequest struct {
	Text    string `json:"text"`
	Context string `json:"context"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Text == "" {
		s.writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	result, err := s.analyzer.Analyze(r.Context(), req.Text, req.Context)
	if err != nil {
		s.writeOpError(w, "analyze", err)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.entities.Stats(r.Context())
	if err != nil {
		s.logger.Error("failed to get stats", "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to get stats")
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

// --- helpers ---

func (s *Server) chatHistory(ctx context.Context, personaID string) []models.ConversationMessage {
	history := s.chat.History(ctx, personaID)
	if history == nil {
		history = []models.ConversationMessage{}
	}
	return history
}

// decode reads a JSON body into v, writing a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// writeOpError maps core error kinds to HTTP statuses.
func (s *Server) writeOpError(w http.ResponseWriter, op string, err error) {
	var vErr *models.ValidationError
	switch {
	case errors.As(err, &vErr):
		s.writeError(w, http.StatusBadRequest, vErr.Error())
	case errors.Is(err, entity.ErrNotFound):
		s.writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, analyzer.ErrRateLimited):
		s.writeError(w, http.StatusTooManyRequests, "analysis service rate limited")
	case errors.Is(err, analyzer.ErrUnavailable):
		s.writeError(w, http.StatusBadGateway, "analysis service unavailable")
	default:
		s.logger.Error("api: "+op, "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// writeJSON encodes v as JSON and writes it to w with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(v); encErr != nil {
		s.logger.Error("failed to encode response", "error", encErr)
	}
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// Shutdown gracefully shuts down an http.Server with the given timeout.
// This is a convenience helper used by the serve command.
func Shutdown(srv *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
