// Package http exposes the engine over a JSON API: assembled pages, the
// wizard session operations, and the lead-capture forwarder.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/masonrylabs/masonry"
	"github.com/masonrylabs/masonry/internal/logging"
	"github.com/masonrylabs/masonry/pkg/assemble"
	"github.com/masonrylabs/masonry/pkg/domain"
	"github.com/masonrylabs/masonry/pkg/ports"
)

// Engine defines the interface for the Masonry assembly and wizard core.
type Engine interface {
	Page(ctx context.Context, route string) (*assemble.Result, error)
	Routes(ctx context.Context) ([]string, error)
	StartWizard(ctx context.Context, route, blockID string) (*masonry.WizardView, error)
	Wizard(ctx context.Context, sessionID string) (*masonry.WizardView, error)
	WizardNext(ctx context.Context, sessionID string, answers map[string]any) (*masonry.WizardView, error)
	WizardBack(ctx context.Context, sessionID string) (*masonry.WizardView, error)
	WizardRestart(ctx context.Context, sessionID string) (*masonry.WizardView, error)
	SubmitLead(ctx context.Context, lead ports.Lead) error
}

// Server holds the handler dependencies.
type Server struct {
	engine Engine
	logger *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine Engine, opts ...Option) http.Handler {
	s := &Server{engine: engine, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.health)
	r.Get("/api/routes", s.routes)
	r.Get("/api/pages/*", s.page)
	r.Post("/api/wizard/start", s.wizardStart)
	r.Get("/api/wizard/{sessionID}", s.wizardView)
	r.Post("/api/wizard/{sessionID}/next", s.wizardNext)
	r.Post("/api/wizard/{sessionID}/back", s.wizardBack)
	r.Post("/api/wizard/{sessionID}/restart", s.wizardRestart)
	r.Post("/api/collect", s.collect)
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) routes(w http.ResponseWriter, r *http.Request) {
	routes, err := s.engine.Routes(r.Context())
	if err != nil {
		s.fail(w, "list routes", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"routes": routes})
}

// pageResponse is the assembled page payload.
type pageResponse struct {
	Route    string            `json:"route"`
	Meta     assemble.PageMeta `json:"meta"`
	Document string            `json:"document"`
}

func (s *Server) page(w http.ResponseWriter, r *http.Request) {
	route := "/" + chi.URLParam(r, "*")
	res, err := s.engine.Page(r.Context(), route)
	if err != nil {
		s.fail(w, "assemble page", err)
		return
	}
	writeJSON(w, http.StatusOK, pageResponse{
		Route:    route,
		Meta:     res.Meta,
		Document: res.Document,
	})
}

func (s *Server) wizardStart(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Route   string `json:"route"`
		BlockID string `json:"block_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	view, err := s.engine.StartWizard(r.Context(), body.Route, body.BlockID)
	if err != nil {
		s.fail(w, "start wizard", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) wizardView(w http.ResponseWriter, r *http.Request) {
	view, err := s.engine.Wizard(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.fail(w, "load wizard", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) wizardNext(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Answers map[string]any `json:"answers"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	view, err := s.engine.WizardNext(r.Context(), chi.URLParam(r, "sessionID"), body.Answers)
	if err != nil {
		var vErr *domain.StepValidationError
		if errors.As(err, &vErr) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":   "validation failed",
				"step_id": vErr.StepID,
				"missing": vErr.Missing,
			})
			return
		}
		s.fail(w, "wizard next", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) wizardBack(w http.ResponseWriter, r *http.Request) {
	view, err := s.engine.WizardBack(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.fail(w, "wizard back", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) wizardRestart(w http.ResponseWriter, r *http.Request) {
	view, err := s.engine.WizardRestart(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		s.fail(w, "wizard restart", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) collect(w http.ResponseWriter, r *http.Request) {
	var lead ports.Lead
	if err := json.NewDecoder(r.Body).Decode(&lead); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if lead.FormType == "" {
		writeError(w, http.StatusBadRequest, "formType is required")
		return
	}
	if err := s.engine.SubmitLead(r.Context(), lead); err != nil {
		s.fail(w, "submit lead", err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// fail maps domain errors to status codes and logs server-side faults.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrPageNotFound),
		errors.Is(err, domain.ErrBlockNotFound),
		errors.Is(err, domain.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		s.logger.Error(op+" failed", "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
