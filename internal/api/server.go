// Package api exposes the document-generation pipeline over HTTP. It is a
// thin caller of the orchestrator: request decoding, error-kind to status
// mapping, and request logging live here; the pipeline owns everything else.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/goliatone/go-docgen/pkg/docerr"
	"github.com/goliatone/go-docgen/pkg/orchestrator"
	"github.com/goliatone/go-docgen/pkg/payload"
)

// Option customises the server configuration.
type Option func(*Server)

// WithLogger injects a structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRequestTimeout bounds each request. The pipeline itself imposes no
// timeouts; the transport is responsible for them.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.requestTimeout = d
	}
}

// Server handles the HTTP surface of the service.
type Server struct {
	gen            *orchestrator.Orchestrator
	logger         *slog.Logger
	requestTimeout time.Duration
}

// New constructs a Server over an orchestrator.
func New(gen *orchestrator.Orchestrator, options ...Option) (*Server, error) {
	if gen == nil {
		return nil, errors.New("api: orchestrator is required")
	}

	s := &Server{
		gen:            gen,
		logger:         slog.Default(),
		requestTimeout: 60 * time.Second,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	return s, nil
}

// Handler returns the routed HTTP handler with logging middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /templates", s.handleListTemplates)
	mux.HandleFunc("GET /generate/{name}", s.handleSchema)
	mux.HandleFunc("GET /generate/{name}/{$}", s.handleSchema)
	mux.HandleFunc("POST /generate", s.handleGenerate)
	mux.HandleFunc("GET /openapi.json", s.handleOpenAPI)
	return s.withLogging(mux)
}

// generateRequest is the POST /generate body.
type generateRequest struct {
	Template string          `json:"template"`
	Payload  json.RawMessage `json:"payload"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"message": "Nothing to see here."})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	templates, err := s.gen.ListTemplates(ctx)
	if err != nil {
		s.writeError(w, fmt.Errorf("list templates: %w", err))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"templates": templates,
		"count":     len(templates),
	})
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	info, err := s.gen.Schema(ctx, r.PathValue("name"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := s.requestContext(r)
	defer cancel()

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeDetail(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.Template == "" {
		s.writeDetail(w, http.StatusBadRequest, "template name is required")
		return
	}

	data, err := payload.Decode(req.Payload)
	if err != nil {
		s.writeDetail(w, http.StatusBadRequest, fmt.Sprintf("invalid payload: %v", err))
		return
	}

	result, err := s.gen.Generate(ctx, orchestrator.Request{
		Template: req.Template,
		Payload:  data,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", result.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.PDF)
}

// writeError maps pipeline error kinds onto protocol status codes:
// NotFound 404, ValidationFailure 400, everything else 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	if verr, ok := docerr.IsValidation(err); ok {
		s.writeJSON(w, http.StatusBadRequest, map[string]any{
			"detail":     verr.Error(),
			"violations": verr.Violations,
		})
		return
	}
	if docerr.IsNotFound(err) {
		s.writeDetail(w, http.StatusNotFound, err.Error())
		return
	}
	s.writeDetail(w, http.StatusInternalServerError, err.Error())
}

func (s *Server) writeDetail(w http.ResponseWriter, status int, detail string) {
	s.writeJSON(w, status, map[string]any{"detail": detail})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.requestTimeout <= 0 {
		return r.Context(), func() {}
	}
	return context.WithTimeout(r.Context(), s.requestTimeout)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", recorder.status,
			"duration", time.Since(started),
		)
	})
}
