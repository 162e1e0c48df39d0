package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/lattice/internal/presentation/graph"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Server exposes a session service over HTTP.
type Server struct {
	Service  *session.Service
	Gatherer prometheus.Gatherer
	Version  string
	Logger   *slog.Logger
}

// Option configures the handler.
type Option func(*Server)

// WithGatherer serves /metrics from g instead of the default registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.Gatherer = g
	}
}

// WithVersion sets the version reported by /health.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.Version = v
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// UpdateRequest is the body of POST /v1/sessions/{id}/update.
type UpdateRequest struct {
	Values  map[domain.NodeID]domain.Value `json:"values"`
	Changed []domain.NodeID                `json:"changed"`
}

// StartRequest is the body of POST /v1/sessions.
type StartRequest struct {
	SessionID string                         `json:"session_id"`
	Values    map[domain.NodeID]domain.Value `json:"values"`
}

// NewHandler creates a new HTTP handler for the service.
func NewHandler(svc *session.Service, opts ...Option) http.Handler {
	s := &Server{
		Service:  svc,
		Gatherer: prometheus.DefaultGatherer,
		Logger:   slog.New(slog.NewJSONHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/graph", s.GetGraph)
		r.Get("/graph/mermaid", s.GetMermaid)

		r.Get("/sessions", s.ListSessions)
		r.Post("/sessions", s.StartSession)
		r.Get("/sessions/{id}", s.GetSession)
		r.Delete("/sessions/{id}", s.DeleteSession)
		r.Post("/sessions/{id}/update", s.UpdateSession)
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// StartSession handles POST /v1/sessions. The body is optional.
func (s *Server) StartSession(w http.ResponseWriter, r *http.Request) {
	var body StartRequest
	if !s.decode(w, r, &body) {
		return
	}

	res, err := s.Service.Start(r.Context(), body.SessionID, body.Values)
	if err != nil {
		s.fail(w, "StartSession", err)
		return
	}
	s.writeJSON(w, http.StatusCreated, res)
}

// UpdateSession handles POST /v1/sessions/{id}/update.
func (s *Server) UpdateSession(w http.ResponseWriter, r *http.Request) {
	var body UpdateRequest
	if !s.decode(w, r, &body) {
		return
	}

	res, err := s.Service.Update(r.Context(), chi.URLParam(r, "id"), body.Values, body.Changed...)
	if err != nil {
		s.fail(w, "UpdateSession", err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// GetSession handles GET /v1/sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	res, err := s.Service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetSession", err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// DeleteSession handles DELETE /v1/sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, "DeleteSession", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListSessions handles GET /v1/sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Service.Manager().List(r.Context())
	if err != nil {
		s.fail(w, "ListSessions", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// GetGraph handles GET /v1/graph.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	nodes, err := s.Service.Describe()
	if err != nil {
		s.fail(w, "GetGraph", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"nodes": nodes})
}

// GetMermaid handles GET /v1/graph/mermaid.
// With ?session=<id>, the session's stored nodes are highlighted.
func (s *Server) GetMermaid(w http.ResponseWriter, r *http.Request) {
	g, err := s.Service.Graph()
	if err != nil {
		s.fail(w, "GetMermaid", err)
		return
	}

	var overlay *graph.GraphOverlay
	if id := r.URL.Query().Get("session"); id != "" {
		values, err := s.Service.Manager().Load(r.Context(), id)
		if err != nil {
			s.fail(w, "GetMermaid", err)
			return
		}
		overlay = &graph.GraphOverlay{}
		for _, nid := range g.IDs() {
			if _, ok := values[nid]; ok {
				overlay.Visited = append(overlay.Visited, nid)
			}
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, graph.GenerateMermaid(g.Nodes(), overlay))
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	resp := map[string]string{"status": "ok"}
	if s.Version != "" {
		resp["version"] = s.Version
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// -- Helpers --

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		s.Logger.Warn("Invalid request body", "path", r.URL.Path, "err", err)
		s.writeJSON(w, http.StatusBadRequest, errorBody{Error: fmt.Sprintf("invalid request body: %v", err)})
		return false
	}
	return true
}

type errorBody struct {
	Error string `json:"error"`
}

// StatusFor maps an engine or store error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound
	case domain.IsConstructionError(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrRemote), errors.Is(err, domain.ErrNoResolver):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error(op+" failed", "err", err)
	} else {
		s.Logger.Warn(op+" rejected", "status", status, "err", err)
	}
	s.writeJSON(w, status, errorBody{Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("Response encode failed", "err", err)
	}
}
