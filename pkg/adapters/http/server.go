// Package http exposes a tracker as a JSON API with server-sent change events.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/checkmark/internal/logging"
	"github.com/aretw0/checkmark/pkg/domain"
	"github.com/aretw0/checkmark/pkg/observability"
	"github.com/aretw0/checkmark/pkg/ports"
	"github.com/aretw0/checkmark/pkg/session"
)

// Server serves one tracker session.
type Server struct {
	Tracker ports.Tracker
	Streams *StreamManager

	sessions *session.Manager
	metrics  *observability.Metrics
	version  string
	logger   *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithSessionManager serialises every mutation through the manager's session lock,
// which also covers other replicas when the manager has a distributed locker.
func WithSessionManager(m *session.Manager) Option {
	return func(s *Server) {
		s.sessions = m
	}
}

// WithMetrics serves the collectors on GET /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithVersion sets the version reported by GET /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a server for the tracker.
func NewServer(tracker ports.Tracker, opts ...Option) *Server {
	s := &Server{
		Tracker: tracker,
		Streams: NewStreamManager(),
		version: "unknown",
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.logger
	return s
}

// NewHandler creates a new HTTP handler for the tracker.
func NewHandler(tracker ports.Tracker, opts ...Option) http.Handler {
	return NewServer(tracker, opts...).Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metricsHandler())
	}

	r.Get("/locations", s.ListLocations)
	r.Get("/locations/{id}", s.GetLocation)
	r.Post("/locations/{id}/sections/{n}/collect", s.Collect)
	r.Post("/locations/{id}/sections/{n}/uncollect", s.Uncollect)
	r.Post("/undo", s.Undo)
	r.Post("/redo", s.Redo)
	r.Put("/items/{name}", s.SetItem)
	r.Put("/modes/{key}", s.SetMode)
	r.Put("/memory/{addr}", s.WriteMemory)
	r.Get("/snapshot", s.GetSnapshot)
	r.Post("/save", s.Save)
	r.Post("/reset", s.Reset)
	r.Get("/events", s.SubscribeEvents)
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) metricsHandler() http.Handler {
	inner := s.metrics.Handler()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.metrics.Observe(s.Tracker.Locations())
		inner.ServeHTTP(w, r)
	})
}

// mutate runs fn under the session lock and broadcasts the resulting snapshot diff.
func (s *Server) mutate(ctx context.Context, fn func(context.Context) error) (*domain.SnapshotDiff, error) {
	var diff *domain.SnapshotDiff
	run := func(ctx context.Context) error {
		before := s.Tracker.Snapshot()
		if err := fn(ctx); err != nil {
			return err
		}
		diff = domain.Diff(before, s.Tracker.Snapshot())
		return nil
	}
	var err error
	if s.sessions != nil {
		err = s.sessions.WithLock(ctx, s.Tracker.ID(), run)
	} else {
		err = run(ctx)
	}
	if err != nil {
		return nil, err
	}
	if diff != nil {
		if payload, err := json.Marshal(diff); err == nil {
			s.Streams.Broadcast(s.Tracker.ID(), string(payload))
		}
	}
	return diff, nil
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "err", err)
	} else {
		s.logger.DebugContext(r.Context(), "request rejected", "path", r.URL.Path, "status", status, "err", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownLocation),
		errors.Is(err, domain.ErrUnknownSection),
		errors.Is(err, domain.ErrUnknownPlacement),
		errors.Is(err, domain.ErrSnapshotNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCommandDeclined),
		errors.Is(err, domain.ErrNothingToUndo):
		return http.StatusConflict
	case errors.Is(err, domain.ErrSessionLocked):
		return http.StatusLocked
	case errors.Is(err, domain.ErrConfiguration), errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

var errBadRequest = errors.New("bad request")

func sectionRef(r *http.Request) (domain.SectionRef, error) {
	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil {
		return domain.SectionRef{}, fmt.Errorf("%w: section index must be an integer", errBadRequest)
	}
	return domain.SectionRef{Location: chi.URLParam(r, "id"), Index: n}, nil
}
