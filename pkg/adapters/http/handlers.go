package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.Tracker.Err(); err != nil {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "error": err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "checkmark-http",
		"version": s.version,
		"session": s.Tracker.ID(),
	})
}

// ListLocations handles the GET /locations request.
func (s *Server) ListLocations(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Tracker.Locations())
}

// GetLocation handles the GET /locations/{id} request.
func (s *Server) GetLocation(w http.ResponseWriter, r *http.Request) {
	loc, err := s.Tracker.Location(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, loc)
}

// Collect handles the POST /locations/{id}/sections/{n}/collect request.
func (s *Server) Collect(w http.ResponseWriter, r *http.Request) {
	ref, err := sectionRef(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))
	s.sectionCommand(w, r, ref.Location, func(ctx context.Context) error {
		return s.Tracker.Collect(ctx, ref, force)
	})
}

// Uncollect handles the POST /locations/{id}/sections/{n}/uncollect request.
func (s *Server) Uncollect(w http.ResponseWriter, r *http.Request) {
	ref, err := sectionRef(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.sectionCommand(w, r, ref.Location, func(ctx context.Context) error {
		return s.Tracker.Uncollect(ctx, ref)
	})
}

// sectionCommand answers with the updated location.
func (s *Server) sectionCommand(w http.ResponseWriter, r *http.Request, location string, fn func(context.Context) error) {
	if _, err := s.mutate(r.Context(), fn); err != nil {
		s.writeError(w, r, err)
		return
	}
	loc, err := s.Tracker.Location(location)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, loc)
}

// Undo handles the POST /undo request.
func (s *Server) Undo(w http.ResponseWriter, r *http.Request) {
	s.diffCommand(w, r, s.Tracker.Undo)
}

// Redo handles the POST /redo request.
func (s *Server) Redo(w http.ResponseWriter, r *http.Request) {
	s.diffCommand(w, r, s.Tracker.Redo)
}

// Reset handles the POST /reset request.
func (s *Server) Reset(w http.ResponseWriter, r *http.Request) {
	s.diffCommand(w, r, s.Tracker.Reset)
}

// diffCommand answers with the snapshot diff, or 204 when nothing changed.
func (s *Server) diffCommand(w http.ResponseWriter, r *http.Request, fn func(context.Context) error) {
	diff, err := s.mutate(r.Context(), fn)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if diff == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.writeJSON(w, http.StatusOK, diff)
}

type itemRequest struct {
	Count int `json:"count"`
}

// SetItem handles the PUT /items/{name} request.
func (s *Server) SetItem(w http.ResponseWriter, r *http.Request) {
	var body itemRequest
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	name := chi.URLParam(r, "name")
	s.diffCommand(w, r, func(ctx context.Context) error {
		return s.Tracker.SetItem(ctx, name, body.Count)
	})
}

type modeRequest struct {
	Value string `json:"value"`
}

// SetMode handles the PUT /modes/{key} request.
func (s *Server) SetMode(w http.ResponseWriter, r *http.Request) {
	var body modeRequest
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	key := chi.URLParam(r, "key")
	s.diffCommand(w, r, func(ctx context.Context) error {
		return s.Tracker.SetMode(ctx, key, body.Value)
	})
}

type memoryRequest struct {
	Value int `json:"value"`
}

// WriteMemory handles the PUT /memory/{addr} request. Addresses accept 0x notation.
func (s *Server) WriteMemory(w http.ResponseWriter, r *http.Request) {
	addr, err := strconv.ParseInt(chi.URLParam(r, "addr"), 0, 64)
	if err != nil {
		s.writeError(w, r, fmt.Errorf("%w: invalid address: %v", errBadRequest, err))
		return
	}
	var body memoryRequest
	if err := decode(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.diffCommand(w, r, func(ctx context.Context) error {
		return s.Tracker.WriteMemory(ctx, int(addr), body.Value)
	})
}

// GetSnapshot handles the GET /snapshot request.
func (s *Server) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Tracker.Snapshot())
}

// Save handles the POST /save request.
func (s *Server) Save(w http.ResponseWriter, r *http.Request) {
	save := func(ctx context.Context) error {
		_, err := s.Tracker.Save(ctx)
		return err
	}
	var err error
	if s.sessions != nil {
		err = s.sessions.WithLock(r.Context(), s.Tracker.ID(), save)
	} else {
		err = save(r.Context())
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.Tracker.Snapshot())
}

func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", errBadRequest, err)
	}
	return nil
}
