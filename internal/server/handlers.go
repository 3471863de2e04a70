package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eykd/timeid-go/pkg/timeid"
)

// HealthResponse is the response for /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// IDsResponse is the response for GET /v1/ids.
type IDsResponse struct {
	IDs []string `json:"ids"`
}

// InspectResponse describes a single ID.
type InspectResponse struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Timestamp uint32    `json:"timestamp"`
}

// BoundsResponse holds inclusive range-scan bounds.
type BoundsResponse struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	count := 1
	if v := r.URL.Query().Get("count"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > s.maxBatch {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("count must be between 1 and %d", s.maxBatch))
			return
		}
		count = n
	}

	ids := make([]string, count)
	for i := range ids {
		ids[i] = s.gen.Generate()
	}
	writeJSON(w, http.StatusOK, IDsResponse{IDs: ids})
}

func (s *Server) handleInspect(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	created, err := timeid.CreatedAt(id)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, InspectResponse{
		ID:        id,
		CreatedAt: created,
		Timestamp: uint32(created.Unix() - timeid.EpochOffset),
	})
}

func (s *Server) handleBounds(w http.ResponseWriter, r *http.Request) {
	resp := BoundsResponse{Min: timeid.MinValue, Max: timeid.MaxValue}
	q := r.URL.Query()

	var from, to time.Time
	if v := q.Get("from"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "from must be an RFC 3339 time")
			return
		}
		from = t
		resp.Min = timeid.LowerBound(t)
	}
	if v := q.Get("to"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "to must be an RFC 3339 time")
			return
		}
		to = t
		resp.Max = timeid.UpperBound(t)
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		writeError(w, http.StatusBadRequest, "to must not be before from")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReseed(w http.ResponseWriter, r *http.Request) {
	if err := s.gen.Reseed(); err != nil {
		s.logger.Error("reseed request failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "reseed failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}
