package beam

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"Flexura/internal/auth"
	"Flexura/internal/engine"
	"Flexura/internal/metrics"
	"Flexura/internal/repo"
)

const (
	defaultHistory = 20
	maxHistory     = 100
	maxPoints      = 1000
)

// Handler serves the beam check tools. Repo may be nil, in which case
// checks are not stored and history is unavailable.
type Handler struct {
	Repo     repo.Repository
	Metrics  *metrics.Metrics
	Workers  int
	MaxBatch int
	Points   int
}

type StoredOutput struct {
	CheckOutput
	ID int64 `json:"id,omitempty"`
}

type SampleInput struct {
	Beam   engine.BeamSpec `json:"beam"`
	X      *float64        `json:"x,omitempty"`
	Points int             `json:"points,omitempty"`
}

type SampleOutput struct {
	Points []engine.Point `json:"points"`
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request) (CheckOutput, bool) {
	var input CheckInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return CheckOutput{}, false
	}
	out, err := Calculate(r.Context(), input, h.Workers, h.MaxBatch)
	if err != nil {
		h.fail(w, err)
		return CheckOutput{}, false
	}
	h.Metrics.ObserveResults(out.Results)
	return out, true
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	h.Metrics.ObserveError(err)
	if Status(err) == http.StatusInternalServerError {
		log.Printf("beam: %v", err)
	}
	WriteError(w, err)
}

// Check analyses a batch without storing it.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	out, ok := h.run(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// CheckAndStore analyses a batch and records it in the user's history.
func (h *Handler) CheckAndStore(w http.ResponseWriter, r *http.Request) {
	out, ok := h.run(w, r)
	if !ok {
		return
	}
	res := StoredOutput{CheckOutput: out}
	if userID, ok := auth.UserID(r.Context()); ok && h.Repo != nil {
		id, err := h.Repo.SaveCheck(r.Context(), userID, out.Results, out.Summary)
		if err != nil {
			log.Printf("SaveCheck error: %v", err)
		} else {
			res.ID = id
		}
	}
	writeJSON(w, http.StatusOK, res)
}

// Sample returns V, M and deflection at x, or at evenly spaced stations
// when x is omitted.
func (h *Handler) Sample(w http.ResponseWriter, r *http.Request) {
	var input SampleInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	if input.X != nil {
		p, err := engine.Sample(input.Beam, *input.X)
		if err != nil {
			h.fail(w, err)
			return
		}
		writeJSON(w, http.StatusOK, SampleOutput{Points: []engine.Point{p}})
		return
	}

	n := input.Points
	if n == 0 {
		n = h.Points
	}
	if n < 1 || n > maxPoints {
		h.fail(w, &engine.FieldError{Field: "points", Value: float64(n), Err: ErrInvalidInput})
		return
	}
	pts, err := engine.Stations(input.Beam, n)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SampleOutput{Points: pts})
}

// History lists the caller's most recent stored checks.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	if h.Repo == nil {
		http.Error(w, "History is not available", http.StatusServiceUnavailable)
		return
	}
	userID, ok := auth.UserID(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	limit := defaultHistory
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxHistory {
			http.Error(w, fmt.Sprintf("limit must be between 1 and %d", maxHistory), http.StatusBadRequest)
			return
		}
		limit = n
	}
	recs, err := h.Repo.ListChecks(r.Context(), userID, limit)
	if err != nil {
		log.Printf("ListChecks error: %v", err)
		http.Error(w, "DB error", http.StatusInternalServerError)
		return
	}
	if recs == nil {
		recs = []repo.CheckRecord{}
	}
	writeJSON(w, http.StatusOK, recs)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
