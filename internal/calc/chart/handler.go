package chart

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"

	"Flexura/internal/calc/beam"
	"Flexura/internal/engine"
	"Flexura/internal/metrics"
)

const maxStations = 400

type Input struct {
	Beam     engine.BeamSpec `json:"beam"`
	Stations int             `json:"stations,omitempty"`
}

type Handler struct {
	Metrics  *metrics.Metrics
	Stations int
}

// Chart responds with a PNG of the beam's V, M and deflection diagrams.
func (h *Handler) Chart(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	n := input.Stations
	if n == 0 {
		n = h.Stations
	}
	if n < 2 || n > maxStations {
		beam.WriteError(w, &engine.FieldError{Field: "stations", Value: float64(n), Err: beam.ErrInvalidInput})
		return
	}

	var buf bytes.Buffer
	if err := Render(&buf, input.Beam, n); err != nil {
		h.Metrics.ObserveError(err)
		if beam.Status(err) == http.StatusInternalServerError {
			log.Printf("chart: %v", err)
		}
		beam.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", "inline; filename=\"beam.png\"")
	w.Write(buf.Bytes())
}
