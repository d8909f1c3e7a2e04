package report

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"Flexura/internal/calc/beam"
	"Flexura/internal/engine"
	"Flexura/internal/metrics"
)

type Input struct {
	Meta
	Beams []engine.BeamSpec `json:"beams"`
}

type Handler struct {
	Metrics  *metrics.Metrics
	Workers  int
	MaxBatch int
}

// Generate checks the posted beams and responds with the PDF report.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	out, err := beam.Calculate(r.Context(), beam.CheckInput{Beams: input.Beams}, h.Workers, h.MaxBatch)
	if err != nil {
		h.Metrics.ObserveError(err)
		beam.WriteError(w, err)
		return
	}
	h.Metrics.ObserveResults(out.Results)

	var buf bytes.Buffer
	if err := Write(&buf, input.Meta, out, time.Now()); err != nil {
		log.Printf("report: %v", err)
		http.Error(w, "Report generation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=\"report.pdf\"")
	w.Write(buf.Bytes())
}
