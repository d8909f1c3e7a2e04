package importer

import (
	"encoding/json"
	"log"
	"net/http"

	"Flexura/internal/auth"
	"Flexura/internal/calc/beam"
	"Flexura/internal/metrics"
	"Flexura/internal/repo"
)

type Handler struct {
	Repo           repo.Repository
	Metrics        *metrics.Metrics
	Workers        int
	MaxBatch       int
	MaxUploadBytes int64
}

type ImportOutput struct {
	beam.CheckOutput
	Rows []int `json:"rows"`
	ID   int64 `json:"id,omitempty"`
}

// Beam checks every beam of an uploaded xlsx sheet (form field "file").
func (h *Handler) Beam(w http.ResponseWriter, r *http.Request) {
	if h.MaxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	sheet, err := Parse(file)
	if err != nil {
		h.Metrics.ObserveError(err)
		beam.WriteError(w, err)
		return
	}
	out, err := beam.Calculate(r.Context(), beam.CheckInput{Beams: sheet.Beams}, h.Workers, h.MaxBatch)
	if err != nil {
		h.Metrics.ObserveError(err)
		beam.WriteError(w, sheet.Locate(err))
		return
	}
	h.Metrics.ObserveResults(out.Results)

	res := ImportOutput{CheckOutput: out, Rows: sheet.Rows}
	if userID, ok := auth.UserID(r.Context()); ok && h.Repo != nil {
		id, err := h.Repo.SaveCheck(r.Context(), userID, out.Results, out.Summary)
		if err != nil {
			log.Printf("SaveCheck error: %v", err)
		} else {
			res.ID = id
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}
