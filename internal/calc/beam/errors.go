package beam

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"Flexura/internal/engine"
)

type errorBody struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
	Index *int   `json:"index,omitempty"`
}

var badRequest = []error{
	engine.ErrInvalidGeometry,
	engine.ErrInvalidMaterial,
	engine.ErrInvalidLoad,
	engine.ErrInvalidRatio,
	engine.ErrOutOfRangeSample,
	engine.ErrEmptyBatch,
	ErrInvalidInput,
}

// StatusClientClosed is sent when the client went away before the answer.
const StatusClientClosed = 499

// Status maps an analysis error to its HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, context.Canceled):
		return StatusClientClosed
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	for _, kind := range badRequest {
		if errors.Is(err, kind) {
			return http.StatusBadRequest
		}
	}
	if errors.Is(err, engine.ErrSingularSystem) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// WriteError sends err as a JSON body naming the offending field and batch
// index when they are known.
func WriteError(w http.ResponseWriter, err error) {
	body := errorBody{Error: err.Error()}
	var fe *engine.FieldError
	if errors.As(err, &fe) {
		body.Field = fe.Field
	}
	var ie *engine.ItemError
	if errors.As(err, &ie) {
		body.Index = &ie.Index
	}
	status := Status(err)
	if status == http.StatusInternalServerError {
		body.Error = "internal error"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
