package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidGeometry  = errors.New("invalid geometry")
	ErrInvalidMaterial  = errors.New("invalid material or section")
	ErrInvalidLoad      = errors.New("invalid load extent")
	ErrInvalidRatio     = errors.New("invalid deflection limit ratio")
	ErrSingularSystem   = errors.New("singular system")
	ErrOutOfRangeSample = errors.New("sample position out of range")
	ErrEmptyBatch       = errors.New("empty batch")
	// ErrInconsistent means the solved response drifted from the closed form
	// of the simply-supported uniform-load beam.
	ErrInconsistent = errors.New("solution disagrees with closed form")
)

// FieldError ties an error kind to the input field that caused it.
type FieldError struct {
	Field string
	Value float64
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s = %g: %v", e.Field, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

func fieldErr(kind error, field string, v float64) error {
	return &FieldError{Field: field, Value: v, Err: kind}
}

// ItemError locates a failure inside a batch.
type ItemError struct {
	Index int
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("beam %d: %v", e.Index, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }
