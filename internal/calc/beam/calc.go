package beam

import (
	"context"
	"errors"

	"Flexura/internal/engine"
)

// ErrInvalidInput marks request problems outside the engine's own kinds,
// such as oversized batches or unreadable uploads.
var ErrInvalidInput = errors.New("invalid input")

type CheckInput struct {
	Beams []engine.BeamSpec `json:"beams"`
}

type CheckOutput struct {
	Results []engine.CheckResult `json:"results"`
	Summary engine.Summary       `json:"summary"`
}

// Calculate checks every beam of in and summarizes the batch. maxBatch <= 0
// means no limit on the number of beams.
func Calculate(ctx context.Context, in CheckInput, workers, maxBatch int) (CheckOutput, error) {
	if maxBatch > 0 && len(in.Beams) > maxBatch {
		return CheckOutput{}, &engine.FieldError{Field: "beams", Value: float64(len(in.Beams)), Err: ErrInvalidInput}
	}
	results, err := engine.AnalyzeBatch(ctx, in.Beams, workers)
	if err != nil {
		return CheckOutput{}, err
	}
	summary, err := engine.Summarize(results)
	if err != nil {
		return CheckOutput{}, err
	}
	return CheckOutput{Results: results, Summary: summary}, nil
}
