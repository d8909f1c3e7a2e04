package engine

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Summary aggregates the checks of a batch.
type Summary struct {
	N           int     `json:"n"`
	OK          int     `json:"ok"`
	KO          int     `json:"ko"`
	MeanDeltaMM float64 `json:"mean_delta_mm"`
}

// Summarize counts passes and failures and averages the peak deflections.
func Summarize(results []CheckResult) (Summary, error) {
	if len(results) == 0 {
		return Summary{}, ErrEmptyBatch
	}
	s := Summary{N: len(results)}
	var sum float64
	for _, r := range results {
		if r.OK {
			s.OK++
		} else {
			s.KO++
		}
		sum += r.DeltaMaxMM
	}
	s.MeanDeltaMM = sum / float64(len(results))
	return s, nil
}

// AnalyzeBatch runs Analyze for every spec on at most workers goroutines
// (GOMAXPROCS when workers <= 0). Results keep the input order. After a
// failure only beams with a lower index still run, so the returned
// *ItemError always names the lowest failing index.
func AnalyzeBatch(ctx context.Context, specs []BeamSpec, workers int) ([]CheckResult, error) {
	if len(specs) == 0 {
		return nil, ErrEmptyBatch
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]CheckResult, len(specs))
	errs := make([]error, len(specs))
	var firstBad atomic.Int64
	firstBad.Store(int64(len(specs)))

	var g errgroup.Group
	g.SetLimit(workers)
	for i, spec := range specs {
		g.Go(func() error {
			if ctx.Err() != nil || int64(i) > firstBad.Load() {
				return nil
			}
			r, err := Analyze(spec)
			if err != nil {
				errs[i] = &ItemError{Index: i, Err: err}
				for {
					cur := firstBad.Load()
					if int64(i) >= cur || firstBad.CompareAndSwap(cur, int64(i)) {
						break
					}
				}
				return nil
			}
			results[i] = r
			return nil
		})
	}
	g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
