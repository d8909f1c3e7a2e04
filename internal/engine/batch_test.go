package engine

import (
	"context"
	"errors"
	"testing"
)

func TestSummarize(t *testing.T) {
	results := []CheckResult{
		{DeltaMaxMM: 10, OK: true},
		{DeltaMaxMM: 40, OK: false},
		{DeltaMaxMM: 4, OK: true},
	}
	s, err := Summarize(results)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	want := Summary{N: 3, OK: 2, KO: 1, MeanDeltaMM: 18}
	if s != want {
		t.Fatalf("expected %+v, got %+v", want, s)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s, err := Summarize(nil)
	if !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("expected ErrEmptyBatch, got %v", err)
	}
	if s != (Summary{}) {
		t.Fatalf("expected zero summary, got %+v", s)
	}
}

func TestAnalyzeBatchKeepsOrder(t *testing.T) {
	specs := make([]BeamSpec, 50)
	for i := range specs {
		specs[i] = BeamSpec{LengthM: 2 + float64(i)/5, WKNm: 10, EGPa: 210, IM4: 8e-5, AM2: 0.02}
	}
	results, err := AnalyzeBatch(context.Background(), specs, 4)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	for i, r := range results {
		want, _ := Analyze(specs[i])
		if r != want {
			t.Fatalf("item %d: expected %+v, got %+v", i, want, r)
		}
	}
	s, err := Summarize(results)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if s.N != 50 || s.OK+s.KO != 50 || s.OK == 0 || s.KO == 0 {
		t.Fatalf("unexpected summary %+v", s)
	}
}

func TestAnalyzeBatchReportsIndex(t *testing.T) {
	specs := []BeamSpec{
		{LengthM: 6, WKNm: 10, EGPa: 210, IM4: 8e-4, AM2: 0.02},
		{LengthM: 6, WKNm: 10, EGPa: 210, IM4: 8e-4, AM2: 0.02},
		{LengthM: -1, WKNm: 10, EGPa: 210, IM4: 8e-4, AM2: 0.02},
	}
	results, err := AnalyzeBatch(context.Background(), specs, 1)
	if !errors.Is(err, ErrInvalidGeometry) {
		t.Fatalf("expected ErrInvalidGeometry, got %v", err)
	}
	var ie *ItemError
	if !errors.As(err, &ie) || ie.Index != 2 {
		t.Fatalf("expected failure at index 2, got %v", err)
	}
	if results != nil {
		t.Fatalf("expected no results on failure")
	}
}

func TestAnalyzeBatchEmpty(t *testing.T) {
	if _, err := AnalyzeBatch(context.Background(), nil, 0); !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("expected ErrEmptyBatch, got %v", err)
	}
}

func TestAnalyzeBatchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	specs := []BeamSpec{{LengthM: 6, WKNm: 10, EGPa: 210, IM4: 8e-4, AM2: 0.02}}
	if _, err := AnalyzeBatch(ctx, specs, 2); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestAnalyzeBatchReportsLowestIndex(t *testing.T) {
	specs := make([]BeamSpec, 64)
	for i := range specs {
		specs[i] = BeamSpec{LengthM: 4 + float64(i)/10, WKNm: 10, EGPa: 210, IM4: 8e-4, AM2: 0.02}
	}
	specs[5].LengthM = 0
	specs[60].LengthM = -1
	for run := 0; run < 200; run++ {
		_, err := AnalyzeBatch(context.Background(), specs, 8)
		var ie *ItemError
		if !errors.As(err, &ie) || ie.Index != 5 {
			t.Fatalf("run %d: expected failure at index 5, got %v", run, err)
		}
	}
}
