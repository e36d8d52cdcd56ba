package telemetry

import (
	"math"
	"testing"
)

func TestSummarizeSteps(t *testing.T) {
	durations := []float64{0.001, 0.002, 0.003, 0.004, 0.005, 0.006, 0.007, 0.008, 0.009, 0.010}
	s := SummarizeSteps(durations)

	if s.Count != 10 {
		t.Errorf("count = %d, want 10", s.Count)
	}
	if math.Abs(s.Mean-0.0055) > 1e-9 {
		t.Errorf("mean = %v, want 0.0055", s.Mean)
	}
	if s.Max != 0.010 {
		t.Errorf("max = %v, want 0.010", s.Max)
	}
	if s.P50 < 0.004 || s.P50 > 0.007 {
		t.Errorf("p50 = %v, want near median", s.P50)
	}
	if s.P90 < s.P50 {
		t.Errorf("p90 (%v) below p50 (%v)", s.P90, s.P50)
	}
	if s.StdDev <= 0 {
		t.Errorf("stddev = %v, want positive", s.StdDev)
	}
}

func TestSummarizeStepsUnordered(t *testing.T) {
	// Input order must not matter.
	a := SummarizeSteps([]float64{3, 1, 2})
	b := SummarizeSteps([]float64{1, 2, 3})
	if a != b {
		t.Errorf("summary depends on input order: %+v vs %+v", a, b)
	}
}

func TestSummarizeStepsDegenerate(t *testing.T) {
	if s := SummarizeSteps(nil); s != (StepStats{}) {
		t.Errorf("empty input gave %+v, want zero stats", s)
	}

	s := SummarizeSteps([]float64{0.5})
	if s.Count != 1 || s.Mean != 0.5 || s.StdDev != 0 {
		t.Errorf("single sample gave %+v", s)
	}
}
