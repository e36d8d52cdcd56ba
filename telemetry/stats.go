package telemetry

import (
	"log/slog"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// StepStats summarizes a batch of step durations, in seconds.
type StepStats struct {
	Count  int
	Mean   float64
	StdDev float64
	P50    float64
	P90    float64
	Max    float64
}

// SummarizeSteps computes summary statistics over step durations.
func SummarizeSteps(durations []float64) StepStats {
	if len(durations) == 0 {
		return StepStats{}
	}

	sorted := slices.Clone(durations)
	slices.Sort(sorted)

	s := StepStats{
		Count: len(sorted),
		Mean:  stat.Mean(sorted, nil),
		P50:   stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P90:   stat.Quantile(0.9, stat.Empirical, sorted, nil),
		Max:   sorted[len(sorted)-1],
	}
	if len(sorted) > 1 {
		s.StdDev = stat.StdDev(sorted, nil)
	}
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s StepStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("count", s.Count),
		slog.Float64("mean_ms", s.Mean*1000),
		slog.Float64("stddev_ms", s.StdDev*1000),
		slog.Float64("p50_ms", s.P50*1000),
		slog.Float64("p90_ms", s.P90*1000),
		slog.Float64("max_ms", s.Max*1000),
	)
}
