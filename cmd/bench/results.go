package main

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/flock/sim"
	"github.com/pthm-cable/flock/telemetry"
)

// Result is one benchmark configuration's summary, flat for CSV export.
type Result struct {
	Count       int     `csv:"count"`
	Strategy    string  `csv:"strategy"`
	Steps       int     `csv:"steps"`
	MeanMS      float64 `csv:"mean_ms"`
	StdDevMS    float64 `csv:"stddev_ms"`
	P50MS       float64 `csv:"p50_ms"`
	P90MS       float64 `csv:"p90_ms"`
	MaxMS       float64 `csv:"max_ms"`
	StepsPerSec float64 `csv:"steps_per_sec"`
}

func newResult(n int, strategy sim.Strategy, stats telemetry.StepStats) Result {
	var stepsPerSec float64
	if stats.Mean > 0 {
		stepsPerSec = 1 / stats.Mean
	}
	return Result{
		Count:       n,
		Strategy:    strategy.String(),
		Steps:       stats.Count,
		MeanMS:      stats.Mean * 1000,
		StdDevMS:    stats.StdDev * 1000,
		P50MS:       stats.P50 * 1000,
		P90MS:       stats.P90 * 1000,
		MaxMS:       stats.Max * 1000,
		StepsPerSec: stepsPerSec,
	}
}

func writeResults(path string, results []Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating results file: %w", err)
	}
	defer f.Close()

	if err := gocsv.Marshal(results, f); err != nil {
		return fmt.Errorf("writing results: %w", err)
	}
	return nil
}
