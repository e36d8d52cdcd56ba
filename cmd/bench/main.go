// Benchmark harness comparing the three step strategies across agent counts.
//
// Usage: go run ./cmd/bench -counts 1000,5000,10000 -steps 200 -output results.csv
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pthm-cable/flock/sim"
	"github.com/pthm-cable/flock/telemetry"
)

func main() {
	counts := flag.String("counts", "1000,5000,10000", "Comma-separated agent counts")
	steps := flag.Int("steps", 200, "Timed steps per configuration")
	warmup := flag.Int("warmup", 20, "Warmup steps excluded from timing")
	dt := flag.Float64("dt", 0.2, "Timestep")
	seed := flag.Int64("seed", 42, "RNG seed (same initial state for every configuration)")
	output := flag.String("output", "results.csv", "Results CSV path (empty = log only)")

	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	countList, err := parseCounts(*counts)
	if err != nil {
		slog.Error("invalid -counts", "error", err)
		os.Exit(1)
	}

	strategies := []sim.Strategy{
		sim.StrategyBruteForce,
		sim.StrategyScatteredGrid,
		sim.StrategyCoherentGrid,
	}

	var results []Result
	for _, n := range countList {
		for _, strategy := range strategies {
			res, err := runCase(n, strategy, *steps, *warmup, *dt, *seed)
			if err != nil {
				slog.Error("bench case failed", "n", n, "strategy", strategy.String(), "error", err)
				os.Exit(1)
			}
			results = append(results, res)
			slog.Info("bench case done",
				"n", n,
				"strategy", strategy.String(),
				"mean_ms", res.MeanMS,
				"p90_ms", res.P90MS,
				"steps_per_sec", res.StepsPerSec,
			)
		}
	}

	if *output != "" {
		if err := writeResults(*output, results); err != nil {
			slog.Error("failed to write results", "error", err)
			os.Exit(1)
		}
		slog.Info("results written", "path", *output, "cases", len(results))
	}
}

func parseCounts(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("bad agent count %q", part)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no agent counts given")
	}
	return out, nil
}

// runCase times one (count, strategy) configuration. Every configuration
// starts from the same seeded initial state so the runs stay comparable.
func runCase(n int, strategy sim.Strategy, steps, warmup int, dt float64, seed int64) (Result, error) {
	params := sim.DefaultParams()
	params.Count = n
	params.Strategy = strategy

	s, err := sim.New(params)
	if err != nil {
		return Result{}, err
	}
	defer s.Close()

	s.Randomize(rand.New(rand.NewSource(seed)))

	for i := 0; i < warmup; i++ {
		s.Step(dt)
	}

	durations := make([]float64, 0, steps)
	for i := 0; i < steps; i++ {
		start := time.Now()
		s.Step(dt)
		durations = append(durations, time.Since(start).Seconds())
	}

	return newResult(n, strategy, telemetry.SummarizeSteps(durations)), nil
}
