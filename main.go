package main

import (
	"flag"
	"log/slog"
	"math/rand"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/config"
	"github.com/pthm-cable/flock/renderer"
	"github.com/pthm-cable/flock/sim"
	"github.com/pthm-cable/flock/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	count := flag.Int("n", 0, "Agent count override (0 = use config)")
	strategy := flag.String("strategy", "", "Strategy override: brute, scattered or coherent")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxSteps := flag.Int64("max-steps", 0, "Stop after N steps (0 = unlimited)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	statsWindow := flag.Float64("stats-window", 0, "Seconds between stats logs (0 = use config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Apply CLI overrides and re-validate
	if *count > 0 {
		cfg.Sim.Count = *count
	}
	if *strategy != "" {
		cfg.Sim.Strategy = *strategy
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	params, err := simParams(cfg)
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	s, err := sim.New(params)
	if err != nil {
		slog.Error("failed to build simulation", "error", err)
		os.Exit(1)
	}
	defer s.Close()

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}
	s.Randomize(rand.New(rand.NewSource(rngSeed)))

	perf := telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow)
	s.SetPerf(perf)

	om, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output directory", "error", err)
		os.Exit(1)
	}
	defer om.Close()
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
		os.Exit(1)
	}

	// Use config stats window if not overridden by CLI
	windowSec := cfg.Telemetry.StatsWindow
	if *statsWindow > 0 {
		windowSec = *statsWindow
	}

	slog.Info("starting simulation",
		"n", params.Count,
		"strategy", params.Strategy.String(),
		"traversal", params.Traversal.String(),
		"seed", rngSeed,
		"headless", *headless,
	)

	if *headless {
		runHeadless(s, cfg, perf, om, windowSec, *maxSteps)
		return
	}
	runVisual(s, cfg, perf, *maxSteps)
}

// simParams maps the loaded configuration onto simulation parameters.
func simParams(cfg *config.Config) (sim.Params, error) {
	strategy, err := sim.ParseStrategy(cfg.Sim.Strategy)
	if err != nil {
		return sim.Params{}, err
	}
	traversal, err := sim.ParseTraversal(cfg.Grid.Traversal)
	if err != nil {
		return sim.Params{}, err
	}
	return sim.Params{
		Count:           cfg.Sim.Count,
		SceneScale:      cfg.Sim.SceneScale,
		Rule1Distance:   cfg.Boids.Rule1Distance,
		Rule2Distance:   cfg.Boids.Rule2Distance,
		Rule3Distance:   cfg.Boids.Rule3Distance,
		Rule1Scale:      cfg.Boids.Rule1Scale,
		Rule2Scale:      cfg.Boids.Rule2Scale,
		Rule3Scale:      cfg.Boids.Rule3Scale,
		MaxSpeed:        cfg.Boids.MaxSpeed,
		CellWidthFactor: cfg.Grid.CellWidthFactor,
		Strategy:        strategy,
		Traversal:       traversal,
		Workers:         cfg.Sim.Workers,
	}, nil
}

// runHeadless drives the simulation without graphics, logging perf stats
// every stats window and appending them to the output CSV if enabled.
func runHeadless(s *sim.Simulation, cfg *config.Config, perf *telemetry.PerfCollector, om *telemetry.OutputManager, windowSec float64, maxSteps int64) {
	lastStats := time.Now()

	for {
		s.Step(cfg.Sim.DT)

		if time.Since(lastStats).Seconds() >= windowSec {
			stats := perf.Stats()
			stats.LogStats()
			if err := om.WritePerf(stats, s.Steps()); err != nil {
				slog.Error("failed to write perf record", "error", err)
				os.Exit(1)
			}
			lastStats = time.Now()
		}

		if maxSteps > 0 && s.Steps() >= maxSteps {
			slog.Info("max steps reached", "steps", s.Steps())
			return
		}
	}
}

// runVisual drives the simulation with the raylib window.
func runVisual(s *sim.Simulation, cfg *config.Config, perf *telemetry.PerfCollector, maxSteps int64) {
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "flock")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	view := renderer.New(cfg.Sim.SceneScale, cfg.Sim.DT)

	for !rl.WindowShouldClose() {
		view.HandleInput()

		if !view.Paused() {
			s.Step(view.DT())
		}

		perf.RecordFrame()
		view.Draw(s, perf.Stats())

		if maxSteps > 0 && s.Steps() >= maxSteps {
			break
		}
	}
}
