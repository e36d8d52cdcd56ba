// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Sim       SimConfig       `yaml:"sim"`
	Boids     BoidsConfig     `yaml:"boids"`
	Grid      GridConfig      `yaml:"grid"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings for the visual mode.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// SimConfig holds top-level simulation parameters.
type SimConfig struct {
	Count      int     `yaml:"count"`       // Number of agents
	DT         float64 `yaml:"dt"`          // Timestep per simulation step
	Strategy   string  `yaml:"strategy"`    // brute | scattered | coherent
	SceneScale float64 `yaml:"scene_scale"` // Half-extent of the cubic periodic domain
	Workers    int     `yaml:"workers"`     // Worker goroutines (0 = GOMAXPROCS)
}

// BoidsConfig holds the flocking rule parameters.
// Rule 1 is cohesion, rule 2 separation, rule 3 alignment.
type BoidsConfig struct {
	Rule1Distance float64 `yaml:"rule1_distance"`
	Rule2Distance float64 `yaml:"rule2_distance"`
	Rule3Distance float64 `yaml:"rule3_distance"`
	Rule1Scale    float64 `yaml:"rule1_scale"`
	Rule2Scale    float64 `yaml:"rule2_scale"`
	Rule3Scale    float64 `yaml:"rule3_scale"`
	MaxSpeed      float64 `yaml:"max_speed"`
}

// GridConfig holds the uniform-grid parameters.
type GridConfig struct {
	// CellWidthFactor is the cell width as a multiple of the largest rule
	// distance. The biased neighbor traversal requires >= 2.0.
	CellWidthFactor float64 `yaml:"cell_width_factor"`

	// Traversal selects the neighbor-cell scan: "biased" visits the 2x2x2
	// block on the side the agent leans toward, "full" scans all 27 cells.
	Traversal string `yaml:"traversal"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow float64 `yaml:"stats_window"` // Seconds between stats logs
	PerfWindow  int     `yaml:"perf_window"`  // Steps in the rolling perf window
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	MaxRuleDistance float64 // Largest of the three rule distances
	CellWidth       float64 // Grid cell width in world units
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	maxDist := c.Boids.Rule1Distance
	if c.Boids.Rule2Distance > maxDist {
		maxDist = c.Boids.Rule2Distance
	}
	if c.Boids.Rule3Distance > maxDist {
		maxDist = c.Boids.Rule3Distance
	}
	c.Derived.MaxRuleDistance = maxDist
	c.Derived.CellWidth = c.Grid.CellWidthFactor * maxDist
}

// Validate rejects configurations the simulation cannot be built from.
// All checks happen here, before any buffer is sized.
func (c *Config) Validate() error {
	if c.Sim.Count <= 0 {
		return fmt.Errorf("config: sim.count must be positive, got %d", c.Sim.Count)
	}
	if c.Sim.DT <= 0 {
		return fmt.Errorf("config: sim.dt must be positive, got %g", c.Sim.DT)
	}
	if c.Sim.SceneScale <= 0 {
		return fmt.Errorf("config: sim.scene_scale must be positive, got %g", c.Sim.SceneScale)
	}
	switch c.Sim.Strategy {
	case "brute", "scattered", "coherent":
	default:
		return fmt.Errorf("config: sim.strategy must be brute, scattered or coherent, got %q", c.Sim.Strategy)
	}
	if c.Boids.Rule1Distance < 0 || c.Boids.Rule2Distance < 0 || c.Boids.Rule3Distance < 0 {
		return fmt.Errorf("config: boids rule distances must be non-negative")
	}
	if c.Boids.MaxSpeed <= 0 {
		return fmt.Errorf("config: boids.max_speed must be positive, got %g", c.Boids.MaxSpeed)
	}
	if c.Derived.CellWidth <= 0 {
		return fmt.Errorf("config: grid cell width must be positive, got %g", c.Derived.CellWidth)
	}
	switch c.Grid.Traversal {
	case "biased":
		// The biased scan visits only the 2x2x2 block the agent leans
		// toward, which is sound only when a cell spans at least twice
		// the largest rule distance.
		if c.Grid.CellWidthFactor < 2.0 {
			return fmt.Errorf("config: grid.traversal=biased requires grid.cell_width_factor >= 2.0, got %g", c.Grid.CellWidthFactor)
		}
	case "full":
	default:
		return fmt.Errorf("config: grid.traversal must be biased or full, got %q", c.Grid.Traversal)
	}
	if c.Telemetry.PerfWindow < 1 {
		return fmt.Errorf("config: telemetry.perf_window must be at least 1, got %d", c.Telemetry.PerfWindow)
	}
	return nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
