package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Sim.Count <= 0 {
		t.Errorf("default sim.count = %d, want positive", cfg.Sim.Count)
	}
	if cfg.Sim.Strategy != "coherent" {
		t.Errorf("default strategy = %q, want coherent", cfg.Sim.Strategy)
	}
	if cfg.Derived.MaxRuleDistance != 5.0 {
		t.Errorf("derived max rule distance = %v, want 5.0", cfg.Derived.MaxRuleDistance)
	}
	if cfg.Derived.CellWidth != 10.0 {
		t.Errorf("derived cell width = %v, want 10.0", cfg.Derived.CellWidth)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	user := []byte("sim:\n  count: 123\n  strategy: brute\n")
	if err := os.WriteFile(path, user, 0644); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Sim.Count != 123 {
		t.Errorf("sim.count = %d, want 123 from user file", cfg.Sim.Count)
	}
	if cfg.Sim.Strategy != "brute" {
		t.Errorf("strategy = %q, want brute from user file", cfg.Sim.Strategy)
	}
	// Untouched fields keep defaults
	if cfg.Boids.MaxSpeed != 1.0 {
		t.Errorf("boids.max_speed = %v, want default 1.0", cfg.Boids.MaxSpeed)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero count", func(c *Config) { c.Sim.Count = 0 }},
		{"negative dt", func(c *Config) { c.Sim.DT = -0.1 }},
		{"zero scene scale", func(c *Config) { c.Sim.SceneScale = 0 }},
		{"unknown strategy", func(c *Config) { c.Sim.Strategy = "magic" }},
		{"zero max speed", func(c *Config) { c.Boids.MaxSpeed = 0 }},
		{"narrow cells with biased scan", func(c *Config) { c.Grid.CellWidthFactor = 1.5 }},
		{"unknown traversal", func(c *Config) { c.Grid.Traversal = "spiral" }},
		{"zero perf window", func(c *Config) { c.Telemetry.PerfWindow = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			tt.mutate(cfg)
			cfg.computeDerived()
			if err := cfg.Validate(); err == nil {
				t.Error("Validate accepted invalid config")
			}
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Sim.Count = 777

	path := filepath.Join(t.TempDir(), "snapshot.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("Load round trip: %v", err)
	}
	if back.Sim.Count != 777 {
		t.Errorf("round trip sim.count = %d, want 777", back.Sim.Count)
	}
}
