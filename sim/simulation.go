// Package sim implements a grid-accelerated boids simulation.
//
// Each step rebuilds a uniform spatial grid over the agents by sorting
// (cellID, agentIndex) pairs, derives per-cell index ranges from the sorted
// order, runs the flocking velocity update over grid neighborhoods, and
// integrates positions with a periodic wrap. Three interchangeable
// strategies cover the same semantics: a brute-force O(n^2) baseline, a
// scattered grid that chases index indirection, and a coherent grid that
// physically reorders agent data into cell order first.
package sim

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/flock/telemetry"
)

// Strategy selects the neighbor-search pipeline. Fixed per simulation run.
type Strategy int

const (
	StrategyBruteForce Strategy = iota
	StrategyScatteredGrid
	StrategyCoherentGrid
)

func (s Strategy) String() string {
	switch s {
	case StrategyBruteForce:
		return "brute"
	case StrategyScatteredGrid:
		return "scattered"
	case StrategyCoherentGrid:
		return "coherent"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy maps a config/CLI name to a Strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "brute":
		return StrategyBruteForce, nil
	case "scattered":
		return StrategyScatteredGrid, nil
	case "coherent":
		return StrategyCoherentGrid, nil
	}
	return 0, fmt.Errorf("sim: unknown strategy %q", name)
}

// Traversal selects the neighbor-cell scan for the grid strategies.
type Traversal int

const (
	// TraversalBiased visits the 2x2x2 cell block on the side of the cell
	// the agent leans toward. Fewer candidates, requires cell width >= 2x
	// the largest rule distance.
	TraversalBiased Traversal = iota

	// TraversalFull scans all 27 neighboring cells. Simpler, more
	// candidate checks.
	TraversalFull
)

func (t Traversal) String() string {
	if t == TraversalFull {
		return "full"
	}
	return "biased"
}

// ParseTraversal maps a config/CLI name to a Traversal.
func ParseTraversal(name string) (Traversal, error) {
	switch name {
	case "biased":
		return TraversalBiased, nil
	case "full":
		return TraversalFull, nil
	}
	return 0, fmt.Errorf("sim: unknown traversal %q", name)
}

// Params holds the fixed parameters of a simulation run.
// Rule 1 is cohesion, rule 2 separation, rule 3 alignment; distances and
// scales must stay consistent between runs being compared.
type Params struct {
	Count      int     // Number of agents (>= 0)
	SceneScale float64 // Half-extent of the cubic periodic domain

	Rule1Distance float64
	Rule2Distance float64
	Rule3Distance float64
	Rule1Scale    float64
	Rule2Scale    float64
	Rule3Scale    float64
	MaxSpeed      float64

	// CellWidthFactor sets the grid cell width as a multiple of the
	// largest rule distance.
	CellWidthFactor float64

	Strategy  Strategy
	Traversal Traversal
	Workers   int // Worker goroutines (0 = GOMAXPROCS)
}

// DefaultParams returns the domain-default boid and grid parameters.
func DefaultParams() Params {
	return Params{
		Count:           5000,
		SceneScale:      100.0,
		Rule1Distance:   5.0,
		Rule2Distance:   3.0,
		Rule3Distance:   5.0,
		Rule1Scale:      0.01,
		Rule2Scale:      0.1,
		Rule3Scale:      0.1,
		MaxSpeed:        1.0,
		CellWidthFactor: 2.0,
		Strategy:        StrategyCoherentGrid,
		Traversal:       TraversalBiased,
	}
}

func (p *Params) maxRuleDistance() float64 {
	d := p.Rule1Distance
	if p.Rule2Distance > d {
		d = p.Rule2Distance
	}
	if p.Rule3Distance > d {
		d = p.Rule3Distance
	}
	return d
}

func (p *Params) validate() error {
	if p.Count < 0 {
		return fmt.Errorf("sim: agent count must be non-negative, got %d", p.Count)
	}
	if p.SceneScale <= 0 {
		return fmt.Errorf("sim: scene scale must be positive, got %g", p.SceneScale)
	}
	if p.MaxSpeed <= 0 {
		return fmt.Errorf("sim: max speed must be positive, got %g", p.MaxSpeed)
	}
	if p.Strategy != StrategyBruteForce {
		cellWidth := p.CellWidthFactor * p.maxRuleDistance()
		if cellWidth <= 0 {
			return fmt.Errorf("sim: grid cell width must be positive, got %g", cellWidth)
		}
		if p.Traversal == TraversalBiased && p.CellWidthFactor < 2.0 {
			// With narrower cells the biased scan silently under-counts
			// neighbors, so refuse to build rather than trust the caller.
			return fmt.Errorf("sim: biased traversal requires cell width >= 2x the largest rule distance, got factor %g", p.CellWidthFactor)
		}
	}
	return nil
}

// Simulation owns all per-agent state and the per-step auxiliary arrays.
// Every buffer is allocated once here and reused each step; no allocation
// happens inside Step.
type Simulation struct {
	params Params
	grid   gridParams
	pool   *workerPool

	n      int
	pos    []r3.Vec
	vel    [2][]r3.Vec // double-buffered: read active, write 1-active
	active int

	// Grid pipeline scratch, overwritten every step.
	cellIDs     []int32
	agentIdx    []int32
	sortKeys    []uint64
	sortScratch []uint64
	cellStart   []int32
	cellEnd     []int32

	// Coherent-strategy buffers in sorted order.
	cohPos    []r3.Vec
	cohVel    []r3.Vec
	cohVelNew []r3.Vec

	perf  *telemetry.PerfCollector
	steps int64
}

// New builds a simulation, validating parameters before any buffer is
// sized. Count zero is a valid degenerate run (all strategies must handle
// it); negative counts and unusable grids are rejected here.
func New(p Params) (*Simulation, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	s := &Simulation{params: p, n: p.Count}
	s.pos = make([]r3.Vec, s.n)
	s.vel[0] = make([]r3.Vec, s.n)
	s.vel[1] = make([]r3.Vec, s.n)

	if p.Strategy != StrategyBruteForce {
		s.grid = newGridParams(p.SceneScale, p.CellWidthFactor*p.maxRuleDistance())
		s.cellIDs = make([]int32, s.n)
		s.agentIdx = make([]int32, s.n)
		s.sortKeys = make([]uint64, s.n)
		s.sortScratch = make([]uint64, s.n)
		s.cellStart = make([]int32, s.grid.cellCount)
		s.cellEnd = make([]int32, s.grid.cellCount)
	}
	if p.Strategy == StrategyCoherentGrid {
		s.cohPos = make([]r3.Vec, s.n)
		s.cohVel = make([]r3.Vec, s.n)
		s.cohVelNew = make([]r3.Vec, s.n)
	}

	s.pool = newWorkerPool(p.Workers)
	s.pool.start()
	return s, nil
}

// Close stops the worker pool. Safe to call only with no step in flight.
func (s *Simulation) Close() {
	s.pool.stop()
}

// SetPerf attaches a telemetry collector; each Step then records per-phase
// timings into it. Nil detaches.
func (s *Simulation) SetPerf(p *telemetry.PerfCollector) {
	s.perf = p
}

// Count returns the number of agents.
func (s *Simulation) Count() int { return s.n }

// Steps returns the number of completed steps.
func (s *Simulation) Steps() int64 { return s.steps }

// Strategy returns the pipeline this simulation was built with.
func (s *Simulation) Strategy() Strategy { return s.params.Strategy }

// Positions exposes current agent positions for rendering and inspection.
// Callers must treat the slice as read-only.
func (s *Simulation) Positions() []r3.Vec { return s.pos }

// Velocities exposes current agent velocities. Read-only for callers.
func (s *Simulation) Velocities() []r3.Vec { return s.vel[s.active] }

// SetState installs initial positions and velocities, copying both.
func (s *Simulation) SetState(pos, vel []r3.Vec) error {
	if len(pos) != s.n || len(vel) != s.n {
		return fmt.Errorf("sim: state length %d/%d does not match agent count %d", len(pos), len(vel), s.n)
	}
	copy(s.pos, pos)
	copy(s.vel[s.active], vel)
	return nil
}

// Randomize scatters agents uniformly through the domain with random
// sub-cap velocities.
func (s *Simulation) Randomize(rng *rand.Rand) {
	scale := s.params.SceneScale
	vel := s.vel[s.active]
	for i := range s.pos {
		s.pos[i] = r3.Vec{
			X: (2*rng.Float64() - 1) * scale,
			Y: (2*rng.Float64() - 1) * scale,
			Z: (2*rng.Float64() - 1) * scale,
		}
		v := r3.Vec{
			X: 2*rng.Float64() - 1,
			Y: 2*rng.Float64() - 1,
			Z: 2*rng.Float64() - 1,
		}
		vel[i] = clampSpeed(r3.Scale(s.params.MaxSpeed, v), s.params.MaxSpeed)
	}
}

// Step advances the simulation by dt. Every stage runs to completion
// before the next begins; the pool round-trip inside each kernel is the
// stage barrier. Velocity reads always come from the buffer the previous
// step produced, writes go to the other one, and the labels swap at the
// end of the step.
func (s *Simulation) Step(dt float64) {
	if s.perf != nil {
		s.perf.StartTick()
	}

	switch s.params.Strategy {
	case StrategyBruteForce:
		s.stepBrute(dt)
	case StrategyScatteredGrid:
		s.stepScattered(dt)
	case StrategyCoherentGrid:
		s.stepCoherent(dt)
	}

	s.active = 1 - s.active
	s.steps++

	if s.perf != nil {
		s.perf.EndTick()
	}
}

func (s *Simulation) phase(name string) {
	if s.perf != nil {
		s.perf.StartPhase(name)
	}
}

func (s *Simulation) stepBrute(dt float64) {
	s.phase(telemetry.PhaseVelocity)
	s.updateVelocityBrute()
	s.phase(telemetry.PhaseIntegrate)
	s.integrate(s.pos, s.vel[1-s.active], dt)
}

func (s *Simulation) stepScattered(dt float64) {
	s.phase(telemetry.PhaseGridIndex)
	s.computeIndices()
	s.phase(telemetry.PhaseCellSort)
	s.sortByCell()
	s.phase(telemetry.PhaseCellRanges)
	s.resetRanges()
	s.buildRanges()
	s.phase(telemetry.PhaseVelocity)
	s.updateVelocityScattered()
	s.phase(telemetry.PhaseIntegrate)
	s.integrate(s.pos, s.vel[1-s.active], dt)
}

func (s *Simulation) stepCoherent(dt float64) {
	s.phase(telemetry.PhaseGridIndex)
	s.computeIndices()
	s.phase(telemetry.PhaseCellSort)
	s.sortByCell()
	s.phase(telemetry.PhaseCellRanges)
	s.resetRanges()
	s.buildRanges()
	s.phase(telemetry.PhaseReorder)
	s.gatherCoherent()
	s.phase(telemetry.PhaseVelocity)
	s.updateVelocityCoherent()
	s.phase(telemetry.PhaseIntegrate)
	s.integrate(s.cohPos, s.cohVelNew, dt)
	s.phase(telemetry.PhaseCopyBack)
	s.scatterCoherent()
}
