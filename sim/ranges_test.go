package sim

import (
	"math/rand"
	"testing"
)

// prepareGrid runs the grid pipeline up to the range table.
func prepareGrid(s *Simulation) {
	s.computeIndices()
	s.sortByCell()
	s.resetRanges()
	s.buildRanges()
}

func TestRangeTableCorrectness(t *testing.T) {
	p := DefaultParams()
	p.Count = 2000
	p.Strategy = StrategyScatteredGrid
	s := newTestSim(t, p)
	s.Randomize(rand.New(rand.NewSource(3)))

	prepareGrid(s)

	// Every sorted position falls inside its own cell's range.
	for k := 0; k < s.n; k++ {
		id := s.cellIDs[k]
		if s.cellStart[id] == emptyCell || s.cellEnd[id] == emptyCell {
			t.Fatalf("cell %d holds agents but is marked empty", id)
		}
		if int32(k) < s.cellStart[id] || int32(k) > s.cellEnd[id] {
			t.Fatalf("position %d outside its cell range [%d, %d]", k, s.cellStart[id], s.cellEnd[id])
		}
	}

	// Ranges partition [0, n): non-empty cells are disjoint and their
	// sizes sum to n.
	total := 0
	covered := make([]bool, s.n)
	for c := 0; c < s.grid.cellCount; c++ {
		start, end := s.cellStart[c], s.cellEnd[c]
		if start == emptyCell {
			if end != emptyCell {
				t.Fatalf("cell %d has sentinel start but end %d", c, end)
			}
			continue
		}
		if start > end {
			t.Fatalf("cell %d has inverted range [%d, %d]", c, start, end)
		}
		for k := start; k <= end; k++ {
			if covered[k] {
				t.Fatalf("position %d claimed by two cells", k)
			}
			covered[k] = true
			if s.cellIDs[k] != int32(c) {
				t.Fatalf("position %d in cell %d's range maps to cell %d", k, c, s.cellIDs[k])
			}
			total++
		}
	}
	if total != s.n {
		t.Fatalf("ranges cover %d positions, want %d", total, s.n)
	}
}

func TestRangeTableSparse(t *testing.T) {
	// With two agents in one spot almost every cell stays empty and must
	// keep the sentinel after a rebuild.
	p := DefaultParams()
	p.Count = 2
	p.Strategy = StrategyScatteredGrid
	s := newTestSim(t, p)

	prepareGrid(s)

	nonEmpty := 0
	for c := 0; c < s.grid.cellCount; c++ {
		if s.cellStart[c] != emptyCell {
			nonEmpty++
		}
	}
	if nonEmpty != 1 {
		t.Errorf("expected exactly 1 non-empty cell, got %d", nonEmpty)
	}
}

func TestRangeTableResetBetweenSteps(t *testing.T) {
	p := DefaultParams()
	p.Count = 100
	p.Strategy = StrategyScatteredGrid
	s := newTestSim(t, p)
	rng := rand.New(rand.NewSource(9))
	s.Randomize(rng)

	prepareGrid(s)

	// Move everything into one corner and rebuild. Stale ranges from the
	// first build must not survive.
	for i := range s.pos {
		s.pos[i].X = -99 + rng.Float64()
		s.pos[i].Y = -99 + rng.Float64()
		s.pos[i].Z = -99 + rng.Float64()
	}
	prepareGrid(s)

	nonEmpty := 0
	for c := 0; c < s.grid.cellCount; c++ {
		if s.cellStart[c] != emptyCell {
			nonEmpty++
		}
	}
	if nonEmpty != 1 {
		t.Errorf("expected exactly 1 non-empty cell after rebuild, got %d", nonEmpty)
	}
}
