package sim

import (
	"math/rand"
	"testing"
)

func TestReorderRoundTrip(t *testing.T) {
	p := DefaultParams()
	p.Count = 1500
	p.Strategy = StrategyCoherentGrid
	s := newTestSim(t, p)
	s.Randomize(rand.New(rand.NewSource(5)))

	prepareGrid(s)
	s.gatherCoherent()

	// A data move, not arithmetic: equality must be exact.
	vel := s.vel[s.active]
	for k := 0; k < s.n; k++ {
		src := s.agentIdx[k]
		if s.cohPos[k] != s.pos[src] {
			t.Fatalf("coherent position %d != canonical position %d", k, src)
		}
		if s.cohVel[k] != vel[src] {
			t.Fatalf("coherent velocity %d != canonical velocity %d", k, src)
		}
	}

	// Scatter writes back through the same permutation.
	copy(s.cohVelNew, s.cohVel)
	s.scatterCoherent()
	velOut := s.vel[1-s.active]
	for k := 0; k < s.n; k++ {
		src := s.agentIdx[k]
		if velOut[src] != s.cohVelNew[k] {
			t.Fatalf("scatter did not restore velocity for agent %d", src)
		}
		if s.pos[src] != s.cohPos[k] {
			t.Fatalf("scatter did not restore position for agent %d", src)
		}
	}
}
