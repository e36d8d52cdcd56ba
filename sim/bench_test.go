package sim

import (
	"math/rand"
	"testing"
)

func benchmarkStep(b *testing.B, strategy Strategy, n int) {
	p := DefaultParams()
	p.Count = n
	p.Strategy = strategy
	s, err := New(p)
	if err != nil {
		b.Fatalf("New: %v", err)
	}
	defer s.Close()
	s.Randomize(rand.New(rand.NewSource(42)))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Step(0.2)
	}
}

func BenchmarkStepBrute(b *testing.B)     { benchmarkStep(b, StrategyBruteForce, 2000) }
func BenchmarkStepScattered(b *testing.B) { benchmarkStep(b, StrategyScatteredGrid, 2000) }
func BenchmarkStepCoherent(b *testing.B)  { benchmarkStep(b, StrategyCoherentGrid, 2000) }

func BenchmarkStepScattered50k(b *testing.B) { benchmarkStep(b, StrategyScatteredGrid, 50000) }
func BenchmarkStepCoherent50k(b *testing.B)  { benchmarkStep(b, StrategyCoherentGrid, 50000) }
