package telemetry

import (
	"testing"
	"time"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate a few steps
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseCellSort)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(PhaseVelocity)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Verify we got timing data
	if stats.AvgStepDuration <= 0 {
		t.Error("expected positive average step duration")
	}

	// Verify phases are tracked
	if len(stats.PhaseAvg) == 0 {
		t.Error("expected phase averages to be populated")
	}

	if _, ok := stats.PhaseAvg[PhaseCellSort]; !ok {
		t.Error("expected cell_sort phase to be tracked")
	}

	if _, ok := stats.PhaseAvg[PhaseVelocity]; !ok {
		t.Error("expected velocity phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5) // Small window

	// Fill window completely
	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseCellSort)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Should have data
	if stats.AvgStepDuration <= 0 {
		t.Error("expected positive average step duration after window filled")
	}

	if stats.StepsPerSecond <= 0 {
		t.Error("expected positive steps per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate with uneven phase durations
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase("fast")
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase("slow")
		time.Sleep(100 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	fastPct := stats.PhasePct["fast"]
	slowPct := stats.PhasePct["slow"]

	if slowPct <= fastPct {
		t.Errorf("expected slow phase (%v%%) to dominate fast phase (%v%%)", slowPct, fastPct)
	}
}

func TestPerfCollector_StepDurations(t *testing.T) {
	pc := NewPerfCollector(8)

	for i := 0; i < 3; i++ {
		pc.StartTick()
		time.Sleep(50 * time.Microsecond)
		pc.EndTick()
	}

	durations := pc.StepDurations()
	if len(durations) != 3 {
		t.Fatalf("got %d durations, want 3", len(durations))
	}
	for i, d := range durations {
		if d <= 0 {
			t.Errorf("duration %d = %v, want positive", i, d)
		}
	}
}

func TestRoundPct(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{23.74, 23.7},
		{23.75, 23.8},
		{0.34, 0.3},
		{100.0, 100.0},
	}
	for _, c := range cases {
		if got := roundPct(c.in); got != c.want {
			t.Errorf("roundPct(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestPerfCollector_ToCSV(t *testing.T) {
	pc := NewPerfCollector(4)

	pc.StartTick()
	pc.StartPhase(PhaseVelocity)
	time.Sleep(100 * time.Microsecond)
	pc.EndTick()

	record := pc.Stats().ToCSV(42)
	if record.WindowEnd != 42 {
		t.Errorf("window end = %d, want 42", record.WindowEnd)
	}
	if record.AvgStepUS <= 0 {
		t.Error("expected positive average step time in CSV record")
	}
	if record.VelocityPct <= 0 {
		t.Error("expected velocity phase percentage in CSV record")
	}
}
