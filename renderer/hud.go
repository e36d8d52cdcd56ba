package renderer

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flock/sim"
	"github.com/pthm-cable/flock/telemetry"
)

const (
	hudX      = 10
	hudY      = 10
	hudWidth  = 230
	hudHeight = 150
)

// drawHUD renders the overlay panel with run info and controls.
func (v *View) drawHUD(s *sim.Simulation, stats telemetry.PerfStats) {
	rl.DrawRectangle(hudX, hudY, hudWidth, hudHeight, rl.Fade(rl.Black, 0.6))
	rl.DrawRectangleLines(hudX, hudY, hudWidth, hudHeight, rl.DarkGray)

	y := int32(hudY + 8)
	line := func(text string) {
		rl.DrawText(text, hudX+10, y, 16, rl.RayWhite)
		y += 20
	}

	line(fmt.Sprintf("boids: %d  strategy: %s", s.Count(), s.Strategy()))
	line(fmt.Sprintf("steps/s: %.0f  fps: %.0f", stats.StepsPerSecond, stats.FPS))
	line(fmt.Sprintf("step: %s", stats.AvgStepDuration.Round(10*time.Microsecond)))

	y += 4
	rl.DrawText("dt", hudX+10, y+2, 14, rl.Gray)
	v.dt = gui.SliderBar(
		rl.Rectangle{X: hudX + 34, Y: float32(y), Width: hudWidth - 100, Height: 18},
		"", fmt.Sprintf("%.2f", v.dt),
		v.dt, v.minDT, v.maxDT,
	)
	y += 28

	label := "Pause"
	if v.paused {
		label = "Resume"
	}
	if gui.Button(rl.Rectangle{X: hudX + 10, Y: float32(y), Width: 90, Height: 24}, label) {
		v.paused = !v.paused
	}
}
