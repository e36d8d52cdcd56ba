// Package renderer draws the simulation state with raylib.
// It reads positions and velocities only; it never mutates them.
package renderer

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/pthm-cable/flock/camera"
	"github.com/pthm-cable/flock/sim"
	"github.com/pthm-cable/flock/telemetry"
)

// View owns the camera and the interactive display state of a run.
type View struct {
	cam        *camera.Orbital
	sceneScale float64

	paused bool
	dt     float32
	minDT  float32
	maxDT  float32
}

// New creates a view of a domain with the given half-extent, starting with
// the given timestep.
func New(sceneScale, dt float64) *View {
	return &View{
		cam:        camera.New(sceneScale * 2.5),
		sceneScale: sceneScale,
		dt:         float32(dt),
		minDT:      float32(dt) * 0.1,
		maxDT:      float32(dt) * 2.0,
	}
}

// Paused reports whether the user paused the simulation.
func (v *View) Paused() bool { return v.paused }

// DT returns the current user-adjusted timestep.
func (v *View) DT() float64 { return float64(v.dt) }

// HandleInput processes camera and pause controls for the current frame.
func (v *View) HandleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		v.paused = !v.paused
	}

	if rl.IsMouseButtonDown(rl.MouseButtonLeft) {
		delta := rl.GetMouseDelta()
		v.cam.Orbit(float64(delta.X)*0.005, float64(delta.Y)*0.005)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		v.cam.Dolly(float64(-wheel) * v.sceneScale * 0.05)
	}
}

// Draw renders one frame: the domain bounds, the agents as points colored
// by velocity direction, and the HUD.
func (v *View) Draw(s *sim.Simulation, stats telemetry.PerfStats) {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	rl.BeginMode3D(v.rlCamera())

	side := float32(2 * v.sceneScale)
	rl.DrawCubeWiresV(rl.Vector3{}, rl.Vector3{X: side, Y: side, Z: side}, rl.DarkGray)

	pos := s.Positions()
	vel := s.Velocities()
	for i := range pos {
		rl.DrawPoint3D(toVector3(pos[i]), velocityColor(vel[i]))
	}

	rl.EndMode3D()

	v.drawHUD(s, stats)

	rl.EndDrawing()
}

func (v *View) rlCamera() rl.Camera3D {
	x, y, z := v.cam.Position()
	return rl.Camera3D{
		Position:   rl.Vector3{X: float32(x), Y: float32(y), Z: float32(z)},
		Target:     rl.Vector3{},
		Up:         rl.Vector3{Y: 1},
		Fovy:       50,
		Projection: rl.CameraPerspective,
	}
}

func toVector3(p r3.Vec) rl.Vector3 {
	return rl.Vector3{X: float32(p.X), Y: float32(p.Y), Z: float32(p.Z)}
}

// velocityColor maps a velocity direction to RGB, matching the classic
// boids demo coloring.
func velocityColor(v r3.Vec) rl.Color {
	n := r3.Norm(v)
	if n < 1e-12 {
		return rl.Gray
	}
	u := r3.Scale(1/n, v)
	return rl.Color{
		R: uint8(math.Abs(u.X) * 255),
		G: uint8(math.Abs(u.Y) * 255),
		B: uint8(math.Abs(u.Z) * 255),
		A: 255,
	}
}
