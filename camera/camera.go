// Package camera provides an orbital 3D camera for viewport control.
package camera

import "math"

// pitchLimit keeps the camera off the poles so the up vector stays valid.
const pitchLimit = math.Pi/2 - 0.05

// Orbital orbits the origin at a fixed distance, described by yaw/pitch
// angles in radians. The simulation volume is centered on the origin, so
// the orbit target never moves.
type Orbital struct {
	Yaw      float64
	Pitch    float64
	Distance float64

	// Distance constraints
	MinDistance, MaxDistance float64
}

// New creates a camera at the given distance, looking at the origin from a
// slightly raised angle.
func New(distance float64) *Orbital {
	return &Orbital{
		Yaw:         math.Pi / 4,
		Pitch:       math.Pi / 8,
		Distance:    distance,
		MinDistance: distance * 0.1,
		MaxDistance: distance * 4.0,
	}
}

// Orbit rotates the camera by the given yaw and pitch deltas.
// Yaw wraps; pitch is clamped short of the poles.
func (c *Orbital) Orbit(dYaw, dPitch float64) {
	c.Yaw = normalizeAngle(c.Yaw + dYaw)

	c.Pitch += dPitch
	if c.Pitch > pitchLimit {
		c.Pitch = pitchLimit
	} else if c.Pitch < -pitchLimit {
		c.Pitch = -pitchLimit
	}
}

// Dolly moves the camera toward or away from the origin, clamped to the
// distance constraints.
func (c *Orbital) Dolly(delta float64) {
	c.Distance += delta
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	} else if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}

// Position returns the camera position in world coordinates.
func (c *Orbital) Position() (x, y, z float64) {
	cp := math.Cos(c.Pitch)
	x = c.Distance * cp * math.Sin(c.Yaw)
	y = c.Distance * math.Sin(c.Pitch)
	z = c.Distance * cp * math.Cos(c.Yaw)
	return x, y, z
}

// normalizeAngle wraps angle to [-pi, pi].
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a < -math.Pi {
		a += 2 * math.Pi
	}
	return a
}
