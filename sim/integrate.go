package sim

import "gonum.org/v1/gonum/spatial/r3"

// integrate advances positions by velocity times dt and wraps each axis
// back into the periodic domain. The wrap is a hard reset to the opposite
// bound, not a modulo: per-step displacement is bounded by maxSpeed*dt, so
// a single overshoot is the only case that occurs.
func (s *Simulation) integrate(pos, vel []r3.Vec, dt float64) {
	bound := s.params.SceneScale
	s.pool.forEach(s.n, func(start, end int) {
		for i := start; i < end; i++ {
			p := r3.Add(pos[i], r3.Scale(dt, vel[i]))
			p.X = wrap(p.X, bound)
			p.Y = wrap(p.Y, bound)
			p.Z = wrap(p.Z, bound)
			pos[i] = p
		}
	})
}

func wrap(c, bound float64) float64 {
	if c < -bound {
		return bound
	}
	if c > bound {
		return -bound
	}
	return c
}
