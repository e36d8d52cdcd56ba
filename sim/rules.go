package sim

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// ruleAccumulator gathers the running sums for the three flocking rules
// over one agent's neighborhood. Rule 1 steers toward the perceived center
// of mass, rule 2 pushes away from close neighbors, rule 3 matches the
// perceived average velocity.
type ruleAccumulator struct {
	center      r3.Vec // sum of neighbor positions within rule 1 distance
	centerCount int
	push        r3.Vec // sum of (self - neighbor) within rule 2 distance
	velSum      r3.Vec // sum of neighbor velocities within rule 3 distance
	velCount    int
}

func (a *ruleAccumulator) observe(selfPos, otherPos, otherVel r3.Vec, p *Params) {
	d := r3.Norm(r3.Sub(otherPos, selfPos))
	if d < p.Rule1Distance {
		a.center = r3.Add(a.center, otherPos)
		a.centerCount++
	}
	if d < p.Rule2Distance {
		a.push = r3.Add(a.push, r3.Sub(selfPos, otherPos))
	}
	if d < p.Rule3Distance {
		a.velSum = r3.Add(a.velSum, otherVel)
		a.velCount++
	}
}

// apply combines the current velocity with the three rule contributions
// and caps the result at the maximum speed.
func (a *ruleAccumulator) apply(selfPos, selfVel r3.Vec, p *Params) r3.Vec {
	v := selfVel
	if a.centerCount > 0 {
		perceived := r3.Scale(1/float64(a.centerCount), a.center)
		v = r3.Add(v, r3.Scale(p.Rule1Scale, r3.Sub(perceived, selfPos)))
	}
	v = r3.Add(v, r3.Scale(p.Rule2Scale, a.push))
	if a.velCount > 0 {
		v = r3.Add(v, r3.Scale(p.Rule3Scale, r3.Scale(1/float64(a.velCount), a.velSum)))
	}
	return clampSpeed(v, p.MaxSpeed)
}

// clampSpeed rescales v to exactly max when it is faster, preserving
// direction.
func clampSpeed(v r3.Vec, max float64) r3.Vec {
	if n := r3.Norm(v); n > max {
		return r3.Scale(max/n, v)
	}
	return v
}

// updateVelocityBrute compares every agent pair. O(n^2); correctness
// oracle and small-N baseline for the grid strategies.
func (s *Simulation) updateVelocityBrute() {
	pos := s.pos
	velIn := s.vel[s.active]
	velOut := s.vel[1-s.active]
	p := &s.params
	s.pool.forEach(s.n, func(start, end int) {
		for i := start; i < end; i++ {
			var acc ruleAccumulator
			for j := 0; j < s.n; j++ {
				if j == i {
					continue
				}
				acc.observe(pos[i], pos[j], velIn[j], p)
			}
			velOut[i] = acc.apply(pos[i], velIn[i], p)
		}
	})
}

// axisSpan returns the inclusive cell-coordinate bounds to visit on one
// axis around position p. Full traversal takes both neighbors; biased
// traversal takes only the neighbor on the side the agent leans toward,
// which is sufficient because a cell spans at least twice the largest rule
// distance (enforced at construction).
func (s *Simulation) axisSpan(p, minCoord float64) (lo, hi int) {
	g := &s.grid
	rel := (p - minCoord) * g.invCellWidth
	c := int(math.Floor(rel))
	if c < 0 {
		c = 0
	} else if c >= g.resolution {
		c = g.resolution - 1
	}

	if s.params.Traversal == TraversalFull {
		lo, hi = c-1, c+1
	} else if rel-float64(c) < 0.5 {
		lo, hi = c-1, c
	} else {
		lo, hi = c, c+1
	}

	if lo < 0 {
		lo = 0
	}
	if hi > g.resolution-1 {
		hi = g.resolution - 1
	}
	return lo, hi
}

// forNeighborRanges visits the sorted-array range of every non-empty cell
// the agent at selfPos could have in-range neighbors in.
func (s *Simulation) forNeighborRanges(selfPos r3.Vec, visit func(lo, hi int32)) {
	g := &s.grid
	xlo, xhi := s.axisSpan(selfPos.X, g.minCorner.X)
	ylo, yhi := s.axisSpan(selfPos.Y, g.minCorner.Y)
	zlo, zhi := s.axisSpan(selfPos.Z, g.minCorner.Z)

	for z := zlo; z <= zhi; z++ {
		for y := ylo; y <= yhi; y++ {
			for x := xlo; x <= xhi; x++ {
				cell := g.flatten(x, y, z)
				start := s.cellStart[cell]
				if start == emptyCell {
					continue
				}
				visit(start, s.cellEnd[cell])
			}
		}
	}
}

// updateVelocityScattered runs the grid neighbor search against the
// canonical arrays: every range entry is an agent index that costs one
// extra indirection into untouched position/velocity storage.
func (s *Simulation) updateVelocityScattered() {
	pos := s.pos
	velIn := s.vel[s.active]
	velOut := s.vel[1-s.active]
	p := &s.params
	s.pool.forEach(s.n, func(start, end int) {
		for k := start; k < end; k++ {
			self := int(s.agentIdx[k])
			selfPos := pos[self]
			var acc ruleAccumulator
			s.forNeighborRanges(selfPos, func(lo, hi int32) {
				for m := int(lo); m <= int(hi); m++ {
					j := int(s.agentIdx[m])
					if j == self {
						continue
					}
					acc.observe(selfPos, pos[j], velIn[j], p)
				}
			})
			velOut[self] = acc.apply(selfPos, velIn[self], p)
		}
	})
}

// updateVelocityCoherent runs the grid neighbor search against the
// reordered arrays, so range entries index neighbor data directly.
func (s *Simulation) updateVelocityCoherent() {
	p := &s.params
	s.pool.forEach(s.n, func(start, end int) {
		for k := start; k < end; k++ {
			selfPos := s.cohPos[k]
			var acc ruleAccumulator
			s.forNeighborRanges(selfPos, func(lo, hi int32) {
				for m := int(lo); m <= int(hi); m++ {
					if m == k {
						continue
					}
					acc.observe(selfPos, s.cohPos[m], s.cohVel[m], p)
				}
			})
			s.cohVelNew[k] = acc.apply(selfPos, s.cohVel[k], p)
		}
	})
}
