package sim

// The coherent strategy trades one gather and one scatter per step for a
// neighbor loop with no index indirection: after gatherCoherent, all agents
// of a cell sit contiguously in the coherent arrays and the range table
// indexes them directly.

// gatherCoherent copies position and current velocity into sorted order:
// slot k receives the data of the agent sorting placed at position k.
// A pure data move, no arithmetic.
func (s *Simulation) gatherCoherent() {
	pos := s.pos
	vel := s.vel[s.active]
	s.pool.forEach(s.n, func(start, end int) {
		for k := start; k < end; k++ {
			src := s.agentIdx[k]
			s.cohPos[k] = pos[src]
			s.cohVel[k] = vel[src]
		}
	})
}

// scatterCoherent writes the integrated coherent state back to canonical
// storage so the next step starts from a consistent base. New velocities
// land in the inactive buffer; the step driver swaps afterwards.
func (s *Simulation) scatterCoherent() {
	pos := s.pos
	velOut := s.vel[1-s.active]
	s.pool.forEach(s.n, func(start, end int) {
		for k := start; k < end; k++ {
			dst := s.agentIdx[k]
			pos[dst] = s.cohPos[k]
			velOut[dst] = s.cohVelNew[k]
		}
	})
}
