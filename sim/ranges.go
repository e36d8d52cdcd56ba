package sim

// emptyCell marks a grid cell no agent landed in. Queries must skip it.
const emptyCell = -1

// resetRanges clears the range table, one slot per grid cell.
func (s *Simulation) resetRanges() {
	s.pool.forEach(s.grid.cellCount, func(start, end int) {
		for c := start; c < end; c++ {
			s.cellStart[c] = emptyCell
			s.cellEnd[c] = emptyCell
		}
	})
}

// buildRanges derives the inclusive [start, end] sorted-array range owned
// by each cell from the sorted cell id array. Each position k writes at
// most the boundary slots of its own cell, and the adjacency checks ensure
// at most one writer per slot, so the kernel is race-free without locks.
func (s *Simulation) buildRanges() {
	n := s.n
	ids := s.cellIDs
	s.pool.forEach(n, func(start, end int) {
		for k := start; k < end; k++ {
			id := ids[k]
			if k == 0 || ids[k-1] != id {
				s.cellStart[id] = int32(k)
			}
			if k == n-1 || ids[k+1] != id {
				s.cellEnd[id] = int32(k)
			}
		}
	})
}
