package sim

import "slices"

// The sorter groups agents by cell id. Keys pack the cell id into the high
// 32 bits and the agent index into the low 32, so a plain unsigned sort
// orders by cell first. Intra-cell order is incidental and nothing
// downstream may depend on it.

func packKey(cellID, agentIdx int32) uint64 {
	return uint64(uint32(cellID))<<32 | uint64(uint32(agentIdx))
}

func unpackKey(key uint64) (cellID, agentIdx int32) {
	return int32(key >> 32), int32(uint32(key))
}

// sortByCell sorts the per-agent (cellID, agentIdx) pairs by cell id.
// This is the single global synchronization point of a step: every other
// stage decomposes per agent or per cell, the sort needs all N at once.
func (s *Simulation) sortByCell() {
	n := s.n
	keys := s.sortKeys[:n]

	s.pool.forEach(n, func(start, end int) {
		for i := start; i < end; i++ {
			keys[i] = packKey(s.cellIDs[i], s.agentIdx[i])
		}
	})

	s.parallelSortKeys(keys)

	s.pool.forEach(n, func(start, end int) {
		for i := start; i < end; i++ {
			s.cellIDs[i], s.agentIdx[i] = unpackKey(keys[i])
		}
	})
}

// parallelSortKeys sorts keys ascending: one sorted run per worker, then
// bottom-up pairwise merging with runs merged in parallel at each level.
func (s *Simulation) parallelSortKeys(keys []uint64) {
	n := len(keys)
	if n < parallelThreshold || !s.pool.running {
		slices.Sort(keys)
		return
	}

	runWidth := (n + s.pool.numWorkers - 1) / s.pool.numWorkers
	tasks := make([]func(), 0, s.pool.numWorkers)
	for lo := 0; lo < n; lo += runWidth {
		lo, hi := lo, min(lo+runWidth, n)
		tasks = append(tasks, func() { slices.Sort(keys[lo:hi]) })
	}
	s.pool.run(tasks)

	src, dst := keys, s.sortScratch[:n]
	for width := runWidth; width < n; width *= 2 {
		tasks = tasks[:0]
		for lo := 0; lo < n; lo += 2 * width {
			lo := lo
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			tasks = append(tasks, func() { mergeRuns(src[lo:mid], src[mid:hi], dst[lo:hi]) })
		}
		s.pool.run(tasks)
		src, dst = dst, src
	}

	if &src[0] != &keys[0] {
		copy(keys, src)
	}
}

func mergeRuns(a, b, out []uint64) {
	i, j, k := 0, 0, 0
	for i < len(a) && j < len(b) {
		if a[i] <= b[j] {
			out[k] = a[i]
			i++
		} else {
			out[k] = b[j]
			j++
		}
		k++
	}
	k += copy(out[k:], a[i:])
	copy(out[k:], b[j:])
}
