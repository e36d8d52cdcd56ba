package sim

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// gridParams describes the uniform grid laid over the periodic domain.
// The grid is computed once at construction and fully covers the cube
// [-SceneScale, SceneScale] on every axis.
type gridParams struct {
	cellWidth    float64
	invCellWidth float64 // cached reciprocal, avoids division per agent
	resolution   int     // cells per side
	cellCount    int     // resolution cubed
	minCorner    r3.Vec
}

func newGridParams(sceneScale, cellWidth float64) gridParams {
	halfSide := int(sceneScale/cellWidth) + 1
	res := 2 * halfSide
	minCoord := -cellWidth * float64(halfSide)

	return gridParams{
		cellWidth:    cellWidth,
		invCellWidth: 1.0 / cellWidth,
		resolution:   res,
		cellCount:    res * res * res,
		minCorner:    r3.Vec{X: minCoord, Y: minCoord, Z: minCoord},
	}
}

// flatten maps 3D cell coordinates to a flat cell id, x-major.
func (g *gridParams) flatten(x, y, z int) int32 {
	return int32(x + y*g.resolution + z*g.resolution*g.resolution)
}

// cellCoord returns the clamped cell coordinate of a position on one axis.
// Clamping guards against positions landing exactly on the outer boundary
// after floating-point wrap.
func (g *gridParams) cellCoord(p, minCoord float64) int {
	c := int(math.Floor((p - minCoord) * g.invCellWidth))
	if c < 0 {
		c = 0
	} else if c >= g.resolution {
		c = g.resolution - 1
	}
	return c
}

// cellOf returns the flat cell id owning the given position.
func (g *gridParams) cellOf(p r3.Vec) int32 {
	x := g.cellCoord(p.X, g.minCorner.X)
	y := g.cellCoord(p.Y, g.minCorner.Y)
	z := g.cellCoord(p.Z, g.minCorner.Z)
	return g.flatten(x, y, z)
}

// computeIndices fills the per-agent cell id and identity token arrays.
// Pure per-agent work, no ordering dependency between agents.
func (s *Simulation) computeIndices() {
	pos := s.pos
	s.pool.forEach(s.n, func(start, end int) {
		for i := start; i < end; i++ {
			s.cellIDs[i] = s.grid.cellOf(pos[i])
			s.agentIdx[i] = int32(i)
		}
	})
}
