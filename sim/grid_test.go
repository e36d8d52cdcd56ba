package sim

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r3"
)

func TestGridParamsCoversDomain(t *testing.T) {
	tests := []struct {
		name       string
		sceneScale float64
		cellWidth  float64
	}{
		{"defaults", 100.0, 10.0},
		{"odd ratio", 100.0, 7.0},
		{"small scene", 3.0, 10.0},
		{"unit cells", 50.0, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGridParams(tt.sceneScale, tt.cellWidth)

			if g.minCorner.X > -tt.sceneScale {
				t.Errorf("min corner %v does not reach -scene scale %v", g.minCorner.X, tt.sceneScale)
			}
			maxCorner := g.minCorner.X + float64(g.resolution)*g.cellWidth
			if maxCorner < tt.sceneScale {
				t.Errorf("max corner %v does not reach +scene scale %v", maxCorner, tt.sceneScale)
			}
			if g.cellCount != g.resolution*g.resolution*g.resolution {
				t.Errorf("cell count %d != resolution^3 (%d)", g.cellCount, g.resolution)
			}
		})
	}
}

func TestCellCoordClampsBoundary(t *testing.T) {
	g := newGridParams(100.0, 10.0)

	tests := []struct {
		name string
		p    float64
		want int
	}{
		{"min corner", g.minCorner.X, 0},
		{"below min", g.minCorner.X - 5, 0},
		{"max edge", g.minCorner.X + float64(g.resolution)*g.cellWidth, g.resolution - 1},
		{"above max", 1e6, g.resolution - 1},
		{"center", 0, g.resolution / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.cellCoord(tt.p, g.minCorner.X); got != tt.want {
				t.Errorf("cellCoord(%v) = %d, want %d", tt.p, got, tt.want)
			}
		})
	}
}

func TestCellOfFlatIDInRange(t *testing.T) {
	g := newGridParams(100.0, 10.0)

	positions := []r3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: -100, Y: -100, Z: -100},
		{X: 100, Y: 100, Z: 100},
		{X: 99.999, Y: -99.999, Z: 0.001},
	}
	for _, p := range positions {
		id := g.cellOf(p)
		if id < 0 || int(id) >= g.cellCount {
			t.Errorf("cellOf(%v) = %d, out of [0, %d)", p, id, g.cellCount)
		}
	}
}

func TestFlattenDistinct(t *testing.T) {
	g := newGridParams(10.0, 10.0)

	seen := make(map[int32]bool)
	for z := 0; z < g.resolution; z++ {
		for y := 0; y < g.resolution; y++ {
			for x := 0; x < g.resolution; x++ {
				id := g.flatten(x, y, z)
				if seen[id] {
					t.Fatalf("flatten(%d,%d,%d) = %d collides", x, y, z, id)
				}
				seen[id] = true
			}
		}
	}
}
