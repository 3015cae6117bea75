package battle

import "math"

// GridCoordinate is a discretized battlefield cell. Unlike the city grid,
// the battlefield mapper does not clamp: the simulator decides whether a
// cell is a legal drop point.
type GridCoordinate struct {
	X int
	Z int
}

// ToGrid truncates a continuous battlefield position to its cell by
// per-axis floor division. Pure; always produces a coordinate.
func ToGrid(x, z, cellSize float64) GridCoordinate {
	return GridCoordinate{
		X: int(math.Floor(x / cellSize)),
		Z: int(math.Floor(z / cellSize)),
	}
}
