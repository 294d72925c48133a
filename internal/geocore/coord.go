package geocore

import "math"

// CellCoord is a 2D integer cell index within a layer's subgrid.
type CellCoord struct {
	X, Y int32
}

// WorldPos is a world-space position in engine units.
type WorldPos struct {
	X, Y, Z float32
}

// WorldToCell floor-divides a world position to its containing cell.
func WorldToCell(p WorldPos) CellCoord {
	return CellCoord{
		X: int32(math.Floor(float64(p.X) / CellSize)),
		Y: int32(math.Floor(float64(p.Y) / CellSize)),
	}
}

// CellCenter returns the world-space center of a cell. Composed with
// WorldToCell it is the identity on cell ids inside the grid extent.
func CellCenter(c CellCoord) WorldPos {
	return WorldPos{
		X: float32(c.X)*CellSize + CellSize/2,
		Y: float32(c.Y)*CellSize + CellSize/2,
	}
}

func floorDiv(a, b int32) int32 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// BlockCoord is the coarse ZoneBlock index containing a cell.
func BlockCoord(c CellCoord) CellCoord {
	return CellCoord{
		X: floorDiv(c.X, ZoneBlockSize),
		Y: floorDiv(c.Y, ZoneBlockSize),
	}
}

// ChebyshevDistance is used by the A* heuristic.
func ChebyshevDistance(a, b CellCoord) (dx, dy int32) {
	dx = abs32(a.X - b.X)
	dy = abs32(a.Y - b.Y)
	return
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

// ManhattanDistance is used to pick the closest viable cell on search
// cancellation.
func ManhattanDistance(a, b CellCoord) int32 {
	dx, dy := ChebyshevDistance(a, b)
	return dx + dy
}
