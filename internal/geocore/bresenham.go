package geocore

// LineIterator2D walks the cells on a Bresenham line between two cell
// coordinates, dominant-axis stepping. Traces only the 2D square-cell
// grid: height is not traced, only layer-boundary transitions matter
// for passability.
type LineIterator2D struct {
	x, y       int32
	x1, y1     int32
	dx, dy     int32
	sx, sy     int32
	err        int32
	done       bool
}

// NewLineIterator2D starts a Bresenham walk from a to b inclusive.
func NewLineIterator2D(a, b CellCoord) *LineIterator2D {
	dx := abs32(b.X - a.X)
	dy := -abs32(b.Y - a.Y)
	sx, sy := int32(1), int32(1)
	if a.X >= b.X {
		sx = -1
	}
	if a.Y >= b.Y {
		sy = -1
	}
	return &LineIterator2D{
		x: a.X, y: a.Y, x1: b.X, y1: b.Y,
		dx: dx, dy: dy, sx: sx, sy: sy, err: dx + dy,
	}
}

// Current returns the iterator's current cell.
func (it *LineIterator2D) Current() CellCoord { return CellCoord{X: it.x, Y: it.y} }

// Done reports whether the walk has passed the endpoint.
func (it *LineIterator2D) Done() bool { return it.done }

// Next advances to the next cell on the line.
func (it *LineIterator2D) Next() {
	if it.x == it.x1 && it.y == it.y1 {
		it.done = true
		return
	}
	e2 := 2 * it.err
	if e2 >= it.dy {
		it.err += it.dy
		it.x += it.sx
	}
	if e2 <= it.dx {
		it.err += it.dx
		it.y += it.sy
	}
}
