package geocore

// IsLinePassable walks a Bresenham line between two cells on a layer and
// reports whether every intermediate cell is passable for mobility m,
// respecting cliff and layer boundaries: optimisation may not cross a
// cliff transition, generalized from NSWE wall bits to this grid's
// cell-type passability.
func (g *CellGrid) IsLinePassable(layer LayerID, a, b CellCoord, m Mobility) bool {
	l := g.layers[layer]
	if l == nil {
		return false
	}
	it := NewLineIterator2D(a, b)
	for {
		c := it.Current()
		cell := l.CellAt(c)
		if cell == nil || !cell.passableFor(m) {
			return false
		}
		if cell.Type == CellCliff {
			return false
		}
		if it.Done() {
			break
		}
		it.Next()
	}
	return true
}

// IsAttackViewBlockedByObstacle reports whether any cell between attacker
// and victim is a true obstacle, i.e. line of sight for a weapon check.
func (g *CellGrid) IsAttackViewBlockedByObstacle(layer LayerID, attacker, victim CellCoord) bool {
	l := g.layers[layer]
	if l == nil {
		return true
	}
	it := NewLineIterator2D(attacker, victim)
	for {
		c := it.Current()
		cell := l.CellAt(c)
		if cell == nil {
			return true
		}
		if cell.Type == CellObstacle || cell.Type == CellImpassable {
			return true
		}
		if it.Done() {
			break
		}
		it.Next()
	}
	return false
}

// isUniformRun reports whether a and b lie on one orthogonal or diagonal
// line. Path.Optimize skips the IsLinePassable trace only when this holds
// and the raw nodes between a and b step by the same single-cell move.
func isUniformRun(a, b CellCoord) bool {
	dx, dy := b.X-a.X, b.Y-a.Y
	return dx == 0 || dy == 0 || abs32(dx) == abs32(dy)
}
