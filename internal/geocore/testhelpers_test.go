package geocore

import "testing"

// newFlatPathfinder builds a Pathfinder over an all-clear grid of the
// given extent.
func newFlatPathfinder(t *testing.T, width, height int32) *Pathfinder {
	t.Helper()
	pf := NewPathfinder(width, height)
	for y := int32(0); y < height; y++ {
		for x := int32(0); x < width; x++ {
			pf.Grid.Ground.CellAt(CellCoord{X: x, Y: y}).Type = CellClear
		}
	}
	return pf
}
