package geocore

import "testing"

// BenchmarkFindPath_OpenGround measures a long-range search over clear
// terrain, the hot path a request-queue drain spends its cell budget on.
func BenchmarkFindPath_OpenGround(b *testing.B) {
	pf := newFlatPathfinderB(b, 200, 200)

	b.Run("StraightLine", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()
		for range b.N {
			pf.FindPath(GroundLayer, CellCoord{5, 5}, CellCoord{195, 195}, MobilityGround, false)
		}
	})
}

// BenchmarkFindPath_NarrowGap forces every search through a 3-cell-wide
// corridor, exercising the diagonal corner-cut and pinch-penalty checks
// in expandNeighbors on every step instead of just the open-field case.
func BenchmarkFindPath_NarrowGap(b *testing.B) {
	pf := newFlatPathfinderB(b, 30, 30)
	for x := int32(0); x < 30; x++ {
		if x >= 13 && x <= 15 {
			continue
		}
		pf.Grid.Ground.CellAt(CellCoord{X: x, Y: 14}).Type = CellImpassable
		pf.Grid.Ground.CellAt(CellCoord{X: x, Y: 18}).Type = CellImpassable
	}

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		pf.FindPath(GroundLayer, CellCoord{14, 5}, CellCoord{14, 25}, MobilityGround, false)
	}
}

// newFlatPathfinderB mirrors newFlatPathfinder for benchmarks, which take
// a testing.TB-shaped helper rather than *testing.T.
func newFlatPathfinderB(b *testing.B, width, height int32) *Pathfinder {
	b.Helper()
	pf := NewPathfinder(width, height)
	for y := int32(0); y < height; y++ {
		for x := int32(0); x < width; x++ {
			pf.Grid.Ground.CellAt(CellCoord{X: x, Y: y}).Type = CellClear
		}
	}
	return pf
}
