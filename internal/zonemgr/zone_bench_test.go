package zonemgr

import (
	"testing"

	"github.com/ironveil/pathcore/internal/geocore"
)

// newFlatGridB mirrors newFlatGrid for benchmarks, which take a
// testing.TB-shaped helper rather than *testing.T.
func newFlatGridB(b *testing.B, w, h int32) *geocore.CellGrid {
	b.Helper()
	pool := geocore.NewCellInfoPool(1000)
	grid := geocore.NewCellGrid(w, h, pool)
	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			grid.Ground.CellAt(geocore.CellCoord{X: x, Y: y}).Type = geocore.CellClear
		}
	}
	return grid
}

// BenchmarkRecompute measures the flood-fill/union-find pass that rebuilds
// every layer's zone table, the work a dirty grid pays for once per tick
// before the request queue is allowed to drain.
func BenchmarkRecompute(b *testing.B) {
	grid := newFlatGridB(b, 256, 256)
	mgr := NewManager(grid)

	b.Run("OpenField", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()
		for range b.N {
			mgr.Recompute()
		}
	})
}

// BenchmarkRecomputeFragmented runs the same flood fill over a grid cut
// into 32 narrow strips by impassable columns: many separate zones, none
// adjacent to another, so union-find merges nothing across them.
func BenchmarkRecomputeFragmented(b *testing.B) {
	grid := newFlatGridB(b, 256, 256)
	for x := int32(0); x < 256; x += 8 {
		for y := int32(0); y < 256; y++ {
			grid.Ground.CellAt(geocore.CellCoord{X: x, Y: y}).Type = geocore.CellImpassable
		}
	}
	mgr := NewManager(grid)

	b.ReportAllocs()
	b.ResetTimer()
	for range b.N {
		mgr.Recompute()
	}
}
