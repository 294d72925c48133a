package zonemgr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironveil/pathcore/internal/geocore"
)

func newFlatGrid(t *testing.T, w, h int32) *geocore.CellGrid {
	t.Helper()
	pool := geocore.NewCellInfoPool(1000)
	grid := geocore.NewCellGrid(w, h, pool)
	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			grid.Ground.CellAt(geocore.CellCoord{X: x, Y: y}).Type = geocore.CellClear
		}
	}
	return grid
}

func TestZoneReachabilityEquivalence(t *testing.T) {
	grid := newFlatGrid(t, 20, 20)
	mgr := NewManager(grid)
	mgr.Recompute()

	a := geocore.CellCoord{X: 1, Y: 1}
	b := geocore.CellCoord{X: 18, Y: 18}
	za := mgr.EffectiveZone(geocore.MobilityGround, mgr.ZoneOf(geocore.GroundLayer, a))
	zb := mgr.EffectiveZone(geocore.MobilityGround, mgr.ZoneOf(geocore.GroundLayer, b))
	require.Equal(t, za, zb, "an all-clear grid must be one connected zone")
}

func TestZoneSplitByImpassableWall(t *testing.T) {
	grid := newFlatGrid(t, 20, 20)
	for y := int32(0); y < 20; y++ {
		grid.Ground.CellAt(geocore.CellCoord{X: 10, Y: y}).Type = geocore.CellImpassable
	}
	mgr := NewManager(grid)
	mgr.Recompute()

	left := geocore.CellCoord{X: 2, Y: 2}
	right := geocore.CellCoord{X: 18, Y: 2}
	zl := mgr.EffectiveZone(geocore.MobilityGround, mgr.ZoneOf(geocore.GroundLayer, left))
	zr := mgr.EffectiveZone(geocore.MobilityGround, mgr.ZoneOf(geocore.GroundLayer, right))
	require.NotEqual(t, zl, zr, "a full-height wall must split the grid into two zones")
}
