package geocore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCellInfoPoolAcquireRelease(t *testing.T) {
	pool := NewCellInfoPool(2)
	var cells [3]Cell

	info1, err := pool.Acquire(&cells[0], CellCoord{X: 0, Y: 0})
	require.NoError(t, err)
	require.Equal(t, int32(1), pool.InUse())

	info2, err := pool.Acquire(&cells[1], CellCoord{X: 1, Y: 0})
	require.NoError(t, err)
	require.Equal(t, int32(2), pool.InUse())

	_, err = pool.Acquire(&cells[2], CellCoord{X: 2, Y: 0})
	require.ErrorIs(t, err, ErrPoolExhausted, "pool of size 2 must reject a third acquire")

	pool.Release(info1)
	require.Equal(t, int32(1), pool.InUse())
	require.Nil(t, cells[0].Info())

	info3, err := pool.Acquire(&cells[2], CellCoord{X: 2, Y: 0})
	require.NoError(t, err, "released slot must be reusable")
	require.Equal(t, int32(2), pool.InUse())
	_ = info2
	_ = info3
}

func TestCellInfoReleaseNoopWhileGuarded(t *testing.T) {
	pool := NewCellInfoPool(1)
	var cell Cell
	info, err := pool.Acquire(&cell, CellCoord{})
	require.NoError(t, err)

	info.GoalUnitID = 7
	pool.Release(info)
	require.Equal(t, int32(1), pool.InUse(), "a cell still carrying a goal occupant must not be released")
	require.NotNil(t, cell.Info())

	info.GoalUnitID = 0
	pool.Release(info)
	require.Equal(t, int32(0), pool.InUse())
}

func TestPoolBalanceAfterSearch(t *testing.T) {
	pf := newFlatPathfinder(t, 20, 20)
	before := pf.Pool.InUse()

	_, ok := pf.FindPath(GroundLayer, CellCoord{2, 2}, CellCoord{15, 15}, MobilityGround, false)
	require.True(t, ok)

	after := pf.Pool.InUse()
	require.Equal(t, before, after, "pool usage must return to baseline once a request completes")
}
