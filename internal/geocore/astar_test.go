package geocore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindPathStraightLineOnEmptyGround(t *testing.T) {
	pf := newFlatPathfinder(t, 200, 200)
	out, ok := pf.FindPath(GroundLayer, CellCoord{5, 5}, CellCoord{195, 195}, MobilityGround, false)
	require.True(t, ok)
	require.NotEmpty(t, out.Cells)
	require.Equal(t, CellCoord{5, 5}, out.Cells[0])
	require.Equal(t, CellCoord{195, 195}, out.Cells[len(out.Cells)-1])
}

func TestFindPathNarrowGapInfantryPasses(t *testing.T) {
	pf := newFlatPathfinder(t, 30, 30)
	// Two parallel walls at y=14 and y=18 spanning the width, with a
	// 3-cell-wide gap at x in [13,15].
	for x := int32(0); x < 30; x++ {
		if x >= 13 && x <= 15 {
			continue
		}
		pf.Grid.Ground.CellAt(CellCoord{X: x, Y: 14}).Type = CellImpassable
		pf.Grid.Ground.CellAt(CellCoord{X: x, Y: 18}).Type = CellImpassable
	}
	_, ok := pf.FindPath(GroundLayer, CellCoord{14, 5}, CellCoord{14, 25}, MobilityGround, false)
	require.True(t, ok, "a radius-0 infantry unit must fit through a 3-cell gap")
}

func TestFindPathNarrowGapTooNarrowForDiameterFive(t *testing.T) {
	pf := newFlatPathfinder(t, 30, 30)
	for x := int32(0); x < 30; x++ {
		if x >= 13 && x <= 15 {
			continue
		}
		pf.Grid.Ground.CellAt(CellCoord{X: x, Y: 14}).Type = CellImpassable
		pf.Grid.Ground.CellAt(CellCoord{X: x, Y: 18}).Type = CellImpassable
	}
	_, infantryOK := pf.FindPath(GroundLayer, CellCoord{14, 5}, CellCoord{14, 25}, MobilityGround, false)
	require.True(t, infantryOK)

	require.False(t, pf.clearCellForDiameter(CellCoord{14, 16}, 5),
		"the 3-cell gap must not sustain a diameter-5 clear run")
	require.True(t, pf.clearCellForDiameter(CellCoord{14, 16}, 1),
		"the 3-cell gap must still sustain a diameter-1 clear run for infantry")
}

func TestHeuristicAdmissible(t *testing.T) {
	pf := newFlatPathfinder(t, 40, 40)
	start, goal := CellCoord{2, 2}, CellCoord{30, 18}
	h := costToGoal(start, goal)
	out, ok := pf.FindPath(GroundLayer, start, goal, MobilityGround, false)
	require.True(t, ok)
	require.LessOrEqual(t, int(h), pathCost(out.Cells), "heuristic must never overestimate the true path cost")
}

func pathCost(cells []CellCoord) int {
	total := 0
	for i := 1; i < len(cells); i++ {
		dx := cells[i].X - cells[i-1].X
		dy := cells[i].Y - cells[i-1].Y
		total += int(stepCost(dx, dy))
	}
	return total
}

func TestRequestQueueIdempotentEnqueue(t *testing.T) {
	q := NewRequestQueue(8)
	require.True(t, q.QueueForPath(1))
	require.True(t, q.QueueForPath(1))
	require.Equal(t, 1, q.Len(), "queuing the same id twice must not duplicate the entry")
}

func TestUpdatePosIdempotent(t *testing.T) {
	pf := newFlatPathfinder(t, 10, 10)
	pos := CellCoord{3, 3}
	require.NoError(t, pf.Occ.UpdatePos(42, GroundLayer, pos, 1))
	flagsAfterFirst := pf.Grid.Ground.CellAt(pos).Flags
	require.NoError(t, pf.Occ.UpdatePos(42, GroundLayer, pos, 1))
	require.Equal(t, flagsAfterFirst, pf.Grid.Ground.CellAt(pos).Flags, "re-applying the same position must leave cell state unchanged")
}
