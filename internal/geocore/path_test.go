package geocore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPathOptimizeMonotonicity(t *testing.T) {
	pf := newFlatPathfinder(t, 50, 50)
	p := NewPath([]PathNode{
		{Pos: WorldPos{X: 10, Y: 10}, Layer: GroundLayer, CanOptimize: true},
		{Pos: WorldPos{X: 26, Y: 10}, Layer: GroundLayer, CanOptimize: true},
		{Pos: WorldPos{X: 42, Y: 10}, Layer: GroundLayer, CanOptimize: true},
	})
	p.Optimize(pf.Grid, MobilityGround, false)

	for n := p.Head(); n != nil && n.nextOptimized != nil; n = n.nextOptimized {
		a := WorldToCell(n.Pos)
		b := WorldToCell(n.nextOptimized.Pos)
		require.True(t, pf.Grid.IsLinePassable(GroundLayer, a, b, MobilityGround),
			"every optimised-chain anchor must have a passable line to its nextOptimized node")
	}
}

func TestComputePointOnPathCacheStability(t *testing.T) {
	p := NewPath([]PathNode{
		{Pos: WorldPos{X: 0, Y: 0}, Layer: GroundLayer, CanOptimize: true},
		{Pos: WorldPos{X: 100, Y: 0}, Layer: GroundLayer, CanOptimize: true},
	})
	p.Head().nextOptimized = p.Head().next

	pos := WorldPos{X: 50, Y: 3}
	proj1, _, rem1 := p.ComputePointOnPath(pos)
	proj2, _, rem2 := p.ComputePointOnPath(pos)
	require.Equal(t, proj1, proj2, "repeated projection of an unchanged position must be identical")
	require.Equal(t, rem1, rem2)
}
