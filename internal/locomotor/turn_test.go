package locomotor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironveil/pathcore/internal/geocore"
)

func TestRotateTowardsPositionPicksShorterSide(t *testing.T) {
	pos := geocore.WorldPos{X: 0, Y: 0}
	goal := geocore.WorldPos{X: 0, Y: 10} // bearing = +pi/2, i.e. turn left from facing +X
	dir, _, _ := rotateTowardsPosition(0, goal, pos, 0.1, 0)
	require.Equal(t, geocore.TurnLeft, dir)

	goal2 := geocore.WorldPos{X: 0, Y: -10} // bearing = -pi/2, turn right
	dir2, _, _ := rotateTowardsPosition(0, goal2, pos, 0.1, 0)
	require.Equal(t, geocore.TurnRight, dir2)
}

func TestRotateTowardsPositionNoneWhenAligned(t *testing.T) {
	pos := geocore.WorldPos{X: 0, Y: 0}
	goal := geocore.WorldPos{X: 10, Y: 0}
	dir, _, _ := rotateTowardsPosition(0, goal, pos, 1, 0)
	require.Equal(t, geocore.TurnNone, dir)
}

func TestRotateTowardsPositionThreePointOnReverseArc(t *testing.T) {
	pos := geocore.WorldPos{X: 0, Y: 0}
	goal := geocore.WorldPos{X: -10, Y: 0.01} // almost directly behind, small turn cap
	dir, _, _ := rotateTowardsPosition(0, goal, pos, 0.05, 0)
	require.Equal(t, geocore.TurnThreePoint, dir)
}

func TestRotateTowardsPositionAppliesPivotDrag(t *testing.T) {
	pos := geocore.WorldPos{X: 0, Y: 0}
	goal := geocore.WorldPos{X: 0, Y: 10} // turn left, pi/2 error, capped at 0.2 rad/tick
	dir, _, drag := rotateTowardsPosition(0, goal, pos, 0.2, 1.0)
	require.Equal(t, geocore.TurnLeft, dir)
	require.NotZero(t, drag.Y)
}

func TestAngleDiffNormalizesRange(t *testing.T) {
	d := angleDiff(float32(3), float32(-3))
	require.True(t, math.Abs(float64(d)) <= math.Pi+1e-3)
}
