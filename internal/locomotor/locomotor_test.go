package locomotor

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironveil/pathcore/internal/geocore"
	"github.com/ironveil/pathcore/internal/geocore/externalfake"
)

func TestMoveTowardsPositionStepsTowardGoal(t *testing.T) {
	store := NewStore()
	tmpl, ok := store.Get("default_legs")
	require.True(t, ok)

	loc := New(1, tmpl)
	ent := &externalfake.FakeEntity{EID: 1, Pos: geocore.WorldPos{X: 0, Y: 0}}
	phys := &externalfake.FakePhysics{}
	terrain := externalfake.NewFlatTerrain(100, 100)

	goal := geocore.WorldPos{X: 100, Y: 0}
	arrived := loc.MoveTowardsPosition(ent, phys, terrain, goal, tmpl.MaxSpeed)
	require.False(t, arrived)
	require.Greater(t, phys.LastForce.X, float32(0), "force should point toward the goal's +X direction")
}

func TestMoveTowardsPositionArrivesWithinCloseEnough(t *testing.T) {
	store := NewStore()
	tmpl, ok := store.Get("default_legs")
	require.True(t, ok)

	loc := New(1, tmpl)
	ent := &externalfake.FakeEntity{EID: 1, Pos: geocore.WorldPos{X: 10, Y: 10}}
	phys := &externalfake.FakePhysics{}
	terrain := externalfake.NewFlatTerrain(100, 100)

	goal := geocore.WorldPos{X: 10, Y: 10}
	arrived := loc.MoveTowardsPosition(ent, phys, terrain, goal, tmpl.MaxSpeed)
	require.True(t, arrived)
	require.NotNil(t, loc.MaintainPos)
}

func TestHoverMaintainNeverRests(t *testing.T) {
	store := NewStore()
	tmpl, ok := store.Get("default_hover")
	require.True(t, ok)

	loc := New(2, tmpl)
	ent := &externalfake.FakeEntity{EID: 2, Pos: geocore.WorldPos{X: 0, Y: 0, Z: 16}}
	phys := &externalfake.FakePhysics{}

	rests := loc.MaintainCurrentPosition(ent, phys)
	require.False(t, rests, "hover must report it needs continuous updates to hold altitude")
	require.NotZero(t, phys.LastForce.Z, "hover maintain must keep applying lift")
}

func TestLegsMaintainRests(t *testing.T) {
	store := NewStore()
	tmpl, ok := store.Get("default_legs")
	require.True(t, ok)

	loc := New(3, tmpl)
	ent := &externalfake.FakeEntity{EID: 3}
	phys := &externalfake.FakePhysics{}

	rests := loc.MaintainCurrentPosition(ent, phys)
	require.True(t, rests, "ground-resting appearances can be parked without per-tick updates")
}

func TestUltraAccurateBoostsCaps(t *testing.T) {
	store := NewStore()
	tmpl, ok := store.Get("default_wheels")
	require.True(t, ok)

	loc := New(4, tmpl)
	base := loc.EffectiveMaxSpeed()
	loc.UltraAccurate = true
	require.Greater(t, loc.EffectiveMaxSpeed(), base)
}

func TestDamagedSpeedSelectsThreshold(t *testing.T) {
	store := NewStore()
	tmpl, ok := store.Get("default_treads")
	require.True(t, ok)

	loc := New(5, tmpl)
	healthy := loc.EffectiveMaxSpeed()
	loc.Damaged = true
	require.Equal(t, tmpl.MaxSpeedDamaged, loc.EffectiveMaxSpeed())
	require.Less(t, loc.EffectiveMaxSpeed(), healthy)
}
