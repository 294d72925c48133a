package contain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironveil/pathcore/internal/geocore"
)

// flatPathfinder builds an all-clear pathfinder of the given extent,
// mirroring geocore's own newFlatPathfinder test helper via the public API.
func flatPathfinder(t *testing.T, width, height int32) *geocore.Pathfinder {
	t.Helper()
	pf := geocore.NewPathfinder(width, height)
	for y := int32(0); y < height; y++ {
		for x := int32(0); x < width; x++ {
			pf.Grid.Ground.CellAt(geocore.CellCoord{X: x, Y: y}).Type = geocore.CellClear
		}
	}
	return pf
}

func TestNewDispatchesOnKind(t *testing.T) {
	for kind, want := range map[Kind]Kind{
		KindTransport:    KindTransport,
		KindOverlord:     KindOverlord,
		KindRiderChanger: KindRiderChanger,
		KindMobNexus:     KindMobNexus,
	} {
		m, err := New(kind, geocore.EntityID(1), 2)
		require.NoError(t, err)
		require.Equal(t, want, m.Kind())
	}

	_, err := New(Kind(99), geocore.EntityID(1), 2)
	require.Error(t, err)
}

func TestBaseContainerAddRemove(t *testing.T) {
	b := NewBaseContainer(geocore.EntityID(1), 2)
	require.NoError(t, b.AddToContain(geocore.EntityID(10)))
	require.Error(t, b.AddToContain(geocore.EntityID(10)), "double-add should fail")
	require.Equal(t, []geocore.EntityID{10}, b.GetContain())

	require.True(t, b.removeOne(geocore.EntityID(10)))
	require.False(t, b.removeOne(geocore.EntityID(10)), "second remove of the same id should be a no-op")
	require.Empty(t, b.GetContain())
}

func TestBaseContainerRemoveAllContained(t *testing.T) {
	b := NewBaseContainer(geocore.EntityID(1), 2)
	require.NoError(t, b.AddToContain(geocore.EntityID(10)))
	require.NoError(t, b.AddToContain(geocore.EntityID(11)))

	out := b.RemoveAllContained()
	require.ElementsMatch(t, []geocore.EntityID{10, 11}, out)
	require.Empty(t, b.GetContain())
}

func TestOverlordFlagsSetOnConstruction(t *testing.T) {
	m, err := New(KindOverlord, geocore.EntityID(1), 1)
	require.NoError(t, err)
	require.True(t, m.(*Overlord).IsSpecialOverlordStyleContainer())
	require.True(t, m.(*Overlord).IsPassengerAllowedToFire())
}

func TestMobNexusIsZeroSlot(t *testing.T) {
	m, err := New(KindMobNexus, geocore.EntityID(1), 1)
	require.NoError(t, err)
	require.True(t, m.(*MobNexus).IsSpecialZeroSlotContainer())
}

func TestRiderChangerSchedulesToppleKillOnContain(t *testing.T) {
	m, err := New(KindRiderChanger, geocore.EntityID(1), 1)
	require.NoError(t, err)
	rc := m.(*RiderChanger)

	require.NoError(t, rc.OnContaining(geocore.EntityID(42)))
	require.ElementsMatch(t, []geocore.EntityID{42}, rc.pendingToppleKill, "OnContaining should schedule the topple kill, not apply it")
}

func TestRiderChangerDrainToppleKillsIsOneShot(t *testing.T) {
	m, err := New(KindRiderChanger, geocore.EntityID(1), 1)
	require.NoError(t, err)
	rc := m.(*RiderChanger)

	require.NoError(t, rc.OnContaining(geocore.EntityID(42)))
	require.NoError(t, rc.OnContaining(geocore.EntityID(43)))

	first := rc.DrainToppleKills()
	require.ElementsMatch(t, []geocore.EntityID{42, 43}, first)

	second := rc.DrainToppleKills()
	require.Empty(t, second, "a second drain before any new rider enters must be empty")
}

func TestRiderChangerOnRemovingCancelsPendingToppleKill(t *testing.T) {
	m, err := New(KindRiderChanger, geocore.EntityID(1), 1)
	require.NoError(t, err)
	rc := m.(*RiderChanger)

	require.NoError(t, rc.OnContaining(geocore.EntityID(42)))
	require.NoError(t, rc.OnRemoving(geocore.EntityID(42)))

	require.Empty(t, rc.DrainToppleKills(), "a rider removed before drain should not be topple-killed")
}

func TestResolveExitPositionPrefersNamedBone(t *testing.T) {
	pf := flatPathfinder(t, 20, 20)
	bone := geocore.WorldPos{X: 500, Y: 500}
	bones := map[string]geocore.WorldPos{"infantry": bone}

	pos, _, ok := resolveExitPosition(pf, geocore.MobilityGround, bones, "infantry", geocore.WorldPos{X: 100, Y: 100})
	require.True(t, ok)
	require.Equal(t, bone, pos)
}

func TestResolveExitPositionFallsBackToContainerCell(t *testing.T) {
	pf := flatPathfinder(t, 40, 40)
	containerPos := geocore.WorldPos{X: 500, Y: 500}

	pos, _, ok := resolveExitPosition(pf, geocore.MobilityGround, nil, "infantry", containerPos)
	require.True(t, ok)
	require.Equal(t, containerPos, pos)
}

func TestResolveExitPositionSpiralsWhenContainerCellIsAGoal(t *testing.T) {
	pf := flatPathfinder(t, 40, 40)
	containerPos := geocore.WorldPos{X: 500, Y: 500}
	containerCell := geocore.WorldToCell(containerPos)
	pf.Grid.Ground.CellAt(containerCell).Flags = geocore.OccGoal

	_, cell, ok := resolveExitPosition(pf, geocore.MobilityGround, nil, "infantry", containerPos)
	require.True(t, ok)
	require.NotEqual(t, containerCell, cell)
}

func TestTransportExitOnePassengerFlyingRequiresRappel(t *testing.T) {
	pf := flatPathfinder(t, 20, 20)
	base := NewBaseContainer(geocore.EntityID(1), 2)
	tr := NewTransport(base)
	tr.Flying = true

	passenger := &fakeEntity{id: 42}
	_, err := tr.ExitOnePassenger(pf, geocore.MobilityGround, geocore.WorldPos{X: 500, Y: 500}, ExitPassengerArgs{
		Passenger:     passenger,
		PassengerKind: "infantry",
		CanRappel:     false,
	})
	require.Error(t, err)
}

func TestTransportExitOnePassengerFlyingWithRappelSucceeds(t *testing.T) {
	pf := flatPathfinder(t, 20, 20)
	base := NewBaseContainer(geocore.EntityID(1), 2)
	tr := NewTransport(base)
	tr.Flying = true
	require.NoError(t, tr.AddToContain(geocore.EntityID(42)))

	passenger := &fakeEntity{id: 42}
	res, err := tr.ExitOnePassenger(pf, geocore.MobilityGround, geocore.WorldPos{X: 500, Y: 500}, ExitPassengerArgs{
		Passenger:     passenger,
		PassengerKind: "infantry",
		CanRappel:     true,
	})
	require.NoError(t, err)
	require.Equal(t, geocore.EntityID(42), res.Entity)
	require.Empty(t, tr.GetContain())
}

func TestTransportExitOnePassengerAmphibiousRejectsImpassableCell(t *testing.T) {
	pf := flatPathfinder(t, 40, 40)
	containerPos := geocore.WorldPos{X: 500, Y: 500}
	pf.Grid.Ground.CellAt(geocore.WorldToCell(containerPos)).Type = geocore.CellWater

	base := NewBaseContainer(geocore.EntityID(1), 2)
	tr := NewTransport(base)
	tr.Amphibious = true
	require.NoError(t, tr.AddToContain(geocore.EntityID(42)))

	passenger := &fakeEntity{id: 42}
	_, err := tr.ExitOnePassenger(pf, geocore.MobilityGround, containerPos, ExitPassengerArgs{
		Passenger:     passenger,
		PassengerKind: "infantry",
		ContainerCell: geocore.WorldToCell(containerPos),
	})
	require.Error(t, err, "ground-only mobility cannot exit onto a water cell")
}

func TestTransportExitOnePassengerAmphibiousAllowsWaterForWaterMobility(t *testing.T) {
	pf := flatPathfinder(t, 40, 40)
	containerPos := geocore.WorldPos{X: 500, Y: 500}
	pf.Grid.Ground.CellAt(geocore.WorldToCell(containerPos)).Type = geocore.CellWater

	base := NewBaseContainer(geocore.EntityID(1), 2)
	tr := NewTransport(base)
	tr.Amphibious = true
	require.NoError(t, tr.AddToContain(geocore.EntityID(42)))

	passenger := &fakeEntity{id: 42}
	_, err := tr.ExitOnePassenger(pf, geocore.MobilityWater, containerPos, ExitPassengerArgs{
		Passenger:     passenger,
		PassengerKind: "infantry",
		ContainerCell: geocore.WorldToCell(containerPos),
	})
	require.NoError(t, err)
}

// TestEvacuateAllProducesDistinctPositions models a four-passenger
// transport landing and evacuating: every resulting cell must be
// distinct, and each must fall within a plausible radius of the
// container.
func TestEvacuateAllProducesDistinctPositions(t *testing.T) {
	pf := flatPathfinder(t, 40, 40)
	occ := pf.Occ
	containerPos := geocore.CellCenter(geocore.CellCoord{X: 20, Y: 20})

	base := NewBaseContainer(geocore.EntityID(1), 4)
	tr := NewTransport(base)
	for _, id := range []geocore.EntityID{101, 102, 103, 104} {
		require.NoError(t, tr.AddToContain(id))
	}

	results := tr.TryToEvacuate(pf, occ, geocore.MobilityGround, containerPos, geocore.GroundLayer)
	require.Len(t, results, 4)

	seen := make(map[geocore.CellCoord]bool)
	for _, r := range results {
		require.False(t, seen[r.Cell], "exit cell %v reused across passengers", r.Cell)
		seen[r.Cell] = true

		dx := r.Pos.X - containerPos.X
		dy := r.Pos.Y - containerPos.Y
		distSquared := dx*dx + dy*dy
		const maxDist = float32(2000) // generous bound: spiral search caps at 16 cells out
		require.LessOrEqual(t, distSquared, maxDist*maxDist, "exit position too far from container")
	}
	require.Empty(t, tr.GetContain())
}

type fakeEntity struct {
	id geocore.EntityID
}

func (f *fakeEntity) ID() geocore.EntityID           { return f.id }
func (f *fakeEntity) Position() geocore.WorldPos     { return geocore.WorldPos{} }
func (f *fakeEntity) SetPosition(geocore.WorldPos)   {}
func (f *fakeEntity) Orientation() float32           { return 0 }
func (f *fakeEntity) SetOrientation(float32)         {}
func (f *fakeEntity) Layer() geocore.LayerID         { return geocore.GroundLayer }
func (f *fakeEntity) SetLayer(geocore.LayerID)       {}
func (f *fakeEntity) DestinationLayer() geocore.LayerID { return geocore.GroundLayer }
func (f *fakeEntity) Geometry() geocore.GeometryInfo { return geocore.GeometryInfo{} }
func (f *fakeEntity) Relationship(geocore.EntityID) geocore.Relationship {
	return geocore.RelationAllies
}
func (f *fakeEntity) IsKindOf(string) bool  { return false }
func (f *fakeEntity) CrusherLevel() int32   { return 0 }
func (f *fakeEntity) CrushableLevel() int32 { return 0 }
