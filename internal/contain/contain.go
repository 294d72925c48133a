// Package contain implements ContainFlow: the containment behaviour
// that intersects movement when an entity is held by a transport,
// overlord, rider-changer or mob-nexus — the disabled-held state, exit
// positioning, and the door-reservation protocol that gates release.
//
// This package owns only the contain-list bookkeeping and exit geometry;
// it has no reference to an Occupancy tracker or a Locomotor, so it
// cannot itself clear a contained entity's occupancy stamps or suspend
// its locomotor. As on the exit side (see Transport.ExitOnePassenger),
// applying the disabled-held state to those collaborators is the
// caller's responsibility: call occ.ClearEntity and suspend the
// entity's Locomotor updates after OnContaining succeeds, and restore
// both after OnRemoving succeeds or TryToEvacuate places the entity.
package contain

import (
	"fmt"
	"log/slog"

	"github.com/ironveil/pathcore/internal/geocore"
)

// Kind names the four container variants.
type Kind uint8

const (
	KindTransport Kind = iota
	KindOverlord
	KindRiderChanger
	KindMobNexus
)

// Module is the polymorphic container behaviour: the overlord/transport/
// rider-changer/mob-nexus variants differ only in which of these they
// override.
type Module interface {
	geocore.Containment

	Kind() Kind
	IsValidContainerFor(candidate geocore.Entity) bool
	// OnContaining records obj as held. It does not clear obj's occupancy
	// stamps or suspend its locomotor; the caller does both once this
	// returns nil (see the package doc).
	OnContaining(obj geocore.EntityID) error
	// OnRemoving drops obj from the held set. It does not restore obj's
	// occupancy stamps or resume its locomotor; the caller does both
	// once this returns nil.
	OnRemoving(obj geocore.EntityID) error
	// TryToEvacuate ejects every held entity, spiralling each to a free
	// cell near pos. Returns the exit cell chosen for each evacuated id,
	// in contained order.
	TryToEvacuate(pf *geocore.Pathfinder, occ *geocore.Occupancy, mobility geocore.Mobility, pos geocore.WorldPos, layer geocore.LayerID) []ExitResult
	OnCapture()
}

// ExitResult is one entity's resolved exit placement.
type ExitResult struct {
	Entity geocore.EntityID
	Cell   geocore.CellCoord
	Pos    geocore.WorldPos
}

// BaseContainer holds the state and exit-positioning logic shared by
// every variant. Grounded on zone/base_zone.go's BaseZone: common
// geometry/bookkeeping embedded once, concrete types add only their
// differing predicates.
type BaseContainer struct {
	ID         geocore.EntityID
	Contained  []geocore.EntityID
	Doors      *DoorSet
	ExitBones  map[string]geocore.WorldPos
	AIFree     bool
	ZeroSlot   bool
	Overlord   bool
	FireWhileContained bool

	tick int64
}

// NewBaseContainer allocates a container with n exit doors.
func NewBaseContainer(id geocore.EntityID, doorCount int) *BaseContainer {
	return &BaseContainer{
		ID:        id,
		Doors:     NewDoorSet(doorCount),
		ExitBones: make(map[string]geocore.WorldPos),
		AIFree:    true,
	}
}

// SetTick advances the container's notion of the current tick, used by
// door exit-delay checks.
func (b *BaseContainer) SetTick(tick int64) { b.tick = tick }

func (b *BaseContainer) GetContain() []geocore.EntityID { return append([]geocore.EntityID{}, b.Contained...) }

func (b *BaseContainer) AddToContain(obj geocore.EntityID) error {
	for _, e := range b.Contained {
		if e == obj {
			return fmt.Errorf("contain: entity %d already contained", obj)
		}
	}
	b.Contained = append(b.Contained, obj)
	return nil
}

func (b *BaseContainer) RemoveAllContained() []geocore.EntityID {
	out := b.Contained
	b.Contained = nil
	return out
}

func (b *BaseContainer) removeOne(obj geocore.EntityID) bool {
	for i, e := range b.Contained {
		if e == obj {
			b.Contained = append(b.Contained[:i], b.Contained[i+1:]...)
			return true
		}
	}
	return false
}

func (b *BaseContainer) HasObjectsWantingToEnterOrExit() bool { return b.Doors.AnyReserved() }

func (b *BaseContainer) ReserveDoorForExit(kind string, obj geocore.EntityID) (int32, bool) {
	d, err := b.Doors.ReserveDoorForExit(kind, obj, b.tick)
	if err != nil {
		return 0, false
	}
	return d, true
}

func (b *BaseContainer) ExitObjectViaDoor(obj geocore.EntityID, doorID int32) error {
	return b.Doors.ExitObjectViaDoor(obj, doorID)
}

func (b *BaseContainer) UnreserveDoorForExit(doorID int32) { b.Doors.UnreserveDoorForExit(doorID) }

func (b *BaseContainer) GetAIFreeToExit() bool { return b.AIFree }

func (b *BaseContainer) IsSpecialZeroSlotContainer() bool { return b.ZeroSlot }

func (b *BaseContainer) IsSpecialOverlordStyleContainer() bool { return b.Overlord }

func (b *BaseContainer) IsPassengerAllowedToFire() bool { return b.FireWhileContained }

// resolveExitPosition picks, in priority order: a named exit bone, the
// container's current position, or a spiral-searched free cell nearby.
func resolveExitPosition(pf *geocore.Pathfinder, mobility geocore.Mobility, bones map[string]geocore.WorldPos, boneKey string, containerPos geocore.WorldPos) (geocore.WorldPos, geocore.CellCoord, bool) {
	if bone, ok := bones[boneKey]; ok {
		return bone, geocore.WorldToCell(bone), true
	}

	containerCell := geocore.WorldToCell(containerPos)
	if cell := pf.Grid.Ground.CellAt(containerCell); cell != nil && cell.Flags != geocore.OccGoal && cell.Flags != geocore.OccGoalOtherMoving {
		return containerPos, containerCell, true
	}

	scatter, ok := pf.AdjustDestination(containerCell, containerCell, mobility, geocore.AdjustToPossibleDestinationKind)
	if !ok {
		return geocore.WorldPos{}, geocore.CellCoord{}, false
	}
	return geocore.CellCenter(scatter), scatter, true
}

// evacuateAll is the shared TryToEvacuate body every variant calls,
// scattering each held entity to a distinct nearby free cell: each pick
// is stamped as that entity's goal before the next spiral search runs,
// so AdjustDestination's occupancy check steers subsequent entities away
// from cells already claimed this evacuation, keeping every evacuee's
// resulting position pairwise distinct.
func evacuateAll(b *BaseContainer, pf *geocore.Pathfinder, occ *geocore.Occupancy, mobility geocore.Mobility, pos geocore.WorldPos, layer geocore.LayerID) []ExitResult {
	var out []ExitResult
	containerCell := geocore.WorldToCell(pos)
	for _, id := range b.Contained {
		cell, ok := pf.AdjustDestination(containerCell, containerCell, mobility, geocore.AdjustToPossibleDestinationKind)
		if !ok {
			if geocore.IsDebugEnabled() {
				slog.Debug("contain: evacuate found no free cell", "container", b.ID, "entity", id)
			}
			continue
		}
		if occ != nil {
			_ = occ.UpdateGoal(id, layer, cell, 1)
		}
		out = append(out, ExitResult{Entity: id, Cell: cell, Pos: geocore.CellCenter(cell)})
	}
	b.Contained = nil
	return out
}

// New builds a container of the given kind. Grounded on zone/manager.go's
// newTypedZone: one switch, concrete constructors own their own defaults.
func New(kind Kind, id geocore.EntityID, doorCount int) (Module, error) {
	base := NewBaseContainer(id, doorCount)
	switch kind {
	case KindTransport:
		return NewTransport(base), nil
	case KindOverlord:
		return NewOverlord(base), nil
	case KindRiderChanger:
		return NewRiderChanger(base), nil
	case KindMobNexus:
		return NewMobNexus(base), nil
	default:
		return nil, fmt.Errorf("contain: unknown container kind %d", kind)
	}
}
