package contain

import (
	"fmt"
	"log/slog"

	"github.com/ironveil/pathcore/internal/geocore"
)

// Transport is the general-purpose container variant: ground vehicles,
// boats and aircraft that carry units and release them through doors.
// Flying transports refuse exits mid-air unless the passenger can
// rappel; amphibious transports refuse exits the passenger's mobility
// could not reach.
type Transport struct {
	*BaseContainer
	Flying      bool
	Amphibious  bool
	ExitDelayTicks int64
}

// NewTransport builds a transport container over base.
func NewTransport(base *BaseContainer) *Transport {
	return &Transport{BaseContainer: base}
}

func (t *Transport) Kind() Kind { return KindTransport }

func (t *Transport) IsValidContainerFor(candidate geocore.Entity) bool { return true }

func (t *Transport) OnContaining(obj geocore.EntityID) error { return t.AddToContain(obj) }

func (t *Transport) OnRemoving(obj geocore.EntityID) error {
	if !t.removeOne(obj) {
		return fmt.Errorf("contain: entity %d not held by transport %d", obj, t.ID)
	}
	return nil
}

func (t *Transport) TryToEvacuate(pf *geocore.Pathfinder, occ *geocore.Occupancy, mobility geocore.Mobility, pos geocore.WorldPos, layer geocore.LayerID) []ExitResult {
	return evacuateAll(t.BaseContainer, pf, occ, mobility, pos, layer)
}

func (t *Transport) OnCapture() {
	if geocore.IsDebugEnabled() {
		slog.Debug("contain: transport captured", "id", t.ID)
	}
}

// ExitPassengerArgs carries the per-exit predicates Transport must check
// before it will reserve a door.
type ExitPassengerArgs struct {
	Passenger      geocore.Entity
	PassengerKind  string
	CanRappel      bool
	ContainerCell  geocore.CellCoord
	ContainerLayer geocore.LayerID
}

// ExitOnePassenger runs the full single-passenger exit: predicate
// checks, door reservation, exit positioning and door release. It does
// not itself move the entity or set SetAllowToFall — the caller applies
// the returned position and, if the result lies above terrain, sets
// the physics allow-to-fall flag.
func (t *Transport) ExitOnePassenger(pf *geocore.Pathfinder, mobility geocore.Mobility, containerPos geocore.WorldPos, args ExitPassengerArgs) (ExitResult, error) {
	if t.Flying && !args.CanRappel {
		return ExitResult{}, fmt.Errorf("contain: flying transport refuses exit without rappel")
	}
	if t.Amphibious {
		cell := pf.Grid.Ground.CellAt(args.ContainerCell)
		if cell == nil || !cell.PassableFor(mobility) {
			return ExitResult{}, fmt.Errorf("contain: amphibious transport's cell is not reachable by this passenger's mobility")
		}
	}

	door, ok := t.ReserveDoorForExit(args.PassengerKind, args.Passenger.ID())
	if !ok {
		return ExitResult{}, ErrNoDoorAvailable
	}

	pos, cell, ok := resolveExitPosition(pf, mobility, t.ExitBones, args.PassengerKind, containerPos)
	if !ok {
		t.UnreserveDoorForExit(door)
		return ExitResult{}, fmt.Errorf("contain: no free exit cell found near transport %d", t.ID)
	}

	if err := t.ExitObjectViaDoor(args.Passenger.ID(), door); err != nil {
		t.UnreserveDoorForExit(door)
		return ExitResult{}, err
	}
	t.removeOne(args.Passenger.ID())
	return ExitResult{Entity: args.Passenger.ID(), Cell: cell, Pos: pos}, nil
}
