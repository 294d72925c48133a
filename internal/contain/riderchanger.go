package contain

import (
	"log/slog"

	"github.com/ironveil/pathcore/internal/geocore"
)

// RiderChanger is the container variant backing rider-swap structures:
// a unit enters, is toppled/killed, and a different unit is produced in
// its place. The topple-kill is scheduled rather than applied the
// instant the rider is accepted, so it always runs from a dedicated
// per-tick drain instead of racing whatever update happens to be
// running when the rider enters.
type RiderChanger struct {
	*BaseContainer

	pendingToppleKill []geocore.EntityID
}

// NewRiderChanger builds a rider-changer container over base.
func NewRiderChanger(base *BaseContainer) *RiderChanger {
	return &RiderChanger{BaseContainer: base}
}

func (r *RiderChanger) Kind() Kind { return KindRiderChanger }

func (r *RiderChanger) IsValidContainerFor(candidate geocore.Entity) bool { return true }

// OnContaining accepts the rider and schedules its topple-kill for the
// next DrainToppleKills call, rather than killing it here.
func (r *RiderChanger) OnContaining(obj geocore.EntityID) error {
	if err := r.AddToContain(obj); err != nil {
		return err
	}
	r.pendingToppleKill = append(r.pendingToppleKill, obj)
	return nil
}

func (r *RiderChanger) OnRemoving(obj geocore.EntityID) error {
	r.removeOne(obj)
	for i, id := range r.pendingToppleKill {
		if id == obj {
			r.pendingToppleKill = append(r.pendingToppleKill[:i], r.pendingToppleKill[i+1:]...)
			break
		}
	}
	return nil
}

func (r *RiderChanger) TryToEvacuate(pf *geocore.Pathfinder, occ *geocore.Occupancy, mobility geocore.Mobility, pos geocore.WorldPos, layer geocore.LayerID) []ExitResult {
	return evacuateAll(r.BaseContainer, pf, occ, mobility, pos, layer)
}

func (r *RiderChanger) OnCapture() {
	if geocore.IsDebugEnabled() {
		slog.Debug("contain: rider-changer captured", "id", r.ID)
	}
}

// DrainToppleKills returns and clears every rider scheduled for a
// topple-kill since the last drain. Callers run this once per tick from
// the container's dedicated update step, never from OnContaining
// itself, so a rider accepted mid-tick is always killed on a clean
// boundary.
func (r *RiderChanger) DrainToppleKills() []geocore.EntityID {
	out := r.pendingToppleKill
	r.pendingToppleKill = nil
	if geocore.IsDebugEnabled() && len(out) > 0 {
		slog.Debug("contain: rider-changer draining topple-kills", "id", r.ID, "count", len(out))
	}
	return out
}
