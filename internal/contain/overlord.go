package contain

import (
	"log/slog"

	"github.com/ironveil/pathcore/internal/geocore"
)

// Overlord is the "overlord-style" container: held units stay visible
// and may fire while contained (a gun platform riding a larger chassis)
// rather than being fully disabled, flagged via
// IsSpecialOverlordStyleContainer/IsPassengerAllowedToFire.
type Overlord struct {
	*BaseContainer
}

// NewOverlord builds an overlord container, pre-setting the overlord
// and fire-while-contained flags the base type otherwise defaults off.
func NewOverlord(base *BaseContainer) *Overlord {
	base.Overlord = true
	base.FireWhileContained = true
	return &Overlord{BaseContainer: base}
}

func (o *Overlord) Kind() Kind { return KindOverlord }

func (o *Overlord) IsValidContainerFor(candidate geocore.Entity) bool { return true }

func (o *Overlord) OnContaining(obj geocore.EntityID) error { return o.AddToContain(obj) }

func (o *Overlord) OnRemoving(obj geocore.EntityID) error {
	o.removeOne(obj)
	return nil
}

func (o *Overlord) TryToEvacuate(pf *geocore.Pathfinder, occ *geocore.Occupancy, mobility geocore.Mobility, pos geocore.WorldPos, layer geocore.LayerID) []ExitResult {
	return evacuateAll(o.BaseContainer, pf, occ, mobility, pos, layer)
}

func (o *Overlord) OnCapture() {
	if geocore.IsDebugEnabled() {
		slog.Debug("contain: overlord captured", "id", o.ID)
	}
}
