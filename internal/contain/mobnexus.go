package contain

import (
	"log/slog"

	"github.com/ironveil/pathcore/internal/geocore"
)

// MobNexus is the container variant backing horde/swarm structures: it
// holds an open-ended mob of units as a single special-cased container
// rather than counting individual occupant slots.
type MobNexus struct {
	*BaseContainer
}

// NewMobNexus builds a mob-nexus container over base, marking it a
// special zero-slot container per geocore.Containment.
func NewMobNexus(base *BaseContainer) *MobNexus {
	base.ZeroSlot = true
	return &MobNexus{BaseContainer: base}
}

func (m *MobNexus) Kind() Kind { return KindMobNexus }

func (m *MobNexus) IsValidContainerFor(candidate geocore.Entity) bool { return true }

func (m *MobNexus) OnContaining(obj geocore.EntityID) error { return m.AddToContain(obj) }

func (m *MobNexus) OnRemoving(obj geocore.EntityID) error {
	m.removeOne(obj)
	return nil
}

func (m *MobNexus) TryToEvacuate(pf *geocore.Pathfinder, occ *geocore.Occupancy, mobility geocore.Mobility, pos geocore.WorldPos, layer geocore.LayerID) []ExitResult {
	return evacuateAll(m.BaseContainer, pf, occ, mobility, pos, layer)
}

func (m *MobNexus) OnCapture() {
	if geocore.IsDebugEnabled() {
		slog.Debug("contain: mob-nexus captured", "id", m.ID, "held", len(m.Contained))
	}
}
