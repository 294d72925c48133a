package geocore

// Cell is a fixed-size record for one grid square. info is nil unless the
// cell is participating in a search or carries occupancy/obstacle state,
// per the pool-ownership invariant in cellinfo.go.
type Cell struct {
	Type            CellType
	Flags           OccupancyFlag
	Zone            ZoneID
	ConnectsToLayer LayerID
	HasConnection   bool
	Layer           LayerID
	Pinched         bool
	AircraftGoal    bool
	Height          float32 // ground height sampled at classification time

	info *CellInfo
}

// Info returns the cell's attached search/occupancy scratch, or nil.
func (c *Cell) Info() *CellInfo { return c.info }

// clearAfterRelease detaches info once the pool has confirmed no guard
// remains (occupancy, obstacle id, search membership).
func (c *Cell) clearAfterRelease() { c.info = nil }

// PassableFor reports whether a mobility class may ever traverse this
// cell, ignoring occupancy (occupancy is a separate, dynamic check).
func (c *Cell) PassableFor(m Mobility) bool { return c.passableFor(m) }

// passableFor is the package-internal search primitive; PassableFor
// exposes it to collaborators outside geocore (e.g. contain's
// amphibious-exit predicate) that need the same terrain test.
func (c *Cell) passableFor(m Mobility) bool {
	switch c.Type {
	case CellImpassable:
		return false
	case CellObstacle:
		return m&MobilityCrusher != 0
	case CellWater:
		return m&(MobilityWater|MobilityAir) != 0
	case CellCliff:
		return m&(MobilityCliff|MobilityAir) != 0
	case CellRubble:
		return m&(MobilityRubble|MobilityAir) != 0
	default:
		return true
	}
}
