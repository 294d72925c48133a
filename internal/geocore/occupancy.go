package geocore

// Occupancy writes and reads per-cell position/goal unit ids, enforcing
// the five-state flag machine described for the pathfind grid. It is
// single-threaded by design: no locks on the hot tick path. Callers
// embedding this in a concurrent host must serialize calls themselves,
// the same way per-region world state gets serialized before fan-out.
type Occupancy struct {
	grid *CellGrid
	pool *CellInfoPool

	// posCells/goalCells/aircraftGoalCells remember each entity's last
	// stamped position/goal cell sets
	// so updatePos/updateGoal can clear exactly what they stamped.
	posCells          map[EntityID][]occStamp
	goalCells         map[EntityID][]occStamp
	aircraftGoalCells map[EntityID][]occStamp
}

type occStamp struct {
	layer LayerID
	pos   CellCoord
}

// NewOccupancy builds an occupancy tracker bound to grid/pool.
func NewOccupancy(grid *CellGrid, pool *CellInfoPool) *Occupancy {
	return &Occupancy{
		grid:              grid,
		pool:              pool,
		posCells:          make(map[EntityID][]occStamp),
		goalCells:         make(map[EntityID][]occStamp),
		aircraftGoalCells: make(map[EntityID][]occStamp),
	}
}

// radiusCells returns the 1 or 2 cells a bounding-circle diameter stamps,
// centered on center when the radius fits in one cell.
func radiusCells(layer LayerID, center CellCoord, diameter int32) []occStamp {
	if diameter <= 1 {
		return []occStamp{{layer, center}}
	}
	// A 2-cell radius stamps an additional cell along +X to approximate
	// the bounding circle without a full footprint rasterizer; larger
	// diameters fall back to findGroundPath's clearCellForDiameter check
	// instead of per-cell stamping.
	return []occStamp{{layer, center}, {layer, CellCoord{X: center.X + 1, Y: center.Y}}}
}

func (o *Occupancy) applyTransition(cell *Cell, pos CellCoord, setPos bool, unit EntityID) error {
	ci := cell.info
	switch cell.Flags {
	case OccNone:
		if setPos {
			info, err := o.pool.Acquire(cell, pos)
			if err != nil {
				return err
			}
			info.PosUnitID = unit
			cell.Flags = OccPresentMoving
		} else {
			info, err := o.pool.Acquire(cell, pos)
			if err != nil {
				return err
			}
			info.GoalUnitID = unit
			cell.Flags = OccGoal
		}
	case OccPresentMoving:
		if !setPos {
			if ci.PosUnitID == unit {
				ci.GoalUnitID = unit
				cell.Flags = OccPresentFixed
			} else {
				ci.GoalUnitID = unit
				cell.Flags = OccGoalOtherMoving
			}
		}
	case OccGoal:
		if setPos {
			if ci.GoalUnitID == unit {
				ci.PosUnitID = unit
				cell.Flags = OccPresentFixed
			} else {
				ci.PosUnitID = unit
				cell.Flags = OccGoalOtherMoving
			}
		}
	}
	return nil
}

func (o *Occupancy) clearPos(cell *Cell) {
	ci := cell.info
	if ci == nil {
		return
	}
	ci.PosUnitID = 0
	switch cell.Flags {
	case OccPresentMoving:
		cell.Flags = OccNone
	case OccPresentFixed, OccGoalOtherMoving:
		cell.Flags = OccGoal
	}
	o.pool.Release(ci)
}

func (o *Occupancy) clearGoal(cell *Cell) {
	ci := cell.info
	if ci == nil {
		return
	}
	ci.GoalUnitID = 0
	switch cell.Flags {
	case OccGoal:
		cell.Flags = OccNone
	case OccPresentFixed, OccGoalOtherMoving:
		cell.Flags = OccPresentMoving
	}
	o.pool.Release(ci)
}

func (o *Occupancy) clearAircraftGoal(cell *Cell) {
	ci := cell.info
	if ci == nil {
		return
	}
	ci.GoalAircraftID = 0
	cell.AircraftGoal = false
	o.pool.Release(ci)
}

// UpdatePos clears an entity's prior position radius and stamps the new
// one. Calling it twice with the same position is idempotent: the clear
// of the previous stamp and the restamp of the identical cells leaves
// cell state unchanged.
func (o *Occupancy) UpdatePos(e EntityID, layer LayerID, center CellCoord, diameter int32) error {
	for _, s := range o.posCells[e] {
		if l := o.grid.Layer(s.layer); l != nil {
			if c := l.CellAt(s.pos); c != nil {
				o.clearPos(c)
			}
		}
	}
	stamps := radiusCells(layer, center, diameter)
	for _, s := range stamps {
		l := o.grid.Layer(s.layer)
		if l == nil {
			continue
		}
		c := l.CellAt(s.pos)
		if c == nil {
			continue
		}
		if err := o.applyTransition(c, s.pos, true, e); err != nil {
			return err
		}
	}
	o.posCells[e] = stamps
	return nil
}

// UpdateGoal is analogous to UpdatePos for the final destination.
func (o *Occupancy) UpdateGoal(e EntityID, layer LayerID, center CellCoord, diameter int32) error {
	for _, s := range o.goalCells[e] {
		if l := o.grid.Layer(s.layer); l != nil {
			if c := l.CellAt(s.pos); c != nil {
				o.clearGoal(c)
			}
		}
	}
	stamps := radiusCells(layer, center, diameter)
	for _, s := range stamps {
		l := o.grid.Layer(s.layer)
		if l == nil {
			continue
		}
		c := l.CellAt(s.pos)
		if c == nil {
			continue
		}
		if err := o.applyTransition(c, s.pos, false, e); err != nil {
			return err
		}
	}
	o.goalCells[e] = stamps
	return nil
}

// UpdateAircraftGoal stamps the cell(s) beneath an airborne entity's
// destination, tracked separately from UpdateGoal: an aircraft goal
// doesn't participate in the ground five-state flag machine, it only
// marks Cell.AircraftGoal/CellInfo.GoalAircraftID so ground search can
// still see that airspace is claimed.
func (o *Occupancy) UpdateAircraftGoal(e EntityID, layer LayerID, center CellCoord, diameter int32) error {
	for _, s := range o.aircraftGoalCells[e] {
		if l := o.grid.Layer(s.layer); l != nil {
			if c := l.CellAt(s.pos); c != nil {
				o.clearAircraftGoal(c)
			}
		}
	}
	stamps := radiusCells(layer, center, diameter)
	for _, s := range stamps {
		l := o.grid.Layer(s.layer)
		if l == nil {
			continue
		}
		c := l.CellAt(s.pos)
		if c == nil {
			continue
		}
		ci, err := o.pool.Acquire(c, s.pos)
		if err != nil {
			return err
		}
		ci.GoalAircraftID = e
		c.AircraftGoal = true
	}
	o.aircraftGoalCells[e] = stamps
	return nil
}

// ClearEntity removes all position, goal, and aircraft-goal stamps for an
// entity, e.g. on destruction or containment.
func (o *Occupancy) ClearEntity(e EntityID) {
	for _, s := range o.posCells[e] {
		if l := o.grid.Layer(s.layer); l != nil {
			if c := l.CellAt(s.pos); c != nil {
				o.clearPos(c)
			}
		}
	}
	for _, s := range o.goalCells[e] {
		if l := o.grid.Layer(s.layer); l != nil {
			if c := l.CellAt(s.pos); c != nil {
				o.clearGoal(c)
			}
		}
	}
	for _, s := range o.aircraftGoalCells[e] {
		if l := o.grid.Layer(s.layer); l != nil {
			if c := l.CellAt(s.pos); c != nil {
				o.clearAircraftGoal(c)
			}
		}
	}
	delete(o.posCells, e)
	delete(o.goalCells, e)
	delete(o.aircraftGoalCells, e)
}
