package geocore

// Pathfinder ties a CellGrid, CellInfoPool, AStarCore and Occupancy
// together and exposes the search variant dispatchers. It is the
// process-wide singleton described for the engine's lifecycle
// (init -> newMap -> per-tick update -> reset -> teardown), but tests
// may instantiate as many independent copies as needed: the only shared
// state is owned by this struct, not a package-level global.
type Pathfinder struct {
	Grid     *CellGrid
	Pool     *CellInfoPool
	Core     *AStarCore
	Occ      *Occupancy
	Zones    ZoneLookup
	Queue    *RequestQueue

	// MapReady is set once newMap has classified terrain and computed
	// zones; searches before that point are refused by the embedding
	// engine.
	MapReady bool
	// Tunneling allows a search whose start cell is inside an obstacle
	// to relax passability until it escapes the obstacle footprint.
	Tunneling bool
	// IgnoreObstacleID is skipped by passability checks for the
	// duration of one request (an entity pathing away from its own
	// just-placed structure).
	IgnoreObstacleID EntityID
	// WallPieceIDs is the ordered id list backing the wall layer,
	// indexed by position (not a fixed bound) when persisted.
	WallPieceIDs []int32
	WallHeight   float32
	// CellCounter accumulates cells examined by this instance's FindPath
	// calls (including those made by other variants), for save-game
	// telemetry. FindAttackPath's search and FindClosestPath's second
	// search are not counted.
	CellCounter int64

	extentW, extentH int32
}

// ZoneLookup is the narrow interface AStar variants need from the zone
// manager: O(1) reachability pre-filtering before launching a full A*,
// plus Recompute so the Pathfinder can re-index zones itself once the
// grid reports Dirty().
type ZoneLookup interface {
	EffectiveZone(mobility Mobility, raw ZoneID) ZoneID
	ZoneOf(layer LayerID, c CellCoord) ZoneID
	HierarchicalReachable(mobility Mobility, a, b CellCoord) bool
	Recompute()
}

// NewPathfinder wires a fresh engine instance.
func NewPathfinder(width, height int32) *Pathfinder {
	pool := NewCellInfoPool(CellInfoPoolSize)
	grid := NewCellGrid(width, height, pool)
	return &Pathfinder{
		Grid:    grid,
		Pool:    pool,
		Core:    NewAStarCore(grid, pool),
		Occ:     NewOccupancy(grid, pool),
		Queue:   NewRequestQueue(2048),
		extentW: width,
		extentH: height,
	}
}

// Extent returns the grid's width and height in cells.
func (pf *Pathfinder) Extent() (int32, int32) { return pf.extentW, pf.extentH }

// DrainQueue serves queued pathfind requests through serve, but first
// recomputes zones if the grid has been marked dirty since the last
// recompute: zone recomputation takes priority over serving requests in
// that tick, since a stale zone table could pre-filter a request that
// has actually become reachable (or vice versa).
func (pf *Pathfinder) DrainQueue(serve ServeFunc) int {
	if pf.Zones != nil && pf.Grid.Dirty() {
		pf.Zones.Recompute()
	}
	return pf.Queue.Drain(serve)
}

// zoneEqual is the O(1) reachability pre-filter: if zones are present and
// disagree, a full search is skipped.
func (pf *Pathfinder) zoneEqual(mobility Mobility, layerA LayerID, a CellCoord, layerB LayerID, b CellCoord) bool {
	if pf.Zones == nil {
		return true
	}
	za := pf.Zones.EffectiveZone(mobility, pf.Zones.ZoneOf(layerA, a))
	zb := pf.Zones.EffectiveZone(mobility, pf.Zones.ZoneOf(layerB, b))
	return za == zb
}

// FindPath is the full A*, pre-filtered by hierarchical path and zone
// equality. On zone or hierarchical rejection it returns ok=false in O(1)
// without running the detailed search.
func (pf *Pathfinder) FindPath(layer LayerID, start, goal CellCoord, mobility Mobility, canPathThroughUnits bool) (SearchOutcome, bool) {
	if !pf.zoneEqual(mobility, layer, start, GroundLayer, goal) {
		return SearchOutcome{}, false
	}
	if pf.Zones != nil && !pf.Zones.HierarchicalReachable(mobility, start, goal) {
		return SearchOutcome{}, false
	}
	out, err := pf.Core.Run(SearchRequest{
		StartLayer: layer, Start: start, Goal: goal, Mobility: mobility,
		CanPathThroughUnits: canPathThroughUnits, Budget: BudgetDefault,
	})
	pf.CellCounter += int64(out.CellsExamined)
	if err != nil || !out.Success {
		return out, false
	}
	return out, true
}

// FindGroundPath requires every candidate cell to sustain a clear run of
// diameter cells. If the run fails to clear, the variant shrinks diameter
// by 2 and retries, modelling large-formation movement.
func (pf *Pathfinder) FindGroundPath(start, goal CellCoord, mobility Mobility, diameter int32) (SearchOutcome, bool) {
	for d := diameter; d >= 1; d -= 2 {
		if !pf.clearCellForDiameter(start, d) || !pf.clearCellForDiameter(goal, d) {
			continue
		}
		out, ok := pf.FindPath(GroundLayer, start, goal, mobility, false)
		if !ok {
			continue
		}
		allClear := true
		for _, c := range out.Cells {
			if !pf.clearCellForDiameter(c, d) {
				allClear = false
				break
			}
		}
		if allClear {
			return out, true
		}
	}
	return SearchOutcome{}, false
}

func (pf *Pathfinder) clearCellForDiameter(c CellCoord, diameter int32) bool {
	r := diameter / 2
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			cell := pf.Grid.Ground.CellAt(CellCoord{X: c.X + dx, Y: c.Y + dy})
			if cell == nil || !cell.passableFor(MobilityGround) {
				return false
			}
		}
	}
	return true
}

// FindAttackPath succeeds on any cell within weaponRange of victim with
// line of sight, skipping the attacker's own cell. Budgeted at
// BudgetAttackPath (2000).
func (pf *Pathfinder) FindAttackPath(start, victim CellCoord, mobility Mobility, weaponRange float32) (SearchOutcome, bool) {
	out, err := pf.Core.Run(SearchRequest{
		StartLayer: GroundLayer, Start: start, Goal: victim, Mobility: mobility,
		Budget: BudgetAttackPath, AttackDistance: weaponRange, ClosestOK: true,
	})
	if err != nil {
		return SearchOutcome{}, false
	}
	for i := len(out.Cells) - 1; i >= 0; i-- {
		c := out.Cells[i]
		if c == start {
			continue
		}
		center := CellCenter(c)
		victimCenter := CellCenter(victim)
		if dist2D(center, victimCenter) <= weaponRange &&
			!pf.Grid.IsAttackViewBlockedByObstacle(GroundLayer, c, victim) {
			return SearchOutcome{Success: true, Cells: out.Cells[:i+1], Layers: out.Layers[:i+1], CellsExamined: out.CellsExamined}, true
		}
	}
	return out, false
}

// FindSafePath picks, within 20 cells of start, the passable cell farthest
// from start that is at least radius from every repulsor, and returns
// FindPath to it. When that search fails (budget exceeded included) it
// returns ok=false; no intermediate cell is taken as a fallback.
func (pf *Pathfinder) FindSafePath(start CellCoord, repulsors []CellCoord, radius float32, mobility Mobility) (SearchOutcome, bool) {
	safe := func(c CellCoord) bool {
		center := CellCenter(c)
		for _, r := range repulsors {
			if dist2D(center, CellCenter(r)) < radius {
				return false
			}
		}
		return true
	}
	farthest := start
	bestScore := float32(-1)
	for dy := int32(-20); dy <= 20; dy++ {
		for dx := int32(-20); dx <= 20; dx++ {
			c := CellCoord{X: start.X + dx, Y: start.Y + dy}
			cell := pf.Grid.Ground.CellAt(c)
			if cell == nil || !cell.passableFor(mobility) || !safe(c) {
				continue
			}
			score := float32(dx*dx + dy*dy)
			if score > bestScore {
				bestScore = score
				farthest = c
			}
		}
	}
	if bestScore < 0 {
		return SearchOutcome{}, false
	}
	return pf.FindPath(GroundLayer, start, farthest, mobility, false)
}

// FindClosestPath behaves like FindPath but, if the goal is zoned
// unreachable, always returns the best approximation reached by a
// ClosestOK search. No hierarchical closest-path hint is used.
func (pf *Pathfinder) FindClosestPath(start, goal CellCoord, mobility Mobility) (SearchOutcome, bool) {
	out, ok := pf.FindPath(GroundLayer, start, goal, mobility, false)
	if ok {
		return out, true
	}
	out, err := pf.Core.Run(SearchRequest{
		StartLayer: GroundLayer, Start: start, Goal: goal, Mobility: mobility,
		Budget: BudgetDefault, ClosestOK: true,
	})
	if err != nil {
		return SearchOutcome{}, false
	}
	return out, len(out.Cells) > 0
}

// PatchPath rejoins an existing optimised path: it walks the old path
// backwards to find the closest still-reachable anchor, then runs A* from
// the current position to that anchor.
func (pf *Pathfinder) PatchPath(current CellCoord, existing *Path, mobility Mobility) (SearchOutcome, bool) {
	var nodes []*PathNode
	for n := existing.head; n != nil; n = n.next {
		nodes = append(nodes, n)
	}
	for i := len(nodes) - 1; i >= 0; i-- {
		anchor := WorldToCell(nodes[i].Pos)
		cell := pf.Grid.CellAt(nodes[i].Layer, anchor)
		if cell == nil || !cell.passableFor(mobility) {
			continue
		}
		out, ok := pf.FindPath(nodes[i].Layer, current, anchor, mobility, false)
		if ok {
			return out, true
		}
	}
	return SearchOutcome{}, false
}

// GetMoveAwayFromPath finds a cell whose bounding box does not intersect
// either given path, for evicting idle allies out of a moving unit's way.
func (pf *Pathfinder) GetMoveAwayFromPath(near CellCoord, path1, path2 *Path, mobility Mobility) (CellCoord, bool) {
	onPath := func(p *Path, c CellCoord) bool {
		if p == nil {
			return false
		}
		for n := p.head; n != nil; n = n.next {
			if WorldToCell(n.Pos) == c {
				return true
			}
		}
		return false
	}
	for radius := int32(1); radius <= 10; radius++ {
		for _, c := range spiral(near, radius) {
			cell := pf.Grid.Ground.CellAt(c)
			if cell == nil || !cell.passableFor(mobility) {
				continue
			}
			if onPath(path1, c) || onPath(path2, c) {
				continue
			}
			return c, true
		}
	}
	return CellCoord{}, false
}

// AdjustKind selects which occupancy/zone predicate a destination-adjust
// spiral search must satisfy.
type AdjustKind int

const (
	AdjustDestinationKind AdjustKind = iota
	AdjustToLandingDestinationKind
	AdjustToPossibleDestinationKind
)

// AdjustDestination spiral-searches from the requested destination and
// returns the first cell whose occupancy check passes and which is
// same-zone reachable from origin.
func (pf *Pathfinder) AdjustDestination(origin, dest CellCoord, mobility Mobility, kind AdjustKind) (CellCoord, bool) {
	for radius := int32(0); radius <= 16; radius++ {
		for _, c := range spiral(dest, radius) {
			cell := pf.Grid.Ground.CellAt(c)
			if cell == nil || !cell.passableFor(mobility) {
				continue
			}
			if cell.Flags == OccGoal || cell.Flags == OccGoalOtherMoving {
				continue
			}
			if kind == AdjustToLandingDestinationKind && cell.Type != CellClear {
				continue
			}
			if !pf.zoneEqual(mobility, GroundLayer, origin, GroundLayer, c) {
				continue
			}
			return c, true
		}
	}
	return CellCoord{}, false
}

// spiral enumerates the ring of cells at exactly `radius` Chebyshev
// distance from center, used by every destination-adjust/evacuate-scatter
// search.
func spiral(center CellCoord, radius int32) []CellCoord {
	if radius == 0 {
		return []CellCoord{center}
	}
	var out []CellCoord
	for x := -radius; x <= radius; x++ {
		out = append(out, CellCoord{X: center.X + x, Y: center.Y - radius})
		out = append(out, CellCoord{X: center.X + x, Y: center.Y + radius})
	}
	for y := -radius + 1; y <= radius-1; y++ {
		out = append(out, CellCoord{X: center.X - radius, Y: center.Y + y})
		out = append(out, CellCoord{X: center.X + radius, Y: center.Y + y})
	}
	return out
}

// FindHierarchicalPath is a graph search over ZoneBlocks: it succeeds iff
// the detailed search could possibly succeed, used to pre-reject straying
// blocks before the expensive per-cell A*.
func (pf *Pathfinder) FindHierarchicalPath(start, goal CellCoord, mobility Mobility) bool {
	if pf.Zones == nil {
		return true
	}
	return pf.Zones.HierarchicalReachable(mobility, start, goal)
}
