package geocore

// SearchRequest bundles the parameters common to every A* variant.
type SearchRequest struct {
	StartLayer LayerID
	Start      CellCoord
	Goal       CellCoord
	Mobility   Mobility
	CanPathThroughUnits bool
	IgnoredObstacle     EntityID
	Budget              int32
	ClosestOK           bool // return closest-viable-cell fallback on budget/open exhaustion
	AttackDistance      float32
}

// SearchOutcome is the result of one A* run.
type SearchOutcome struct {
	Success     bool
	Cells       []CellCoord // start..goal in order, cell coordinates only (layer per-node carried by caller via cross-layer hops)
	Layers      []LayerID
	CellsExamined int32
}

// AStarCore runs the open/closed-list search over a CellGrid, with the
// open list sorted ascending by TotalCost via the intrusive
// CellInfo.prevOpen/nextOpen links, so pool exhaustion always terminates
// the search cleanly.
type AStarCore struct {
	grid *CellGrid
	pool *CellInfoPool

	openHead *CellInfo
	closedHead *CellInfo

	// touched remembers every CellInfo this search acquired so Release
	// can be attempted on all of them once the search ends, regardless
	// of outcome.
	touched []*CellInfo
}

// NewAStarCore binds a reusable search core to a grid/pool pair. One
// instance is reused across many searches; its open/closed lists are
// emptied at the start of each Run.
func NewAStarCore(grid *CellGrid, pool *CellInfoPool) *AStarCore {
	return &AStarCore{grid: grid, pool: pool}
}

func (a *AStarCore) openInsert(ci *CellInfo) {
	ci.Open = true
	if a.openHead == nil || ci.TotalCost < a.openHead.TotalCost {
		ci.nextOpen = a.openHead
		ci.prevOpen = nil
		if a.openHead != nil {
			a.openHead.prevOpen = ci
		}
		a.openHead = ci
		return
	}
	cur := a.openHead
	for cur.nextOpen != nil && cur.nextOpen.TotalCost <= ci.TotalCost {
		cur = cur.nextOpen
	}
	ci.nextOpen = cur.nextOpen
	ci.prevOpen = cur
	if cur.nextOpen != nil {
		cur.nextOpen.prevOpen = ci
	}
	cur.nextOpen = ci
}

func (a *AStarCore) openRemove(ci *CellInfo) {
	if ci.prevOpen != nil {
		ci.prevOpen.nextOpen = ci.nextOpen
	} else {
		a.openHead = ci.nextOpen
	}
	if ci.nextOpen != nil {
		ci.nextOpen.prevOpen = ci.prevOpen
	}
	ci.prevOpen, ci.nextOpen = nil, nil
	ci.Open = false
}

func (a *AStarCore) openPopMin() *CellInfo {
	head := a.openHead
	if head == nil {
		return nil
	}
	a.openRemove(head)
	return head
}

func (a *AStarCore) closedPush(ci *CellInfo) {
	ci.Closed = true
	ci.nextClosed = a.closedHead
	a.closedHead = ci
}

// costToGoal is the Chebyshev-weighted admissible heuristic:
// 10*max(dx,dy) + 5*min(dx,dy).
func costToGoal(from, goal CellCoord) int32 {
	dx, dy := ChebyshevDistance(from, goal)
	hi, lo := dx, dy
	if lo > hi {
		hi, lo = lo, hi
	}
	return CostOrthogonal*hi + 5*lo
}

func stepCost(dx, dy int32) int32 {
	if dx != 0 && dy != 0 {
		return CostDiagonal
	}
	return CostOrthogonal
}

func turnPenalty(prevDX, prevDY, dx, dy int32) int32 {
	if prevDX == 0 && prevDY == 0 {
		return 0
	}
	if dx == prevDX && dy == prevDY {
		return 0
	}
	// angle between (prevDX,prevDY) and (dx,dy) among the 8 directions
	pa := dirIndex(prevDX, prevDY)
	da := dirIndex(dx, dy)
	diff := da - pa
	if diff < 0 {
		diff = -diff
	}
	if diff > 4 {
		diff = 8 - diff
	}
	switch diff {
	case 1:
		return TurnPenalty45
	case 2:
		return TurnPenalty90
	case 3:
		return TurnPenalty135
	default:
		return 0
	}
}

func dirIndex(dx, dy int32) int32 {
	switch {
	case dx == 1 && dy == 0:
		return 0
	case dx == 1 && dy == 1:
		return 1
	case dx == 0 && dy == 1:
		return 2
	case dx == -1 && dy == 1:
		return 3
	case dx == -1 && dy == 0:
		return 4
	case dx == -1 && dy == -1:
		return 5
	case dx == 0 && dy == -1:
		return 6
	default:
		return 7
	}
}

// Run performs one search. Tunneling is entered automatically if the
// start cell is inside an obstacle; it relaxes obstacle passability,
// uses a zero heuristic (best-first to any valid cell), and is disabled
// again on the first step into a cell that is both validMovementPosition
// and not pinched.
func (a *AStarCore) Run(req SearchRequest) (SearchOutcome, error) {
	a.openHead, a.closedHead, a.touched = nil, nil, nil
	defer a.releaseAll()

	startLayer := a.grid.layers[req.StartLayer]
	if startLayer == nil {
		return SearchOutcome{}, nil
	}
	startCell := startLayer.CellAt(req.Start)
	if startCell == nil {
		return SearchOutcome{}, nil
	}

	tunneling := startCell.Type == CellObstacle

	startInfo, err := a.pool.Acquire(startCell, req.Start)
	if err != nil {
		return SearchOutcome{}, err
	}
	a.touched = append(a.touched, startInfo)
	startInfo.CostSoFar = 0
	h := costToGoal(req.Start, req.Goal)
	if tunneling {
		h = 0
	}
	startInfo.TotalCost = h
	a.openInsert(startInfo)

	var examined int32
	var best *CellInfo
	bestDist := ManhattanDistance(req.Start, req.Goal)

	for {
		cur := a.openPopMin()
		if cur == nil {
			break
		}
		a.closedPush(cur)
		examined++

		if best == nil || ManhattanDistance(cur.pos, req.Goal) < bestDist ||
			(ManhattanDistance(cur.pos, req.Goal) == bestDist && cur.CostSoFar < best.CostSoFar) {
			best = cur
			bestDist = ManhattanDistance(cur.pos, req.Goal)
		}

		if cur.pos == req.Goal {
			return a.reconstruct(cur, examined, true), nil
		}
		if req.Budget > 0 && examined >= req.Budget {
			break
		}

		curCell := a.cellOf(cur)
		if tunneling && curCell.Type != CellObstacle && !curCell.Pinched {
			tunneling = false
		}

		if err := a.expandNeighbors(cur, curCell, req, tunneling, &examined); err != nil {
			return SearchOutcome{}, err
		}

		if curCell.HasConnection {
			if err := a.expandCrossLayer(cur, curCell, req); err != nil {
				return SearchOutcome{}, err
			}
		}
	}

	if req.ClosestOK && best != nil {
		return a.reconstruct(best, examined, false), nil
	}
	return SearchOutcome{CellsExamined: examined}, nil
}

func (a *AStarCore) cellOf(ci *CellInfo) *Cell { return ci.cell }

func (a *AStarCore) expandNeighbors(cur *CellInfo, curCell *Cell, req SearchRequest, tunneling bool, examined *int32) error {
	layer := a.grid.layers[curCell.Layer]
	deltas := [8][2]int32{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}

	var prevDX, prevDY int32
	if cur.Parent != nil {
		prevDX = cur.pos.X - cur.Parent.pos.X
		prevDY = cur.pos.Y - cur.Parent.pos.Y
	}

	for _, d := range deltas {
		dx, dy := d[0], d[1]
		np := CellCoord{X: cur.pos.X + dx, Y: cur.pos.Y + dy}
		nc := layer.CellAt(np)
		if nc == nil {
			continue
		}

		if dx != 0 && dy != 0 {
			f1 := layer.CellAt(CellCoord{X: cur.pos.X + dx, Y: cur.pos.Y})
			f2 := layer.CellAt(CellCoord{X: cur.pos.X, Y: cur.pos.Y + dy})
			if f1 == nil || f2 == nil || !a.passable(f1, req, tunneling) || !a.passable(f2, req, tunneling) {
				continue
			}
		}

		if !a.passable(nc, req, tunneling) {
			continue
		}
		if req.Mobility&MobilityDownhill != 0 && nc.Height > curCell.Height {
			continue
		}
		if nc.info != nil && nc.info.Closed {
			continue
		}

		cost := cur.CostSoFar + stepCost(dx, dy)
		if nc.Pinched {
			cost += PinchPenalty
		}
		cost += turnPenalty(prevDX, prevDY, dx, dy)
		if nc.Flags == OccPresentMoving || nc.Flags == OccGoalOtherMoving {
			cost += AllyMovingPenalty
		}
		if nc.Flags == OccPresentFixed && nc.info != nil {
			if !req.CanPathThroughUnits {
				continue
			}
			cost += AllyMovingPenalty
		}

		ni, err := a.pool.Acquire(nc, np)
		if err != nil {
			return err
		}
		if !contains(a.touched, ni) {
			a.touched = append(a.touched, ni)
		}

		if ni.Open && cost >= ni.CostSoFar {
			continue
		}
		if ni.Closed {
			continue
		}

		ni.Parent = cur
		ni.CostSoFar = cost
		h := costToGoal(np, req.Goal)
		if tunneling {
			h = 0
		}
		if req.AttackDistance > 0 {
			h -= int32(req.AttackDistance / 2)
		}
		ni.TotalCost = cost + h

		if ni.Open {
			a.openRemove(ni)
		}
		a.openInsert(ni)
	}
	return nil
}

func (a *AStarCore) expandCrossLayer(cur *CellInfo, curCell *Cell, req SearchRequest) error {
	other := a.grid.layers[curCell.ConnectsToLayer]
	if other == nil {
		return nil
	}
	var np CellCoord
	if curCell.Layer == GroundLayer {
		// find the companion layer's ramp cell
		found := false
		for _, l := range a.grid.layers {
			if l.ID == curCell.ConnectsToLayer && l.HasEndpoints {
				np = l.StartCell
				found = true
			}
		}
		if !found {
			return nil
		}
	} else {
		np = curCell.ConnectsToLayer.companionGroundCell(a.grid, curCell)
	}
	nc := other.CellAt(np)
	if nc == nil || !a.passable(nc, req, false) {
		return nil
	}
	ni, err := a.pool.Acquire(nc, np)
	if err != nil {
		return err
	}
	if !contains(a.touched, ni) {
		a.touched = append(a.touched, ni)
	}
	if ni.Closed {
		return nil
	}
	if ni.Open && cur.CostSoFar >= ni.CostSoFar {
		return nil
	}
	ni.Parent = cur
	ni.CostSoFar = cur.CostSoFar
	ni.TotalCost = cur.CostSoFar + costToGoal(np, req.Goal)
	if ni.Open {
		a.openRemove(ni)
	}
	a.openInsert(ni)
	return nil
}

// companionGroundCell is a small helper kept as a method-shaped free
// function (LayerID has no state) to read clearly at the call site.
func (l LayerID) companionGroundCell(g *CellGrid, curCell *Cell) CellCoord {
	for _, layer := range g.layers {
		if layer.ID == curCell.Layer && layer.HasEndpoints {
			return layer.EndCell
		}
	}
	return CellCoord{}
}

func (a *AStarCore) passable(c *Cell, req SearchRequest, tunneling bool) bool {
	if tunneling && c.Type == CellObstacle {
		return true
	}
	if c.Type == CellObstacle && c.info != nil && c.info.ObstacleID == req.IgnoredObstacle {
		return true
	}
	if c.Type == CellObstacle && c.info != nil && c.info.ObstacleIsFence && req.Mobility&MobilityCrusher != 0 {
		return true
	}
	return c.passableFor(req.Mobility)
}

func contains(s []*CellInfo, v *CellInfo) bool {
	for _, e := range s {
		if e == v {
			return true
		}
	}
	return false
}

func (a *AStarCore) reconstruct(goal *CellInfo, examined int32, success bool) SearchOutcome {
	var cells []CellCoord
	var layers []LayerID
	for n := goal; n != nil; n = n.Parent {
		cells = append([]CellCoord{n.pos}, cells...)
		layers = append([]LayerID{n.cell.Layer}, layers...)
	}
	return SearchOutcome{Success: success, Cells: cells, Layers: layers, CellsExamined: examined}
}

func (a *AStarCore) releaseAll() {
	for _, ci := range a.touched {
		ci.Open = false
		ci.Closed = false
		a.pool.Release(ci)
	}
	a.touched = nil
	a.openHead, a.closedHead = nil, nil
}
