package geocore

import "errors"

// ErrPoolExhausted is returned when no CellInfo slots remain. It is a
// legitimate terminal error for a search, not a programmer error.
var ErrPoolExhausted = errors.New("geocore: cell info pool exhausted")

// CellInfo is pool-allocated search/occupancy scratch attached to a Cell
// while something claims it: open/closed list membership, occupancy,
// goal, aircraft-goal, or obstacle id.
type CellInfo struct {
	index int32

	cell *Cell
	pos  CellCoord

	Parent           *CellInfo
	prevOpen, nextOpen *CellInfo
	nextClosed       *CellInfo

	CostSoFar int32
	TotalCost int32

	Open, Closed bool
	BlockedByAlly bool

	ObstacleID     EntityID
	GoalUnitID     EntityID
	PosUnitID      EntityID
	GoalAircraftID EntityID

	ObstacleIsFence       bool
	ObstacleIsTransparent bool

	freeNext int32 // index of next free slot, or -1
}

// Pos returns the cell coordinate this info is attached to.
func (ci *CellInfo) Pos() CellCoord { return ci.pos }

// guarded reports whether any reason-to-keep is still set.
func (ci *CellInfo) guarded() bool {
	return ci.Open || ci.Closed ||
		ci.ObstacleID != 0 || ci.GoalUnitID != 0 ||
		ci.PosUnitID != 0 || ci.GoalAircraftID != 0
}

func (ci *CellInfo) reset() {
	ci.Parent = nil
	ci.prevOpen, ci.nextOpen, ci.nextClosed = nil, nil, nil
	ci.CostSoFar, ci.TotalCost = 0, 0
	ci.Open, ci.Closed = false, false
	ci.BlockedByAlly = false
	ci.ObstacleID, ci.GoalUnitID, ci.PosUnitID, ci.GoalAircraftID = 0, 0, 0, 0
	ci.ObstacleIsFence, ci.ObstacleIsTransparent = false, false
}

// CellInfoPool is a fixed array of CellInfo with an intrusive free list,
// matching the arena-allocation-with-indices guidance: stable indices
// instead of raw pointers, a cellIndex->infoIndex sidecar (here, the
// Cell.info pointer directly, since Go slices keep stable backing
// addresses once allocated).
type CellInfoPool struct {
	slots   []CellInfo
	freeHead int32
	inUse   int32
}

// NewCellInfoPool allocates size slots, chained into a free list.
func NewCellInfoPool(size int) *CellInfoPool {
	p := &CellInfoPool{slots: make([]CellInfo, size)}
	for i := range p.slots {
		p.slots[i].index = int32(i)
		p.slots[i].freeNext = int32(i + 1)
	}
	if size > 0 {
		p.slots[size-1].freeNext = -1
	}
	p.freeHead = 0
	if size == 0 {
		p.freeHead = -1
	}
	return p
}

// InUse returns the number of CellInfo currently claimed.
func (p *CellInfoPool) InUse() int32 { return p.inUse }

// Cap returns the pool's total capacity.
func (p *CellInfoPool) Cap() int32 { return int32(len(p.slots)) }

// Acquire attaches a fresh CellInfo to cell at pos if it doesn't already
// have one, popping from the free list. Returns ErrPoolExhausted if the
// pool is empty.
func (p *CellInfoPool) Acquire(cell *Cell, pos CellCoord) (*CellInfo, error) {
	if cell.info != nil {
		return cell.info, nil
	}
	if p.freeHead < 0 {
		return nil, ErrPoolExhausted
	}
	idx := p.freeHead
	ci := &p.slots[idx]
	p.freeHead = ci.freeNext
	ci.reset()
	ci.cell = cell
	ci.pos = pos
	cell.info = ci
	p.inUse++
	return ci, nil
}

// Release detaches info from its cell and returns it to the free list, but
// only if no guard (open/closed/occupancy/obstacle) remains set. No-ops
// otherwise, per the CellInfoPool invariant.
func (p *CellInfoPool) Release(ci *CellInfo) {
	if ci == nil || ci.guarded() {
		return
	}
	cell := ci.cell
	ci.cell = nil
	ci.freeNext = p.freeHead
	p.freeHead = ci.index
	p.inUse--
	if cell != nil {
		cell.clearAfterRelease()
	}
}

// TryRelease is a convenience the search loop calls after clearing a
// cell's last search-only guard (open/closed), since occupancy or
// obstacle guards may still legitimately hold the slot.
func (p *CellInfoPool) TryRelease(ci *CellInfo) {
	p.Release(ci)
}
