package geocore

import "math"

// PathNode is one waypoint of a Path's raw (unsmoothed) chain.
type PathNode struct {
	Pos         WorldPos
	Layer       LayerID
	CanOptimize bool

	next, prev     *PathNode
	nextOptimized  *PathNode
}

// Next returns the next raw node, or nil at the tail.
func (n *PathNode) Next() *PathNode { return n.next }

// NextOptimized returns the node this anchor's line-of-sight shortcut
// reaches, or nil if none was computed.
func (n *PathNode) NextOptimized() *PathNode { return n.nextOptimized }

// PathResult is what a search variant hands back to the AI collaborator.
type PathResult struct {
	Path *Path
	Ok   bool
}

// Path is a doubly-linked list of nodes plus the "optimized next"
// shortcut chain produced by line-of-sight smoothing. It caches the most
// recent closest-point projection so small movements skip re-projection.
type Path struct {
	head, tail *PathNode
	count      int

	IsOptimized   bool
	BlockedByAlly bool

	cacheValid bool
	cacheIn    WorldPos
	cacheOut   WorldPos
	cacheSeg   *PathNode
	cacheDist  float32
}

// NewPath builds a Path from an ordered list of (pos, layer, canOptimize)
// samples.
func NewPath(nodes []PathNode) *Path {
	p := &Path{}
	for _, n := range nodes {
		nn := &PathNode{Pos: n.Pos, Layer: n.Layer, CanOptimize: n.CanOptimize}
		p.append(nn)
	}
	return p
}

func (p *Path) append(n *PathNode) {
	if p.tail == nil {
		p.head, p.tail = n, n
	} else {
		p.tail.next = n
		n.prev = p.tail
		p.tail = n
	}
	p.count++
}

// Head returns the first raw node.
func (p *Path) Head() *PathNode { return p.head }

// Count returns the number of raw nodes.
func (p *Path) Count() int { return p.count }

// Optimize runs the line-of-sight smoothing pass followed by ground-only
// jog removal. For each anchor it scans forward to the farthest node with
// a passable straight line (or a uniform orthogonal/diagonal/45-degree
// run), setting anchor.nextOptimized to it. Optimisation never crosses a
// cliff boundary and crosses at most 3 steps across a layer change.
func (p *Path) Optimize(grid *CellGrid, mobility Mobility, groundOnly bool) {
	for n := p.head; n != nil; n = n.next {
		n.nextOptimized = nil
	}
	for anchor := p.head; anchor != nil && anchor.next != nil; {
		far := anchor
		steps := 0
		// uniform stays true while every raw step from anchor to cand is the
		// same single-cell move, i.e. the raw chain itself is the straight run.
		uniform := true
		var runDX, runDY int32
		for cand := anchor.next; cand != nil; cand = cand.next {
			if cand.Layer != anchor.Layer {
				steps++
				if steps > 3 {
					break
				}
			}
			a := WorldToCell(anchor.Pos)
			b := WorldToCell(cand.Pos)
			pc := WorldToCell(cand.prev.Pos)
			sdx, sdy := b.X-pc.X, b.Y-pc.Y
			if cand == anchor.next {
				runDX, runDY = sdx, sdy
			}
			if sdx != runDX || sdy != runDY || abs32(sdx) > 1 || abs32(sdy) > 1 {
				uniform = false
			}
			if !(uniform && isUniformRun(a, b)) && !grid.IsLinePassable(anchor.Layer, a, b, mobility) {
				break
			}
			if !cand.CanOptimize {
				far = cand
				break
			}
			far = cand
		}
		anchor.nextOptimized = far
		if far == anchor {
			break
		}
		anchor = far
	}
	p.IsOptimized = true
	if groundOnly {
		p.removeJogs()
	}
}

// removeJogs deletes any mid-node whose removal shortens the squared 2D
// distance by less than 3.9*S^2.
func (p *Path) removeJogs() {
	const factor = 3.9 * CellSize * CellSize
	for n := p.head; n != nil && n.next != nil && n.next.next != nil; {
		mid := n.next
		end := mid.next
		before := sqDist2D(n.Pos, mid.Pos) + sqDist2D(mid.Pos, end.Pos)
		after := sqDist2D(n.Pos, end.Pos)
		if before-after < factor {
			n.next = end
			end.prev = n
			p.count--
			continue
		}
		n = n.next
	}
}

func sqDist2D(a, b WorldPos) float32 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}

// ComputePointOnPath projects pos onto the optimised chain, returning the
// projection, its segment's layer, and the remaining along-path distance
// to the last node. Repeated calls with pos unchanged within 0.1 world
// units hit the single-entry cache.
func (p *Path) ComputePointOnPath(pos WorldPos) (proj WorldPos, layer LayerID, remaining float32) {
	if p.cacheValid && sqDist2D(pos, p.cacheIn) < 0.01 {
		return p.cacheOut, p.cacheSeg.Layer, p.cacheDist
	}

	var best *PathNode
	var bestT float32
	bestDist := float32(math.MaxFloat32)

	for n := p.head; n != nil && n.nextOptimized != nil; n = n.nextOptimized {
		a, b := n.Pos, n.nextOptimized.Pos
		ex, ey := b.X-a.X, b.Y-a.Y
		length2 := ex*ex + ey*ey
		var t float32
		if length2 > 0 {
			t = ((pos.X-a.X)*ex + (pos.Y-a.Y)*ey) / length2
			if t < 0 {
				t = 0
			}
			if t > 1 {
				t = 1
			}
		}
		cx, cy := a.X+t*ex, a.Y+t*ey
		d := (pos.X-cx)*(pos.X-cx) + (pos.Y-cy)*(pos.Y-cy)
		if d < bestDist {
			bestDist = d
			best = n
			bestT = t
		}
	}

	if best == nil {
		return pos, GroundLayer, 0
	}
	a, b := best.Pos, best.nextOptimized.Pos
	proj = WorldPos{X: a.X + bestT*(b.X-a.X), Y: a.Y + bestT*(b.Y-a.Y)}
	layer = best.Layer

	remaining = (1 - bestT) * dist2D(a, b)
	for n := best.nextOptimized; n != nil && n.nextOptimized != nil; n = n.nextOptimized {
		remaining += dist2D(n.Pos, n.nextOptimized.Pos)
	}

	p.cacheValid = true
	p.cacheIn = pos
	p.cacheOut = proj
	p.cacheSeg = best
	p.cacheDist = remaining
	return proj, layer, remaining
}

func dist2D(a, b WorldPos) float32 {
	return float32(math.Sqrt(float64(sqDist2D(a, b))))
}

// LeadPoint selects the locomotor's steering goal given the current
// projection. Within 3*CellSize of the path, the goal is the next
// node past the projected segment, so the unit cuts toward the corner.
// Past 3*CellSize perpendicular error the goal is linearly interpolated
// back toward the projection; at maxError it is exactly the projection.
func LeadPoint(projSeg *PathNode, proj, actual WorldPos, maxError float32) WorldPos {
	if projSeg == nil || projSeg.nextOptimized == nil {
		return proj
	}
	perpErr := dist2D(proj, actual)
	threshold := float32(3 * CellSize)
	if perpErr <= threshold {
		return projSeg.nextOptimized.Pos
	}
	if maxError <= threshold {
		return proj
	}
	t := (perpErr - threshold) / (maxError - threshold)
	if t > 1 {
		t = 1
	}
	next := projSeg.nextOptimized.Pos
	return WorldPos{
		X: next.X + t*(proj.X-next.X),
		Y: next.Y + t*(proj.Y-next.Y),
	}
}
