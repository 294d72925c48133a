package geocore

import "fmt"

// CellGrid owns the ground layer plus every bridge/wall layer, and the
// pool every cell's info pointer is drawn from.
type CellGrid struct {
	Ground *Layer
	layers map[LayerID]*Layer
	pool   *CellInfoPool
	nextLayerID LayerID

	dirty bool // zones need recompute
}

// NewCellGrid allocates a ground layer spanning [0,width)x[0,height).
func NewCellGrid(width, height int32, pool *CellInfoPool) *CellGrid {
	g := &CellGrid{
		Ground: NewLayer(GroundLayer, 0, 0, width, height),
		layers: make(map[LayerID]*Layer),
		pool:   pool,
		nextLayerID: GroundLayer + 1,
	}
	g.layers[GroundLayer] = g.Ground
	return g
}

// AddLayer registers a new bridge or wall layer and returns its id.
func (g *CellGrid) AddLayer(originX, originY, width, height int32) *Layer {
	id := g.nextLayerID
	g.nextLayerID++
	l := NewLayer(id, originX, originY, width, height)
	g.layers[id] = l
	return l
}

// Layer looks up a layer by id.
func (g *CellGrid) Layer(id LayerID) *Layer { return g.layers[id] }

// AllLayers returns every registered layer, ground first, in no
// particular order thereafter.
func (g *CellGrid) AllLayers() []*Layer {
	out := make([]*Layer, 0, len(g.layers))
	out = append(out, g.Ground)
	for id, l := range g.layers {
		if id == GroundLayer {
			continue
		}
		out = append(out, l)
	}
	return out
}

// CellAt returns the cell at c on the given layer, or nil if out of
// bounds. Lookup is: pick layer, clamp to its origin-offset sub-region,
// return nil if outside.
func (g *CellGrid) CellAt(layer LayerID, c CellCoord) *Cell {
	l, ok := g.layers[layer]
	if !ok {
		return nil
	}
	return l.CellAt(c)
}

// MarkDirty flags that the obstacle map changed and zones must be
// recomputed before the next reachability query.
func (g *CellGrid) MarkDirty() { g.dirty = true }

// Dirty reports whether zones are stale.
func (g *CellGrid) Dirty() bool { return g.dirty }

// ClearDirty is called by the zone manager after recomputation.
func (g *CellGrid) ClearDirty() { g.dirty = false }

// ClassifyTerrain samples terrain at cell corners for every ground cell:
// any underwater corner marks water, any cliff-marked corner marks cliff,
// otherwise the cell is clear. Obstacle classification is a separate,
// per-object step (see obstacle.go).
func (g *CellGrid) ClassifyTerrain(terrain Terrain) {
	l := g.Ground
	for y := int32(0); y < l.Height; y++ {
		for x := int32(0); x < l.Width; x++ {
			c := CellCoord{X: x + l.OriginX, Y: y + l.OriginY}
			cell := l.CellAt(c)
			cell.Type = classifyCorners(terrain, c)
			wx := float32(c.X*CellSize) + CellSize/2
			wy := float32(c.Y*CellSize) + CellSize/2
			cell.Height = terrain.GetGroundHeight(wx, wy)
		}
	}
	g.inflatePinch(l)
	g.MarkDirty()
}

func classifyCorners(terrain Terrain, c CellCoord) CellType {
	underwater, cliff := false, false
	for dy := int32(0); dy <= 1; dy++ {
		for dx := int32(0); dx <= 1; dx++ {
			wx := float32((c.X+dx)*CellSize) - CellSize/2
			wy := float32((c.Y+dy)*CellSize) - CellSize/2
			if terrain.IsUnderwater(wx, wy) {
				underwater = true
			}
			if terrain.IsCliffCell(wx, wy) {
				cliff = true
			}
		}
	}
	switch {
	case underwater:
		return CellWater
	case cliff:
		return CellCliff
	default:
		return CellClear
	}
}

// inflatePinch performs the two-step cliff inflation: every cell adjacent
// to a cliff is marked pinched and promoted to cliff, then the new cliff
// border is marked pinched again. This keeps pathable cells from kissing
// true cliffs.
func (g *CellGrid) inflatePinch(l *Layer) {
	promote := g.neighborsOfType(l, CellCliff)
	for _, c := range promote {
		cell := l.CellAt(c)
		cell.Type = CellCliff
		cell.Pinched = true
	}
	border := g.neighborsOfType(l, CellCliff)
	for _, c := range border {
		l.CellAt(c).Pinched = true
	}
}

func (g *CellGrid) neighborsOfType(l *Layer, t CellType) []CellCoord {
	var out []CellCoord
	for y := int32(0); y < l.Height; y++ {
		for x := int32(0); x < l.Width; x++ {
			c := CellCoord{X: x + l.OriginX, Y: y + l.OriginY}
			cell := l.CellAt(c)
			if cell.Type == t {
				continue
			}
			for _, n := range neighbors8(c) {
				nc := l.CellAt(n)
				if nc != nil && nc.Type == t {
					out = append(out, c)
					break
				}
			}
		}
	}
	return out
}

func neighbors8(c CellCoord) [8]CellCoord {
	return [8]CellCoord{
		{c.X - 1, c.Y - 1}, {c.X, c.Y - 1}, {c.X + 1, c.Y - 1},
		{c.X - 1, c.Y}, {c.X + 1, c.Y},
		{c.X - 1, c.Y + 1}, {c.X, c.Y + 1}, {c.X + 1, c.Y + 1},
	}
}

func neighbors4(c CellCoord) [4]CellCoord {
	return [4]CellCoord{
		{c.X, c.Y - 1}, {c.X - 1, c.Y}, {c.X + 1, c.Y}, {c.X, c.Y + 1},
	}
}

// ClassifyBridgeLayer tests each cell of a bridge layer's four corners
// against the bridge polygon: 4/4 clear, 0/4 impassable, otherwise cliff.
// Ramp cells are flagged to cross-link ground and layer.
func (g *CellGrid) ClassifyBridgeLayer(layer *Layer, inPolygon func(wx, wy float32) bool, rampGround, rampLayer CellCoord) {
	for y := int32(0); y < layer.Height; y++ {
		for x := int32(0); x < layer.Width; x++ {
			c := CellCoord{X: x + layer.OriginX, Y: y + layer.OriginY}
			cell := layer.CellAt(c)
			hits := 0
			for dy := int32(0); dy <= 1; dy++ {
				for dx := int32(0); dx <= 1; dx++ {
					wx := float32((c.X+dx)*CellSize) - CellSize/2
					wy := float32((c.Y+dy)*CellSize) - CellSize/2
					if inPolygon(wx, wy) {
						hits++
					}
				}
			}
			switch hits {
			case 4:
				cell.Type = CellClear
			case 0:
				cell.Type = CellImpassable
			default:
				cell.Type = CellCliff
			}
		}
	}
	layer.StartCell = rampLayer
	layer.EndCell = rampGround
	layer.HasEndpoints = true

	groundCell := g.Ground.CellAt(rampGround)
	layerCell := layer.CellAt(rampLayer)
	if groundCell != nil && layerCell != nil {
		groundCell.ConnectsToLayer = layer.ID
		groundCell.HasConnection = true
		layerCell.ConnectsToLayer = GroundLayer
		layerCell.HasConnection = true
	}
	g.MarkDirty()
}

// DestroyBridge marks a bridge layer destroyed: its cells become
// impassable and the ground<->layer links are cleared.
func (g *CellGrid) DestroyBridge(id LayerID) error {
	l, ok := g.layers[id]
	if !ok {
		return fmt.Errorf("geocore: destroy bridge: unknown layer %d", id)
	}
	l.Destroyed = true
	for i := range l.cells {
		l.cells[i].Type = CellImpassable
		l.cells[i].HasConnection = false
	}
	if l.HasEndpoints {
		if gc := g.Ground.CellAt(l.EndCell); gc != nil {
			gc.HasConnection = false
		}
	}
	g.MarkDirty()
	return nil
}

// ClassifyWallLayer tests cells against a set of oriented wall-piece
// rectangles, then forces a one-cell inward border to cliff to avoid
// edge-of-wall overshoot.
func (g *CellGrid) ClassifyWallLayer(layer *Layer, inAnyPiece func(wx, wy float32) bool) {
	for y := int32(0); y < layer.Height; y++ {
		for x := int32(0); x < layer.Width; x++ {
			c := CellCoord{X: x + layer.OriginX, Y: y + layer.OriginY}
			cell := layer.CellAt(c)
			hits := 0
			for dy := int32(0); dy <= 1; dy++ {
				for dx := int32(0); dx <= 1; dx++ {
					wx := float32((c.X+dx)*CellSize) - CellSize/2
					wy := float32((c.Y+dy)*CellSize) - CellSize/2
					if inAnyPiece(wx, wy) {
						hits++
					}
				}
			}
			switch hits {
			case 4:
				cell.Type = CellClear
			case 0:
				cell.Type = CellImpassable
			default:
				cell.Type = CellCliff
			}
		}
	}
	for y := int32(0); y < layer.Height; y++ {
		for x := int32(0); x < layer.Width; x++ {
			if y == 0 || x == 0 || y == layer.Height-1 || x == layer.Width-1 {
				c := CellCoord{X: x + layer.OriginX, Y: y + layer.OriginY}
				layer.CellAt(c).Type = CellCliff
			}
		}
	}
	g.MarkDirty()
}
