package geocore

import "math"

// ObstacleShape selects the footprint dispatch for stampObstacle.
type ObstacleShape uint8

const (
	ShapeBox ObstacleShape = iota
	ShapeCylinder
	ShapeFence
)

// Obstacle describes one structure's footprint in world space.
type Obstacle struct {
	ID       EntityID
	Shape    ObstacleShape
	CenterX  float32
	CenterY  float32
	Radius   float32 // cylinder/sphere
	HalfW    float32 // box half-width (local X)
	HalfH    float32 // box half-height (local Y)
	Rotation float32 // radians, box only
}

// StampObstacle marks every covered cell CellObstacle, recording the
// obstacle id. Box and fence footprints are walked at half-cell step;
// a cylinder covers each cell whose centre lies within its radius. Fences are
// tagged obstacleIsFence so a crusher may still cross them. Afterward it
// runs pinch closure on the footprint's bounding cells.
func (g *CellGrid) StampObstacle(o Obstacle) ([]CellCoord, error) {
	cells := g.footprintCells(o)
	var stamped []CellCoord
	for _, c := range cells {
		cell := g.Ground.CellAt(c)
		if cell == nil {
			continue
		}
		cell.Type = CellObstacle
		info, err := g.pool.Acquire(cell, c)
		if err != nil {
			return stamped, err
		}
		info.ObstacleID = o.ID
		info.ObstacleIsFence = o.Shape == ShapeFence
		stamped = append(stamped, c)
	}
	g.recomputePinchAround(stamped)
	g.MarkDirty()
	return stamped, nil
}

// UnstampObstacle reverses a prior StampObstacle, restoring cell types.
// It deliberately does NOT run pinch closure itself (see
// RecomputePinch): running the pinch check during removal can leave
// cliff remnants when no cliff neighbours remain, so stamp and removal
// are kept separate and callers run RecomputePinch over the vacated
// cells once all removals in a batch are done.
func (g *CellGrid) UnstampObstacle(cells []CellCoord, terrain Terrain) {
	for _, c := range cells {
		cell := g.Ground.CellAt(c)
		if cell == nil {
			continue
		}
		if cell.info != nil {
			cell.info.ObstacleID = 0
			cell.info.ObstacleIsFence = false
			g.pool.Release(cell.info)
		}
		cell.Type = classifyCorners(terrain, c)
	}
	g.MarkDirty()
}

func (g *CellGrid) footprintCells(o Obstacle) []CellCoord {
	var out []CellCoord
	switch o.Shape {
	case ShapeCylinder:
		minC := WorldToCell(WorldPos{X: o.CenterX - o.Radius, Y: o.CenterY - o.Radius})
		maxC := WorldToCell(WorldPos{X: o.CenterX + o.Radius, Y: o.CenterY + o.Radius})
		for y := minC.Y; y <= maxC.Y; y++ {
			for x := minC.X; x <= maxC.X; x++ {
				c := CellCoord{X: x, Y: y}
				center := CellCenter(c)
				dx, dy := center.X-o.CenterX, center.Y-o.CenterY
				if dx*dx+dy*dy <= o.Radius*o.Radius {
					out = append(out, c)
				}
			}
		}
	default: // ShapeBox, ShapeFence: rotated lattice walk at half-cell step
		cos, sin := cosApprox(o.Rotation), sinApprox(o.Rotation)
		step := float32(CellSize) / 2
		seen := make(map[CellCoord]bool)
		for ly := -o.HalfH; ly <= o.HalfH; ly += step {
			for lx := -o.HalfW; lx <= o.HalfW; lx += step {
				wx := o.CenterX + lx*cos - ly*sin
				wy := o.CenterY + lx*sin + ly*cos
				c := WorldToCell(WorldPos{X: wx, Y: wy})
				if !seen[c] {
					seen[c] = true
					out = append(out, c)
				}
			}
		}
	}
	return out
}

func cosApprox(rad float32) float32 { return float32(math.Cos(float64(rad))) }
func sinApprox(rad float32) float32 { return float32(math.Sin(float64(rad))) }

// RecomputePinch promotes any clear cell whose orthogonal clear-neighbour
// count falls below 2, or whose total clear-neighbour count falls below
// 4, to impassable. Called after a batch of stamp/unstamp calls.
func (g *CellGrid) RecomputePinch(around []CellCoord) {
	g.recomputePinchAround(around)
}

func (g *CellGrid) recomputePinchAround(around []CellCoord) {
	candidates := make(map[CellCoord]bool)
	for _, c := range around {
		for _, n := range neighbors8(c) {
			candidates[n] = true
		}
	}
	for c := range candidates {
		cell := g.Ground.CellAt(c)
		if cell == nil || cell.Type != CellClear {
			continue
		}
		orthoClear, totalClear := 0, 0
		for _, n := range neighbors4(c) {
			if nc := g.Ground.CellAt(n); nc != nil && nc.Type == CellClear {
				orthoClear++
			}
		}
		for _, n := range neighbors8(c) {
			if nc := g.Ground.CellAt(n); nc != nil && nc.Type == CellClear {
				totalClear++
			}
		}
		if orthoClear < 2 || totalClear < 4 {
			cell.Type = CellImpassable
		}
	}
}
