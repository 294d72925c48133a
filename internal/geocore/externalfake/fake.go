// Package externalfake provides in-memory fakes for geocore's external
// collaborator interfaces: small structs with direct field access
// instead of mock frameworks.
package externalfake

import "github.com/ironveil/pathcore/internal/geocore"

// FlatTerrain is a Terrain fake whose every cell is clear at a fixed
// height.
type FlatTerrain struct {
	Height       float32
	Underwater   map[[2]int32]bool
	Cliffs       map[[2]int32]bool
	Width, Height32 int32
}

// NewFlatTerrain builds a Terrain fake of the given extent.
func NewFlatTerrain(width, height int32) *FlatTerrain {
	return &FlatTerrain{
		Underwater: make(map[[2]int32]bool),
		Cliffs:     make(map[[2]int32]bool),
		Width:      width, Height32: height,
	}
}

func key(x, y float32) [2]int32 { return [2]int32{int32(x), int32(y)} }

func (t *FlatTerrain) GetLayerHeight(x, y float32, layer geocore.LayerID) float32 { return t.Height }
func (t *FlatTerrain) GetGroundHeight(x, y float32) float32                      { return t.Height }
func (t *FlatTerrain) IsUnderwater(x, y float32) bool                            { return t.Underwater[key(x, y)] }
func (t *FlatTerrain) IsCliffCell(x, y float32) bool                             { return t.Cliffs[key(x, y)] }
func (t *FlatTerrain) GetLayerForDestination(pos geocore.WorldPos) geocore.LayerID {
	return geocore.GroundLayer
}
func (t *FlatTerrain) GetHighestLayerForDestination(pos geocore.WorldPos, onlyHealthy bool) geocore.LayerID {
	return geocore.GroundLayer
}
func (t *FlatTerrain) ObjectInteractsWithBridge(entity geocore.EntityID, layer geocore.LayerID) bool {
	return false
}
func (t *FlatTerrain) GetExtent() (int32, int32)                 { return t.Width, t.Height32 }
func (t *FlatTerrain) GetMaximumPathfindExtent() (int32, int32) { return t.Width, t.Height32 }

// MarkCliff flags every corner around a cell as cliff, so classification
// produces a CellCliff there.
func (t *FlatTerrain) MarkCliff(cellX, cellY int32) {
	for dy := int32(0); dy <= 1; dy++ {
		for dx := int32(0); dx <= 1; dx++ {
			wx := float32((cellX+dx)*geocore.CellSize) - geocore.CellSize/2
			wy := float32((cellY+dy)*geocore.CellSize) - geocore.CellSize/2
			t.Cliffs[key(wx, wy)] = true
		}
	}
}

// FakePhysics records the last applied force for assertions.
type FakePhysics struct {
	Vel, Accel  geocore.WorldPos
	LastForce   geocore.WorldPos
	AllowToFall bool
	Turning     geocore.TurnDirection
}

func (p *FakePhysics) Velocity() geocore.WorldPos     { return p.Vel }
func (p *FakePhysics) Acceleration() geocore.WorldPos { return p.Accel }
func (p *FakePhysics) ApplyMotiveForce(f geocore.WorldPos) { p.LastForce = f }
func (p *FakePhysics) ScrubVelocity2D(threshold float32)   {}
func (p *FakePhysics) SetAllowToFall(allow bool)           { p.AllowToFall = allow }
func (p *FakePhysics) GetTurning() geocore.TurnDirection   { return p.Turning }

// FakeEntity is a minimal Entity fake.
type FakeEntity struct {
	EID      geocore.EntityID
	Pos      geocore.WorldPos
	Orient   float32
	Lay      geocore.LayerID
	Geo      geocore.GeometryInfo
	Rel      geocore.Relationship
	Crusher  int32
	Crushable int32
	Kinds    map[string]bool
}

func (e *FakeEntity) ID() geocore.EntityID             { return e.EID }
func (e *FakeEntity) Position() geocore.WorldPos       { return e.Pos }
func (e *FakeEntity) SetPosition(p geocore.WorldPos)   { e.Pos = p }
func (e *FakeEntity) Orientation() float32             { return e.Orient }
func (e *FakeEntity) SetOrientation(o float32)         { e.Orient = o }
func (e *FakeEntity) Layer() geocore.LayerID           { return e.Lay }
func (e *FakeEntity) SetLayer(l geocore.LayerID)       { e.Lay = l }
func (e *FakeEntity) DestinationLayer() geocore.LayerID { return e.Lay }
func (e *FakeEntity) Geometry() geocore.GeometryInfo   { return e.Geo }
func (e *FakeEntity) Relationship(other geocore.EntityID) geocore.Relationship { return e.Rel }
func (e *FakeEntity) IsKindOf(kind string) bool        { return e.Kinds[kind] }
func (e *FakeEntity) CrusherLevel() int32              { return e.Crusher }
func (e *FakeEntity) CrushableLevel() int32            { return e.Crushable }
