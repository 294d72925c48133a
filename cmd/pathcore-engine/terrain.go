package main

import "github.com/ironveil/pathcore/internal/geocore"

// flatTerrain is the minimal Terrain implementation for a single-layer,
// all-clear map: no water, no cliffs, no bridges. A real deployment
// supplies its own Terrain backed by loaded heightmap/geodata.
type flatTerrain struct {
	width, height int32
}

func (t flatTerrain) GetLayerHeight(x, y float32, layer geocore.LayerID) float32 { return 0 }
func (t flatTerrain) GetGroundHeight(x, y float32) float32                      { return 0 }
func (t flatTerrain) IsUnderwater(x, y float32) bool                            { return false }
func (t flatTerrain) IsCliffCell(x, y float32) bool                            { return false }
func (t flatTerrain) GetLayerForDestination(pos geocore.WorldPos) geocore.LayerID {
	return geocore.GroundLayer
}
func (t flatTerrain) GetHighestLayerForDestination(pos geocore.WorldPos, onlyHealthy bool) geocore.LayerID {
	return geocore.GroundLayer
}
func (t flatTerrain) ObjectInteractsWithBridge(entity geocore.EntityID, layer geocore.LayerID) bool {
	return false
}
func (t flatTerrain) GetExtent() (int32, int32)               { return t.width, t.height }
func (t flatTerrain) GetMaximumPathfindExtent() (int32, int32) { return t.width, t.height }
