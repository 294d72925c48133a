package zonemgr

import "github.com/ironveil/pathcore/internal/geocore"

// floodFill labels same-type 4-connected components per layer, producing
// dense per-layer zone ids starting at 1 (0 means unassigned/impassable).
func floodFill(grid *geocore.CellGrid) map[geocore.LayerID]map[geocore.CellCoord]geocore.ZoneID {
	out := make(map[geocore.LayerID]map[geocore.CellCoord]geocore.ZoneID)
	nextID := geocore.ZoneID(1)

	for _, layer := range allLayers(grid) {
		zones := make(map[geocore.CellCoord]geocore.ZoneID)
		visited := make(map[geocore.CellCoord]bool)

		cells := layerCellCoords(layer)
		for _, start := range cells {
			if visited[start] {
				continue
			}
			cell := layer.CellAt(start)
			if cell == nil || cell.Type == geocore.CellImpassable {
				visited[start] = true
				continue
			}
			id := nextID
			nextID++
			stack := []geocore.CellCoord{start}
			visited[start] = true
			for len(stack) > 0 {
				c := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				zones[c] = id
				cc := layer.CellAt(c)
				for _, n := range neighbors4(c) {
					if visited[n] {
						continue
					}
					nc := layer.CellAt(n)
					if nc == nil || nc.Type == geocore.CellImpassable {
						continue
					}
					if nc.Type != cc.Type {
						continue
					}
					visited[n] = true
					stack = append(stack, n)
				}
			}
		}
		out[layer.ID] = zones
	}
	return out
}

func allLayers(grid *geocore.CellGrid) []*geocore.Layer {
	return grid.AllLayers()
}

func layerCellCoords(l *geocore.Layer) []geocore.CellCoord {
	var out []geocore.CellCoord
	for y := int32(0); y < l.Height; y++ {
		for x := int32(0); x < l.Width; x++ {
			out = append(out, geocore.CellCoord{X: x + l.OriginX, Y: y + l.OriginY})
		}
	}
	return out
}

// unionFind is a standard disjoint-set structure with path compression
// and union by size. Hand-rolled on the standard library: no suitable
// graph/DSU library is in reach for a single internal helper this small.
type unionFind struct {
	parent []int
	size   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), size: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
		uf.size[i] = 1
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	if x < 0 || x >= len(uf.parent) {
		return x
	}
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

func (uf *unionFind) union(a, b int) {
	if a < 0 || b < 0 || a >= len(uf.parent) || b >= len(uf.parent) {
		return
	}
	ra, rb := uf.find(a), uf.find(b)
	if ra == rb {
		return
	}
	if uf.size[ra] < uf.size[rb] {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	uf.size[ra] += uf.size[rb]
}
