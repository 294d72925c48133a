package zonemgr

import "github.com/ironveil/pathcore/internal/geocore"

// BlockIndex is the coarse B×B ZoneBlock graph used to prophylactically
// reject a detailed search before it runs: if neighbouring blocks don't
// share an effective zone at a gateway cell, the detailed A* cannot
// possibly connect them either.
type BlockIndex struct {
	blockZone map[geocore.CellCoord]geocore.ZoneID // ground-layer block coord -> block-local zone
	adjacency map[geocore.CellCoord]map[geocore.CellCoord]bool
}

func buildBlockIndex(grid *geocore.CellGrid, raw map[geocore.LayerID]map[geocore.CellCoord]geocore.ZoneID) *BlockIndex {
	idx := &BlockIndex{
		blockZone: make(map[geocore.CellCoord]geocore.ZoneID),
		adjacency: make(map[geocore.CellCoord]map[geocore.CellCoord]bool),
	}
	groundZones := raw[geocore.GroundLayer]
	l := grid.Ground

	for y := int32(0); y < l.Height; y++ {
		for x := int32(0); x < l.Width; x++ {
			c := geocore.CellCoord{X: x + l.OriginX, Y: y + l.OriginY}
			z, ok := groundZones[c]
			if !ok {
				continue
			}
			block := geocore.BlockCoord(c)
			if _, seen := idx.blockZone[block]; !seen {
				idx.blockZone[block] = z
			}
		}
	}

	// Gateways: every cell on a block edge whose 4-neighbour across the
	// edge shares the same raw zone, not only side-centre cells.
	for y := int32(0); y < l.Height; y++ {
		for x := int32(0); x < l.Width; x++ {
			c := geocore.CellCoord{X: x + l.OriginX, Y: y + l.OriginY}
			z, ok := groundZones[c]
			if !ok {
				continue
			}
			block := geocore.BlockCoord(c)
			for _, n := range neighbors4(c) {
				nz, ok := groundZones[n]
				if !ok || nz != z {
					continue
				}
				nBlock := geocore.BlockCoord(n)
				if nBlock == block {
					continue
				}
				if idx.adjacency[block] == nil {
					idx.adjacency[block] = make(map[geocore.CellCoord]bool)
				}
				idx.adjacency[block][nBlock] = true
			}
		}
	}
	return idx
}

// Reachable performs a BFS over block-adjacency gated by the caller's
// mobility equivalence, from a's block to b's block.
func (idx *BlockIndex) Reachable(m *Manager, mobility geocore.Mobility, a, b geocore.CellCoord) bool {
	startBlock := geocore.BlockCoord(a)
	goalBlock := geocore.BlockCoord(b)
	if startBlock == goalBlock {
		return true
	}

	startZone := m.EffectiveZone(mobility, idx.blockZone[startBlock])
	goalZone := m.EffectiveZone(mobility, idx.blockZone[goalBlock])
	if startZone != goalZone {
		return false
	}

	visited := map[geocore.CellCoord]bool{startBlock: true}
	queue := []geocore.CellCoord{startBlock}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == goalBlock {
			return true
		}
		for next := range idx.adjacency[cur] {
			if visited[next] {
				continue
			}
			if m.EffectiveZone(mobility, idx.blockZone[next]) != startZone {
				continue
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}
	return visited[goalBlock]
}
