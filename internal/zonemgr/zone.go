// Package zonemgr computes terrain zones and their per-mobility
// equivalence classes so reachability queries run in O(1) instead of a
// full A* search: index once, query cheaply, via union-find equivalence
// classes over a CellGrid.
package zonemgr

import (
	"log/slog"

	"github.com/ironveil/pathcore/internal/geocore"
)

// Table selects one of the five equivalence classes a raw zone may
// collapse into, per mobility bitset.
type Table int

const (
	TableGroundCliff Table = iota
	TableGroundWater
	TableGroundRubble
	TableCrusher
	TableHierarchical
	tableCount
)

// Manager computes and serves zone reachability for a CellGrid. Its
// lifecycle mirrors the grid's: Recompute must run whenever the grid
// reports Dirty().
type Manager struct {
	grid *geocore.CellGrid

	raw map[geocore.LayerID]map[geocore.CellCoord]geocore.ZoneID

	equiv [tableCount]*unionFind

	blocks *BlockIndex
}

// NewManager binds a zone manager to a grid. Call Recompute once before
// the first reachability query.
func NewManager(grid *geocore.CellGrid) *Manager {
	return &Manager{
		grid: grid,
		raw:  make(map[geocore.LayerID]map[geocore.CellCoord]geocore.ZoneID),
	}
}

// Recompute runs the two-pass flood: pass 1 labels same-type 4-connected
// components per layer, pass 2 unions cross-type adjacency into five
// equivalence arrays plus bridge-endpoint unions.
func (m *Manager) Recompute() {
	m.raw = floodFill(m.grid)

	counts := make(map[geocore.ZoneID]bool)
	for _, layerZones := range m.raw {
		for _, z := range layerZones {
			counts[z] = true
		}
	}
	maxZone := geocore.ZoneID(0)
	for z := range counts {
		if z > maxZone {
			maxZone = z
		}
	}
	for i := range m.equiv {
		m.equiv[i] = newUnionFind(int(maxZone) + 1)
	}

	m.unionAdjacency()
	m.unionBridgeEndpoints()

	m.blocks = buildBlockIndex(m.grid, m.raw)

	m.grid.ClearDirty()
	if geocore.IsDebugEnabled() {
		slog.Debug("zonemgr: recomputed", "zones", len(counts))
	}
}

// ZoneOf returns the raw (pre-equivalence) zone id for a cell, or 0 if
// unassigned.
func (m *Manager) ZoneOf(layer geocore.LayerID, c geocore.CellCoord) geocore.ZoneID {
	layerZones, ok := m.raw[layer]
	if !ok {
		return 0
	}
	return layerZones[c]
}

// EffectiveZone returns the canonical zone in the equivalence class
// matching mobility. Air short-circuits to 1; ground+water+cliff
// short-circuits to 1 (universal terrain).
func (m *Manager) EffectiveZone(mobility geocore.Mobility, raw geocore.ZoneID) geocore.ZoneID {
	if mobility&geocore.MobilityAir != 0 {
		return 1
	}
	if mobility&(geocore.MobilityGround|geocore.MobilityWater|geocore.MobilityCliff) ==
		(geocore.MobilityGround | geocore.MobilityWater | geocore.MobilityCliff) {
		return 1
	}
	table := m.tableFor(mobility)
	if m.equiv[table] == nil {
		return raw
	}
	return geocore.ZoneID(m.equiv[table].find(int(raw)))
}

func (m *Manager) tableFor(mobility geocore.Mobility) Table {
	switch {
	case mobility&geocore.MobilityHierarchical != 0:
		return TableHierarchical
	case mobility&geocore.MobilityCrusher != 0:
		return TableCrusher
	case mobility&geocore.MobilityRubble != 0:
		return TableGroundRubble
	case mobility&geocore.MobilityWater != 0:
		return TableGroundWater
	case mobility&geocore.MobilityCliff != 0:
		return TableGroundCliff
	default:
		return TableGroundCliff
	}
}

func (m *Manager) unionAdjacency() {
	for layer, zones := range m.raw {
		l := m.grid.Layer(layer)
		if l == nil {
			continue
		}
		for c, z := range zones {
			cell := l.CellAt(c)
			if cell == nil {
				continue
			}
			for _, n := range neighbors4(c) {
				nz, ok := zones[n]
				if !ok || nz == z {
					continue
				}
				ncell := l.CellAt(n)
				if ncell == nil {
					continue
				}
				m.maybeUnion(cell, ncell, z, nz)
			}
		}
	}
}

func (m *Manager) maybeUnion(a, b *geocore.Cell, za, zb geocore.ZoneID) {
	// hierarchical always unions everything adjacent
	m.equiv[TableHierarchical].union(int(za), int(zb))

	crossable := func(t1, t2 geocore.CellType, want1, want2 geocore.CellType) bool {
		return (t1 == want1 && t2 == want2) || (t1 == want2 && t2 == want1)
	}

	if crossable(a.Type, b.Type, geocore.CellWater, geocore.CellClear) {
		m.equiv[TableGroundWater].union(int(za), int(zb))
	}
	if crossable(a.Type, b.Type, geocore.CellCliff, geocore.CellClear) {
		m.equiv[TableGroundCliff].union(int(za), int(zb))
	}
	if crossable(a.Type, b.Type, geocore.CellRubble, geocore.CellClear) {
		m.equiv[TableGroundRubble].union(int(za), int(zb))
	}
	// crusher-crossable fence <-> ground
	if (a.Type == geocore.CellObstacle && a.Info() != nil && a.Info().ObstacleIsFence && b.Type == geocore.CellClear) ||
		(b.Type == geocore.CellObstacle && b.Info() != nil && b.Info().ObstacleIsFence && a.Type == geocore.CellClear) {
		m.equiv[TableCrusher].union(int(za), int(zb))
	}
	if a.Type == geocore.CellClear && b.Type == geocore.CellClear {
		m.equiv[TableGroundCliff].union(int(za), int(zb))
		m.equiv[TableGroundWater].union(int(za), int(zb))
		m.equiv[TableGroundRubble].union(int(za), int(zb))
		m.equiv[TableCrusher].union(int(za), int(zb))
	}
}

// unionBridgeEndpoints unions each bridge layer's single canonical zone
// (the zone at its StartCell) with the ground zone at its EndCell. Only
// that one ground cell is joined; a layer records no second endpoint.
func (m *Manager) unionBridgeEndpoints() {
	for layer := range m.raw {
		l := m.grid.Layer(layer)
		if l == nil || !l.HasEndpoints || l.Destroyed {
			continue
		}
		layerZone := m.ZoneOf(l.ID, l.StartCell)
		groundZone := m.ZoneOf(geocore.GroundLayer, l.EndCell)
		for i := range m.equiv {
			m.equiv[i].union(int(layerZone), int(groundZone))
		}
	}
}

// HierarchicalReachable runs the coarse ZoneBlock graph check: it
// succeeds iff the detailed search could possibly succeed.
func (m *Manager) HierarchicalReachable(mobility geocore.Mobility, a, b geocore.CellCoord) bool {
	if m.blocks == nil {
		return true
	}
	return m.blocks.Reachable(m, mobility, a, b)
}

func neighbors4(c geocore.CellCoord) [4]geocore.CellCoord {
	return [4]geocore.CellCoord{
		{X: c.X, Y: c.Y - 1}, {X: c.X - 1, Y: c.Y}, {X: c.X + 1, Y: c.Y}, {X: c.X, Y: c.Y + 1},
	}
}
