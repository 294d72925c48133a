package geocore

import "testing"

// BenchmarkOccupancyUpdatePos measures the per-tick cost of restamping a
// moving entity's position cells, the hottest occupancy call since every
// tracked unit calls it once per tick.
func BenchmarkOccupancyUpdatePos(b *testing.B) {
	pf := newFlatPathfinderB(b, 200, 200)
	occ := pf.Occ

	b.Run("SingleCell", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()
		for i := range b.N {
			pos := CellCoord{X: int32(i%190) + 5, Y: int32((i/190)%190) + 5}
			occ.UpdatePos(EntityID(1), GroundLayer, pos, 1)
		}
	})

	b.Run("TwoCellDiameter", func(b *testing.B) {
		b.ReportAllocs()
		b.ResetTimer()
		for i := range b.N {
			pos := CellCoord{X: int32(i%190) + 5, Y: int32((i/190)%190) + 5}
			occ.UpdatePos(EntityID(2), GroundLayer, pos, 2)
		}
	})
}

// BenchmarkOccupancyUpdateGoal measures goal restamping, exercised once
// per path recalculation rather than once per tick.
func BenchmarkOccupancyUpdateGoal(b *testing.B) {
	pf := newFlatPathfinderB(b, 200, 200)
	occ := pf.Occ

	b.ReportAllocs()
	b.ResetTimer()
	for i := range b.N {
		pos := CellCoord{X: int32(i%190) + 5, Y: int32((i/190)%190) + 5}
		occ.UpdateGoal(EntityID(3), GroundLayer, pos, 1)
	}
}

// BenchmarkOccupancyClearEntity measures the teardown path, which must
// walk and clear every tracked stamp set (pos, goal, aircraft goal) for
// the departing entity.
func BenchmarkOccupancyClearEntity(b *testing.B) {
	pf := newFlatPathfinderB(b, 200, 200)
	occ := pf.Occ

	b.ReportAllocs()
	b.ResetTimer()
	for i := range b.N {
		pos := CellCoord{X: int32(i%190) + 5, Y: int32((i/190)%190) + 5}
		occ.UpdatePos(EntityID(4), GroundLayer, pos, 1)
		occ.UpdateGoal(EntityID(4), GroundLayer, pos, 1)
		occ.UpdateAircraftGoal(EntityID(4), GroundLayer, pos, 1)
		occ.ClearEntity(EntityID(4))
	}
}
