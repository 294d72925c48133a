package geocore

import "testing"

func TestWorldToCellCellCenterRoundTrip(t *testing.T) {
	for _, c := range []CellCoord{{0, 0}, {5, 5}, {-3, 7}, {199, 199}} {
		center := CellCenter(c)
		got := WorldToCell(WorldPos{X: center.X, Y: center.Y})
		if got != c {
			t.Fatalf("worldToCell(cellCenter(%v)) = %v, want %v", c, got, c)
		}
	}
}

func TestFloorDivNegative(t *testing.T) {
	if got := floorDiv(-1, 16); got != -1 {
		t.Fatalf("floorDiv(-1,16) = %d, want -1", got)
	}
	if got := floorDiv(-16, 16); got != -1 {
		t.Fatalf("floorDiv(-16,16) = %d, want -1", got)
	}
	if got := floorDiv(-17, 16); got != -2 {
		t.Fatalf("floorDiv(-17,16) = %d, want -2", got)
	}
}
