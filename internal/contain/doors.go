package contain

import (
	"fmt"

	"github.com/ironveil/pathcore/internal/geocore"
)

// ErrNoDoorAvailable is returned when every door is currently reserved.
var ErrNoDoorAvailable = fmt.Errorf("contain: no door available")

// door tracks one exit slot's reservation state.
type door struct {
	reservedBy geocore.EntityID // 0 means free
	exitKind   string
}

// DoorSet is the reservable-slot bookkeeping behind reserveDoorForExit /
// exitObjectViaDoor / unreserveDoorForExit, grounded in spirit on the
// teacher's inventory slot-reservation pattern (a bounded resource
// reserved then released, never double-booked) since no example repo
// models a container's physical exit points directly.
type DoorSet struct {
	doors []door

	// frameExitNotBusy is the tick before which this container refuses
	// new reservations, used by transports with an exit delay (ramp
	// lowering, cargo bay opening, etc).
	frameExitNotBusy int64
}

// NewDoorSet allocates n exit doors, all initially free.
func NewDoorSet(n int) *DoorSet {
	return &DoorSet{doors: make([]door, n)}
}

// SetBusyUntil refuses reservations before tick.
func (d *DoorSet) SetBusyUntil(tick int64) { d.frameExitNotBusy = tick }

// ReserveDoorForExit finds a free door and marks it reserved, returning
// its index. Returns ErrNoDoorAvailable if every door is taken or the
// container is still within its exit-delay window.
func (d *DoorSet) ReserveDoorForExit(kind string, obj geocore.EntityID, currentTick int64) (int32, error) {
	if currentTick < d.frameExitNotBusy {
		return 0, ErrNoDoorAvailable
	}
	for i := range d.doors {
		if d.doors[i].reservedBy == 0 {
			d.doors[i].reservedBy = obj
			d.doors[i].exitKind = kind
			return int32(i), nil
		}
	}
	return 0, ErrNoDoorAvailable
}

// ExitObjectViaDoor validates the reservation matches obj, then frees
// the door (the move itself is the caller's responsibility — this only
// governs the reservation's lifecycle).
func (d *DoorSet) ExitObjectViaDoor(obj geocore.EntityID, doorID int32) error {
	if doorID < 0 || int(doorID) >= len(d.doors) {
		return fmt.Errorf("contain: door %d out of range", doorID)
	}
	if d.doors[doorID].reservedBy != obj {
		return fmt.Errorf("contain: door %d not reserved by entity %d", doorID, obj)
	}
	d.doors[doorID] = door{}
	return nil
}

// UnreserveDoorForExit frees a door without requiring the exit to have
// happened, used when an attempted exit is aborted.
func (d *DoorSet) UnreserveDoorForExit(doorID int32) {
	if doorID < 0 || int(doorID) >= len(d.doors) {
		return
	}
	d.doors[doorID] = door{}
}

// AnyReserved reports whether at least one door currently holds a
// reservation, used by HasObjectsWantingToEnterOrExit.
func (d *DoorSet) AnyReserved() bool {
	for _, dr := range d.doors {
		if dr.reservedBy != 0 {
			return true
		}
	}
	return false
}
