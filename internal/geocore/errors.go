package geocore

import "errors"

// Error kinds naming the core's failure modes. No function in this
// package returns them: the search variants report every failure as a
// false ok, so the kind of a failure is not recoverable via errors.Is.
var (
	// ErrOutOfBudget names a search that reached its cell-count budget
	// before the goal with ClosestOK false.
	ErrOutOfBudget = errors.New("geocore: search exceeded cell budget")

	// ErrUnreachableByZone names a rejection by the O(1) zone pre-filter.
	ErrUnreachableByZone = errors.New("geocore: start and goal are not zone-reachable")

	// ErrInvalidDestination covers an off-map or terrain-invalid goal
	// cell that adjustToPossibleDestination could not repair.
	ErrInvalidDestination = errors.New("geocore: destination cell is invalid for this mobility")

	// ErrOccupancyCollision covers a destination already claimed as
	// another unit's goal and not crushable.
	ErrOccupancyCollision = errors.New("geocore: destination cell is occupied")
)
