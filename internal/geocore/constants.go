package geocore

// Cell edge length in world units. World coordinates floor-divide by this
// to produce cell indices.
const CellSize = 16

// Integer-scaled movement costs, matching PathfindCell::getCostToGoal's
// orthogonal/diagonal convention.
const (
	CostOrthogonal = 10
	CostDiagonal   = 14
)

// Direction-change penalties applied when the parent cell's incoming
// direction differs from the candidate's.
const (
	TurnPenalty45  = 4
	TurnPenalty90  = 8
	TurnPenalty135 = 16
)

// Ally-occupancy penalties.
const (
	AllyMovingPenalty = 3 * CostDiagonal
)

// Pinched cells cost an extra orthogonal step to discourage hugging
// cliff-adjacent terrain.
const PinchPenalty = CostOrthogonal

// Default cell-count budgets per search variant.
const (
	BudgetDefault          = 1000
	BudgetDestinationAdjust = 500
	BudgetAttackPath        = 2000
	BudgetPatchPath         = 2500
)

// CellInfoPoolSize bounds the number of CellInfo records live at once,
// matching the MAX_CELL_INFOS-style bound referenced by the original
// engine.
const CellInfoPoolSize = 30000

// Coarse ZoneBlock edge length in cells.
const ZoneBlockSize = 10

// CellType classifies a grid cell's terrain.
type CellType uint8

const (
	CellClear CellType = iota
	CellWater
	CellCliff
	CellObstacle
	CellImpassable
	CellRubble
)

// OccupancyFlag is the exhaustive state machine described for per-cell
// position/goal bookkeeping.
type OccupancyFlag uint8

const (
	OccNone OccupancyFlag = iota
	OccGoal
	OccPresentMoving
	OccPresentFixed
	OccGoalOtherMoving
)

// LayerID identifies a named layer: 0 is always ground.
type LayerID uint16

const GroundLayer LayerID = 0

// ZoneID is assigned by terrain flood-fill; 0 means "unassigned".
type ZoneID uint16

// EntityID identifies an external collaborator entity. 0 means "none".
type EntityID uint32

// Mobility bitset used to select an effective-zone equivalence table.
type Mobility uint8

const (
	MobilityGround Mobility = 1 << iota
	MobilityWater
	MobilityCliff
	MobilityRubble
	MobilityCrusher
	MobilityAir
	MobilityHierarchical
	// MobilityDownhill restricts a search to neighbours at or below the
	// current cell's height: a downhill-only chassis may never step
	// upslope.
	MobilityDownhill
)

// Appearance selects which locomotor variant drives an entity's movement.
// Lives in geocore rather than internal/locomotor because the AI
// collaborator interface (external.go) must report it without locomotor
// importing geocore's own collaborator package back.
type Appearance uint8

const (
	AppearanceLegs Appearance = iota
	AppearanceWheels
	AppearanceTreads
	AppearanceHover
	AppearanceThrust
	AppearanceWings
	AppearanceClimber
	AppearanceOther
)

// ZBehavior selects how a locomotor tracks its target height.
type ZBehavior uint8

const (
	ZNoMotive ZBehavior = iota
	ZSeaLevel
	ZSurfaceRelative
	ZAbsoluteHeight
	ZFixedRelativeToGround
	ZFixedAbsolute
	ZRelativeToHighestLayer
	ZSmoothRelativeToHighestLayer
)
