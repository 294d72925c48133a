package locomotor

import (
	"math"

	"github.com/ironveil/pathcore/internal/geocore"
)

// variant is the per-appearance movement behaviour. Mirrors the
// teacher's newTypedZone dispatch (zone/manager.go): one small struct
// per kind, selected once by a type switch rather than re-dispatched
// every tick.
type variant interface {
	moveTowardsPosition(loc *Locomotor, ent geocore.Entity, phys geocore.Physics, goal geocore.WorldPos, distToGoal, desiredSpeed float32)
	maintainCurrentPosition(loc *Locomotor, ent geocore.Entity, phys geocore.Physics) bool
}

// newVariant picks the behaviour for a template's appearance.
func newVariant(a geocore.Appearance) variant {
	switch a {
	case geocore.AppearanceLegs:
		return legsVariant{}
	case geocore.AppearanceWheels:
		return wheelsVariant{}
	case geocore.AppearanceTreads:
		return treadsVariant{}
	case geocore.AppearanceHover:
		return hoverVariant{}
	case geocore.AppearanceThrust:
		return thrustVariant{}
	case geocore.AppearanceWings:
		return wingsVariant{}
	case geocore.AppearanceClimber:
		return climberVariant{}
	default:
		return otherVariant{}
	}
}

// seekForce returns a force vector of magnitude speed pointed from pos
// toward goal, the common steering primitive every ground-resting
// variant builds on.
func seekForce(pos, goal geocore.WorldPos, speed float32) geocore.WorldPos {
	dx, dy := goal.X-pos.X, goal.Y-pos.Y
	dist := float32(math.Hypot(float64(dx), float64(dy)))
	if dist < 1e-4 {
		return geocore.WorldPos{}
	}
	return geocore.WorldPos{X: dx / dist * speed, Y: dy / dist * speed}
}

// brakingSpeed applies linear slow-down inside twice the template's
// close-enough radius, unless no-slow-down-as-approaching-dest is set.
func brakingSpeed(tmpl *Template, desired, distToGoal float32) float32 {
	if tmpl.NoSlowDownAsApproachingDest || tmpl.Braking <= 0 {
		return desired
	}
	if distToGoal >= tmpl.CloseEnoughDist*2 {
		return desired
	}
	frac := distToGoal / (tmpl.CloseEnoughDist * 2)
	if frac < 0.1 {
		frac = 0.1
	}
	return desired * frac
}

// groundSteer is the shared ground-resting steer-and-apply step used by
// legs, wheels, treads and climbers: rotate toward the goal, then push
// forward at the turn-limited, braking-adjusted speed. pivotOffset is
// nonzero only for chassis kinds whose turn sweeps an off-centre pivot
// (treads, wheels); legs/climbers/other pass 0 and get no sideways drag.
func groundSteer(loc *Locomotor, ent geocore.Entity, phys geocore.Physics, goal geocore.WorldPos, distToGoal, desiredSpeed, pivotOffset float32) {
	tmpl := loc.Template
	maxTurn := loc.EffectiveTurnRate()
	dir, newOrient, drag := rotateTowardsPosition(ent.Orientation(), goal, ent.Position(), maxTurn, pivotOffset)
	loc.lastTurn = dir
	ent.SetOrientation(newOrient)
	if drag.X != 0 || drag.Y != 0 {
		p := ent.Position()
		ent.SetPosition(geocore.WorldPos{X: p.X + drag.X, Y: p.Y + drag.Y, Z: p.Z})
	}

	speed := brakingSpeed(tmpl, desiredSpeed, distToGoal)
	if maxSpeed := loc.EffectiveMaxSpeed(); speed > maxSpeed {
		speed = maxSpeed
	}
	force := seekForce(ent.Position(), goal, speed*tmpl.Acceleration)
	phys.ApplyMotiveForce(force)
}

// trackedPivotOffset returns the chassis's turn-pivot offset scaled by
// its half-length, for chassis kinds whose rotation centre isn't fixed
// at their reported position.
func trackedPivotOffset(tmpl *Template, ent geocore.Entity) float32 {
	return turnPivotOffset(tmpl, ent.Geometry().BoundingRadius)
}

type legsVariant struct{}

func (legsVariant) moveTowardsPosition(loc *Locomotor, ent geocore.Entity, phys geocore.Physics, goal geocore.WorldPos, distToGoal, desiredSpeed float32) {
	groundSteer(loc, ent, phys, goal, distToGoal, desiredSpeed, 0)
}

func (legsVariant) maintainCurrentPosition(loc *Locomotor, ent geocore.Entity, phys geocore.Physics) bool {
	phys.ScrubVelocity2D(0.1)
	return true
}

type wheelsVariant struct{}

func (wheelsVariant) moveTowardsPosition(loc *Locomotor, ent geocore.Entity, phys geocore.Physics, goal geocore.WorldPos, distToGoal, desiredSpeed float32) {
	groundSteer(loc, ent, phys, goal, distToGoal, desiredSpeed, trackedPivotOffset(loc.Template, ent))
}

func (wheelsVariant) maintainCurrentPosition(loc *Locomotor, ent geocore.Entity, phys geocore.Physics) bool {
	phys.ScrubVelocity2D(0.1)
	return true
}

type treadsVariant struct{}

func (treadsVariant) moveTowardsPosition(loc *Locomotor, ent geocore.Entity, phys geocore.Physics, goal geocore.WorldPos, distToGoal, desiredSpeed float32) {
	groundSteer(loc, ent, phys, goal, distToGoal, desiredSpeed, trackedPivotOffset(loc.Template, ent))
}

func (treadsVariant) maintainCurrentPosition(loc *Locomotor, ent geocore.Entity, phys geocore.Physics) bool {
	phys.ScrubVelocity2D(0.1)
	return true
}

type climberVariant struct{}

func (climberVariant) moveTowardsPosition(loc *Locomotor, ent geocore.Entity, phys geocore.Physics, goal geocore.WorldPos, distToGoal, desiredSpeed float32) {
	loc.Climbing = goal.Z-ent.Position().Z > 1
	groundSteer(loc, ent, phys, goal, distToGoal, desiredSpeed, 0)
}

func (climberVariant) maintainCurrentPosition(loc *Locomotor, ent geocore.Entity, phys geocore.Physics) bool {
	phys.ScrubVelocity2D(0.1)
	return true
}

// hoverVariant never truly rests: it must offset gravity every tick to
// hold altitude, so maintainCurrentPosition always reports false.
type hoverVariant struct{}

func (hoverVariant) moveTowardsPosition(loc *Locomotor, ent geocore.Entity, phys geocore.Physics, goal geocore.WorldPos, distToGoal, desiredSpeed float32) {
	tmpl := loc.Template
	speed := brakingSpeed(tmpl, desiredSpeed, distToGoal)
	force := seekForce(ent.Position(), goal, speed*tmpl.Acceleration)
	force.Z = loc.EffectiveLift()
	phys.ApplyMotiveForce(force)
}

func (hoverVariant) maintainCurrentPosition(loc *Locomotor, ent geocore.Entity, phys geocore.Physics) bool {
	phys.ApplyMotiveForce(geocore.WorldPos{Z: loc.EffectiveLift()})
	return false
}

// thrustVariant and wingsVariant orbit their anchor rather than coming
// to rest; "maintain" for them means circling the maintain-position
// point at a fixed radius using the donut timer as phase.
type thrustVariant struct{}

func (thrustVariant) moveTowardsPosition(loc *Locomotor, ent geocore.Entity, phys geocore.Physics, goal geocore.WorldPos, distToGoal, desiredSpeed float32) {
	tmpl := loc.Template
	force := seekForce(ent.Position(), goal, desiredSpeed*tmpl.Acceleration)
	force.Z = loc.EffectiveLift()
	phys.ApplyMotiveForce(force)
}

func (thrustVariant) maintainCurrentPosition(loc *Locomotor, ent geocore.Entity, phys geocore.Physics) bool {
	orbit(loc, ent, phys)
	return false
}

type wingsVariant struct{}

func (wingsVariant) moveTowardsPosition(loc *Locomotor, ent geocore.Entity, phys geocore.Physics, goal geocore.WorldPos, distToGoal, desiredSpeed float32) {
	tmpl := loc.Template
	force := seekForce(ent.Position(), goal, desiredSpeed*tmpl.Acceleration)
	force.Z = loc.EffectiveLift()
	phys.ApplyMotiveForce(force)
}

func (wingsVariant) maintainCurrentPosition(loc *Locomotor, ent geocore.Entity, phys geocore.Physics) bool {
	orbit(loc, ent, phys)
	return false
}

// orbit circles the maintain-position anchor; the donut timer tracks
// phase so consecutive ticks sweep a continuous arc rather than jumping.
func orbit(loc *Locomotor, ent geocore.Entity, phys geocore.Physics) {
	if loc.MaintainPos == nil {
		return
	}
	const radius = float32(geocore.CellSize) * 2
	loc.DonutTimer += 0.05
	anchor := *loc.MaintainPos
	goal := geocore.WorldPos{
		X: anchor.X + radius*float32(math.Cos(float64(loc.DonutTimer))),
		Y: anchor.Y + radius*float32(math.Sin(float64(loc.DonutTimer))),
		Z: anchor.Z,
	}
	tmpl := loc.Template
	force := seekForce(ent.Position(), goal, tmpl.MaxSpeed*0.5*tmpl.Acceleration)
	force.Z = loc.EffectiveLift()
	phys.ApplyMotiveForce(force)
}

type otherVariant struct{}

func (otherVariant) moveTowardsPosition(loc *Locomotor, ent geocore.Entity, phys geocore.Physics, goal geocore.WorldPos, distToGoal, desiredSpeed float32) {
	groundSteer(loc, ent, phys, goal, distToGoal, desiredSpeed, 0)
}

func (otherVariant) maintainCurrentPosition(loc *Locomotor, ent geocore.Entity, phys geocore.Physics) bool {
	phys.ScrubVelocity2D(0.1)
	return true
}
