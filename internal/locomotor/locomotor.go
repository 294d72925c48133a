package locomotor

import (
	"log/slog"
	"math"

	"github.com/ironveil/pathcore/internal/geocore"
)

// Locomotor drives one entity per tick: it holds the current effective
// template, the runtime-mutable caps layered on top of it, and the
// flag bitfield described for per-entity movement state.
type Locomotor struct {
	EntityID geocore.EntityID
	Template *Template
	behavior variant

	// Flags
	PreciseZ             bool
	UltraAccurate        bool
	MovingBackwards      bool
	Climbing             bool
	AllowInvalidPosition bool
	CloseEnoughIs3D      bool
	Damaged              bool

	// MaintainPos is the anchor an entity orbits or rests around once
	// it has arrived and no further path projection is pending.
	MaintainPos *geocore.WorldPos
	DonutTimer  float32

	// Runtime-mutable caps, overridable independently of the template
	// (e.g. a scripted slow-crawl order without swapping templates).
	maxSpeedOverride *float32
	turnRateOverride *float32

	lastTurn geocore.TurnDirection
}

// New creates a locomotor bound to tmpl, selecting its appearance
// behaviour once up front.
func New(entityID geocore.EntityID, tmpl *Template) *Locomotor {
	return &Locomotor{
		EntityID: entityID,
		Template: tmpl,
		behavior: newVariant(tmpl.Appearance),
	}
}

// SetTemplate swaps the effective template (e.g. a damage-state
// locomotor set change) and re-selects the appearance behaviour.
func (l *Locomotor) SetTemplate(tmpl *Template) {
	l.Template = tmpl
	l.behavior = newVariant(tmpl.Appearance)
}

// OverrideMaxSpeed caps top speed below the template's value; pass nil
// to clear the override and fall back to the template.
func (l *Locomotor) OverrideMaxSpeed(v *float32) { l.maxSpeedOverride = v }

// OverrideTurnRate mirrors OverrideMaxSpeed for turn rate.
func (l *Locomotor) OverrideTurnRate(v *float32) { l.turnRateOverride = v }

// MaxSpeedOverride returns the active speed cap, or nil if none is set.
func (l *Locomotor) MaxSpeedOverride() *float32 { return l.maxSpeedOverride }

// TurnRateOverride returns the active turn-rate cap, or nil if none is set.
func (l *Locomotor) TurnRateOverride() *float32 { return l.turnRateOverride }

// EffectiveMaxSpeed applies, in order: runtime override, damaged-speed
// selection, then the ultra-accurate escape hatch's friction boost.
func (l *Locomotor) EffectiveMaxSpeed() float32 {
	v := l.Template.EffectiveMaxSpeed(l.Damaged)
	if l.maxSpeedOverride != nil {
		v = *l.maxSpeedOverride
	}
	if l.UltraAccurate {
		v *= 1.5
	}
	return v
}

// EffectiveTurnRate mirrors EffectiveMaxSpeed for turn rate.
func (l *Locomotor) EffectiveTurnRate() float32 {
	v := l.Template.EffectiveTurnRate(l.Damaged)
	if l.turnRateOverride != nil {
		v = *l.turnRateOverride
	}
	if l.UltraAccurate {
		v *= 2
	}
	return v
}

// EffectiveLift applies the precise-Z and ultra-accurate lift-authority
// boosts on top of the template's base lift.
func (l *Locomotor) EffectiveLift() float32 {
	v := l.Template.Lift
	if l.PreciseZ {
		v *= 2
	}
	if l.UltraAccurate {
		v *= 1.5
	}
	return v
}

// closeEnough picks 2D or 3D arrival distance depending on the
// per-instance override, falling back to the template's default.
func (l *Locomotor) closeEnough(pos, goal geocore.WorldPos) bool {
	dx, dy := goal.X-pos.X, goal.Y-pos.Y
	d2 := dx*dx + dy*dy
	if l.CloseEnoughIs3D || l.Template.CloseEnoughIs3D {
		dz := goal.Z - pos.Z
		d2 += dz * dz
	}
	r := l.Template.CloseEnoughDist
	return d2 <= r*r
}

// MoveTowardsPosition steers ent toward goal at desiredSpeed, applying
// the appearance-specific force/torque model and tracking Z via the
// template's Z-behaviour mode. Returns true once the entity has arrived
// within the template's close-enough radius, at which point MaintainPos
// is set to the arrival anchor.
func (l *Locomotor) MoveTowardsPosition(ent geocore.Entity, phys geocore.Physics, terrain geocore.Terrain, goal geocore.WorldPos, desiredSpeed float32) bool {
	pos := ent.Position()
	dx, dy := goal.X-pos.X, goal.Y-pos.Y
	distToGoal := float32(math.Hypot(float64(dx), float64(dy)))

	if !l.AllowInvalidPosition && l.closeEnough(pos, goal) {
		anchor := pos
		l.MaintainPos = &anchor
		if geocore.IsDebugEnabled() {
			slog.Debug("locomotor arrived", "entity", l.EntityID, "pos", pos)
		}
		return true
	}

	targetZ, _ := handleBehaviorZ(l.Template, terrain, pos, ent.Layer(), l.PreciseZ)
	steerGoal := goal
	if !l.UltraAccurate {
		steerGoal.Z = targetZ
	}

	l.MaintainPos = nil
	l.behavior.moveTowardsPosition(l, ent, phys, steerGoal, distToGoal, desiredSpeed)
	return false
}

// MaintainCurrentPosition asks the appearance behaviour whether ent can
// be parked without further per-tick updates.
func (l *Locomotor) MaintainCurrentPosition(ent geocore.Entity, phys geocore.Physics) bool {
	return l.behavior.maintainCurrentPosition(l, ent, phys)
}

// LastTurn reports the turning direction chosen on the most recent
// MoveTowardsPosition call.
func (l *Locomotor) LastTurn() geocore.TurnDirection { return l.lastTurn }
