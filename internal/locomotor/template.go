// Package locomotor drives per-entity kinematic movement: steering an
// entity's physics inputs toward a path projection, tracking a target Z
// height, and deciding when an entity can rest versus needing a per-tick
// update to hold station.
package locomotor

import "github.com/ironveil/pathcore/internal/geocore"

// Template holds the immutable per-appearance parameters shared by every
// entity built with the same locomotor kind: one struct of tunables,
// loaded by name from a store.
type Template struct {
	Name       string
	Appearance geocore.Appearance
	ZBehavior  geocore.ZBehavior

	MaxSpeed        float32
	MaxSpeedDamaged float32
	Acceleration    float32
	Braking         float32
	Lift            float32

	TurnRate        float32
	TurnRateDamaged float32
	TurnPivotOffset float32 // -1..+1, shifts rotation centre rear<->front

	PitchCoefficient float32
	RollCoefficient  float32

	PreferredZ float32

	CloseEnoughDist float32
	CloseEnoughIs3D bool

	NoSlowDownAsApproachingDest bool

	SuspensionStiffness float32
	WanderWidthFactor   float32
	WanderLengthFactor  float32
}

// EffectiveMaxSpeed returns MaxSpeedDamaged when damaged is true, else
// MaxSpeed. Damaged-value selection is threshold, not interpolated.
func (t *Template) EffectiveMaxSpeed(damaged bool) float32 {
	if damaged && t.MaxSpeedDamaged > 0 {
		return t.MaxSpeedDamaged
	}
	return t.MaxSpeed
}

// EffectiveTurnRate mirrors EffectiveMaxSpeed for turn rate.
func (t *Template) EffectiveTurnRate(damaged bool) float32 {
	if damaged && t.TurnRateDamaged > 0 {
		return t.TurnRateDamaged
	}
	return t.TurnRate
}
