package locomotor

import (
	"math"

	"github.com/ironveil/pathcore/internal/geocore"
)

// angleDiff normalizes b-a into (-pi, pi].
func angleDiff(a, b float32) float32 {
	d := float64(b - a)
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d <= -math.Pi {
		d += 2 * math.Pi
	}
	return float32(d)
}

func bearingTo(from, to geocore.WorldPos) float32 {
	return float32(math.Atan2(float64(to.Y-from.Y), float64(to.X-from.X)))
}

// rotateTowardsPosition decides how a chassis should turn to face goal
// from its current orientation, given the template's per-tick turn cap.
// A three-point turn is chosen when the angular error exceeds the
// maximum single-step turn and a reverse arc is shorter. pivotOffset (see
// turnPivotOffset) shifts the chassis's effective rotation centre away
// from its reported position, so sweeping through the turn also drags
// the position sideways by the arc the offset pivot traces; the returned
// WorldPos is that drag, zero when the chassis isn't turning or has no
// pivot offset.
func rotateTowardsPosition(curOrient float32, goal, pos geocore.WorldPos, maxTurnPerTick, pivotOffset float32) (geocore.TurnDirection, float32, geocore.WorldPos) {
	target := bearingTo(pos, goal)
	err := angleDiff(curOrient, target)

	absErr := float32(math.Abs(float64(err)))
	if absErr < 1e-4 {
		return geocore.TurnNone, curOrient, geocore.WorldPos{}
	}

	reverseErr := angleDiff(curOrient+math.Pi, target)
	if absErr > maxTurnPerTick && float32(math.Abs(float64(reverseErr))) < absErr {
		return geocore.TurnThreePoint, curOrient, geocore.WorldPos{}
	}

	step := maxTurnPerTick
	if absErr < step {
		step = absErr
	}
	dir := geocore.TurnLeft
	if err < 0 {
		step = -step
		dir = geocore.TurnRight
	}
	newOrient := wrapAngle(curOrient + step)
	return dir, newOrient, pivotSweep(curOrient, step, pivotOffset)
}

// pivotSweep returns the lateral position drag caused by rotating by
// step radians about a centre pivotOffset away from the chassis's
// reported position, along the perpendicular of the pre-turn heading.
func pivotSweep(curOrient, step, pivotOffset float32) geocore.WorldPos {
	if pivotOffset == 0 {
		return geocore.WorldPos{}
	}
	chord := pivotOffset * float32(math.Sin(float64(step)))
	lateral := curOrient + math.Pi/2
	return geocore.WorldPos{
		X: chord * float32(math.Cos(float64(lateral))),
		Y: chord * float32(math.Sin(float64(lateral))),
	}
}

func wrapAngle(a float32) float32 {
	d := float64(a)
	for d > math.Pi {
		d -= 2 * math.Pi
	}
	for d <= -math.Pi {
		d += 2 * math.Pi
	}
	return float32(d)
}

// turnPivotOffset shifts the effective rotation centre between the rear
// (-1) and the front (+1) of the chassis, used by treads/wheels when
// computing the swept arc during a turn.
func turnPivotOffset(tmpl *Template, halfLength float32) float32 {
	return tmpl.TurnPivotOffset * halfLength
}
