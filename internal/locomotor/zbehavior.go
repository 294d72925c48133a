package locomotor

import "github.com/ironveil/pathcore/internal/geocore"

// handleBehaviorZ computes the target Z height for one of the eight
// Z-behaviour modes and returns it alongside the lift authority
// multiplier to apply this tick. preciseZ forces strict tracking and
// bumps lift authority, used for missile terminal phase and aircraft
// takeoff/landing.
func handleBehaviorZ(tmpl *Template, terrain geocore.Terrain, pos geocore.WorldPos, layer geocore.LayerID, preciseZ bool) (targetZ, liftAuthority float32) {
	liftAuthority = 1
	if preciseZ {
		liftAuthority = 2
	}

	switch tmpl.ZBehavior {
	case geocore.ZNoMotive:
		return pos.Z, liftAuthority
	case geocore.ZSeaLevel:
		return 0, liftAuthority
	case geocore.ZSurfaceRelative:
		return terrain.GetGroundHeight(pos.X, pos.Y) + tmpl.PreferredZ, liftAuthority
	case geocore.ZAbsoluteHeight:
		return tmpl.PreferredZ, liftAuthority
	case geocore.ZFixedRelativeToGround:
		return terrain.GetGroundHeight(pos.X, pos.Y) + tmpl.PreferredZ, 1
	case geocore.ZFixedAbsolute:
		return tmpl.PreferredZ, 1
	case geocore.ZRelativeToHighestLayer:
		h := terrain.GetLayerHeight(pos.X, pos.Y, layer)
		return h + tmpl.PreferredZ, liftAuthority
	case geocore.ZSmoothRelativeToHighestLayer:
		h := terrain.GetLayerHeight(pos.X, pos.Y, layer)
		ground := terrain.GetGroundHeight(pos.X, pos.Y)
		blended := (h*3 + ground) / 4
		return blended + tmpl.PreferredZ, liftAuthority
	default:
		return pos.Z, liftAuthority
	}
}
