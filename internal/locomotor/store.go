package locomotor

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ironveil/pathcore/internal/geocore"
)

// templateYAML mirrors Template with YAML tags; kept separate so
// Template itself stays free of serialization concerns used only at
// load time. Grounded on internal/config/gameserver.go's tagged-struct
// + Default*() convention.
type templateYAML struct {
	Name                        string  `yaml:"name"`
	Appearance                  string  `yaml:"appearance"`
	ZBehavior                   string  `yaml:"z_behavior"`
	MaxSpeed                    float32 `yaml:"max_speed"`
	MaxSpeedDamaged             float32 `yaml:"max_speed_damaged"`
	Acceleration                float32 `yaml:"acceleration"`
	Braking                     float32 `yaml:"braking"`
	Lift                        float32 `yaml:"lift"`
	TurnRate                    float32 `yaml:"turn_rate"`
	TurnRateDamaged             float32 `yaml:"turn_rate_damaged"`
	TurnPivotOffset             float32 `yaml:"turn_pivot_offset"`
	PitchCoefficient            float32 `yaml:"pitch_coefficient"`
	RollCoefficient             float32 `yaml:"roll_coefficient"`
	PreferredZ                  float32 `yaml:"preferred_z"`
	CloseEnoughDist             float32 `yaml:"close_enough_dist"`
	CloseEnoughIs3D             bool    `yaml:"close_enough_is_3d"`
	NoSlowDownAsApproachingDest bool    `yaml:"no_slow_down_as_approaching_dest"`
	SuspensionStiffness         float32 `yaml:"suspension_stiffness"`
	WanderWidthFactor           float32 `yaml:"wander_width_factor"`
	WanderLengthFactor          float32 `yaml:"wander_length_factor"`
}

var appearanceByName = map[string]geocore.Appearance{
	"legs":    geocore.AppearanceLegs,
	"wheels":  geocore.AppearanceWheels,
	"treads":  geocore.AppearanceTreads,
	"hover":   geocore.AppearanceHover,
	"thrust":  geocore.AppearanceThrust,
	"wings":   geocore.AppearanceWings,
	"climber": geocore.AppearanceClimber,
	"other":   geocore.AppearanceOther,
}

var zBehaviorByName = map[string]geocore.ZBehavior{
	"no-motive":                        geocore.ZNoMotive,
	"sea-level":                        geocore.ZSeaLevel,
	"surface-relative-height":          geocore.ZSurfaceRelative,
	"absolute-height":                  geocore.ZAbsoluteHeight,
	"fixed-relative-to-ground":         geocore.ZFixedRelativeToGround,
	"fixed-absolute":                   geocore.ZFixedAbsolute,
	"relative-to-highest-layer":        geocore.ZRelativeToHighestLayer,
	"smooth-relative-to-highest-layer": geocore.ZSmoothRelativeToHighestLayer,
}

func (t templateYAML) toTemplate() (*Template, error) {
	app, ok := appearanceByName[t.Appearance]
	if !ok {
		return nil, fmt.Errorf("locomotor: unknown appearance %q in template %q", t.Appearance, t.Name)
	}
	zb, ok := zBehaviorByName[t.ZBehavior]
	if !ok {
		return nil, fmt.Errorf("locomotor: unknown z_behavior %q in template %q", t.ZBehavior, t.Name)
	}
	return &Template{
		Name:                        t.Name,
		Appearance:                  app,
		ZBehavior:                   zb,
		MaxSpeed:                    t.MaxSpeed,
		MaxSpeedDamaged:             t.MaxSpeedDamaged,
		Acceleration:                t.Acceleration,
		Braking:                     t.Braking,
		Lift:                        t.Lift,
		TurnRate:                    t.TurnRate,
		TurnRateDamaged:             t.TurnRateDamaged,
		TurnPivotOffset:             t.TurnPivotOffset,
		PitchCoefficient:            t.PitchCoefficient,
		RollCoefficient:             t.RollCoefficient,
		PreferredZ:                  t.PreferredZ,
		CloseEnoughDist:             t.CloseEnoughDist,
		CloseEnoughIs3D:             t.CloseEnoughIs3D,
		NoSlowDownAsApproachingDest: t.NoSlowDownAsApproachingDest,
		SuspensionStiffness:         t.SuspensionStiffness,
		WanderWidthFactor:           t.WanderWidthFactor,
		WanderLengthFactor:          t.WanderLengthFactor,
	}, nil
}

// Store holds every loaded template keyed by name.
type Store struct {
	templates map[string]*Template
}

// NewStore returns an empty store seeded with DefaultTemplates.
func NewStore() *Store {
	s := &Store{templates: make(map[string]*Template)}
	for _, t := range DefaultTemplates() {
		s.templates[t.Name] = t
	}
	return s
}

// Get looks up a template by name.
func (s *Store) Get(name string) (*Template, bool) {
	t, ok := s.templates[name]
	return t, ok
}

// Put registers or overwrites a template.
func (s *Store) Put(t *Template) { s.templates[t.Name] = t }

// Names returns every template name currently registered, for callers
// that need to enumerate the store (e.g. persisting it whole).
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.templates))
	for name := range s.templates {
		names = append(names, name)
	}
	return names
}

// LoadFile reads a YAML document of named templates and merges them
// into the store, overwriting any default of the same name. If path
// does not exist the store is left holding just its defaults.
func (s *Store) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("locomotor: reading template file %s: %w", path, err)
	}

	var raw struct {
		Templates []templateYAML `yaml:"templates"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("locomotor: parsing template file %s: %w", path, err)
	}

	for _, ty := range raw.Templates {
		tmpl, err := ty.toTemplate()
		if err != nil {
			return err
		}
		s.Put(tmpl)
	}
	return nil
}

// DefaultTemplates returns the built-in set covering all eight
// appearances, used when no YAML override is loaded.
func DefaultTemplates() []*Template {
	return []*Template{
		{
			Name: "default_legs", Appearance: geocore.AppearanceLegs, ZBehavior: geocore.ZSurfaceRelative,
			MaxSpeed: 30, MaxSpeedDamaged: 15, Acceleration: 1.2, Braking: 1, TurnRate: 3, TurnRateDamaged: 1.5,
			CloseEnoughDist: float32(geocore.CellSize) / 2,
		},
		{
			Name: "default_wheels", Appearance: geocore.AppearanceWheels, ZBehavior: geocore.ZSurfaceRelative,
			MaxSpeed: 60, MaxSpeedDamaged: 30, Acceleration: 0.8, Braking: 1.5, TurnRate: 1.5, TurnRateDamaged: 0.8,
			CloseEnoughDist: float32(geocore.CellSize) / 2,
		},
		{
			Name: "default_treads", Appearance: geocore.AppearanceTreads, ZBehavior: geocore.ZSurfaceRelative,
			MaxSpeed: 40, MaxSpeedDamaged: 20, Acceleration: 0.6, Braking: 2, TurnRate: 2, TurnRateDamaged: 1,
			CloseEnoughDist: float32(geocore.CellSize) / 2,
		},
		{
			Name: "default_hover", Appearance: geocore.AppearanceHover, ZBehavior: geocore.ZFixedRelativeToGround,
			MaxSpeed: 45, MaxSpeedDamaged: 25, Acceleration: 0.9, Braking: 0.5, Lift: 9.8, TurnRate: 2.5,
			PreferredZ: float32(geocore.CellSize), CloseEnoughDist: float32(geocore.CellSize),
		},
		{
			Name: "default_thrust", Appearance: geocore.AppearanceThrust, ZBehavior: geocore.ZRelativeToHighestLayer,
			MaxSpeed: 90, MaxSpeedDamaged: 50, Acceleration: 0.4, Lift: 9.8, TurnRate: 1,
			PreferredZ: float32(geocore.CellSize) * 6, CloseEnoughDist: float32(geocore.CellSize) * 3,
		},
		{
			Name: "default_wings", Appearance: geocore.AppearanceWings, ZBehavior: geocore.ZSmoothRelativeToHighestLayer,
			MaxSpeed: 110, MaxSpeedDamaged: 70, Acceleration: 0.3, Lift: 9.8, TurnRate: 0.8,
			PreferredZ: float32(geocore.CellSize) * 8, CloseEnoughDist: float32(geocore.CellSize) * 4,
		},
		{
			Name: "default_climber", Appearance: geocore.AppearanceClimber, ZBehavior: geocore.ZSurfaceRelative,
			MaxSpeed: 20, MaxSpeedDamaged: 10, Acceleration: 1, Braking: 1, TurnRate: 2.5,
			CloseEnoughDist: float32(geocore.CellSize) / 2,
		},
		{
			Name: "default_other", Appearance: geocore.AppearanceOther, ZBehavior: geocore.ZNoMotive,
			MaxSpeed: 10, Acceleration: 1, TurnRate: 1, CloseEnoughDist: float32(geocore.CellSize) / 2,
		},
	}
}
