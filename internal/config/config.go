// Package config loads the engine's YAML configuration: grid extent,
// per-tick search budgets, locomotor rate multipliers, and the optional
// database connection used by internal/persist. Grounded on the
// teacher's internal/config/gameserver.go: tagged structs, a
// Default...() constructor, and a Load...(path) that falls back to
// defaults when the file is absent.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// GridConfig sizes the engine's cell grid at startup.
type GridConfig struct {
	Width  int32 `yaml:"width"`
	Height int32 `yaml:"height"`

	// CellInfoPoolSize is the configured count of cells that may carry
	// search/occupancy scratch state (default 30,000). It is loaded but
	// not applied: geocore sizes its pool with geocore.CellInfoPoolSize.
	CellInfoPoolSize int `yaml:"cell_info_pool_size"`

	// BlockSize is the configured ZoneBlock edge length, in cells. It is
	// loaded but not applied: geocore uses geocore.ZoneBlockSize.
	BlockSize int32 `yaml:"block_size"`
}

// BudgetConfig holds per-search cell-examination caps. The engine command
// applies only RequestQueueCellBudget; the per-variant caps are loaded but
// geocore's searches use its own Budget* constants.
type BudgetConfig struct {
	Default            int32 `yaml:"default"`
	DestinationAdjust  int32 `yaml:"destination_adjust"`
	AttackPath         int32 `yaml:"attack_path"`
	PatchPath          int32 `yaml:"patch_path"`

	// RequestQueueCellBudget caps cumulative cells examined per tick
	// across the whole request queue drain.
	RequestQueueCellBudget int32 `yaml:"request_queue_cell_budget"`
}

// RateConfig holds global locomotor rate multipliers. They are loaded
// but not read by internal/locomotor, whose boosts are fixed in code.
type RateConfig struct {
	UltraAccurateTurnBoost float32 `yaml:"ultra_accurate_turn_boost"`
	UltraAccurateLiftBoost float32 `yaml:"ultra_accurate_lift_boost"`
	PreciseZLiftBoost      float32 `yaml:"precise_z_lift_boost"`
}

// DatabaseConfig holds PostgreSQL connection parameters for the optional
// persist repository.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`

	MaxConns        int32  `yaml:"max_conns"`
	MinConns        int32  `yaml:"min_conns"`
	MaxConnLifetime string `yaml:"max_conn_lifetime"`
	MaxConnIdleTime string `yaml:"max_conn_idle_time"`
}

// DSN returns the PostgreSQL connection string for pgxpool.
func (d DatabaseConfig) DSN() string {
	base := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)

	var params []string
	if d.MaxConns > 0 {
		params = append(params, fmt.Sprintf("pool_max_conns=%d", d.MaxConns))
	}
	if d.MinConns > 0 {
		params = append(params, fmt.Sprintf("pool_min_conns=%d", d.MinConns))
	}
	if d.MaxConnLifetime != "" {
		params = append(params, fmt.Sprintf("pool_max_conn_lifetime=%s", d.MaxConnLifetime))
	}
	if d.MaxConnIdleTime != "" {
		params = append(params, fmt.Sprintf("pool_max_conn_idle_time=%s", d.MaxConnIdleTime))
	}
	if len(params) > 0 {
		return base + "&" + strings.Join(params, "&")
	}
	return base
}

// Engine holds all configuration for one pathfinding-core instance.
type Engine struct {
	Grid     GridConfig     `yaml:"grid"`
	Budgets  BudgetConfig   `yaml:"budgets"`
	Rates    RateConfig     `yaml:"rates"`
	Database DatabaseConfig `yaml:"database"`

	// TickInterval is how often an embedding server is expected to drain
	// the request queue and step locomotors.
	TickInterval time.Duration `yaml:"tick_interval"`

	// LocomotorTemplatesFile optionally points at a YAML file merged over
	// locomotor.DefaultTemplates() at startup.
	LocomotorTemplatesFile string `yaml:"locomotor_templates_file"`

	// PersistEnabled enables the Postgres-backed world-delta repository;
	// false means in-memory-only persistence, the default.
	PersistEnabled bool `yaml:"persist_enabled"`
}

// DefaultEngine returns configuration matching the engine's own baseline
// constants (grid 256x256, budgets from geocore.Budget*, rates at their
// baseline multiplier of 1).
func DefaultEngine() Engine {
	return Engine{
		Grid: GridConfig{
			Width:            256,
			Height:           256,
			CellInfoPoolSize: 30000,
			BlockSize:        10,
		},
		Budgets: BudgetConfig{
			Default:                1000,
			DestinationAdjust:      500,
			AttackPath:             2000,
			PatchPath:              2500,
			RequestQueueCellBudget: 5000,
		},
		Rates: RateConfig{
			UltraAccurateTurnBoost: 1.0,
			UltraAccurateLiftBoost: 1.0,
			PreciseZLiftBoost:      1.0,
		},
		Database: DatabaseConfig{
			Host:    "127.0.0.1",
			Port:    5432,
			User:    "pathcore",
			DBName:  "pathcore",
			SSLMode: "disable",
		},
		TickInterval: 100 * time.Millisecond,
	}
}

// LoadEngine loads engine config from a YAML file, falling back to
// DefaultEngine() when the file does not exist.
func LoadEngine(path string) (Engine, error) {
	cfg := DefaultEngine()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return cfg, nil
}
