package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadEngineMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadEngine(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultEngine(), cfg)
}

func TestLoadEngineOverridesGridAndBudgets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
grid:
  width: 512
  height: 512
budgets:
  default: 4000
database:
  host: db.internal
  port: 5433
`), 0o644))

	cfg, err := LoadEngine(path)
	require.NoError(t, err)
	require.Equal(t, int32(512), cfg.Grid.Width)
	require.Equal(t, int32(512), cfg.Grid.Height)
	require.Equal(t, int32(4000), cfg.Budgets.Default)
	require.Equal(t, "db.internal", cfg.Database.Host)
	require.Equal(t, 5433, cfg.Database.Port)
	// Fields absent from the override file keep their defaults.
	require.Equal(t, int32(2000), cfg.Budgets.AttackPath)
}

func TestDatabaseConfigDSNIncludesPoolParams(t *testing.T) {
	d := DatabaseConfig{
		Host: "localhost", Port: 5432, User: "u", Password: "p", DBName: "d", SSLMode: "disable",
		MaxConns: 10, MaxConnLifetime: "1h",
	}
	dsn := d.DSN()
	require.Contains(t, dsn, "postgres://u:p@localhost:5432/d?sslmode=disable")
	require.Contains(t, dsn, "pool_max_conns=10")
	require.Contains(t, dsn, "pool_max_conn_lifetime=1h")
}
