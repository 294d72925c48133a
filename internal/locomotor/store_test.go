package locomotor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ironveil/pathcore/internal/geocore"
)

func TestStoreLoadFileMergesOverrides(t *testing.T) {
	store := NewStore()
	_, hadDefault := store.Get("default_legs")
	require.True(t, hadDefault)

	dir := t.TempDir()
	path := filepath.Join(dir, "locomotors.yaml")
	doc := `
templates:
  - name: default_legs
    appearance: legs
    z_behavior: surface-relative-height
    max_speed: 99
    turn_rate: 5
    close_enough_dist: 4
  - name: custom_crawler
    appearance: treads
    z_behavior: fixed-relative-to-ground
    max_speed: 12
    turn_rate: 1
    close_enough_dist: 8
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	require.NoError(t, store.LoadFile(path))

	legs, ok := store.Get("default_legs")
	require.True(t, ok)
	require.Equal(t, float32(99), legs.MaxSpeed)

	crawler, ok := store.Get("custom_crawler")
	require.True(t, ok)
	require.Equal(t, geocore.AppearanceTreads, crawler.Appearance)
}

func TestStoreLoadFileMissingIsNotAnError(t *testing.T) {
	store := NewStore()
	require.NoError(t, store.LoadFile(filepath.Join(t.TempDir(), "missing.yaml")))
	_, ok := store.Get("default_legs")
	require.True(t, ok)
}

func TestStoreLoadFileRejectsUnknownAppearance(t *testing.T) {
	store := NewStore()
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	doc := `
templates:
  - name: broken
    appearance: jetpack
    z_behavior: sea-level
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	require.Error(t, store.LoadFile(path))
}
