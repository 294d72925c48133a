package persist

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/ironveil/pathcore/internal/geocore"
)

// setupTestRepository starts a Postgres testcontainer, runs migrations,
// and returns a Repository against it.
func setupTestRepository(tb testing.TB) *Repository {
	tb.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(tb, err)
	tb.Cleanup(func() {
		require.NoError(tb, testcontainers.TerminateContainer(container))
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(tb, err)

	require.NoError(tb, RunMigrations(ctx, dsn))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(tb, err)
	tb.Cleanup(pool.Close)

	return NewRepository(pool)
}

func TestSaveAndLoadWorldDeltasRoundTrips(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	bridges := []DestroyedBridge{
		{EntityID: 1, Cell: geocore.CellCoord{X: 10, Y: 20}, DestroyedAt: 1700000000},
		{EntityID: 2, Cell: geocore.CellCoord{X: 11, Y: 21}, DestroyedAt: 1700000100},
	}
	structures := []StampedStructure{
		{EntityID: 100, Cell: geocore.CellCoord{X: 5, Y: 5}, Width: 3, Height: 2, Layer: geocore.GroundLayer},
	}
	wallPieceIDs := []int32{7, 8, 9}

	require.NoError(t, repo.SaveWorldDeltas(ctx, 42, bridges, structures, wallPieceIDs))

	gotBridges, gotStructures, gotWallPieceIDs, err := repo.LoadWorldDeltas(ctx, 42)
	require.NoError(t, err)
	require.ElementsMatch(t, bridges, gotBridges)
	require.ElementsMatch(t, structures, gotStructures)
	require.Equal(t, wallPieceIDs, gotWallPieceIDs)
}

func TestSaveWorldDeltasReplacesPriorSnapshot(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	first := []DestroyedBridge{{EntityID: 1, Cell: geocore.CellCoord{X: 1, Y: 1}, DestroyedAt: 1}}
	require.NoError(t, repo.SaveWorldDeltas(ctx, 1, first, nil, []int32{1, 2}))

	second := []DestroyedBridge{{EntityID: 2, Cell: geocore.CellCoord{X: 2, Y: 2}, DestroyedAt: 2}}
	require.NoError(t, repo.SaveWorldDeltas(ctx, 1, second, nil, []int32{3}))

	gotBridges, _, gotWallPieceIDs, err := repo.LoadWorldDeltas(ctx, 1)
	require.NoError(t, err)
	require.ElementsMatch(t, second, gotBridges)
	require.Equal(t, []int32{3}, gotWallPieceIDs)
}

func TestLoadWorldDeltasForUnknownPathfinderReturnsEmptyWallPieces(t *testing.T) {
	repo := setupTestRepository(t)
	ctx := context.Background()

	_, _, wallPieceIDs, err := repo.LoadWorldDeltas(ctx, 999)
	require.NoError(t, err)
	require.Empty(t, wallPieceIDs)
}
