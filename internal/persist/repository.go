package persist

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ironveil/pathcore/internal/geocore"
)

// DestroyedBridge is one world delta: a destroyed bridge, recorded so it
// can be replayed (geocore.CellGrid.DestroyBridge makes its cells
// impassable) rather than recomputing terrain from scratch.
type DestroyedBridge struct {
	EntityID    geocore.EntityID
	Cell        geocore.CellCoord
	DestroyedAt int64 // unix seconds, stamped by the caller
}

// StampedStructure is a building footprint that must be re-applied to a
// CellGrid on world load, before any request queue starts draining.
type StampedStructure struct {
	EntityID geocore.EntityID
	Cell     geocore.CellCoord
	Width    int32
	Height   int32
	Layer    geocore.LayerID
}

// Repository is a Postgres-backed store for the world deltas that a
// fresh Pathfinder cannot rederive from its own binary snapshot: per-map
// destruction and construction events, plus the wall-piece id list tied
// to a specific pathfinder instance.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository wraps an already-connected pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Connect opens a pool against dsn and verifies it with a ping.
func Connect(ctx context.Context, dsn string) (*Repository, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("persist: connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("persist: pinging database: %w", err)
	}
	return &Repository{pool: pool}, nil
}

// Close releases the underlying connection pool.
func (r *Repository) Close() { r.pool.Close() }

// SaveWorldDeltas persists every destroyed bridge, stamped structure,
// and the pathfinder's current wall-piece id list in one transaction:
// either the whole snapshot lands or none of it does, matching the
// teacher's SavePlayer all-or-nothing convention.
func (r *Repository) SaveWorldDeltas(ctx context.Context, pathfinderID int32, bridges []DestroyedBridge, structures []StampedStructure, wallPieceIDs []int32) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("persist: begin transaction for pathfinder %d: %w", pathfinderID, err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
			slog.Error("persist: rollback failed", "pathfinderID", pathfinderID, "error", err)
		}
	}()

	// Full-snapshot semantics: the incoming slices are the complete
	// current delta set, so each save replaces the prior table contents
	// wholesale rather than upserting row by row.
	if _, err := tx.Exec(ctx, `DELETE FROM destroyed_bridges`); err != nil {
		return fmt.Errorf("persist: clearing destroyed bridges for %d: %w", pathfinderID, err)
	}
	for _, b := range bridges {
		if _, err := tx.Exec(ctx,
			`INSERT INTO destroyed_bridges (entity_id, cell_x, cell_y, destroyed_at) VALUES ($1, $2, $3, to_timestamp($4))`,
			int64(b.EntityID), b.Cell.X, b.Cell.Y, b.DestroyedAt); err != nil {
			return fmt.Errorf("persist: saving destroyed bridge %d: %w", b.EntityID, err)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM stamped_structures`); err != nil {
		return fmt.Errorf("persist: clearing stamped structures for %d: %w", pathfinderID, err)
	}
	for _, s := range structures {
		if _, err := tx.Exec(ctx,
			`INSERT INTO stamped_structures (entity_id, cell_x, cell_y, width, height, layer) VALUES ($1, $2, $3, $4, $5, $6)`,
			int64(s.EntityID), s.Cell.X, s.Cell.Y, s.Width, s.Height, int16(s.Layer)); err != nil {
			return fmt.Errorf("persist: saving stamped structure %d: %w", s.EntityID, err)
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM wall_pieces WHERE pathfinder_id = $1`, pathfinderID); err != nil {
		return fmt.Errorf("persist: clearing wall pieces for pathfinder %d: %w", pathfinderID, err)
	}
	for i, id := range wallPieceIDs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO wall_pieces (pathfinder_id, ordinal, piece_id) VALUES ($1, $2, $3)`,
			pathfinderID, i, id); err != nil {
			return fmt.Errorf("persist: saving wall piece %d for pathfinder %d: %w", i, pathfinderID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("persist: commit transaction for pathfinder %d: %w", pathfinderID, err)
	}

	slog.Info("world deltas saved",
		"pathfinderID", pathfinderID, "bridges", len(bridges),
		"structures", len(structures), "wallPieces", len(wallPieceIDs))
	return nil
}

// LoadWorldDeltas returns what SaveWorldDeltas most recently wrote, for
// replay onto a freshly classified CellGrid. Only the wall-piece list is
// keyed by pathfinderID; bridges and structures are shared by all ids.
func (r *Repository) LoadWorldDeltas(ctx context.Context, pathfinderID int32) ([]DestroyedBridge, []StampedStructure, []int32, error) {
	bridges, err := r.loadDestroyedBridges(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	structures, err := r.loadStampedStructures(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	wallPieceIDs, err := r.loadWallPieces(ctx, pathfinderID)
	if err != nil {
		return nil, nil, nil, err
	}
	return bridges, structures, wallPieceIDs, nil
}

func (r *Repository) loadDestroyedBridges(ctx context.Context) ([]DestroyedBridge, error) {
	rows, err := r.pool.Query(ctx, `SELECT entity_id, cell_x, cell_y, extract(epoch from destroyed_at)::bigint FROM destroyed_bridges`)
	if err != nil {
		return nil, fmt.Errorf("persist: querying destroyed bridges: %w", err)
	}
	defer rows.Close()

	var out []DestroyedBridge
	for rows.Next() {
		var b DestroyedBridge
		var entityID int64
		if err := rows.Scan(&entityID, &b.Cell.X, &b.Cell.Y, &b.DestroyedAt); err != nil {
			return nil, fmt.Errorf("persist: scanning destroyed bridge: %w", err)
		}
		b.EntityID = geocore.EntityID(entityID)
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repository) loadStampedStructures(ctx context.Context) ([]StampedStructure, error) {
	rows, err := r.pool.Query(ctx, `SELECT entity_id, cell_x, cell_y, width, height, layer FROM stamped_structures`)
	if err != nil {
		return nil, fmt.Errorf("persist: querying stamped structures: %w", err)
	}
	defer rows.Close()

	var out []StampedStructure
	for rows.Next() {
		var s StampedStructure
		var entityID int64
		var layer int16
		if err := rows.Scan(&entityID, &s.Cell.X, &s.Cell.Y, &s.Width, &s.Height, &layer); err != nil {
			return nil, fmt.Errorf("persist: scanning stamped structure: %w", err)
		}
		s.EntityID = geocore.EntityID(entityID)
		s.Layer = geocore.LayerID(layer)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) loadWallPieces(ctx context.Context, pathfinderID int32) ([]int32, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT piece_id FROM wall_pieces WHERE pathfinder_id = $1 ORDER BY ordinal`, pathfinderID)
	if err != nil {
		return nil, fmt.Errorf("persist: querying wall pieces for %d: %w", pathfinderID, err)
	}
	defer rows.Close()

	var out []int32
	for rows.Next() {
		var id int32
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("persist: scanning wall piece: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
