// Command pathcore-engine wires the pathfinding core into a runnable
// process: it loads configuration, classifies a flat demo map, connects
// the optional world-delta repository, and drains the request queue on
// a tick loop until interrupted. It is a thin embedding harness, not a
// full game server — a real deployment supplies its own Terrain and
// entity registry and calls into internal/geocore the same way this
// command does.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ironveil/pathcore/internal/config"
	"github.com/ironveil/pathcore/internal/geocore"
	"github.com/ironveil/pathcore/internal/locomotor"
	"github.com/ironveil/pathcore/internal/persist"
	"github.com/ironveil/pathcore/internal/zonemgr"
)

const defaultConfigPath = "config/engine.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := defaultConfigPath
	if p := os.Getenv("PATHCORE_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadEngine(cfgPath)
	if err != nil {
		return fmt.Errorf("loading engine config: %w", err)
	}

	logLevel := slog.LevelInfo
	if os.Getenv("PATHCORE_DEBUG") != "" {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
	geocore.EnableDebugLogging(logLevel == slog.LevelDebug)

	slog.Info("pathcore engine starting", "grid", fmt.Sprintf("%dx%d", cfg.Grid.Width, cfg.Grid.Height))

	store := locomotor.NewStore()
	if cfg.LocomotorTemplatesFile != "" {
		if err := store.LoadFile(cfg.LocomotorTemplatesFile); err != nil {
			return fmt.Errorf("loading locomotor templates: %w", err)
		}
	}

	pf := geocore.NewPathfinder(cfg.Grid.Width, cfg.Grid.Height)
	pf.Grid.ClassifyTerrain(flatTerrain{width: cfg.Grid.Width, height: cfg.Grid.Height})
	pf.Queue.SetCellBudget(cfg.Budgets.RequestQueueCellBudget)

	zones := zonemgr.NewManager(pf.Grid)
	zones.Recompute()
	pf.Zones = zones
	pf.MapReady = true

	var repo *persist.Repository
	if cfg.PersistEnabled {
		dsn := cfg.Database.DSN()
		if err := persist.RunMigrations(ctx, dsn); err != nil {
			return fmt.Errorf("running world-delta migrations: %w", err)
		}
		repo, err = persist.Connect(ctx, dsn)
		if err != nil {
			return fmt.Errorf("connecting world-delta repository: %w", err)
		}
		defer repo.Close()

		bridges, structures, wallPieceIDs, err := repo.LoadWorldDeltas(ctx, 0)
		if err != nil {
			return fmt.Errorf("loading world deltas: %w", err)
		}
		pf.WallPieceIDs = wallPieceIDs
		slog.Info("world deltas loaded",
			"bridges", len(bridges), "structures", len(structures), "wallPieces", len(wallPieceIDs))
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return drainQueueLoop(gctx, pf, cfg.TickInterval)
	})

	if repo != nil {
		g.Go(func() error {
			return autosaveLoop(gctx, repo, pf, cfg.TickInterval*50)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	slog.Info("pathcore engine stopped")
	return nil
}

// drainQueueLoop serves queued pathfind requests every tick until ctx
// is cancelled.
func drainQueueLoop(ctx context.Context, pf *geocore.Pathfinder, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			pf.DrainQueue(func(id geocore.EntityID) int32 {
				// A real embedding looks the entity up in its own
				// registry to get start/goal/mobility; this harness has
				// no entity registry, so a queued id is treated as
				// already served.
				return 0
			})
		}
	}
}

// autosaveLoop persists the pathfinder's wall-piece list on a slower
// cadence than the queue drain, so world deltas don't need a full save
// on every tick.
func autosaveLoop(ctx context.Context, repo *persist.Repository, pf *geocore.Pathfinder, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := repo.SaveWorldDeltas(ctx, 0, nil, nil, pf.WallPieceIDs); err != nil {
				slog.Error("world-delta autosave failed", "err", err)
			}
		}
	}
}
