package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/priya-kumar159/CodeQuest-Project/internal/challenge"
	"github.com/priya-kumar159/CodeQuest-Project/internal/config"
	"github.com/priya-kumar159/CodeQuest-Project/internal/progress"
	"github.com/priya-kumar159/CodeQuest-Project/internal/session"
)

// App holds the wired dependencies shared by the server and the terminal client.
type App struct {
	Catalog    *challenge.Catalog
	Controller *session.Controller

	closers []func() error
}

// Build loads the catalog and connects the progress store concurrently, then wires the session
// controller. A progress store that cannot be reached is replaced by one that reports
// ErrConnection on every call, so the program still starts.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	a := &App{}

	var (
		catalog *challenge.Catalog
		repo    progress.Repository
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cat, closeSource, err := loadCatalog(gctx, cfg.CatalogPath, logger)
		if err != nil {
			return err
		}
		catalog = cat
		return closeSource()
	})
	g.Go(func() error {
		r, err := newProgressRepository(gctx, cfg)
		if err != nil {
			if !errors.Is(err, progress.ErrConnection) {
				return err
			}
			logger.Warn("progress store unavailable, continuing without persistence",
				slog.String("datastore", string(cfg.DataStore)),
				slog.Any("error", err),
			)
			r = progress.Unavailable(err)
		}
		repo = r
		return nil
	})
	if err := g.Wait(); err != nil {
		if repo != nil {
			_ = repo.Close()
		}
		return nil, err
	}

	log, err := progress.NewLog(repo, progress.NewSystemClock(), logger)
	if err != nil {
		_ = repo.Close()
		return nil, err
	}
	a.closers = append(a.closers, log.Close)

	store, err := newSessionStore(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("session store: %w", err)
	}
	a.closers = append(a.closers, store.Close)

	controller, err := session.NewController(catalog, log, store, nil, logger)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Catalog = catalog
	a.Controller = controller
	return a, nil
}

// Close releases every store in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func loadCatalog(ctx context.Context, location string, logger *slog.Logger) (*challenge.Catalog, func() error, error) {
	src, closeSource, err := challenge.OpenSource(ctx, location)
	if err != nil {
		return nil, nil, fmt.Errorf("catalog source: %w", err)
	}

	seeded, err := challenge.EnsureDefaults(ctx, src)
	if err != nil {
		_ = closeSource()
		return nil, nil, err
	}
	if seeded {
		logger.Info("seeded default challenge catalog", slog.String("location", src.String()))
	}

	cat, err := challenge.Load(ctx, src)
	if err != nil {
		_ = closeSource()
		return nil, nil, err
	}
	logger.Info("challenge catalog loaded",
		slog.String("location", src.String()),
		slog.Int("challenges", cat.Len()),
	)
	return cat, closeSource, nil
}

func newProgressRepository(ctx context.Context, cfg config.Config) (progress.Repository, error) {
	switch cfg.DataStore {
	case config.DataStoreFirestore:
		return progress.ConnectFirestore(ctx, progress.FirestoreConfig{
			ProjectID:    cfg.GCPProjectID,
			Database:     cfg.Firestore.Database,
			EmulatorHost: cfg.Firestore.EmulatorHost,
		}, cfg.Sheet)
	case config.DataStoreSQLite:
		if dir := filepath.Dir(cfg.SQL.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create sqlite dir: %w", err)
			}
		}
		return progress.OpenSQL(ctx, progress.SQLite, cfg.SQL.SQLitePath, cfg.Sheet)
	case config.DataStorePostgres:
		return progress.OpenSQL(ctx, progress.Postgres, cfg.SQL.DatabaseURL, cfg.Sheet)
	default:
		return progress.NewMemoryRepository(), nil
	}
}

func newSessionStore(ctx context.Context, cfg config.Config) (session.Store, error) {
	switch cfg.Session.Store {
	case config.SessionStoreRedis:
		return session.NewRedisStore(ctx, session.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			TTL:      cfg.Session.TTL,
		})
	default:
		return session.NewMemoryStore(), nil
	}
}
