package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gallerybin/internal/config"
	"github.com/dmitrijs2005/gallerybin/internal/database"
	"github.com/dmitrijs2005/gallerybin/internal/gallery"
	"github.com/dmitrijs2005/gallerybin/internal/grouping"
	"github.com/dmitrijs2005/gallerybin/internal/logging"
	"github.com/dmitrijs2005/gallerybin/internal/media"
	"github.com/dmitrijs2005/gallerybin/internal/metrics"
	"github.com/dmitrijs2005/gallerybin/internal/recyclebin"
	"github.com/dmitrijs2005/gallerybin/internal/repositories/deleted"
	"github.com/dmitrijs2005/gallerybin/internal/taskq"
	"github.com/dmitrijs2005/gallerybin/internal/undo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
)

// App wires the gallery components for one CLI process.
type App struct {
	cfg     *config.Config
	log     logging.Logger
	db      *sql.DB
	engine  *recyclebin.Engine
	sweeper *recyclebin.Sweeper
	gallery *gallery.Service
	grouper *grouping.Grouper
	pool    *taskq.Pool
	reg     *prometheus.Registry
	clock   recyclebin.Clock
	reader  *bufio.Reader
	out     io.Writer

	// view is the item list the shell works on; undo reinserts into it.
	view *undo.List
}

// NewApp opens the bin store and builds every component. Logs go to stderr.
func NewApp(ctx context.Context, cfg *config.Config, fsys afero.Fs, in io.Reader, out io.Writer) (*App, error) {
	log, err := logging.New(cfg.LogBackend, cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", cfg.DBPath, "err", err)
		return nil, err
	}

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	clock := recyclebin.SystemClock{}
	lib := media.NewLibrary(fsys, cfg.MediaRoot, log)
	engine := recyclebin.NewEngine(deleted.NewSQLiteRepository(db), lib, clock, log, m)
	pool := taskq.NewPool(cfg.CopyWorkers)
	grouper := grouping.New(loc)

	return &App{
		cfg:     cfg,
		log:     log,
		db:      db,
		engine:  engine,
		sweeper: recyclebin.NewSweeper(engine, clock, log),
		gallery: gallery.NewService(lib, engine, grouper, pool, log),
		grouper: grouper,
		pool:    pool,
		reg:     reg,
		clock:   clock,
		reader:  bufio.NewReader(in),
		out:     out,
	}, nil
}

// Start purges whatever expired while the program was not running.
func (a *App) Start(ctx context.Context) {
	if n := a.sweeper.SweepOnce(ctx); n > 0 {
		a.log.Info(ctx, "purged expired items on start", "purged", n)
	}
}

// StartSweeper sweeps periodically until ctx is done.
func (a *App) StartSweeper(ctx context.Context) {
	a.sweeper.Run(ctx, a.cfg.SweepInterval)
}

// Close waits for background work and closes the database.
func (a *App) Close() error {
	a.pool.Wait()
	a.engine.Close()
	return a.db.Close()
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) ensureView(ctx context.Context) error {
	if a.view != nil {
		return nil
	}
	return a.reloadView(ctx)
}

func (a *App) reloadView(ctx context.Context) error {
	items, err := a.gallery.Load(ctx)
	if err != nil {
		return err
	}
	a.view = undo.NewList(items)
	return nil
}

// status is shown in the shell prompt.
func (a *App) status(ctx context.Context) string {
	n, err := a.engine.Count(ctx).Wait(ctx)
	if err != nil {
		return fmt.Sprintf("undo:%d", a.gallery.UndoDepth())
	}
	return fmt.Sprintf("undo:%d bin:%d", a.gallery.UndoDepth(), n)
}
