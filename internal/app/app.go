// Package app wires configuration, the catalog and the REST server into
// the long-running fastclime service.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/chrissnell/fastclime/internal/catalog"
	"github.com/chrissnell/fastclime/internal/controllers/restserver"
	"github.com/chrissnell/fastclime/internal/log"
	"github.com/chrissnell/fastclime/pkg/config"
)

// App represents the main application
type App struct {
	cfg    *config.ConfigData
	logger *zap.SugaredLogger
}

// New creates a new application instance
func New(cfg *config.ConfigData, logger *zap.SugaredLogger) *App {
	return &App{
		cfg:    cfg,
		logger: logger,
	}
}

// OpenCatalog prepares the data directory, opens and migrates the catalog
// and upserts the configured parcels.
func OpenCatalog(ctx context.Context, cfg *config.ConfigData) (*catalog.Catalog, catalog.Layout, error) {
	layout := catalog.NewLayout(cfg.DataDir)
	if err := layout.Init(); err != nil {
		return nil, layout, fmt.Errorf("initializing data directory: %w", err)
	}

	c, err := catalog.Open(cfg.Storage)
	if err != nil {
		return nil, layout, fmt.Errorf("opening catalog: %w", err)
	}
	if err := c.Migrate(ctx); err != nil {
		c.Close()
		return nil, layout, err
	}
	if err := c.SyncParcels(ctx, cfg.Parcels); err != nil {
		c.Close()
		return nil, layout, err
	}
	return c, layout, nil
}

// Run starts the REST server and blocks until shutdown
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c, _, err := OpenCatalog(ctx, a.cfg)
	if err != nil {
		return err
	}
	defer c.Close()

	rest, err := restserver.NewController(ctx, &wg, c, a.cfg.REST, a.logger)
	if err != nil {
		return err
	}
	if err := rest.StartController(); err != nil {
		return err
	}

	log.Infow("Application started successfully", "parcels", len(a.cfg.Parcels), "backend", c.Backend())

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	// Wait for all workers to terminate
	log.Info("waiting for all workers to terminate...")
	wg.Wait()
	log.Info("shutdown complete")

	return nil
}
