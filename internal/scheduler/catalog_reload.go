package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/kdbplan/kdbplan/internal/catalog"
	"github.com/kdbplan/kdbplan/internal/logger"
	"github.com/kdbplan/kdbplan/internal/sources/catalogfile"
)

// CatalogReloader handles periodic reloading of the course catalog
type CatalogReloader struct {
	loader        *catalogfile.Loader
	mapper        *catalogfile.Mapper
	index         *catalog.Index
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewCatalogReloader creates a new catalog reloader
func NewCatalogReloader(
	catalogFile string,
	idx *catalog.Index,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *CatalogReloader {
	return &CatalogReloader{
		loader:        catalogfile.NewLoader(catalogFile),
		mapper:        catalogfile.NewMapper(),
		index:         idx,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start loads the catalog once, then keeps reloading it in the background.
// The first load must succeed: without a catalog nothing can be bookmarked.
func (cr *CatalogReloader) Start(ctx context.Context) error {
	// Load immediately on start
	if err := cr.Reload(ctx); err != nil {
		return fmt.Errorf("initial catalog load failed: %w", err)
	}

	// Start periodic reload
	ticker := time.NewTicker(cr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := cr.Reload(ctx); err != nil {
					cr.logger.Error("failed to reload catalog, keeping previous snapshot",
						logger.Error(err))
				}
			case <-cr.manualTrigger:
				cr.logger.Info("manual reload triggered")
				if err := cr.Reload(ctx); err != nil {
					cr.logger.Error("failed to reload catalog, keeping previous snapshot",
						logger.Error(err))
				}
			case <-cr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the reloader
func (cr *CatalogReloader) Stop() {
	close(cr.stopCh)
}

// Reload reads the catalog file and swaps the index snapshot.
// A failed reload leaves the previous snapshot in place.
func (cr *CatalogReloader) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cr.logger.Info("reloading catalog", logger.String("file", cr.loader.Path()))

	file, err := cr.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	next, err := cr.mapper.Map(file)
	if err != nil {
		return fmt.Errorf("failed to map catalog: %w", err)
	}

	// Count codes that disappeared so operators notice stale bookmarks coming
	previous := cr.index.Snapshot()
	removed := 0
	for _, code := range previous.Codes() {
		if _, ok := next.Course(code); !ok {
			removed++
		}
	}

	cr.index.Replace(next)

	cr.logger.Info("catalog loaded",
		logger.Int("courses", next.Len()),
		logger.Int("removed", removed),
		logger.Int("current_year", next.CurrentYear()))

	return nil
}
