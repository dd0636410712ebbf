package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/toolshelf/shelf/internal/catalog"
	"github.com/toolshelf/shelf/internal/domain"
	"github.com/toolshelf/shelf/internal/logger"
	"github.com/toolshelf/shelf/internal/sources/curated"
	"github.com/toolshelf/shelf/internal/sources/readme"
)

// curatedIDBase keeps curated ids out of the README id range, which
// restarts at 1 on every reload.
const curatedIDBase = 100000

// CatalogReloader handles periodic reloading of the resource catalog
// from the README source, with optional curated extras merged in.
type CatalogReloader struct {
	loader        *readme.Loader
	curatedLoader *curated.Loader
	curatedMapper *curated.Mapper
	index         *catalog.Index
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewCatalogReloader creates a new catalog reloader. curatedFile may be
// empty, in which case only the README feeds the catalog.
func NewCatalogReloader(
	readmeURL string,
	readmePath string,
	curatedFile string,
	idx *catalog.Index,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *CatalogReloader {
	cr := &CatalogReloader{
		loader:        readme.NewLoader(readmeURL, readmePath),
		index:         idx,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
	if curatedFile != "" {
		cr.curatedLoader = curated.NewLoader(curatedFile)
		cr.curatedMapper = curated.NewMapper()
	}
	return cr
}

// Start begins the periodic reload process. The ticker runs even when
// the initial load fails, so a transient fetch error heals on schedule.
func (cr *CatalogReloader) Start(ctx context.Context) error {
	var initialErr error
	if err := cr.Reload(ctx); err != nil {
		initialErr = fmt.Errorf("initial catalog reload failed: %w", err)
	}

	ticker := time.NewTicker(cr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := cr.Reload(ctx); err != nil {
					cr.logger.Error("failed to reload catalog",
						logger.Error(err))
				}
			case <-cr.manualTrigger:
				cr.logger.Info("manual catalog reload triggered")
				if err := cr.Reload(ctx); err != nil {
					cr.logger.Error("failed to reload catalog",
						logger.Error(err))
				}
			case <-cr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return initialErr
}

// Stop stops the reloader
func (cr *CatalogReloader) Stop() {
	close(cr.stopCh)
}

// Reload fetches the sources and replaces the catalog index. A failed
// README fetch leaves the previous catalog in place; a failed curated
// load only costs the extras.
func (cr *CatalogReloader) Reload(ctx context.Context) error {
	cr.logger.Info("reloading resource catalog")

	resources, err := cr.loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load readme catalog: %w", err)
	}
	cr.logger.Info("loaded resources from readme",
		logger.Int("count", len(resources)))

	if extras := cr.loadCurated(); len(extras) > 0 {
		resources = append(resources, extras...)
	}

	cr.index.Update(resources)
	cr.logger.Info("catalog updated",
		logger.Int("total", cr.index.Count()))
	return nil
}

// loadCurated reads the extras file, best effort.
func (cr *CatalogReloader) loadCurated() []*domain.Resource {
	if cr.curatedLoader == nil {
		return nil
	}

	config, err := cr.curatedLoader.Load()
	if err != nil {
		cr.logger.Warn("failed to load curated resources",
			logger.Error(err))
		return nil
	}

	extras, err := cr.curatedMapper.Map(config, curatedIDBase)
	if err != nil {
		cr.logger.Warn("failed to map curated resources",
			logger.Error(err))
		return nil
	}

	cr.logger.Info("loaded curated resources",
		logger.Int("count", len(extras)))
	return extras
}
