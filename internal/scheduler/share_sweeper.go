package scheduler

import (
	"context"
	"time"

	"github.com/toolshelf/shelf/internal/collections"
	"github.com/toolshelf/shelf/internal/logger"
)

// DefaultSweepInterval is how often expired shares are revoked when no
// interval is configured.
const DefaultSweepInterval = time.Hour

// ShareSweeper periodically revokes expired collection shares so public
// flags converge even when nobody requests the dead links. Expiry is
// also enforced lazily on access; the sweeper just tightens the window.
type ShareSweeper struct {
	store    *collections.Store
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewShareSweeper creates a new share sweeper
func NewShareSweeper(store *collections.Store, log logger.Logger, interval time.Duration) *ShareSweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	return &ShareSweeper{
		store:    store,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the periodic sweep process
func (ss *ShareSweeper) Start(ctx context.Context) error {
	// Run immediately on start
	ss.Sweep()

	ticker := time.NewTicker(ss.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ss.Sweep()
			case <-ss.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the sweeper
func (ss *ShareSweeper) Stop() {
	close(ss.stopCh)
}

// Sweep revokes every expired share.
func (ss *ShareSweeper) Sweep() {
	revoked := ss.store.RevokeExpired()
	if revoked > 0 {
		ss.logger.Info("revoked expired shares",
			logger.Int("count", revoked))
	} else {
		ss.logger.Debug("no expired shares to revoke")
	}
}
