// Package tracker holds the lightweight per-resource trackers that sit
// beside the collection store: view counts, read status, and bookmarks.
// Each tracker owns one storage key and persists synchronously, since
// their payloads are tiny and their endpoints are fire-and-forget for
// the caller anyway.
package tracker

import (
	"context"
	"errors"
	"time"

	"github.com/toolshelf/shelf/internal/logger"
	"github.com/toolshelf/shelf/internal/storage"
)

// Storage keys match the ones earlier versions wrote, so existing data
// loads unchanged.
const (
	ViewsStorageKey     = "viewCounts"
	ReadStorageKey      = "readItems"
	BookmarksStorageKey = "bookmarkedItems"
)

const persistTimeout = 5 * time.Second

// loadRaw fetches a tracker payload, treating a missing key as empty.
func loadRaw(adapter storage.Adapter, key string, log logger.Logger) []byte {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	raw, err := adapter.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			log.Warn("failed to load tracker state, starting empty",
				logger.String("key", key),
				logger.Error(err))
		}
		return nil
	}
	return raw
}

// persistRaw writes a tracker payload, logging failures instead of
// surfacing them. Tracker state is advisory; memory stays authoritative.
func persistRaw(adapter storage.Adapter, key string, payload []byte, log logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	if err := adapter.Set(ctx, key, payload); err != nil {
		log.Warn("failed to persist tracker state",
			logger.String("key", key),
			logger.Error(err))
	}
}
