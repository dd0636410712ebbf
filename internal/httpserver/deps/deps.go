package deps

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/toolshelf/shelf/internal/catalog"
	"github.com/toolshelf/shelf/internal/collections"
	"github.com/toolshelf/shelf/internal/logger"
	"github.com/toolshelf/shelf/internal/storage"
	"github.com/toolshelf/shelf/internal/tracker"
)

type Deps struct {
	Logger        logger.Logger
	StartTime     time.Time
	Version       string
	Commit        string
	BuildDate     string
	GoVersion     string
	TimeNow       func() time.Time // for testing, defaults to time.Now
	TrustProxy    bool             // true if running behind a trusted reverse proxy
	Store         *collections.Store
	Catalog       *catalog.Index
	Views         *tracker.Views
	Read          *tracker.Read
	Bookmarks     *tracker.Bookmarks
	Storage       storage.Adapter // backing adapter, probed by /api/stats
	RedisClient   *redis.Client   // nil unless the redis backend is configured
	ReloadTrigger chan struct{}   // Channel to trigger manual catalog reload
	BaseURL       string          // public origin used in share links
}
