package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/toolshelf/shelf/internal/catalog"
	"github.com/toolshelf/shelf/internal/collections"
	"github.com/toolshelf/shelf/internal/config"
	"github.com/toolshelf/shelf/internal/events"
	"github.com/toolshelf/shelf/internal/httpserver"
	"github.com/toolshelf/shelf/internal/httpserver/deps"
	"github.com/toolshelf/shelf/internal/logger"
	"github.com/toolshelf/shelf/internal/redis"
	"github.com/toolshelf/shelf/internal/scheduler"
	"github.com/toolshelf/shelf/internal/storage"
	"github.com/toolshelf/shelf/internal/tracker"
	"github.com/toolshelf/shelf/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	store       *collections.Store
	redisClient *goredis.Client
	reloader    *scheduler.CatalogReloader
	sweeper     *scheduler.ShareSweeper
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	adapter, redisClient := buildStorage(cfg, loggerClient)

	// Initialize the collection store and its sibling trackers
	sink := events.NewLogSink(loggerClient)
	store := collections.NewStore(adapter, sink, loggerClient, collections.Options{
		StorageKey: cfg.StorageKey,
		BaseURL:    cfg.BaseURL,
	})
	views := tracker.NewViews(adapter, loggerClient)
	read := tracker.NewRead(adapter, loggerClient)
	bookmarks := tracker.NewBookmarks(adapter, sink, loggerClient, tracker.BookmarkOptions{})

	// Initialize the catalog index and its reloader
	idx := catalog.NewIndex()
	reloadTrigger := make(chan struct{}, 1)
	reloader := scheduler.NewCatalogReloader(
		cfg.ReadmeURL,
		cfg.ReadmePath,
		cfg.CuratedFile,
		idx,
		loggerClient,
		cfg.ReloadInterval,
		reloadTrigger,
	)

	sweeper := scheduler.NewShareSweeper(store, loggerClient, cfg.SweepInterval)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		TrustProxy:    cfg.TrustProxy,
		Store:         store,
		Catalog:       idx,
		Views:         views,
		Read:          read,
		Bookmarks:     bookmarks,
		Storage:       adapter,
		RedisClient:   redisClient,
		ReloadTrigger: reloadTrigger,
		BaseURL:       cfg.BaseURL,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		store:       store,
		redisClient: redisClient,
		reloader:    reloader,
		sweeper:     sweeper,
	}
}

// buildStorage creates the configured adapter. The redis backend fails
// fast when unreachable; the file backend fails fast when its directory
// cannot be created.
func buildStorage(cfg *config.Config, log logger.Logger) (storage.Adapter, *goredis.Client) {
	switch cfg.StorageBackend {
	case config.StorageRedis:
		log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			log.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		log.Info("Redis initialized successfully")
		return storage.NewRedis(client), client

	case config.StorageMemory:
		log.Warn("memory storage selected, collections will not survive restart")
		mem := storage.NewMemory()
		mem.MaxBytes = cfg.MemoryMaxBytes
		return mem, nil

	default:
		file, err := storage.NewFile(cfg.FileDir)
		if err != nil {
			log.Errorf("Failed to initialize file storage in %s: %v", cfg.FileDir, err)
			os.Exit(1)
		}
		log.Infof("File storage initialized in %s", cfg.FileDir)
		return file, nil
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting Shelf v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("Shelf %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start the catalog reloader. A failed initial load is not fatal:
	// collections keep working and readyz reports not-ready until a
	// reload succeeds.
	if err := a.reloader.Start(ctx); err != nil {
		a.logger.Error("initial catalog load failed, retrying on schedule",
			logger.Error(err))
	}
	a.logger.Info("catalog reloader started",
		logger.Duration("interval", a.cfg.ReloadInterval))

	// Start the share expiry sweeper
	if err := a.sweeper.Start(ctx); err != nil {
		return fmt.Errorf("failed to start share sweeper: %w", err)
	}
	a.logger.Info("share sweeper started",
		logger.Duration("interval", a.cfg.SweepInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.reloader.Stop()
	a.sweeper.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	// Wait for in-flight collection writes before closing the backend.
	a.store.Flush()

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ Shelf stopped cleanly")
	return nil
}
