package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

// Storage backend selectors.
const (
	StorageFile   = "file"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	BaseURL        string        // public origin used to build share links (ex: https://shelf.domain.ext)
	ReadmeURL      string        // catalog README URL (ignored when ReadmePath is set)
	ReadmePath     string        // local catalog README path (optional, takes precedence)
	CuratedFile    string        // path to curated extras yaml (optional, empty = disabled)
	ReloadInterval time.Duration // interval to reload the catalog (default: 6h)
	SweepInterval  time.Duration // interval to revoke expired shares (default: 1h)

	StorageBackend string // "file" | "redis" | "memory"
	StorageKey     string // key the collection list persists under
	FileDir        string // directory for the file backend
	MemoryMaxBytes int    // capacity budget for the memory backend (0 = unlimited)

	// Redis (only read when StorageBackend == "redis")
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	TrustProxy      bool // true => trust X-Forwarded-For headers (e.g. cloudflared)
	RateLimitBurst  int  // token bucket capacity per client IP
	RateLimitPerMin int  // refill rate per client IP per minute
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenPort:      getenv("SHELF_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("SHELF_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("SHELF_LOG_LEVEL", "info"),
		PrettyLog: mustBool("SHELF_PRETTY_LOG", true),

		// Catalog sources
		BaseURL:        requireEnv("SHELF_BASE_URL"),
		ReadmeURL:      getenv("SHELF_README_URL", "https://raw.githubusercontent.com/NotHarshhaa/awesome-devops-cloud/main/README.md"),
		ReadmePath:     getenv("SHELF_README_PATH", ""),
		CuratedFile:    getenv("SHELF_CURATED_FILE", ""), // Optional, empty = curated extras disabled
		ReloadInterval: mustDuration("SHELF_RELOAD_INTERVAL", 6*time.Hour),
		SweepInterval:  mustDuration("SHELF_SWEEP_INTERVAL", time.Hour),

		// Storage
		StorageBackend: getenv("SHELF_STORAGE", StorageFile),
		StorageKey:     getenv("SHELF_STORAGE_KEY", ""),
		FileDir:        getenv("SHELF_FILE_DIR", "/app/data"),
		MemoryMaxBytes: getenvInt("SHELF_MEMORY_MAX_BYTES", 0),

		// Access
		TrustProxy:      mustBool("SHELF_TRUST_PROXY", true),
		RateLimitBurst:  getenvInt("SHELF_RATE_LIMIT_BURST", 60),
		RateLimitPerMin: getenvInt("SHELF_RATE_LIMIT_PER_MIN", 120),
	}

	switch cfg.StorageBackend {
	case StorageFile, StorageMemory:
		// No further settings required.
	case StorageRedis:
		cfg.RedisAddr = requireEnv("SHELF_REDIS_ADDR")
		cfg.RedisUser = getenv("SHELF_REDIS_USERNAME", "default")
		cfg.RedisPasswordRequired = mustBool("SHELF_REDIS_PASSWORD_REQUIRED", true)
		cfg.RedisPassword = getenv("SHELF_REDIS_PASSWORD", "")
		cfg.RedisDB = getenvInt("SHELF_REDIS_DB", 0)
		cfg.RedisDT = mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second)
		cfg.RedisRT = mustDuration("REDIS_READ_TIMEOUT", 3*time.Second)
		cfg.RedisWT = mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second)
		cfg.RedisMaxWait = mustDuration("REDIS_MAX_WAIT", 10*time.Second)
		cfg.RedisPingTimeout = mustDuration("REDIS_PING_TIMEOUT", 5*time.Second)
		cfg.RedisPoolSize = getenvInt("REDIS_POOL_SIZE", 10)
		cfg.RedisConnectTimeout = mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second)
		cfg.RedisRetryInterval = mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second)
		cfg.RedisWarnThreshold = getenvInt("REDIS_WARN_THRESHOLD", 3)

		if cfg.RedisPasswordRequired && cfg.RedisPassword == "" {
			panic("❌ FATAL: SHELF_REDIS_PASSWORD is required when SHELF_REDIS_PASSWORD_REQUIRED=true")
		}
	default:
		panic(fmt.Sprintf("❌ FATAL: Unknown SHELF_STORAGE backend %q (want file, redis, or memory)", cfg.StorageBackend))
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		cfgCopy.RedisPassword = "***REDACTED***"
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
