package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Storage backends for the bookmark document.
const (
	StorageFile   = "file"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

type Config struct {
	ListenAddr      string        // ex: "127.0.0.1:8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	CatalogFile           string        // path to the catalog yaml file
	CatalogReloadInterval time.Duration // interval to reload the catalog (default: 24h)
	AuditInterval         time.Duration // interval between stale bookmark audits (default: 1h)
	ExportBaseURL         string        // export hand-off target, codes are appended

	Storage string // "file" | "redis" | "memory"
	DataDir string // directory used by the file backend

	// Redis, only read when Storage == "redis"
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

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // restrict access to specific IPs or networks
	TrustProxy   bool     // true => trust X-Forwarded-For headers

	ImportBurst  int // classroom import rate limit burst
	ImportPerMin int // classroom import requests refilled per minute
}

func Load() *Config {
	cfg := &Config{
		// Server settings
		ListenAddr:      getenv("KDB_LISTEN_ADDR", "127.0.0.1:8080"),
		ShutdownTimeout: mustDuration("KDB_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("KDB_LOG_LEVEL", "info"),
		PrettyLog: mustBool("KDB_PRETTY_LOG", true),

		// Catalog
		CatalogFile:           requireEnv("KDB_CATALOG_FILE"),
		CatalogReloadInterval: mustDuration("KDB_CATALOG_RELOAD_INTERVAL", 24*time.Hour),
		AuditInterval:         mustDuration("KDB_AUDIT_INTERVAL", time.Hour),
		ExportBaseURL:         getenv("KDB_EXPORT_BASE_URL", "https://app.twinte.net/import?codes="),

		// Storage
		Storage: mustOneOf("KDB_STORAGE", StorageFile, StorageFile, StorageRedis, StorageMemory),
		DataDir: getenv("KDB_DATA_DIR", "./data"),

		// Access restrictions
		AllowedHosts: splitAndTrim(getenv("KDB_ALLOWED_HOSTS", "")),
		AllowedCIDRS: splitAndTrim(getenv("KDB_ALLOWED_CIDRS", "127.0.0.1/32,::1/128")),
		TrustProxy:   mustBool("KDB_TRUST_PROXY", false),

		ImportBurst:  getenvInt("KDB_IMPORT_BURST", 5),
		ImportPerMin: getenvInt("KDB_IMPORT_PER_MIN", 10),
	}

	if cfg.Storage == StorageRedis {
		loadRedis(cfg)
	}

	// Log config only in debug mode with redacted sensitive fields
	if cfg.LogLevel == "debug" {
		cfgCopy := *cfg
		if cfg.RedisPassword != "" {
			cfgCopy.RedisPassword = "***REDACTED***"
		}
		if cfg.RedisUser != "" {
			cfgCopy.RedisUser = "***REDACTED***"
		}
		log.Printf("[DEBUG] cfg: %+v\n", cfgCopy)
	}

	return cfg
}

func loadRedis(cfg *Config) {
	cfg.RedisAddr = requireEnv("KDB_REDIS_ADDR")
	cfg.RedisUser = getenv("KDB_REDIS_USERNAME", "default")
	cfg.RedisPasswordRequired = mustBool("KDB_REDIS_PASSWORD_REQUIRED", true)
	cfg.RedisPassword = getenv("KDB_REDIS_PASSWORD", "")
	cfg.RedisDB = requireEnvInt("KDB_REDIS_DB")
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
		panic("❌ FATAL: KDB_REDIS_PASSWORD is required when KDB_REDIS_PASSWORD_REQUIRED=true")
	}
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

func requireEnvInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("❌ FATAL: Required environment variable %s is not set", key))
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return i
}

// mustOneOf returns the lower-cased value of key, or def when unset.
// Values outside allowed are fatal.
func mustOneOf(key, def string, allowed ...string) string {
	v := strings.ToLower(strings.TrimSpace(getenv(key, def)))
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	panic(fmt.Sprintf("❌ FATAL: Invalid value for %s: %q (want one of %s)", key, v, strings.Join(allowed, ", ")))
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

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
