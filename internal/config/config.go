package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request timeout, covers random background downloads

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	// Storage
	StoreBackend  string // "redis" | "sqlite" | "memory"
	SQLitePath    string // path to the sqlite database (sqlite backend)
	MemoryQuota   int    // byte budget for the memory backend, 0 = unlimited
	RedisKeyspace string // prefix prepended to every logical key in redis

	// Redis
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

	// Features
	SeedFile       string // optional yaml with default shortcuts/engines for an empty store
	EnginesEnabled bool   // search engine registry on/off

	// Theme
	SystemTheme        string        // "light" | "dark", reported in backgroundThemeInfo
	PageBackground     string        // page background color sampled when no custom image is set (ex: "#1f2937")
	ThemeSafetyNetWait time.Duration // delay of the one-shot re-detection after startup

	// Network
	RelayEnabled        bool          // false => favicons only use the fallback icon service
	FaviconTimeout      time.Duration // per-candidate favicon fetch timeout
	RandomBackgroundURL string        // source of random backgrounds
	NativeSearchURL     string        // template used by the relay's performSearch
	MaxUploadBytes      int64         // background upload limit

	// Favicon cache GC
	FaviconGCInterval time.Duration // 0 = disabled

	// Access restrictions
	AllowedHosts   []string // optional, restrict mutating routes to specific Host headers
	AllowedCIDRS   []string // optional, restrict mutating routes to specific IPs/CIDRs
	CORSOrigins    []string // optional, origins allowed to call the API cross-origin ("*" = any)
	TrustProxy     bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)
	RelayBurst     int      // relay rate limit burst per IP
	RelayPerMinute int      // relay rate limit refill per IP per minute
}

// Load reads the configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables take precedence over it.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] failed to read .env file: %v", err)
	}

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("LIQUIDTAB_LISTEN_PORT", ":8080"),
		ShutdownTimeout: mustDuration("LIQUIDTAB_SHUTDOWN_TIMEOUT", 5*time.Second),
		RequestTimeout:  mustDuration("LIQUIDTAB_REQUEST_TIMEOUT", 30*time.Second),

		// Logging
		LogLevel:  getenv("LIQUIDTAB_LOG_LEVEL", "info"),
		PrettyLog: mustBool("LIQUIDTAB_PRETTY_LOG", true),

		// Storage
		StoreBackend:  strings.ToLower(getenv("LIQUIDTAB_STORE", BackendSQLite)),
		SQLitePath:    getenv("LIQUIDTAB_SQLITE_PATH", "./data/liquidtab.db"),
		MemoryQuota:   getenvInt("LIQUIDTAB_MEMORY_QUOTA", 0),
		RedisKeyspace: getenv("LIQUIDTAB_REDIS_KEYSPACE", "liquidtab:"),

		// Redis settings
		RedisAddr:             getenv("LIQUIDTAB_REDIS_ADDR", "localhost:6379"),
		RedisUser:             getenv("LIQUIDTAB_REDIS_USERNAME", "default"),
		RedisPasswordRequired: mustBool("LIQUIDTAB_REDIS_PASSWORD_REQUIRED", false),
		RedisPassword:         getenv("LIQUIDTAB_REDIS_PASSWORD", ""),
		RedisDB:               getenvInt("LIQUIDTAB_REDIS_DB", 0),
		RedisDT:               mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:               mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:               mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisMaxWait:          mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:      mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
		RedisPoolSize:         getenvInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout:   mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:    mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisWarnThreshold:    getenvInt("REDIS_WARN_THRESHOLD", 3),

		// Features
		SeedFile:       getenv("LIQUIDTAB_SEED_FILE", ""),
		EnginesEnabled: mustBool("LIQUIDTAB_ENGINES_ENABLED", true),

		// Theme
		SystemTheme:        getenv("LIQUIDTAB_SYSTEM_THEME", "dark"),
		PageBackground:     getenv("LIQUIDTAB_PAGE_BACKGROUND", "#1f2937"),
		ThemeSafetyNetWait: mustDuration("LIQUIDTAB_THEME_SAFETY_NET", 500*time.Millisecond),

		// Network
		RelayEnabled:        mustBool("LIQUIDTAB_RELAY_ENABLED", true),
		FaviconTimeout:      mustDuration("LIQUIDTAB_FAVICON_TIMEOUT", 5*time.Second),
		RandomBackgroundURL: getenv("LIQUIDTAB_RANDOM_BACKGROUND_URL", "https://picsum.photos/1920/1080"),
		NativeSearchURL:     getenv("LIQUIDTAB_NATIVE_SEARCH_URL", "https://www.google.com/search?q=%s"),
		MaxUploadBytes:      int64(getenvInt("LIQUIDTAB_MAX_UPLOAD_BYTES", 5*1024*1024)),

		FaviconGCInterval: mustDuration("LIQUIDTAB_FAVICON_GC_INTERVAL", 0),

		// Access restrictions
		AllowedHosts:   splitAndTrim(getenv("LIQUIDTAB_ALLOWED_HOSTS", "")),
		AllowedCIDRS:   parseAllowedIPs(getenv("LIQUIDTAB_ALLOWED_CIDRS", "")),
		CORSOrigins:    splitAndTrim(getenv("LIQUIDTAB_CORS_ORIGINS", "")),
		TrustProxy:     mustBool("LIQUIDTAB_TRUST_PROXY", false),
		RelayBurst:     getenvInt("LIQUIDTAB_RELAY_BURST", 60),
		RelayPerMinute: getenvInt("LIQUIDTAB_RELAY_PER_MINUTE", 120),
	}

	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("❌ FATAL: %v", err))
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

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendRedis, BackendSQLite, BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q (want redis, sqlite or memory)", c.StoreBackend)
	}
	if c.StoreBackend == BackendRedis && c.RedisPasswordRequired && c.RedisPassword == "" {
		return fmt.Errorf("LIQUIDTAB_REDIS_PASSWORD is required when LIQUIDTAB_REDIS_PASSWORD_REQUIRED=true")
	}
	if c.StoreBackend == BackendSQLite && c.SQLitePath == "" {
		return fmt.Errorf("LIQUIDTAB_SQLITE_PATH must not be empty for the sqlite backend")
	}
	if c.SystemTheme != "light" && c.SystemTheme != "dark" {
		return fmt.Errorf("LIQUIDTAB_SYSTEM_THEME must be light or dark, got %q", c.SystemTheme)
	}
	if !strings.Contains(c.NativeSearchURL, "%s") {
		return fmt.Errorf("LIQUIDTAB_NATIVE_SEARCH_URL must contain %%s")
	}
	return nil
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
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

func parseAllowedIPs(allowed string) []string {
	if allowed == "" {
		return nil
	}
	ips := make([]string, 0, 4)
	for _, ip := range splitAndTrim(allowed) {
		if ip != "" {
			ips = append(ips, ip)
		}
	}
	return ips
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
