package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v2"
)

// =============================================================================
// Risk screening service configuration, with environment overrides
// =============================================================================

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	IntelligenceA IntelligenceAConfig `yaml:"intelligence_a"`
	IntelligenceB IntelligenceBConfig `yaml:"intelligence_b"`
	Watchlist     WatchlistConfig     `yaml:"watchlist"`
	Cache         CacheConfig         `yaml:"cache"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
	Metrics       MetricsConfig       `yaml:"metrics"`
}

type ServerConfig struct {
	Port             string   `yaml:"port"`
	Env              string   `yaml:"env"`
	Interface        string   `yaml:"interface"`
	ReadTimeoutSec   int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec  int      `yaml:"write_timeout_sec"`
	IdleTimeoutSec   int      `yaml:"idle_timeout_sec"`
	ShutdownTimeout  int      `yaml:"shutdown_timeout_sec"`
	CORSAllowOrigins []string `yaml:"cors_allow_origins"`
}

// DatabaseConfig points at the Postgres-compatible store holding the
// verdict log, change log, sanctions, and watchlist tables.
type DatabaseConfig struct {
	DSN             string `yaml:"dsn"`
	MaxOpenConns    int    `yaml:"max_open_conns"`
	MaxIdleConns    int    `yaml:"max_idle_conns"`
	SanctionsSchema string `yaml:"sanctions_schema"`
}

// IntelligenceAConfig carries the bearer token and base URL for the
// five-endpoint compliance/risk/sanctions/voyage-events provider.
type IntelligenceAConfig struct {
	BaseURL    string `yaml:"base_url"`
	BearerToken string `yaml:"bearer_token"`
}

// IntelligenceBConfig carries credentials for the bulk risk-score and
// compliance-screening provider.
type IntelligenceBConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
}

// WatchlistConfig points at the watchlist existence-lookup database. It may
// share the same DSN as DatabaseConfig or point at a separate instance.
type WatchlistConfig struct {
	DSN   string `yaml:"dsn"`
	Table string `yaml:"table"`
}

// CacheConfig configures the request-coalescing cache and its optional
// Redis mirror.
type CacheConfig struct {
	TTLSeconds  int    `yaml:"ttl_seconds"`
	RedisAddr   string `yaml:"redis_addr"`
	RedisDB     int    `yaml:"redis_db"`
	MirrorToRedis bool `yaml:"mirror_to_redis"`
}

type CircuitBreakerConfig struct {
	MaxRequests uint32 `yaml:"max_requests"`
	TimeoutSec  int    `yaml:"timeout_sec"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// =============================================================================
// Singleton Pattern with Environment Overrides
// =============================================================================

var (
	instance *Config
	once     sync.Once
)

// Get returns the singleton config instance, loading config.yaml (or
// CONFIG_PATH) on first call and layering environment overrides on top.
func Get() *Config {
	once.Do(func() {
		cfg, err := LoadConfig(getEnv("CONFIG_PATH", "config.yaml"))
		if err != nil {
			slog.Warn("config: failed to load config file, using defaults", "error", err)
		}
		if cfg == nil {
			cfg = &Config{}
		}
		cfg.applyEnvOverrides()
		instance = cfg
	})
	return instance
}

// LoadConfig loads config from a YAML file.
func LoadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnvOverrides applies environment variable overrides, then fills in
// defaults for anything still unset.
func (c *Config) applyEnvOverrides() {
	c.Server.Port = getEnv("PORT", c.Server.Port)
	c.Server.Env = getEnv("RISKSCREEN_ENV", c.Server.Env)
	c.Server.Interface = getEnv("RISKSCREEN_INTERFACE", c.Server.Interface)
	if v := getEnvInt("SERVER_READ_TIMEOUT_SEC", 0); v > 0 {
		c.Server.ReadTimeoutSec = v
	}
	if v := getEnvInt("SERVER_WRITE_TIMEOUT_SEC", 0); v > 0 {
		c.Server.WriteTimeoutSec = v
	}
	if v := getEnvInt("SERVER_IDLE_TIMEOUT_SEC", 0); v > 0 {
		c.Server.IdleTimeoutSec = v
	}
	if v := getEnvInt("SERVER_SHUTDOWN_TIMEOUT_SEC", 0); v > 0 {
		c.Server.ShutdownTimeout = v
	}
	if origins := getEnv("CORS_ALLOW_ORIGINS", ""); origins != "" {
		c.Server.CORSAllowOrigins = splitCSV(origins)
	}

	c.Database.DSN = getEnv("DATABASE_DSN", c.Database.DSN)
	if v := getEnvInt("DATABASE_MAX_OPEN_CONNS", 0); v > 0 {
		c.Database.MaxOpenConns = v
	}
	if v := getEnvInt("DATABASE_MAX_IDLE_CONNS", 0); v > 0 {
		c.Database.MaxIdleConns = v
	}
	c.Database.SanctionsSchema = getEnv("SANCTIONS_SCHEMA", c.Database.SanctionsSchema)

	c.IntelligenceA.BaseURL = getEnv("INTELLIGENCE_A_BASE_URL", c.IntelligenceA.BaseURL)
	c.IntelligenceA.BearerToken = getEnv("INTELLIGENCE_A_BEARER_TOKEN", c.IntelligenceA.BearerToken)

	c.IntelligenceB.BaseURL = getEnv("INTELLIGENCE_B_BASE_URL", c.IntelligenceB.BaseURL)
	c.IntelligenceB.APIKey = getEnv("INTELLIGENCE_B_API_KEY", c.IntelligenceB.APIKey)

	c.Watchlist.DSN = getEnv("WATCHLIST_DSN", c.Watchlist.DSN)
	c.Watchlist.Table = getEnv("WATCHLIST_TABLE", c.Watchlist.Table)

	if v := getEnvInt("CACHE_TTL_SECONDS", 0); v > 0 {
		c.Cache.TTLSeconds = v
	}
	c.Cache.RedisAddr = getEnv("REDIS_ADDR", c.Cache.RedisAddr)
	if v := getEnvInt("REDIS_DB", -1); v >= 0 {
		c.Cache.RedisDB = v
	}
	c.Cache.MirrorToRedis = getEnvBool("CACHE_MIRROR_TO_REDIS", c.Cache.MirrorToRedis)

	if v := getEnvInt("CIRCUIT_BREAKER_MAX_REQUESTS", 0); v > 0 {
		c.CircuitBreaker.MaxRequests = uint32(v)
	}
	if v := getEnvInt("CIRCUIT_BREAKER_TIMEOUT_SEC", 0); v > 0 {
		c.CircuitBreaker.TimeoutSec = v
	}

	c.Metrics.Enabled = getEnvBool("METRICS_ENABLED", c.Metrics.Enabled)
	c.Metrics.Path = getEnv("METRICS_PATH", c.Metrics.Path)

	c.applyDefaults()
}

// applyDefaults sets sensible defaults for zero-valued config fields.
func (c *Config) applyDefaults() {
	if c.Server.Port == "" {
		c.Server.Port = "8080"
	}
	if c.Server.ReadTimeoutSec == 0 {
		c.Server.ReadTimeoutSec = 15
	}
	if c.Server.WriteTimeoutSec == 0 {
		c.Server.WriteTimeoutSec = 15
	}
	if c.Server.IdleTimeoutSec == 0 {
		c.Server.IdleTimeoutSec = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 30
	}
	if len(c.Server.CORSAllowOrigins) == 0 {
		c.Server.CORSAllowOrigins = []string{"*"}
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 10
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.SanctionsSchema == "" {
		c.Database.SanctionsSchema = "public"
	}
	if c.Watchlist.Table == "" {
		c.Watchlist.Table = "watchlist_vessels"
	}
	if c.Cache.TTLSeconds == 0 {
		c.Cache.TTLSeconds = 300
	}
	if c.CircuitBreaker.MaxRequests == 0 {
		c.CircuitBreaker.MaxRequests = 3
	}
	if c.CircuitBreaker.TimeoutSec == 0 {
		c.CircuitBreaker.TimeoutSec = 30
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
}

// Validate enforces the startup invariant that both provider credentials and
// the database DSN must be present; their absence is a fatal config error,
// not a degrade-gracefully condition.
func (c *Config) Validate() error {
	var missing []string
	if c.IntelligenceA.BaseURL == "" || c.IntelligenceA.BearerToken == "" {
		missing = append(missing, "intelligence_a (base_url/bearer_token)")
	}
	if c.IntelligenceB.BaseURL == "" || c.IntelligenceB.APIKey == "" {
		missing = append(missing, "intelligence_b (base_url/api_key)")
	}
	if c.Database.DSN == "" {
		missing = append(missing, "database.dsn")
	}
	if c.Watchlist.DSN == "" {
		missing = append(missing, "watchlist.dsn")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing required settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

// =============================================================================
// Helper Functions
// =============================================================================

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1"
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func splitCSV(s string) []string {
	parts := make([]string, 0)
	for _, p := range strings.Split(s, ",") {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

// =============================================================================
// Convenience Methods
// =============================================================================

func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

func (c *Config) GetPort() string {
	if c.Server.Port == "" {
		return "8080"
	}
	return c.Server.Port
}
