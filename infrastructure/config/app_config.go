package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"todoblog/authn"
	"todoblog/database"
	"todoblog/domain/contracts"
	"todoblog/infrastructure/appsync"
	"todoblog/infrastructure/cache"
	"todoblog/logging"
)

const (
	BackendAppSync = "appsync"
	BackendMemory  = "memory"

	PageStoreSQLite = "sqlite"
	PageStoreRedis  = "redis"
	PageStoreMemory = "memory"
)

// AppConfig holds process-wide configuration. It is read once and handed to
// each client constructor explicitly.
type AppConfig struct {
	HTTPAddr    string
	HTTPLogPath string
	AppTitle    string

	Backend string
	AppSync appsync.Config
	Auth    authn.Config

	SessionCookieName   string
	SessionCookieSecure bool

	PageStore         string
	StaticFallback    bool
	PrerenderOnStart  bool
	PrerenderOnCreate bool

	Database *database.Config
	Redis    cache.Config
	Logging  *logging.Config
}

var (
	loadOnce sync.Once
	loaded   *AppConfig
)

// Load returns the process configuration, reading the environment on first use.
func Load() *AppConfig {
	loadOnce.Do(func() {
		loaded = LoadAppConfigFromEnv()
	})
	return loaded
}

// LoadAppConfigFromEnv loads complete application configuration from environment variables.
func LoadAppConfigFromEnv() *AppConfig {
	return &AppConfig{
		HTTPAddr:            getEnvWithDefault("HTTP_ADDR", ":8080"),
		HTTPLogPath:         getEnvWithDefault("HTTP_LOG_PATH", ""),
		AppTitle:            getEnvWithDefault("APP_TITLE", "Amplify + Next.js"),
		Backend:             strings.ToLower(getEnvWithDefault("BACKEND", BackendAppSync)),
		AppSync:             LoadAppSyncConfigFromEnv(),
		Auth:                LoadAuthConfigFromEnv(),
		SessionCookieName:   getEnvWithDefault("SESSION_COOKIE_NAME", "todoblog_session"),
		SessionCookieSecure: getEnvBoolWithDefault("SESSION_COOKIE_SECURE", false),
		PageStore:           strings.ToLower(getEnvWithDefault("PAGE_STORE", PageStoreSQLite)),
		StaticFallback:      getEnvBoolWithDefault("STATIC_FALLBACK", true),
		PrerenderOnStart:    getEnvBoolWithDefault("PRERENDER_ON_START", false),
		PrerenderOnCreate:   getEnvBoolWithDefault("PRERENDER_ON_CREATE", false),
		Database:            LoadDatabaseConfigFromEnv(),
		Redis:               LoadRedisConfigFromEnv(),
		Logging:             LoadLoggingConfigFromEnv(),
	}
}

// Validate checks the selections that would otherwise fail late.
func (c *AppConfig) Validate() error {
	switch c.Backend {
	case BackendAppSync:
		if err := c.AppSync.Validate(); err != nil {
			return err
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown BACKEND %q", c.Backend)
	}

	switch c.PageStore {
	case PageStoreSQLite, PageStoreRedis, PageStoreMemory:
	default:
		return fmt.Errorf("unknown PAGE_STORE %q", c.PageStore)
	}

	return c.Auth.Validate()
}

// LoadAppSyncConfigFromEnv loads the data-service endpoint settings.
func LoadAppSyncConfigFromEnv() appsync.Config {
	return appsync.Config{
		Endpoint:        getEnvWithDefault("APPSYNC_GRAPHQL_ENDPOINT", ""),
		Region:          getEnvWithDefault("APPSYNC_REGION", ""),
		APIKey:          getEnvWithDefault("APPSYNC_API_KEY", ""),
		DefaultAuthMode: getEnvAuthModeWithDefault("APPSYNC_DEFAULT_AUTH_MODE", contracts.AuthModeAPIKey),
		Timeout:         getEnvDurationWithDefault("APPSYNC_TIMEOUT", 15*time.Second),
	}
}

// LoadAuthConfigFromEnv loads sign-in settings. COGNITO_REGION falls back to
// APPSYNC_REGION since both usually live in the same region.
func LoadAuthConfigFromEnv() authn.Config {
	return authn.Config{
		Strategy:      strings.ToLower(getEnvWithDefault("AUTH_STRATEGY", authn.StrategyCognito)),
		Region:        getEnvWithDefault("COGNITO_REGION", os.Getenv("APPSYNC_REGION")),
		UserPoolID:    getEnvWithDefault("COGNITO_USER_POOL_ID", ""),
		ClientID:      getEnvWithDefault("COGNITO_CLIENT_ID", ""),
		ClientSecret:  getEnvWithDefault("COGNITO_CLIENT_SECRET", ""),
		LocalUsername: getEnvWithDefault("LOCAL_AUTH_USERNAME", ""),
		LocalPassword: getEnvWithDefault("LOCAL_AUTH_PASSWORD", ""),
		LocalSecret:   getEnvWithDefault("LOCAL_AUTH_SECRET", ""),
		SessionTTL:    getEnvDurationWithDefault("LOCAL_AUTH_SESSION_TTL", time.Hour),
	}
}

// LoadDatabaseConfigFromEnv loads database configuration from environment variables.
func LoadDatabaseConfigFromEnv() *database.Config {
	return &database.Config{
		Path:              getEnvWithDefault("DB_PATH", "./todoblog.db"),
		MaxOpenConns:      getEnvIntWithDefault("DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns:      getEnvIntWithDefault("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime:   getEnvDurationWithDefault("DB_CONN_MAX_LIFETIME", time.Hour),
		ConnMaxIdleTime:   getEnvDurationWithDefault("DB_CONN_MAX_IDLE_TIME", 15*time.Minute),
		BusyTimeoutMs:     getEnvIntWithDefault("DB_BUSY_TIMEOUT_MS", 5000),
		EnableForeignKeys: getEnvBoolWithDefault("DB_ENABLE_FOREIGN_KEYS", true),
		EnableWAL:         getEnvBoolWithDefault("DB_ENABLE_WAL", true),
	}
}

// LoadRedisConfigFromEnv loads the Redis page store connection.
func LoadRedisConfigFromEnv() cache.Config {
	return cache.Config{
		Addr:     getEnvWithDefault("REDIS_ADDR", "localhost:6379"),
		Password: getEnvWithDefault("REDIS_PASSWORD", ""),
		DB:       getEnvIntWithDefault("REDIS_DB", 0),
		PageTTL:  getEnvDurationWithDefault("REDIS_PAGE_TTL", 0),
	}
}

// LoadLoggingConfigFromEnv loads logging configuration from environment variables.
func LoadLoggingConfigFromEnv() *logging.Config {
	return &logging.Config{
		Level:  getEnvWithDefault("LOG_LEVEL", "info"),
		Format: getEnvWithDefault("LOG_FORMAT", "json"),
		Output: getEnvWithDefault("LOG_OUTPUT", "stdout"),
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseBool(v string, def bool) bool {
	v = strings.TrimSpace(strings.ToLower(v))
	switch v {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// Helper functions for environment variable parsing.
func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return parseBool(value, defaultValue)
	}
	return defaultValue
}

func getEnvDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvAuthModeWithDefault returns the empty mode for unknown values so
// appsync.Config.Validate rejects them.
func getEnvAuthModeWithDefault(key string, defaultValue contracts.AuthMode) contracts.AuthMode {
	if value := os.Getenv(key); value != "" {
		mode, _ := contracts.ParseAuthMode(strings.ToUpper(strings.TrimSpace(value)))
		return mode
	}
	return defaultValue
}
