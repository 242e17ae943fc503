package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoblog/authn"
	"todoblog/domain/contracts"
)

func TestLoadAppConfigFromEnv_Defaults(t *testing.T) {
	cfg := LoadAppConfigFromEnv()

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, BackendAppSync, cfg.Backend)
	assert.Equal(t, PageStoreSQLite, cfg.PageStore)
	assert.True(t, cfg.StaticFallback)
	assert.False(t, cfg.PrerenderOnStart)
	assert.Equal(t, contracts.AuthModeAPIKey, cfg.AppSync.DefaultAuthMode)
	assert.Equal(t, 15*time.Second, cfg.AppSync.Timeout)
	assert.Equal(t, authn.StrategyCognito, cfg.Auth.Strategy)
	assert.Equal(t, "todoblog_session", cfg.SessionCookieName)
	assert.Equal(t, "./todoblog.db", cfg.Database.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadAppConfigFromEnv_Overrides(t *testing.T) {
	t.Setenv("BACKEND", "Memory")
	t.Setenv("PAGE_STORE", "redis")
	t.Setenv("STATIC_FALLBACK", "off")
	t.Setenv("PRERENDER_ON_CREATE", "yes")
	t.Setenv("APPSYNC_REGION", "eu-west-1")
	t.Setenv("APPSYNC_DEFAULT_AUTH_MODE", "amazon_cognito_user_pools")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REDIS_PAGE_TTL", "10m")
	t.Setenv("DB_MAX_OPEN_CONNS", "not-a-number")

	cfg := LoadAppConfigFromEnv()

	assert.Equal(t, BackendMemory, cfg.Backend)
	assert.Equal(t, PageStoreRedis, cfg.PageStore)
	assert.False(t, cfg.StaticFallback)
	assert.True(t, cfg.PrerenderOnCreate)
	assert.Equal(t, "eu-west-1", cfg.Auth.Region, "cognito region falls back to the data service region")
	assert.Equal(t, contracts.AuthModeUserPool, cfg.AppSync.DefaultAuthMode)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 10*time.Minute, cfg.Redis.PageTTL)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
}

func TestAppConfig_Validate(t *testing.T) {
	t.Setenv("BACKEND", "memory")
	t.Setenv("AUTH_STRATEGY", "local")
	t.Setenv("LOCAL_AUTH_USERNAME", "demo")
	t.Setenv("LOCAL_AUTH_PASSWORD", "demo")
	t.Setenv("LOCAL_AUTH_SECRET", "secret")

	cfg := LoadAppConfigFromEnv()
	require.NoError(t, cfg.Validate())

	cfg.PageStore = "dynamo"
	assert.ErrorContains(t, cfg.Validate(), "PAGE_STORE")

	cfg.PageStore = PageStoreMemory
	cfg.Backend = BackendAppSync
	assert.ErrorContains(t, cfg.Validate(), "APPSYNC_GRAPHQL_ENDPOINT")

	cfg.AppSync.Endpoint = "https://example.appsync-api.us-east-1.amazonaws.com/graphql"
	cfg.AppSync.DefaultAuthMode = contracts.AuthModeDefault
	assert.Error(t, cfg.Validate())
}

func TestParseBool(t *testing.T) {
	assert.True(t, parseBool(" TRUE ", false))
	assert.False(t, parseBool("0", true))
	assert.True(t, parseBool("maybe", true))
}
