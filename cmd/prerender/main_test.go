package main

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"

	"todoblog/infrastructure/config"
	"todoblog/logging"
)

func memoryConfig(t *testing.T) *config.AppConfig {
	t.Helper()
	t.Setenv("BACKEND", "memory")
	t.Setenv("PAGE_STORE", "memory")
	t.Setenv("AUTH_STRATEGY", "local")
	t.Setenv("LOCAL_AUTH_USERNAME", "demo")
	t.Setenv("LOCAL_AUTH_PASSWORD", "demo-password")
	t.Setenv("LOCAL_AUTH_SECRET", "test-secret")
	return config.LoadAppConfigFromEnv()
}

func TestRun_ReturnsExitCode(t *testing.T) {
	logger := logging.NewLoggerTo(io.Discard, &logging.Config{Level: "error", Format: "json"})

	t.Run("setup failure", func(t *testing.T) {
		cfg := memoryConfig(t)
		cfg.PageStore = "s3"
		assert.Equal(t, 1, run(context.Background(), cfg, logger, false))
	})

	t.Run("empty store", func(t *testing.T) {
		assert.Equal(t, 0, run(context.Background(), memoryConfig(t), logger, true))
	})
}
