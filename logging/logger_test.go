package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var lines []map[string]any
	for _, raw := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(raw) == 0 {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal(raw, &entry))
		lines = append(lines, entry)
	}
	return lines
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("nonsense"))
}

func TestNewLoggerTo_JSONWithTimestamp(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, &Config{Level: "info", Format: "json"})

	logger.WithComponent("pages").Render("page stored", "path", "/todo/1")
	logger.Debug("hidden")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "page stored", lines[0]["msg"])
	assert.Equal(t, "pages", lines[0]["component"])
	assert.Equal(t, "render", lines[0]["subsystem"])
	assert.Equal(t, "/todo/1", lines[0]["path"])
	assert.Contains(t, lines[0], "timestamp")
	assert.NotContains(t, lines[0], "time")
}

func TestNewLoggerTo_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, &Config{Level: "debug", Format: "text"})

	logger.GraphQL("request sent", "operation", "listBlogs")

	out := buf.String()
	assert.Contains(t, out, "subsystem=graphql")
	assert.Contains(t, out, "operation=listBlogs")
}

func TestWithContext_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, &Config{Level: "info", Format: "json"})

	var seen *Logger
	handler := middleware.RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.WithContext(r.Context())
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.NotNil(t, seen)
	seen.Info("handled")
	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.NotEmpty(t, lines[0]["request_id"])

	assert.Same(t, logger, logger.WithContext(context.Background()))
}

func TestDefault_UsesConfiguredLogger(t *testing.T) {
	previous := defaultLogger
	t.Cleanup(func() { defaultLogger = previous })

	var buf bytes.Buffer
	SetDefault(NewLoggerTo(&buf, &Config{Level: "warn", Format: "json"}))

	Info("dropped")
	Warn("kept", "item_id", "42")

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "kept", lines[0]["msg"])
	assert.Equal(t, "42", lines[0]["item_id"])
}
