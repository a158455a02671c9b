// Package logger_test contains tests for the logger package
package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/config"
	"github.com/MateusBorgesGuimaraes/blog-rest-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupWithWriter(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	tests := []struct {
		name       string
		level      string
		logDebug   bool
		logInfo    bool
		logWarning bool
	}{
		{name: "debug level", level: "debug", logDebug: true, logInfo: true, logWarning: true},
		{name: "info level", level: "info", logDebug: false, logInfo: true, logWarning: true},
		{name: "warn level", level: "WARN", logDebug: false, logInfo: false, logWarning: true},
		{name: "invalid level falls back to info", level: "chatty", logDebug: false, logInfo: true, logWarning: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: tt.level}, &buf)
			require.NoError(t, err)
			require.NotNil(t, l)
			assert.Same(t, l, slog.Default(), "Setup should install the logger as default")

			l.Debug("debug message")
			assert.Equal(t, tt.logDebug, bytes.Contains(buf.Bytes(), []byte("debug message")))
			l.Info("info message")
			assert.Equal(t, tt.logInfo, bytes.Contains(buf.Bytes(), []byte("info message")))
			l.Warn("warn message")
			assert.Equal(t, tt.logWarning, bytes.Contains(buf.Bytes(), []byte("warn message")))
		})
	}
}

func TestSetupWritesJSON(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	var buf bytes.Buffer
	l, err := logger.SetupWithWriter(config.ServerConfig{LogLevel: "info"}, &buf)
	require.NoError(t, err)

	l.Info("post created", "post_id", "abc")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "post created", entry["msg"])
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "abc", entry["post_id"])
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	fallback := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	assert.Nil(t, logger.FromContext(ctx))
	assert.Same(t, fallback, logger.FromContextOrDefault(ctx, fallback))
	assert.Same(t, slog.Default(), logger.FromContextOrDefault(ctx, nil))

	stored := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	ctx = logger.WithLogger(ctx, stored)

	assert.Same(t, stored, logger.FromContext(ctx))
	assert.Same(t, stored, logger.FromContextOrDefault(ctx, fallback))
}
