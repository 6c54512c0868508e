package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestNewLogger_RoleAndTimestamp(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "sync", "")

	l.Info().Msg("hello")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "sync", entry["role"])
	assert.Contains(t, entry, "time")
	assert.Equal(t, "func", zerolog.CallerFieldName)
}

func TestNewLogger_Level(t *testing.T) {
	tests := []struct {
		name  string
		level string
		want  zerolog.Level
	}{
		{name: "empty defaults to debug", level: "", want: zerolog.DebugLevel},
		{name: "unknown defaults to debug", level: "loud", want: zerolog.DebugLevel},
		{name: "warn", level: "warn", want: zerolog.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newLogger(&bytes.Buffer{}, "lvl", tt.level)
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
}

func TestNop_DiscardsOutput(t *testing.T) {
	var buf bytes.Buffer
	l := Nop()
	l.Logger = l.Output(&buf)

	l.Info().Msg("should be discarded")

	assert.Empty(t, buf.String())
}

func TestWithComponent_AddsField(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, "server", "debug").WithComponent("cache")

	l.Info().Msg("component")

	entry := decodeEntry(t, &buf)
	assert.Equal(t, "cache", entry["component"])
	assert.Equal(t, "server", entry["role"])
}

func TestGetChildLogger_IsIndependent(t *testing.T) {
	parent := newLogger(&bytes.Buffer{}, "parent", "debug")
	child := parent.GetChildLogger()
	assert.NotSame(t, parent, child)
}

func TestFromContext_ReturnsAttachedLogger(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf).With().Str("trace_id", "abc").Logger()
	ctx := zl.WithContext(context.Background())

	FromContext(ctx).Info().Msg("from context")

	assert.Equal(t, "abc", decodeEntry(t, &buf)["trace_id"])
}

func TestFromContextOr_FallsBack(t *testing.T) {
	fallback := Nop()
	assert.Same(t, fallback, FromContextOr(context.Background(), fallback))

	var buf bytes.Buffer
	zl := zerolog.New(&buf)
	ctx := zl.WithContext(context.Background())
	assert.NotSame(t, fallback, FromContextOr(ctx, fallback))
}

func TestFromRequest_ReturnsAttachedLogger(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf).With().Str("req-key", "req-value").Logger()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(zl.WithContext(req.Context()))

	FromRequest(req).Info().Msg("from request")

	assert.Equal(t, "req-value", decodeEntry(t, &buf)["req-key"])
}
