package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.DebugLevel, ParseLevel(" DEBUG "))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("nonsense"))
}

func TestContextFieldsAreWritten(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{ServiceName: "kasir-api", Level: zerolog.DebugLevel, Output: &buf})

	ctx := l.WithRequestID(context.Background(), "req-1")
	ctx = l.WithSession(ctx, "guest:abc", "local")
	l.Error(ctx, "commit failed", errors.New("boom"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kasir-api", line["service"])
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "guest:abc", line["session_id"])
	assert.Equal(t, "local", line["provider"])
	assert.Equal(t, "boom", line["error"])
	assert.Equal(t, "commit failed", line["message"])
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: zerolog.WarnLevel, Output: &buf})

	l.Info(context.Background(), "hidden")
	assert.Zero(t, buf.Len())

	l.Warn(context.Background(), "shown", nil)
	assert.Contains(t, buf.String(), "shown")
}
