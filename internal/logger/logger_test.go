package logger

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	t.Run("Writes JSON to a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "docqa.log")
		log, err := New("debug", "json", path)
		require.NoError(t, err)
		log.Debug("hello", zap.String("k", "v"))
		require.NoError(t, log.Sync())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var entry map[string]any
		require.NoError(t, json.Unmarshal(data, &entry))
		assert.Equal(t, "hello", entry["msg"])
		assert.Equal(t, "v", entry["k"])
	})

	t.Run("Unknown level falls back to info", func(t *testing.T) {
		log, err := New("loud", "console", "stderr")
		require.NoError(t, err)
		assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
		assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	})

	t.Run("Bad file path fails", func(t *testing.T) {
		_, err := New("info", "json", filepath.Join(t.TempDir(), "missing", "x.log"))
		assert.Error(t, err)
	})
}

func TestTraceID(t *testing.T) {
	id := NewTraceID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)

	ctx := WithTraceID(context.Background(), id)
	assert.Equal(t, id, TraceID(ctx))
	assert.Empty(t, TraceID(context.Background()))

	core, logs := observer.New(zapcore.InfoLevel)
	FromContext(ctx, zap.New(core)).Info("answer")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, id, logs.All()[0].ContextMap()["trace_id"])

	assert.NotNil(t, FromContext(context.Background(), nil))
}
