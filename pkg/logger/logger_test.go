package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestKeyValueFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Set(zap.New(core))
	t.Cleanup(func() { Set(zap.NewNop()) })

	Info("model loaded", "model", "linear", "features", 31)
	Debug("recommend", "trace_id", "t-1")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "model loaded", entries[0].Message)
	assert.Equal(t, "linear", entries[0].ContextMap()["model"])
	assert.EqualValues(t, 31, entries[0].ContextMap()["features"])
	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)
}

func TestInit(t *testing.T) {
	t.Cleanup(func() { Set(zap.NewNop()) })

	Init("production")
	assert.False(t, get().Desugar().Core().Enabled(zapcore.DebugLevel))

	Init("development")
	assert.True(t, get().Desugar().Core().Enabled(zapcore.DebugLevel))
}
