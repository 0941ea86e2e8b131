package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogBeforeInit(t *testing.T) {
	assert.NotNil(t, Log())
	assert.NotNil(t, S())
}

func TestSetLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	setLogger(zap.New(core))

	Log().Info("marker drawn", zap.Int("id", 3))
	S().Infow("event sent", "name", "image")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "marker drawn", logs.All()[0].Message)
	assert.Equal(t, int64(3), logs.All()[0].ContextMap()["id"])
	assert.Equal(t, "image", logs.All()[1].ContextMap()["name"])
	assert.Same(t, Log(), zap.L())
}

func TestInitDevelopment(t *testing.T) {
	require.NoError(t, InitDevelopment())
	assert.True(t, Log().Core().Enabled(zap.DebugLevel))
	Sync()
}
