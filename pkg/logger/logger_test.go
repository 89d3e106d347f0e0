package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitLevel(t *testing.T) {
	require.NoError(t, Init("debug", true))
	assert.True(t, InfoLogger.Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, Init("nonsense", true))
	assert.False(t, InfoLogger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, InfoLogger.Core().Enabled(zapcore.InfoLevel))
}

func TestSetServiceName(t *testing.T) {
	old := SetServiceName("forex_bot")
	defer SetServiceName(old)

	assert.Equal(t, "forex_bot", SetServiceName("forex_bot"))
}

func TestNopDoesNotPanic(t *testing.T) {
	UseNop()
	assert.NotPanics(t, func() {
		Info("hello %s", "world")
		Warn("careful %d", 1)
		Error("boom %v", assert.AnError)
		Debug("details")
	})
	assert.NotNil(t, Named("test"))
}
