package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	logger, err := NewLogger("verbose")
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	require.False(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNewLoggerHonoursLevel(t *testing.T) {
	logger, err := NewLogger("DEBUG")
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestFromContextDefaultsToNop(t *testing.T) {
	require.NotNil(t, FromContext(context.Background()))

	logger := zap.NewExample()
	ctx := WithLogger(context.Background(), logger)
	require.Same(t, logger, FromContext(ctx))
}
