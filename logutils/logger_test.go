package logutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestZapLoggerIsSingleton(t *testing.T) {
	require.NotNil(t, ZapLogger())
	require.Same(t, ZapLogger(), ZapLogger())
}

func TestNewFileLoggerWritesToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "wallet.log")
	logger := NewFileLogger(FileOptions{Filename: file, MaxSize: 1, MaxBackups: 1}, zapcore.DebugLevel)

	logger.Info("request handled", zap.String("method", "eth_accounts"))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	require.Contains(t, string(data), "request handled")
	require.Contains(t, string(data), "eth_accounts")
}
