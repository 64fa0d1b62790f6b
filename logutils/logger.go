package logutils

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	buildLoggerOnce sync.Once
	globalLogger    *zap.Logger
)

// ZapLogger returns the process-wide logger shared by all hooked-wallet
// packages. Components derive their own sub-loggers from it with Named.
func ZapLogger() *zap.Logger {
	buildLoggerOnce.Do(func() {
		globalLogger = newConsoleLogger(zapcore.InfoLevel)
	})
	return globalLogger
}

// NewFileLogger creates a logger writing to a rotated log file.
func NewFileLogger(opts FileOptions, level zapcore.Level) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(defaultEncoderConfig()),
		ZapSyncerWithRotation(opts),
		level,
	)
	return zap.New(core)
}

func newConsoleLogger(level zapcore.Level) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(defaultEncoderConfig()),
		zapcore.Lock(os.Stderr),
		level,
	)
	return zap.New(core)
}

func defaultEncoderConfig() zapcore.EncoderConfig {
	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = zapcore.ISO8601TimeEncoder
	return config
}
