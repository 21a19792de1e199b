// Package logging builds the diagnostic logger used across the CLI. Logs are
// written as human-readable console lines through zap and handed to callers
// as a logr.Logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ParseLevel maps a level name to a zap level. Unknown names mean warn, the
// CLI's quiet default.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}

// New returns a logger writing console-encoded entries at level or above to w.
// The returned zap.Logger should be synced before exit.
func New(w io.Writer, level zapcore.Level) (logr.Logger, *zap.Logger) {
	if w == nil {
		w = os.Stderr
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.CallerKey = ""
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(level),
	)
	zapLogger := zap.New(core)
	return zapr.NewLogger(zapLogger), zapLogger
}
