// Package obslog builds the single ambient zap logger for the stub
// server, mapping the CLI's --loglevel values onto zap's level model.
package obslog

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ValidLevels are the --loglevel values spec 6 allows.
var ValidLevels = []string{"error", "warn", "info", "debug", "trace", "none"}

// New builds a *zap.Logger for the given --loglevel value. "none"
// returns a no-op logger (zap.NewNop()); "trace" maps onto zap's Debug
// level (zap has no separate trace level), so "trace" and "debug" log
// the same output.
func New(level string) (*zap.Logger, error) {
	if level == "" {
		level = "info"
	}
	if level == "none" {
		return zap.NewNop(), nil
	}

	zapLevel, err := toZapLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

func toZapLevel(level string) (zapcore.Level, error) {
	switch level {
	case "error":
		return zapcore.ErrorLevel, nil
	case "warn":
		return zapcore.WarnLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "debug", "trace":
		return zapcore.DebugLevel, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", level)
	}
}
