// Package observ builds the application logger. Everything that logs
// receives a *zap.Logger from the wiring in main; no package constructs
// its own.
package observ

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger picks the zap preset by environment and the level by name.
//
// Why two presets?
//   - Production: JSON lines, ISO timestamps, sampling — what log
//     aggregators expect.
//   - Everything else: human-readable console output with colored
//     levels, which is what you want while developing.
func NewLogger(env, level string) (*zap.Logger, error) {
	config := zap.NewDevelopmentConfig()
	if env == "production" {
		config = zap.NewProductionConfig()
	}

	config.Level = zap.NewAtomicLevelAt(parseLevel(level))
	return config.Build()
}

// parseLevel maps a level name to a zap level. An unrecognized name
// falls back to info — a typo in LOG_LEVEL should not keep the
// service from starting.
func parseLevel(level string) zapcore.Level {
	l, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return l
}
