// Package logging constructs the zap.Logger used throughout gatewayd:
// a human-readable console encoder for development, JSON for
// production, both at a configurable level. Construction pattern is
// grounded in the zap.NewProduction/zap.NewDevelopment factory usage
// seen in the aras-auth server bootstrap.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds a *zap.Logger for the given format ("console" or "json")
// and level ("debug", "info", "warn", "error").
func New(format, level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("logging: parse level %q: %w", level, err)
	}

	var cfg zap.Config
	switch format {
	case "json":
		cfg = zap.NewProductionConfig()
	default:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: build: %w", err)
	}
	return logger, nil
}

// Must builds a logger and panics on error, for use at process startup
// before any logger exists to report the error through.
func Must(format, level string) *zap.Logger {
	logger, err := New(format, level)
	if err != nil {
		panic(err)
	}
	return logger
}
