// Package log wraps zap behind a small package-level API so the command
// binaries and storage layers share one configured logger.
package log

import (
	"fmt"

	"go.uber.org/zap"
)

var (
	base    *zap.Logger
	sugared *zap.SugaredLogger
)

// Init builds the shared logger. Debug selects the human-readable
// development encoder; otherwise the production JSON encoder is used.
func Init(debug bool) error {
	build := zap.NewProduction
	if debug {
		build = zap.NewDevelopment
	}
	logger, err := build(zap.AddCallerSkip(1))
	if err != nil {
		return fmt.Errorf("building zap logger: %w", err)
	}
	base = logger
	sugared = logger.Sugar()
	return nil
}

// ensure lazily builds a production logger when Init was never called, so
// library code can log before the binary finishes wiring.
func ensure() {
	if base == nil {
		base, _ = zap.NewProduction(zap.AddCallerSkip(1))
		sugared = base.Sugar()
	}
}

// GetZapLogger returns the structured logger for integrations that need a
// *zap.Logger directly, like the gorm log adapter.
func GetZapLogger() *zap.Logger {
	ensure()
	return base
}

// GetSugaredLogger returns the shared sugared logger for injection.
func GetSugaredLogger() *zap.SugaredLogger {
	ensure()
	return sugared
}

// Sync flushes any buffered entries.
func Sync() {
	if sugared != nil {
		sugared.Sync()
	}
}

func Debugf(template string, args ...any) { GetSugaredLogger().Debugf(template, args...) }
func Info(args ...any)                    { GetSugaredLogger().Info(args...) }
func Infof(template string, args ...any)  { GetSugaredLogger().Infof(template, args...) }
func Warnf(template string, args ...any)  { GetSugaredLogger().Warnf(template, args...) }
func Errorf(template string, args ...any) { GetSugaredLogger().Errorf(template, args...) }
func Fatalf(template string, args ...any) { GetSugaredLogger().Fatalf(template, args...) }
