// Package log provides the process-wide zap logger.
package log

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	baseLogger *zap.Logger
	sugar      *zap.SugaredLogger
)

// Init builds the package-level logger. debug selects the development
// encoder and debug level; otherwise level is parsed from the config value.
func Init(debug bool, level string) error {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Encoding = "console"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if level != "" {
			lvl, err := zapcore.ParseLevel(level)
			if err != nil {
				return fmt.Errorf("parse log level %q: %w", level, err)
			}
			cfg.Level = zap.NewAtomicLevelAt(lvl)
		}
	}
	// Logs go to stderr so stdout stays clean for tables and exports.
	cfg.OutputPaths = []string{"stderr"}

	zl, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("can't initialize zap logger: %w", err)
	}
	baseLogger = zl
	sugar = zl.Sugar()
	return nil
}

// Logger returns the base logger, falling back to a no-op logger when Init
// has not run (tests, library use).
func Logger() *zap.Logger {
	if baseLogger == nil {
		baseLogger = zap.NewNop()
		sugar = baseLogger.Sugar()
	}
	return baseLogger
}

// Sugared returns the sugared logger.
func Sugared() *zap.SugaredLogger {
	if sugar == nil {
		Logger()
	}
	return sugar
}

// Sync flushes any buffered log entries.
func Sync() {
	if baseLogger != nil {
		_ = baseLogger.Sync()
	}
}

func Debugw(msg string, keysAndValues ...interface{}) { Sugared().Debugw(msg, keysAndValues...) }
func Infow(msg string, keysAndValues ...interface{})  { Sugared().Infow(msg, keysAndValues...) }
func Warnw(msg string, keysAndValues ...interface{})  { Sugared().Warnw(msg, keysAndValues...) }
func Errorw(msg string, keysAndValues ...interface{}) { Sugared().Errorw(msg, keysAndValues...) }

// GooseLogger adapts the package logger to goose's Logger interface so that
// migration output is routed through zap.
type GooseLogger struct{}

func (GooseLogger) Printf(format string, v ...interface{}) {
	Sugared().Debugf(format, v...)
}

func (GooseLogger) Fatalf(format string, v ...interface{}) {
	Sugared().Fatalf(format, v...)
}
