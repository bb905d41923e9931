// Package logging provides structured logging with zap.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/filetug/filepick/pkg/fsutils"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	globalLogger *zap.Logger
	globalLevel  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

var osMkdirAll = os.MkdirAll

// Config holds logging configuration.
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // json, console
	OutputPath string // stderr, a file path or empty to discard
}

// Init initializes the global logger.
// The picker draws on the terminal, so stdout is never a valid output.
func Init(cfg Config) error {
	globalLevel.SetLevel(zapcore.InfoLevel)
	SetLevel(cfg.Level)

	if cfg.OutputPath == "" {
		globalLogger = zap.NewNop()
		return nil
	}
	if cfg.OutputPath == "stdout" {
		return fmt.Errorf("log output can not be stdout")
	}

	var config zap.Config
	if cfg.Format == "console" {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}
	config.Level = globalLevel

	output := cfg.OutputPath
	if output != "stderr" {
		output = fsutils.ExpandHome(output)
		if err := osMkdirAll(filepath.Dir(output), 0o700); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	config.OutputPaths = []string{output}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	globalLogger = logger
	return nil
}

// Sync flushes any buffered log entries.
func Sync() error {
	if globalLogger != nil {
		return globalLogger.Sync()
	}
	return nil
}

// SetLevel changes the global log level at runtime. Unknown levels are ignored.
func SetLevel(level string) {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return
	}
	globalLevel.SetLevel(l)
}

// L returns the global logger. Before Init it discards everything.
func L() *zap.Logger {
	if globalLogger == nil {
		globalLogger = zap.NewNop()
	}
	return globalLogger
}

// Named returns a child of the global logger for one component.
func Named(name string) *zap.Logger {
	return L().Named(name)
}
