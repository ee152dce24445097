// Package logging wires the global zap logger used by the CLI.
package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger is the global logger instance
var Logger *zap.Logger

// Config contains logging configuration
type Config struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string
	// Format is console or json
	Format string
	// Output is stdout, stderr, or a file path. Ignored when Writer is set.
	Output string
	// Writer overrides Output; used by tests.
	Writer io.Writer
}

// DefaultConfig keeps the CLI quiet unless something goes wrong.
func DefaultConfig() Config {
	return Config{Level: "warn", Format: "console", Output: "stderr"}
}

// Initialize sets up the global logger. An unknown level falls back to warn.
func Initialize(cfg Config) error {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.WarnLevel
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch cfg.Format {
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	case "", "console":
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		return fmt.Errorf("unknown log format %q (want console or json)", cfg.Format)
	}

	var ws zapcore.WriteSyncer
	switch {
	case cfg.Writer != nil:
		ws = zapcore.AddSync(cfg.Writer)
	case cfg.Output == "stdout":
		ws = zapcore.AddSync(os.Stdout)
	case cfg.Output == "" || cfg.Output == "stderr":
		ws = zapcore.AddSync(os.Stderr)
	default:
		f, err := os.OpenFile(cfg.Output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		ws = zapcore.AddSync(f)
	}

	Logger = zap.New(zapcore.NewCore(encoder, ws, level))
	return nil
}

// L returns the global logger.
func L() *zap.Logger {
	return Logger
}

// Sync flushes the logger
func Sync() {
	if Logger != nil {
		_ = Logger.Sync()
	}
}

func init() {
	_ = Initialize(DefaultConfig())
}
