// Package logging builds the process logger.
package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	// Level is a zap level name; invalid or empty means info.
	Level string
	// File sends logs to a file instead of stderr.
	File string
	// Discard returns a no-op logger unless File is set. The TUI owns the
	// terminal, so it logs only to a file.
	Discard bool
}

// New builds a JSON logger.
func New(opts Options) (*zap.Logger, error) {
	if opts.Discard && strings.TrimSpace(opts.File) == "" {
		return zap.NewNop(), nil
	}

	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(opts.Level)))); err != nil {
		level.SetLevel(zapcore.InfoLevel)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = level
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.DisableStacktrace = true
	cfg.Sampling = nil
	out := []string{"stderr"}
	if f := strings.TrimSpace(opts.File); f != "" {
		out = []string{f}
	}
	cfg.OutputPaths = out
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
