// Package logger строит zap SugaredLogger по уровню из конфигурации.
package logger

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a logger for level. "debug" gets the development (console) config,
// other levels the production JSON config. Output goes to stderr so that command
// output on stdout stays clean.
func New(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	var cfg zap.Config
	if lvl == zapcore.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Sampling = nil
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

// NewSugared is New plus Sugar, falling back to a no-op logger on a bad level.
func NewSugared(level string) (*zap.SugaredLogger, func()) {
	l, err := New(level)
	if err != nil {
		l = zap.NewNop()
	}
	return l.Sugar(), func() { _ = l.Sync() }
}
