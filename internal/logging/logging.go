// Package logging provides engine.Logger implementations.
package logging

import (
	"log/slog"
	"os"

	"github.com/Daolyap/random.daolyap.dev/internal/engine"
)

// SlogLogger adapts Go's log/slog to the engine's Logger interface.
type SlogLogger struct {
	logger *slog.Logger
}

var _ engine.Logger = (*SlogLogger)(nil)

// NewSlog wraps an existing slog.Logger.
func NewSlog(logger *slog.Logger) *SlogLogger {
	return &SlogLogger{logger: logger}
}

// NewSlogDefault returns a text logger on stderr. When verbose is set
// the level drops to Debug.
func NewSlogDefault(verbose bool) *SlogLogger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return &SlogLogger{logger: slog.New(handler)}
}

func (l *SlogLogger) Debug(msg string, keysAndValues ...any) { l.logger.Debug(msg, keysAndValues...) }
func (l *SlogLogger) Info(msg string, keysAndValues ...any) { l.logger.Info(msg, keysAndValues...) }
func (l *SlogLogger) Warn(msg string, keysAndValues ...any) { l.logger.Warn(msg, keysAndValues...) }
func (l *SlogLogger) Error(msg string, keysAndValues ...any) { l.logger.Error(msg, keysAndValues...) }

// NopLogger discards everything. Useful in tests and benchmarks.
type NopLogger struct{}

var _ engine.Logger = (*NopLogger)(nil)

// NewNop returns a logger that performs no operations.
func NewNop() *NopLogger { return &NopLogger{} }

func (*NopLogger) Debug(string, ...any) {}
func (*NopLogger) Info(string, ...any) {}
func (*NopLogger) Warn(string, ...any) {}
func (*NopLogger) Error(string, ...any) {}
