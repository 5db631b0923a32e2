// Package telemetry implements the engine's ports.Logger against log/slog
// and its metrics against Prometheus, following the teacher's
// observability adapter shape while adopting slog for the log calls
// themselves (grounded in roach88-nysm and e7canasta-orion-care-sensor,
// both heavier slog users than the teacher's bare log.Printf).
package telemetry

import (
	"log/slog"

	"github.com/jasperpeeters/nmos-node/internal/ports"
)

var _ ports.Logger = (*SlogLogger)(nil)

// SlogLogger adapts log/slog to the five NMOS severities the engine emits.
type SlogLogger struct {
	base *slog.Logger
}

// NewSlogLogger wraps a *slog.Logger, or the default logger if nil.
func NewSlogLogger(base *slog.Logger) *SlogLogger {
	if base == nil {
		base = slog.Default()
	}
	return &SlogLogger{base: base}
}

func toArgs(fields []ports.Field) []any {
	args := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		args = append(args, f.Key, f.Value)
	}
	return args
}

// TooMuchInfo logs at slog's Debug level - the noisiest severity, off by
// default in most handler configurations.
func (l *SlogLogger) TooMuchInfo(msg string, fields ...ports.Field) {
	l.base.Debug(msg, toArgs(fields)...)
}

func (l *SlogLogger) Info(msg string, fields ...ports.Field) {
	l.base.Info(msg, toArgs(fields)...)
}

// MoreInfo also maps to Info; slog has no level between Info and Debug
// distinct enough to separate the two nmos-cpp severities in between.
func (l *SlogLogger) MoreInfo(msg string, fields ...ports.Field) {
	l.base.Info(msg, toArgs(fields)...)
}

func (l *SlogLogger) Warning(msg string, fields ...ports.Field) {
	l.base.Warn(msg, toArgs(fields)...)
}

func (l *SlogLogger) Error(msg string, err error, fields ...ports.Field) {
	args := toArgs(fields)
	if err != nil {
		args = append(args, "error", err)
	}
	l.base.Error(msg, args...)
}
