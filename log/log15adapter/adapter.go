// Package log15adapter provides a logger that writes to a github.com/inconshreveable/log15.Logger
// log.
package log15adapter

import (
	"context"
	"sort"

	"github.com/jackc/pgcast"
	"github.com/samber/lo"
)

// Log15Logger interface defines the subset of
// github.com/inconshreveable/log15.Logger that this adapter uses.
type Log15Logger interface {
	Debug(msg string, ctx ...any)
	Info(msg string, ctx ...any)
	Warn(msg string, ctx ...any)
	Error(msg string, ctx ...any)
	Crit(msg string, ctx ...any)
}

type Logger struct {
	l          Log15Logger
	skipModule bool
}

type option func(l *Logger)

// WithoutPGCastModule disables adding module=pgcast to every record.
func WithoutPGCastModule() option {
	return func(l *Logger) {
		l.skipModule = true
	}
}

func NewLogger(l Log15Logger, options ...option) *Logger {
	logger := &Logger{l: l}
	for _, opt := range options {
		opt(logger)
	}
	return logger
}

// Log writes msg with the fields of data in key order.
func (l *Logger) Log(ctx context.Context, level pgcast.LogLevel, msg string, data map[string]any) {
	if level == pgcast.LogLevelNone {
		return
	}

	keys := lo.Keys(data)
	sort.Strings(keys)
	logArgs := make([]any, 0, 2*len(keys)+4)
	if !l.skipModule {
		logArgs = append(logArgs, "module", "pgcast")
	}
	for _, k := range keys {
		logArgs = append(logArgs, k, data[k])
	}

	switch level {
	case pgcast.LogLevelTrace:
		l.l.Debug(msg, append(logArgs, "pgcast_level", level.String())...)
	case pgcast.LogLevelDebug:
		l.l.Debug(msg, logArgs...)
	case pgcast.LogLevelInfo:
		l.l.Info(msg, logArgs...)
	case pgcast.LogLevelWarn:
		l.l.Warn(msg, logArgs...)
	case pgcast.LogLevelError:
		l.l.Error(msg, logArgs...)
	default:
		l.l.Error(msg, append(logArgs, "pgcast_level", level.String())...)
	}
}
