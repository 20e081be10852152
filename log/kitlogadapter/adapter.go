// Package kitlogadapter provides a logger that writes to a github.com/go-kit/log.Logger.
package kitlogadapter

import (
	"context"
	"sort"

	"github.com/go-kit/log"
	kitlevel "github.com/go-kit/log/level"
	"github.com/jackc/pgcast"
	"github.com/samber/lo"
)

type Logger struct {
	l          log.Logger
	skipModule bool
}

type option func(l *Logger)

// WithoutPGCastModule disables adding module=pgcast to every line.
func WithoutPGCastModule() option {
	return func(l *Logger) {
		l.skipModule = true
	}
}

// NewLogger returns a pgcast.Logger that writes key/value pairs to l. Fields
// are written in key order after module=pgcast.
func NewLogger(l log.Logger, options ...option) *Logger {
	logger := &Logger{l: l}
	for _, opt := range options {
		opt(logger)
	}
	if !logger.skipModule {
		logger.l = log.With(logger.l, "module", "pgcast")
	}
	return logger
}

func (l *Logger) Log(ctx context.Context, level pgcast.LogLevel, msg string, data map[string]any) {
	if level == pgcast.LogLevelNone {
		return
	}

	keys := lo.Keys(data)
	sort.Strings(keys)
	kvs := make([]any, 0, 2*len(keys))
	for _, k := range keys {
		kvs = append(kvs, k, data[k])
	}
	logger := l.l
	if len(kvs) > 0 {
		logger = log.With(logger, kvs...)
	}

	switch level {
	case pgcast.LogLevelTrace:
		// go-kit has no trace level.
		kitlevel.Debug(logger).Log("pgcast_level", level.String(), "msg", msg)
	case pgcast.LogLevelDebug:
		kitlevel.Debug(logger).Log("msg", msg)
	case pgcast.LogLevelInfo:
		kitlevel.Info(logger).Log("msg", msg)
	case pgcast.LogLevelWarn:
		kitlevel.Warn(logger).Log("msg", msg)
	case pgcast.LogLevelError:
		kitlevel.Error(logger).Log("msg", msg)
	default:
		kitlevel.Error(logger).Log("pgcast_level", level.String(), "msg", msg)
	}
}
