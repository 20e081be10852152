// Package logrusadapter provides a logger that writes to a github.com/sirupsen/logrus.Logger
// log.
package logrusadapter

import (
	"context"

	"github.com/jackc/pgcast"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

type Logger struct {
	l          logrus.FieldLogger
	skipModule bool
}

type option func(l *Logger)

// WithoutPGCastModule disables adding module=pgcast to every entry.
func WithoutPGCastModule() option {
	return func(l *Logger) {
		l.skipModule = true
	}
}

func NewLogger(l logrus.FieldLogger, options ...option) *Logger {
	logger := &Logger{l: l}
	for _, opt := range options {
		opt(logger)
	}
	if !logger.skipModule {
		logger.l = logger.l.WithField("module", "pgcast")
	}
	return logger
}

func (l *Logger) Log(ctx context.Context, level pgcast.LogLevel, msg string, data map[string]any) {
	if level == pgcast.LogLevelNone {
		return
	}

	logger := l.l
	// An error under "err" goes to the entry's error field.
	if err, ok := data["err"].(error); ok {
		logger = logger.WithError(err)
		data = lo.OmitByKeys(data, []string{"err"})
	}
	if len(data) > 0 {
		logger = logger.WithFields(data)
	}

	switch level {
	case pgcast.LogLevelTrace:
		if tl, ok := logger.(interface{ Trace(args ...any) }); ok {
			tl.Trace(msg)
		} else {
			logger.WithField("pgcast_level", level.String()).Debug(msg)
		}
	case pgcast.LogLevelDebug:
		logger.Debug(msg)
	case pgcast.LogLevelInfo:
		logger.Info(msg)
	case pgcast.LogLevelWarn:
		logger.Warn(msg)
	case pgcast.LogLevelError:
		logger.Error(msg)
	default:
		logger.WithField("pgcast_level", level.String()).Error(msg)
	}
}
