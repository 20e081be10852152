// Package zapadapter provides a logger that writes to a go.uber.org/zap.Logger.
package zapadapter

import (
	"context"

	"github.com/jackc/pgcast"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	logger *zap.Logger
}

func NewLogger(logger *zap.Logger) *Logger {
	return &Logger{logger: logger.WithOptions(zap.AddCallerSkip(1))}
}

func (pl *Logger) Log(ctx context.Context, level pgcast.LogLevel, msg string, data map[string]any) {
	fields := make([]zapcore.Field, len(data))
	i := 0
	for k, v := range data {
		fields[i] = zap.Any(k, v)
		i++
	}

	switch level {
	case pgcast.LogLevelTrace:
		pl.logger.Debug(msg, append(fields, zap.Stringer("PGCAST_LOG_LEVEL", level))...)
	case pgcast.LogLevelDebug:
		pl.logger.Debug(msg, fields...)
	case pgcast.LogLevelInfo:
		pl.logger.Info(msg, fields...)
	case pgcast.LogLevelWarn:
		pl.logger.Warn(msg, fields...)
	case pgcast.LogLevelError:
		pl.logger.Error(msg, fields...)
	default:
		pl.logger.Error(msg, append(fields, zap.Stringer("PGCAST_LOG_LEVEL", level))...)
	}
}
