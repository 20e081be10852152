// Package testingadapter provides a logger that writes to a test or benchmark
// log.
package testingadapter

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgcast"
	"github.com/samber/lo"
)

// TestingLogger interface defines the subset of testing.TB methods used by this
// adapter.
type TestingLogger interface {
	Log(args ...any)
}

type Logger struct {
	l TestingLogger
}

func NewLogger(l TestingLogger) *Logger {
	return &Logger{l: l}
}

// Log writes one line of the form "level msg key=value ..." with the fields
// in key order. Lines are attributed to the caller when l is a testing.TB.
func (l *Logger) Log(ctx context.Context, level pgcast.LogLevel, msg string, data map[string]any) {
	if h, ok := l.l.(interface{ Helper() }); ok {
		h.Helper()
	}

	keys := lo.Keys(data)
	sort.Strings(keys)
	logArgs := make([]any, 0, 2+len(keys))
	logArgs = append(logArgs, level.String(), msg)
	for _, k := range keys {
		logArgs = append(logArgs, fmt.Sprintf("%s=%v", k, data[k]))
	}
	l.l.Log(logArgs...)
}
