package pgcast

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogLevelFromString(t *testing.T) {
	for _, level := range []LogLevel{LogLevelTrace, LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError, LogLevelNone} {
		parsed, err := LogLevelFromString(level.String())
		require.NoError(t, err)
		assert.Equal(t, level, parsed)
	}

	_, err := LogLevelFromString("verbose")
	assert.Error(t, err)
	assert.Equal(t, "invalid level 0", LogLevel(0).String())
}

func TestLogCells(t *testing.T) {
	long := strings.Repeat("x", 70)
	cells := [][]byte{
		nil,
		[]byte("abc"),
		{0xff, 0x00},
		[]byte(long),
		append([]byte{0xff}, long...),
	}

	args := logCells(cells)
	require.Len(t, args, 5)
	assert.Nil(t, args[0])
	assert.Equal(t, "abc", args[1])
	assert.Equal(t, "ff00", args[2])
	assert.Equal(t, strings.Repeat("x", 64)+" (truncated 6 bytes)", args[3])
	assert.Equal(t, "ff"+strings.Repeat("78", 63)+" (truncated 7 bytes)", args[4])
}
