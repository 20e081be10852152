package kitlogadapter_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/go-kit/log"
	"github.com/jackc/pgcast"
	"github.com/jackc/pgcast/log/kitlogadapter"
	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := kitlogadapter.NewLogger(log.NewLogfmtLogger(&buf))

	logger.Log(context.Background(), pgcast.LogLevelWarn, "Unknown client encoding", map[string]any{"encoding": "EBCDIC"})
	assert.Equal(t, "level=warn module=pgcast encoding=EBCDIC msg=\"Unknown client encoding\"\n", buf.String())

	buf.Reset()
	logger.Log(context.Background(), pgcast.LogLevelDebug, "CommandComplete", map[string]any{"rowCount": 2, "commandTag": "SELECT 2"})
	assert.Equal(t, "level=debug module=pgcast commandTag=\"SELECT 2\" rowCount=2 msg=CommandComplete\n", buf.String())

	buf.Reset()
	logger.Log(context.Background(), pgcast.LogLevelTrace, "DataRow", nil)
	assert.Equal(t, "level=debug module=pgcast pgcast_level=trace msg=DataRow\n", buf.String())

	buf.Reset()
	logger.Log(context.Background(), pgcast.LogLevelNone, "DataRow", nil)
	assert.Empty(t, buf.String())
}

func TestLoggerWithoutModule(t *testing.T) {
	var buf bytes.Buffer
	logger := kitlogadapter.NewLogger(log.NewLogfmtLogger(&buf), kitlogadapter.WithoutPGCastModule())

	logger.Log(context.Background(), pgcast.LogLevelInfo, "Notice", map[string]any{"code": "01000"})
	assert.Equal(t, "level=info code=01000 msg=Notice\n", buf.String())
}
