package pgcast_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/jackc/pgcast"
	"github.com/jackc/pgio"
	"github.com/jackc/pgproto3/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type encoder interface {
	Encode(dst []byte) []byte
}

func stream(msgs ...encoder) *bytes.Reader {
	var buf []byte
	for _, msg := range msgs {
		buf = msg.Encode(buf)
	}
	return bytes.NewReader(buf)
}

func rowDescription(fields ...pgproto3.FieldDescription) *pgproto3.RowDescription {
	return &pgproto3.RowDescription{Fields: fields}
}

func field(name string, oid uint32, format int16) pgproto3.FieldDescription {
	return pgproto3.FieldDescription{Name: []byte(name), DataTypeOID: oid, DataTypeSize: -1, TypeModifier: -1, Format: format}
}

func dataRow(values ...[]byte) *pgproto3.DataRow {
	return &pgproto3.DataRow{Values: values}
}

func commandComplete(tag string) *pgproto3.CommandComplete {
	return &pgproto3.CommandComplete{CommandTag: []byte(tag)}
}

type logEntry struct {
	level pgcast.LogLevel
	msg   string
	data  map[string]any
}

func captureLogger(entries *[]logEntry) pgcast.Logger {
	return pgcast.LoggerFunc(func(ctx context.Context, level pgcast.LogLevel, msg string, data map[string]any) {
		*entries = append(*entries, logEntry{level: level, msg: msg, data: data})
	})
}

func TestReaderNext(t *testing.T) {
	r := stream(
		&pgproto3.ParameterStatus{Name: "server_version", Value: "16.1 (Debian 16.1-1.pgdg120+1)"},
		&pgproto3.ParameterStatus{Name: "client_encoding", Value: "UTF8"},
		&pgproto3.BackendKeyData{ProcessID: 1, SecretKey: 2},
		&pgproto3.ReadyForQuery{TxStatus: 'I'},
		rowDescription(field("n", pgcast.Int4OID, 0), field("s", pgcast.TextOID, 0), field("b", pgcast.Int8OID, 1)),
		dataRow([]byte("1"), []byte("one"), pgio.AppendInt64(nil, 10)),
		dataRow([]byte("2"), nil, nil),
		commandComplete("SELECT 2"),
		commandComplete("INSERT 0 1"),
		&pgproto3.EmptyQueryResponse{},
		&pgproto3.ReadyForQuery{TxStatus: 'I'},
	)

	var entries []logEntry
	rr := pgcast.NewReader(r, pgcast.NewConfig())
	rr.Logger = captureLogger(&entries)
	rr.LogLevel = pgcast.LogLevelTrace
	ctx := context.Background()

	res, err := rr.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 2", res.CommandTag)
	rows, err := res.GetResult()
	require.NoError(t, err)
	assert.Equal(t, [][]any{{int64(1), "one", int64(10)}, {int64(2), nil, nil}}, rows)

	require.NotNil(t, rr.ServerVersion())
	assert.Equal(t, "16.1.0", rr.ServerVersion().String())
	assert.Equal(t, "UTF8", rr.ParameterStatus("client_encoding"))

	res, err = rr.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "INSERT 0 1", res.CommandTag)
	assert.Equal(t, 0, res.Len())

	res, err = rr.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "(nothing selected)", res.String())

	_, err = rr.Next(ctx)
	assert.ErrorIs(t, err, io.EOF)

	msgs := make([]string, len(entries))
	for i, e := range entries {
		msgs[i] = e.msg
	}
	assert.Contains(t, msgs, "Skipping message")
	assert.Contains(t, msgs, "DataRow")
	assert.Contains(t, msgs, "CommandComplete")
	for _, e := range entries {
		if e.msg == "DataRow" {
			assert.Equal(t, pgcast.LogLevelTrace, e.level)
			values, ok := e.data["values"].([]any)
			require.True(t, ok)
			require.Len(t, values, 3)
			assert.Equal(t, "1", values[0])
			assert.Equal(t, "one", values[1])
			break
		}
	}
}

func TestReaderClientEncoding(t *testing.T) {
	r := stream(
		&pgproto3.ParameterStatus{Name: "client_encoding", Value: "LATIN1"},
		rowDescription(field("s", pgcast.TextOID, 0)),
		dataRow([]byte{'c', 'a', 'f', 0xe9}),
		commandComplete("SELECT 1"),
		&pgproto3.ParameterStatus{Name: "client_encoding", Value: "EBCDIC"},
	)

	var entries []logEntry
	rr := pgcast.NewReader(r, nil)
	rr.Logger = captureLogger(&entries)

	res, err := rr.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, pgcast.EncodingLatin1, res.Encoding())
	v, err := res.SingleScalar()
	require.NoError(t, err)
	assert.Equal(t, "café", v)

	_, err = rr.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, pgcast.EncodingLatin1, rr.Encoding())
	require.NotEmpty(t, entries)
	last := entries[len(entries)-1]
	assert.Equal(t, pgcast.LogLevelWarn, last.level)
	assert.Equal(t, "Unknown client encoding", last.msg)
}

func TestReaderDateStyle(t *testing.T) {
	r := stream(
		&pgproto3.ParameterStatus{Name: "DateStyle", Value: "German, DMY"},
		rowDescription(field("d", pgcast.DateOID, 0), field("i", pgcast.IntervalOID, 0)),
		dataRow([]byte("03.02.2001"), []byte("1 day")),
		commandComplete("SELECT 1"),
	)

	rr := pgcast.NewReader(r, nil)
	rr.Typecasts = pgcast.NewTypecasts(nil)

	res, err := rr.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, pgcast.DateFormatGerman, rr.Typecasts.DateFormat())

	row, err := res.Single()
	require.NoError(t, err)
	assert.Equal(t, []any{
		time.Date(2001, 2, 3, 0, 0, 0, 0, time.UTC),
		pgcast.Interval{Days: 1},
	}, row)
}

func TestReaderCastHook(t *testing.T) {
	r := stream(
		rowDescription(field("u", pgcast.UUIDOID, 0)),
		dataRow([]byte("6ba7b810-9dad-11d1-80b4-00c04fd430c8")),
		commandComplete("SELECT 1"),
	)

	rr := pgcast.NewReader(r, nil)
	rr.Typecasts = pgcast.NewTypecasts(nil)
	rr.CastHook = func(value any, oid uint32) (any, error) {
		return "hooked", nil
	}

	res, err := rr.Next(context.Background())
	require.NoError(t, err)
	v, err := res.SingleScalar()
	require.NoError(t, err)
	assert.Equal(t, "hooked", v)
}

func TestReaderErrorResponse(t *testing.T) {
	r := stream(
		&pgproto3.NoticeResponse{Severity: "NOTICE", Code: "00000", Message: "hello"},
		&pgproto3.ErrorResponse{Severity: "ERROR", Code: "42P01", Message: `relation "foo" does not exist`, Position: 15},
		&pgproto3.ReadyForQuery{TxStatus: 'I'},
	)

	var entries []logEntry
	rr := pgcast.NewReader(r, nil)
	rr.Logger = captureLogger(&entries)
	rr.LogLevel = pgcast.LogLevelError

	_, err := rr.Next(context.Background())
	var pgErr *pgcast.PgError
	require.True(t, errors.As(err, &pgErr))
	assert.Equal(t, "42P01", pgErr.Code)
	assert.Equal(t, int32(15), pgErr.Position)
	assert.Equal(t, pgcast.ProgrammingError, pgErr.Class())

	// The notice is below the configured level.
	require.Len(t, entries, 1)
	assert.Equal(t, "ErrorResponse", entries[0].msg)
	assert.Equal(t, "ProgrammingError", entries[0].data["class"])

	_, err = rr.Next(context.Background())
	assert.ErrorIs(t, err, io.EOF)
}

func TestReaderTruncatedStream(t *testing.T) {
	r := stream(
		rowDescription(field("n", pgcast.Int4OID, 0)),
		dataRow([]byte("1")),
	)
	_, err := pgcast.NewReader(r, nil).Next(context.Background())
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	r = stream(
		rowDescription(field("n", pgcast.Int4OID, 0)),
		&pgproto3.ReadyForQuery{TxStatus: 'I'},
	)
	_, err = pgcast.NewReader(r, nil).Next(context.Background())
	assert.EqualError(t, err, "received ReadyForQuery before CommandComplete")

	r = stream(dataRow([]byte("1")))
	_, err = pgcast.NewReader(r, nil).Next(context.Background())
	assert.EqualError(t, err, "received DataRow before RowDescription")
}

func TestReadResult(t *testing.T) {
	_, err := pgcast.ReadResult(context.Background(), bytes.NewReader(nil), nil)
	assert.ErrorIs(t, err, pgcast.ErrNoResult)

	r := stream(
		rowDescription(field("n", pgcast.Int4OID, 0)),
		dataRow([]byte("5")),
		commandComplete("SELECT 1"),
	)
	res, err := pgcast.ReadResult(context.Background(), r, nil)
	require.NoError(t, err)
	v, err := res.SingleScalar()
	require.NoError(t, err)
	assert.Equal(t, int64(5), v)
}

func TestReaderCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := pgcast.NewReader(stream(commandComplete("SELECT 0")), nil).Next(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
