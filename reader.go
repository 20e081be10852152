package pgcast

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/jackc/chunkreader/v2"
	"github.com/jackc/pgproto3/v2"
)

// Reader reads results from a stream of PostgreSQL backend messages, e.g. a
// captured session or the output of a proxy. It tracks the client_encoding,
// DateStyle and server_version parameters reported in the stream.
type Reader struct {
	// Logger receives notices, parameter changes and skipped messages. May
	// be nil.
	Logger Logger

	// LogLevel is the most verbose level logged. Zero means LogLevelDebug.
	LogLevel LogLevel

	// CastHook is set on every Result read. When nil and Typecasts is set,
	// the hook of Typecasts is used.
	CastHook CastHook

	// Typecasts follows the DateStyle reported by the stream. May be nil.
	Typecasts *Typecasts

	frontend      *pgproto3.Frontend
	cfg           *Config
	enc           Encoding
	params        map[string]string
	serverVersion *semver.Version
}

// NewReader returns a Reader that reads messages from r and casts values
// according to cfg. If cfg is nil a snapshot of DefaultConfig is used. The
// encoding is UTF8 until the stream reports another client_encoding.
func NewReader(r io.Reader, cfg *Config) *Reader {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Reader{
		frontend: pgproto3.NewFrontend(chunkreader.New(r), nil),
		cfg:      cfg,
		enc:      EncodingUTF8,
		params:   make(map[string]string),
	}
}

// ReadResult reads the first result from r.
func ReadResult(ctx context.Context, r io.Reader, cfg *Config) (*Result, error) {
	res, err := NewReader(r, cfg).Next(ctx)
	if errors.Is(err, io.EOF) {
		return nil, ErrNoResult
	}
	return res, err
}

// Encoding returns the current client encoding.
func (rr *Reader) Encoding() Encoding {
	return rr.enc
}

// ParameterStatus returns the last value reported for the run-time
// parameter name, or an empty string.
func (rr *Reader) ParameterStatus(name string) string {
	return rr.params[name]
}

// ServerVersion returns the reported server version or nil if the stream
// did not report one.
func (rr *Reader) ServerVersion() *semver.Version {
	return rr.serverVersion
}

// Next reads messages up to and including the next CommandComplete or
// EmptyQueryResponse and returns the result. An ErrorResponse is returned as
// a *PgError. io.EOF is returned when the stream ends between results.
func (rr *Reader) Next(ctx context.Context) (*Result, error) {
	var fields []FieldDescription
	var rows [][][]byte
	started := false

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		msg, err := rr.frontend.Receive()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				if started {
					return nil, io.ErrUnexpectedEOF
				}
				return nil, io.EOF
			}
			return nil, err
		}

		switch msg := msg.(type) {
		case *pgproto3.ParameterStatus:
			rr.setParameter(ctx, msg.Name, msg.Value)

		case *pgproto3.NoticeResponse:
			rr.log(ctx, LogLevelInfo, "Notice", map[string]any{
				"severity": msg.Severity,
				"code":     msg.Code,
				"message":  msg.Message,
			})

		case *pgproto3.RowDescription:
			started = true
			fields = make([]FieldDescription, len(msg.Fields))
			for i, fd := range msg.Fields {
				fields[i] = FieldDescription{
					Name:                 string(fd.Name),
					TableOID:             fd.TableOID,
					TableAttributeNumber: fd.TableAttributeNumber,
					DataTypeOID:          fd.DataTypeOID,
					DataTypeSize:         fd.DataTypeSize,
					TypeModifier:         fd.TypeModifier,
					Format:               fd.Format,
				}
			}
			rows = nil

		case *pgproto3.DataRow:
			if fields == nil {
				return nil, errors.New("received DataRow before RowDescription")
			}
			// The message buffer is reused by the next Receive.
			row := make([][]byte, len(msg.Values))
			for i, v := range msg.Values {
				if v != nil {
					row[i] = copyBytes(v)
				}
			}
			rows = append(rows, row)
			rr.log(ctx, LogLevelTrace, "DataRow", map[string]any{"values": logCells(row)})

		case *pgproto3.CommandComplete:
			res, err := NewResult(rr.cfg, fields, rows, rr.enc)
			if err != nil {
				return nil, err
			}
			res.CommandTag = string(msg.CommandTag)
			res.SetCastHook(rr.castHook())
			rr.log(ctx, LogLevelDebug, "CommandComplete", map[string]any{
				"commandTag": res.CommandTag,
				"rowCount":   res.Len(),
			})
			return res, nil

		case *pgproto3.EmptyQueryResponse:
			return NewResult(rr.cfg, nil, nil, rr.enc)

		case *pgproto3.ErrorResponse:
			pgErr := errorResponseToPgError(msg)
			rr.log(ctx, LogLevelError, "ErrorResponse", map[string]any{
				"severity": pgErr.Severity,
				"code":     pgErr.Code,
				"message":  pgErr.Message,
				"class":    pgErr.Class().String(),
			})
			return nil, pgErr

		case *pgproto3.ReadyForQuery:
			if started {
				return nil, errors.New("received ReadyForQuery before CommandComplete")
			}

		default:
			rr.log(ctx, LogLevelDebug, "Skipping message", map[string]any{"type": fmt.Sprintf("%T", msg)})
		}
	}
}

func (rr *Reader) setParameter(ctx context.Context, name, value string) {
	rr.params[name] = value

	switch name {
	case "client_encoding":
		enc, ok := EncodingByName(value)
		if !ok {
			rr.log(ctx, LogLevelWarn, "Unknown client encoding", map[string]any{"encoding": value})
			return
		}
		rr.enc = enc

	case "DateStyle":
		if rr.Typecasts != nil {
			rr.Typecasts.setServerDateStyle(value)
		}

	case "server_version":
		// e.g. "16.1 (Debian 16.1-1.pgdg120+1)"
		v, err := semver.NewVersion(strings.Fields(value + " ")[0])
		if err != nil {
			rr.log(ctx, LogLevelWarn, "Unparsable server version", map[string]any{"version": value, "err": err})
			return
		}
		rr.serverVersion = v
	}

	rr.log(ctx, LogLevelDebug, "ParameterStatus", map[string]any{"name": name, "value": value})
}

func (rr *Reader) castHook() CastHook {
	if rr.CastHook == nil && rr.Typecasts != nil {
		return rr.Typecasts.Hook()
	}
	return rr.CastHook
}

func (rr *Reader) log(ctx context.Context, lvl LogLevel, msg string, data map[string]any) {
	if rr.Logger == nil {
		return
	}
	level := rr.LogLevel
	if level == 0 {
		level = LogLevelDebug
	}
	if level >= lvl {
		rr.Logger.Log(ctx, lvl, msg, data)
	}
}

func errorResponseToPgError(msg *pgproto3.ErrorResponse) *PgError {
	return &PgError{
		Severity:         msg.Severity,
		Code:             msg.Code,
		Message:          msg.Message,
		Detail:           msg.Detail,
		Hint:             msg.Hint,
		Position:         msg.Position,
		InternalPosition: msg.InternalPosition,
		InternalQuery:    msg.InternalQuery,
		Where:            msg.Where,
		SchemaName:       msg.SchemaName,
		TableName:        msg.TableName,
		ColumnName:       msg.ColumnName,
		DataTypeName:     msg.DataTypeName,
		ConstraintName:   msg.ConstraintName,
		File:             msg.File,
		Line:             msg.Line,
		Routine:          msg.Routine,
	}
}
