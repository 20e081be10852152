package pgcast

import (
	"errors"
	"fmt"
)

// ErrNoResult occurs when a single row or value was requested from a result
// without rows.
var ErrNoResult = errors.New("no result found")

// ErrMultipleResults occurs when a single row or value was requested from a
// result with more than one row.
var ErrMultipleResults = errors.New("multiple results found")

// ValueError is returned for every malformed literal: bad array, record or
// hstore syntax, dimension mismatches, excessive nesting, invalid delimiters,
// wrong field counts and unparsable numbers.
type ValueError struct {
	Msg string
	Err error
}

func (e *ValueError) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *ValueError) Unwrap() error {
	return e.Err
}

func valueError(msg string) error {
	return &ValueError{Msg: msg}
}

func valueErrorf(format string, args ...any) error {
	return &ValueError{Msg: fmt.Sprintf(format, args...)}
}

// MemoryError is returned when a copy buffer needed to unescape a value would
// exceed Config.MaxBufferSize. The input itself is well formed.
type MemoryError struct {
	Size  int
	Limit int
}

func (e *MemoryError) Error() string {
	return fmt.Sprintf("cannot allocate %d bytes (limit %d)", e.Size, e.Limit)
}

// DecodeError reports bytes that are not valid in the source encoding.
type DecodeError struct {
	Encoding string
	Offset   int
	Err      error
}

func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("'%s' codec can't decode byte at position %d", e.Encoding, e.Offset)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EncodeError reports text that cannot be represented in the target encoding.
type EncodeError struct {
	Encoding string
	Offset   int
	Err      error
}

func (e *EncodeError) Error() string {
	msg := fmt.Sprintf("'%s' codec can't encode character at position %d", e.Encoding, e.Offset)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// PgError represents an error reported by the PostgreSQL server in a result
// stream. See http://www.postgresql.org/docs/current/static/protocol-error-fields.html
// for detailed field description.
type PgError struct {
	Severity         string
	Code             string
	Message          string
	Detail           string
	Hint             string
	Position         int32
	InternalPosition int32
	InternalQuery    string
	Where            string
	SchemaName       string
	TableName        string
	ColumnName       string
	DataTypeName     string
	ConstraintName   string
	File             string
	Line             int32
	Routine          string
}

func (pe *PgError) Error() string {
	return pe.Severity + ": " + pe.Message + " (SQLSTATE " + pe.Code + ")"
}

// SQLState returns the SQLState of the error.
func (pe *PgError) SQLState() string {
	return pe.Code
}

// Class returns the error class derived from the SQLState.
func (pe *PgError) Class() ErrorClass {
	return ClassifySQLState(pe.Code)
}
