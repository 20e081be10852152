package pgcast

import (
	"fmt"

	"github.com/samber/lo"
)

// Format codes of result columns.
const (
	TextFormatCode   = 0
	BinaryFormatCode = 1
)

// FieldDescription describes one column of a result.
type FieldDescription struct {
	Name                 string
	TableOID             uint32
	TableAttributeNumber uint16
	DataTypeOID          uint32
	DataTypeSize         int16
	TypeModifier         int32
	Format               int16
}

// CastHook converts the decoded text of a value whose type has no internal
// caster. oid is the type of the column.
type CastHook func(value any, oid uint32) (any, error)

// Result is a materialized result set. Rows hold the raw cell values as sent
// by the server, nil for NULL. Cells are cast each time they are accessed
// using the column tags computed once by NewResult.
type Result struct {
	// CommandTag is the tag of the command that produced the result, e.g.
	// "SELECT 2".
	CommandTag string

	cfg    *Config
	fields []FieldDescription
	rows   [][][]byte
	enc    Encoding
	tags   []TypeTag
	hook   CastHook
}

// NewResult returns a Result for fields and rows. Every row must have one
// cell per field. If cfg is nil a snapshot of DefaultConfig is used.
func NewResult(cfg *Config, fields []FieldDescription, rows [][][]byte, enc Encoding) (*Result, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	for i, row := range rows {
		if len(row) != len(fields) {
			return nil, fmt.Errorf("row %d has %d values, expected %d", i, len(row), len(fields))
		}
	}

	tags := cfg.ColumnTypes(lo.Map(fields, func(fd FieldDescription, _ int) uint32 { return fd.DataTypeOID }))

	return &Result{
		cfg:    cfg,
		fields: fields,
		rows:   rows,
		enc:    enc,
		tags:   tags,
	}, nil
}

// SetCastHook sets the function that converts values of columns classified
// as KindOther.
func (r *Result) SetCastHook(hook CastHook) {
	r.hook = hook
}

// Encoding returns the client encoding the cell values are decoded from.
func (r *Result) Encoding() Encoding {
	return r.enc
}

// Fields returns the column descriptions.
func (r *Result) Fields() []FieldDescription {
	return r.fields
}

// Tags returns the casting strategy of every column.
func (r *Result) Tags() []TypeTag {
	return r.tags
}

// Len returns the number of rows.
func (r *Result) Len() int {
	return len(r.rows)
}

// ListFields returns the column names.
func (r *Result) ListFields() []string {
	return lo.Map(r.fields, func(fd FieldDescription, _ int) string { return fd.Name })
}

// FieldName returns the name of column i.
func (r *Result) FieldName(i int) (string, error) {
	if i < 0 || i >= len(r.fields) {
		return "", fmt.Errorf("invalid field number %d", i)
	}
	return r.fields[i].Name, nil
}

// FieldNum returns the number of the column with the given name.
func (r *Result) FieldNum(name string) (int, error) {
	i := lo.IndexOf(r.ListFields(), name)
	if i < 0 {
		return -1, fmt.Errorf("unknown field %q", name)
	}
	return i, nil
}

// RawValue returns the raw value of a cell, nil for NULL.
func (r *Result) RawValue(row, col int) []byte {
	return r.rows[row][col]
}

// Value casts the cell at row and col.
func (r *Result) Value(row, col int) (any, error) {
	if row < 0 || row >= len(r.rows) {
		return nil, fmt.Errorf("invalid row number %d", row)
	}
	if col < 0 || col >= len(r.fields) {
		return nil, fmt.Errorf("invalid field number %d", col)
	}

	src := r.rows[row][col]
	if src == nil {
		return nil, nil
	}

	fd := &r.fields[col]
	if fd.Format == BinaryFormatCode {
		return r.cfg.decodeBinary(fd.DataTypeOID, src, r.enc)
	}

	tag := r.tags[col]
	switch {
	case tag.Array:
		a, err := r.cfg.CastArray(src, r.enc, tag, nil, Delimiter(fd.DataTypeOID))
		if err != nil {
			return nil, err
		}
		return a, nil
	case tag.Kind == KindOther:
		v, err := r.cfg.castText(src, KindText, r.enc)
		if err != nil || r.hook == nil {
			return v, err
		}
		return r.hook(v, fd.DataTypeOID)
	default:
		return r.cfg.CastSized(src, tag, r.enc)
	}
}

// Row casts all cells of row i.
func (r *Result) Row(i int) ([]any, error) {
	if i < 0 || i >= len(r.rows) {
		return nil, fmt.Errorf("invalid row number %d", i)
	}
	values := make([]any, len(r.fields))
	for j := range r.fields {
		v, err := r.Value(i, j)
		if err != nil {
			return nil, fmt.Errorf("row %d, field %q: %w", i, r.fields[j].Name, err)
		}
		values[j] = v
	}
	return values, nil
}

// RowMap casts all cells of row i into a map keyed by column name.
func (r *Result) RowMap(i int) (map[string]any, error) {
	values, err := r.Row(i)
	if err != nil {
		return nil, err
	}
	m := make(map[string]any, len(values))
	for j, v := range values {
		m[r.fields[j].Name] = v
	}
	return m, nil
}

// GetResult casts all rows.
func (r *Result) GetResult() ([][]any, error) {
	rows := make([][]any, 0, len(r.rows))
	for i := range r.rows {
		row, err := r.Row(i)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// DictResult casts all rows into maps keyed by column name.
func (r *Result) DictResult() ([]map[string]any, error) {
	rows := make([]map[string]any, 0, len(r.rows))
	for i := range r.rows {
		row, err := r.RowMap(i)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// One returns the first row or nil if there are no rows.
func (r *Result) One() ([]any, error) {
	if len(r.rows) == 0 {
		return nil, nil
	}
	return r.Row(0)
}

// OneDict returns the first row as a map or nil if there are no rows.
func (r *Result) OneDict() (map[string]any, error) {
	if len(r.rows) == 0 {
		return nil, nil
	}
	return r.RowMap(0)
}

// Single returns the only row. It fails with ErrNoResult or
// ErrMultipleResults unless there is exactly one row.
func (r *Result) Single() ([]any, error) {
	if err := r.checkSingle(); err != nil {
		return nil, err
	}
	return r.Row(0)
}

// SingleDict returns the only row as a map. It fails like Single.
func (r *Result) SingleDict() (map[string]any, error) {
	if err := r.checkSingle(); err != nil {
		return nil, err
	}
	return r.RowMap(0)
}

// ScalarResult returns the first column of every row.
func (r *Result) ScalarResult() ([]any, error) {
	if len(r.fields) == 0 {
		return nil, fmt.Errorf("result has no fields")
	}
	values := make([]any, 0, len(r.rows))
	for i := range r.rows {
		v, err := r.Value(i, 0)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

// OneScalar returns the first column of the first row or nil if there are no
// rows.
func (r *Result) OneScalar() (any, error) {
	if len(r.fields) == 0 {
		return nil, fmt.Errorf("result has no fields")
	}
	if len(r.rows) == 0 {
		return nil, nil
	}
	return r.Value(0, 0)
}

// SingleScalar returns the first column of the only row. It fails like
// Single.
func (r *Result) SingleScalar() (any, error) {
	if len(r.fields) == 0 {
		return nil, fmt.Errorf("result has no fields")
	}
	if err := r.checkSingle(); err != nil {
		return nil, err
	}
	return r.Value(0, 0)
}

func (r *Result) checkSingle() error {
	switch len(r.rows) {
	case 0:
		return ErrNoResult
	case 1:
		return nil
	default:
		return ErrMultipleResults
	}
}
