package pgcast_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgcast"
	"github.com/jackc/pgio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFields() []pgcast.FieldDescription {
	return []pgcast.FieldDescription{
		{Name: "id", DataTypeOID: pgcast.Int4OID},
		{Name: "name", DataTypeOID: pgcast.TextOID},
		{Name: "tags", DataTypeOID: pgcast.Int4ArrayOID},
		{Name: "born", DataTypeOID: pgcast.DateOID},
	}
}

func testRows() [][][]byte {
	return [][][]byte{
		{[]byte("1"), []byte("alice"), []byte("{1,2}"), []byte("2001-02-03")},
		{[]byte("2"), nil, []byte("{}"), nil},
	}
}

func newTestResult(t *testing.T) *pgcast.Result {
	res, err := pgcast.NewResult(pgcast.NewConfig(), testFields(), testRows(), pgcast.EncodingUTF8)
	require.NoError(t, err)
	return res
}

func TestNewResult(t *testing.T) {
	res := newTestResult(t)

	assert.Equal(t, 2, res.Len())
	assert.Equal(t, pgcast.EncodingUTF8, res.Encoding())
	assert.Equal(t, []string{"id", "name", "tags", "born"}, res.ListFields())
	assert.Equal(t, []pgcast.TypeTag{
		pgcast.Simple(pgcast.KindInt),
		pgcast.Simple(pgcast.KindText),
		pgcast.ArrayOf(pgcast.KindInt),
		pgcast.Simple(pgcast.KindOther),
	}, res.Tags())
	assert.Len(t, res.Fields(), 4)

	_, err := pgcast.NewResult(nil, testFields(), [][][]byte{{[]byte("1")}}, pgcast.EncodingUTF8)
	assert.EqualError(t, err, "row 0 has 1 values, expected 4")
}

func TestResultFields(t *testing.T) {
	res := newTestResult(t)

	name, err := res.FieldName(1)
	require.NoError(t, err)
	assert.Equal(t, "name", name)
	_, err = res.FieldName(4)
	assert.Error(t, err)

	n, err := res.FieldNum("tags")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	_, err = res.FieldNum("missing")
	assert.Error(t, err)
}

func TestResultRows(t *testing.T) {
	res := newTestResult(t)

	rows, err := res.GetResult()
	require.NoError(t, err)
	assert.Equal(t, [][]any{
		{int64(1), "alice", []any{int64(1), int64(2)}, "2001-02-03"},
		{int64(2), nil, []any{}, nil},
	}, rows)

	dicts, err := res.DictResult()
	require.NoError(t, err)
	require.Len(t, dicts, 2)
	assert.Equal(t, map[string]any{"id": int64(2), "name": nil, "tags": []any{}, "born": nil}, dicts[1])

	assert.Equal(t, []byte("alice"), res.RawValue(0, 1))
	assert.Nil(t, res.RawValue(1, 1))

	_, err = res.Value(2, 0)
	assert.Error(t, err)
	_, err = res.Value(0, 4)
	assert.Error(t, err)
	_, err = res.Row(-1)
	assert.Error(t, err)
}

func TestResultCastHook(t *testing.T) {
	res := newTestResult(t)
	res.SetCastHook(func(value any, oid uint32) (any, error) {
		require.Equal(t, uint32(pgcast.DateOID), oid)
		return time.Parse(pgcast.DateFormatISO, value.(string))
	})

	v, err := res.Value(0, 3)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2001, 2, 3, 0, 0, 0, 0, time.UTC), v)

	// NULL values are not passed to the hook.
	v, err = res.Value(1, 3)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestResultRowErrors(t *testing.T) {
	res, err := pgcast.NewResult(pgcast.NewConfig(),
		[]pgcast.FieldDescription{{Name: "n", DataTypeOID: pgcast.Int4OID}},
		[][][]byte{{[]byte("x")}},
		pgcast.EncodingUTF8,
	)
	require.NoError(t, err)

	_, err = res.Row(0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `row 0, field "n"`)
	var valueErr *pgcast.ValueError
	assert.True(t, errors.As(err, &valueErr))
}

func TestResultSingle(t *testing.T) {
	fields := []pgcast.FieldDescription{{Name: "n", DataTypeOID: pgcast.Int8OID}}
	newResult := func(rows ...string) *pgcast.Result {
		cells := make([][][]byte, len(rows))
		for i, r := range rows {
			cells[i] = [][]byte{[]byte(r)}
		}
		res, err := pgcast.NewResult(pgcast.NewConfig(), fields, cells, pgcast.EncodingUTF8)
		require.NoError(t, err)
		return res
	}

	empty := newResult()
	one := newResult("7")
	many := newResult("7", "8")

	row, err := empty.One()
	assert.NoError(t, err)
	assert.Nil(t, row)
	dict, err := empty.OneDict()
	assert.NoError(t, err)
	assert.Nil(t, dict)
	v, err := empty.OneScalar()
	assert.NoError(t, err)
	assert.Nil(t, v)

	_, err = empty.Single()
	assert.ErrorIs(t, err, pgcast.ErrNoResult)
	_, err = many.SingleDict()
	assert.ErrorIs(t, err, pgcast.ErrMultipleResults)
	_, err = many.SingleScalar()
	assert.ErrorIs(t, err, pgcast.ErrMultipleResults)

	row, err = one.Single()
	require.NoError(t, err)
	assert.Equal(t, []any{int64(7)}, row)
	dict, err = one.SingleDict()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": int64(7)}, dict)
	v, err = one.SingleScalar()
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)

	row, err = many.One()
	require.NoError(t, err)
	assert.Equal(t, []any{int64(7)}, row)

	values, err := many.ScalarResult()
	require.NoError(t, err)
	assert.Equal(t, []any{int64(7), int64(8)}, values)

	noFields, err := pgcast.NewResult(nil, nil, nil, pgcast.EncodingUTF8)
	require.NoError(t, err)
	_, err = noFields.ScalarResult()
	assert.Error(t, err)
	_, err = noFields.OneScalar()
	assert.Error(t, err)
}

func TestResultBinaryValues(t *testing.T) {
	fields := []pgcast.FieldDescription{
		{Name: "i2", DataTypeOID: pgcast.Int2OID, Format: pgcast.BinaryFormatCode},
		{Name: "i4", DataTypeOID: pgcast.Int4OID, Format: pgcast.BinaryFormatCode},
		{Name: "i8", DataTypeOID: pgcast.Int8OID, Format: pgcast.BinaryFormatCode},
		{Name: "oid", DataTypeOID: pgcast.OIDOID, Format: pgcast.BinaryFormatCode},
		{Name: "f8", DataTypeOID: pgcast.Float8OID, Format: pgcast.BinaryFormatCode},
		{Name: "b", DataTypeOID: pgcast.BoolOID, Format: pgcast.BinaryFormatCode},
		{Name: "t", DataTypeOID: pgcast.TextOID, Format: pgcast.BinaryFormatCode},
		{Name: "jb", DataTypeOID: pgcast.JSONBOID, Format: pgcast.BinaryFormatCode},
		{Name: "u", DataTypeOID: pgcast.UUIDOID, Format: pgcast.BinaryFormatCode},
	}
	row := [][]byte{
		pgio.AppendInt16(nil, -2),
		pgio.AppendInt32(nil, 42),
		pgio.AppendInt64(nil, 1<<40),
		pgio.AppendUint32(nil, 4000000000),
		pgio.AppendUint64(nil, 0x3ff8000000000000),
		{1},
		[]byte("héllo"),
		append([]byte{1}, `{"a":1}`...),
		{0xde, 0xad},
	}

	res, err := pgcast.NewResult(pgcast.NewConfig(), fields, [][][]byte{row}, pgcast.EncodingUTF8)
	require.NoError(t, err)

	values, err := res.Single()
	require.NoError(t, err)
	assert.Equal(t, []any{
		int64(-2), int64(42), int64(1 << 40), int64(4000000000), 1.5, true,
		"héllo", `{"a":1}`, []byte{0xde, 0xad},
	}, values)

	bad, err := pgcast.NewResult(pgcast.NewConfig(), fields[1:2], [][][]byte{{{0, 1}}}, pgcast.EncodingUTF8)
	require.NoError(t, err)
	_, err = bad.Value(0, 0)
	assert.EqualError(t, err, "invalid length for int4: 2")
}
