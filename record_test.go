package pgcast_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgcast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCastRecord(t *testing.T) {
	cfg := pgcast.NewConfig()

	tests := []struct {
		src    string
		rc     pgcast.RecordCasts
		result pgcast.Record
	}{
		{
			src:    `(1,"hello, world",)`,
			rc:     pgcast.RecordCasts{Types: []pgcast.TypeTag{intTag, textTag, textTag}},
			result: pgcast.Record{int64(1), "hello, world", nil},
		},
		{
			src:    `()`,
			result: pgcast.Record{nil},
		},
		{
			src:    `(,)`,
			result: pgcast.Record{nil, nil},
		},
		{
			src:    `("",x)`,
			result: pgcast.Record{"", "x"},
		},
		{
			src:    `("a ""quoted"" word","back\\slash")`,
			result: pgcast.Record{`a "quoted" word`, `back\slash`},
		},
		{
			src:    ` (t,f)  `,
			rc:     pgcast.RecordCasts{Types: []pgcast.TypeTag{boolTag, boolTag}},
			result: pgcast.Record{true, false},
		},
		{
			src:    `(1,"{2,3}")`,
			rc:     pgcast.RecordCasts{Types: []pgcast.TypeTag{intTag, pgcast.ArrayOf(pgcast.KindInt)}},
			result: pgcast.Record{int64(1), []any{int64(2), int64(3)}},
		},
		{
			src:    `(1,abc)`,
			rc:     pgcast.RecordCasts{Casts: []pgcast.CastFunc{pgcast.CastInt, nil}},
			result: pgcast.Record{int64(1), "abc"},
		},
		{
			src: `(a,b,c)`,
			rc: pgcast.RecordCasts{Cast: func(s string) (any, error) {
				return strings.Repeat(s, 2), nil
			}},
			result: pgcast.Record{"aa", "bb", "cc"},
		},
	}

	for i, tt := range tests {
		result, err := cfg.CastRecord([]byte(tt.src), pgcast.EncodingUTF8, tt.rc, 0)
		require.NoErrorf(t, err, "%d. %s", i, tt.src)
		assert.Equalf(t, tt.result, result, "%d. %s", i, tt.src)
	}
}

func TestCastRecordErrors(t *testing.T) {
	cfg := pgcast.NewConfig()
	two := pgcast.RecordCasts{Types: []pgcast.TypeTag{intTag, intTag}}

	tests := []struct {
		src string
		rc  pgcast.RecordCasts
		msg string
	}{
		{src: ``, msg: "record must start with a left parenthesis"},
		{src: `1,2`, msg: "record must start with a left parenthesis"},
		{src: `(1,2`, msg: "unexpected end of record"},
		{src: `(`, msg: "unexpected end of record"},
		{src: `("abc)`, msg: "unexpected end of record"},
		{src: `(1,2)x`, msg: "unexpected characters after end of record"},
		{src: `(1,2,3)`, rc: two, msg: "too many columns"},
		{src: `(1)`, rc: two, msg: "too few columns"},
		{src: `(1)`, rc: pgcast.RecordCasts{Types: []pgcast.TypeTag{}}, msg: "too many columns"},
		{src: `(1)`, rc: pgcast.RecordCasts{Casts: []pgcast.CastFunc{}}, msg: "too many columns"},
		{src: `()`, rc: pgcast.RecordCasts{Types: []pgcast.TypeTag{}}, msg: "too many columns"},
		{src: `(1,2,)`, rc: two, msg: "too many columns"},
	}

	for i, tt := range tests {
		_, err := cfg.CastRecord([]byte(tt.src), pgcast.EncodingUTF8, tt.rc, 0)
		var valueErr *pgcast.ValueError
		require.Truef(t, errors.As(err, &valueErr), "%d. %s: %v", i, tt.src, err)
		assert.Equalf(t, tt.msg, valueErr.Msg, "%d. %s", i, tt.src)
	}

	_, err := cfg.CastRecord([]byte(`(1,x)`), pgcast.EncodingUTF8, two, 0)
	assert.Error(t, err)
}

func TestCastRecordDelimiter(t *testing.T) {
	cfg := pgcast.NewConfig()

	result, err := cfg.CastRecord([]byte(`(a;"b;c")`), pgcast.EncodingUTF8, pgcast.RecordCasts{}, ';')
	require.NoError(t, err)
	assert.Equal(t, pgcast.Record{"a", "b;c"}, result)

	for _, delim := range []byte{'(', ')', '\\'} {
		_, err := cfg.CastRecord([]byte("(1)"), pgcast.EncodingUTF8, pgcast.RecordCasts{}, delim)
		assert.EqualErrorf(t, err, "invalid record delimiter", "%q", delim)
	}
}

func TestCastRecordMaxBufferSize(t *testing.T) {
	cfg := pgcast.NewConfig()
	cfg.MaxBufferSize = 2

	_, err := cfg.CastRecord([]byte(`("abc")`), pgcast.EncodingUTF8, pgcast.RecordCasts{}, 0)
	var memErr *pgcast.MemoryError
	assert.True(t, errors.As(err, &memErr))

	result, err := cfg.CastRecord([]byte(`(ab)`), pgcast.EncodingUTF8, pgcast.RecordCasts{}, 0)
	require.NoError(t, err)
	assert.Equal(t, pgcast.Record{"ab"}, result)
}
