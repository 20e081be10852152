package pgcast_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgcast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypecastsGet(t *testing.T) {
	tc := pgcast.NewTypecasts(pgcast.NewConfig())

	tests := []struct {
		name   string
		src    string
		result any
	}{
		{name: "int4", src: "42", result: int64(42)},
		{name: "float8", src: "2.5", result: 2.5},
		{name: "text", src: "abc", result: "abc"},
		{name: "bool", src: "t", result: true},
		{name: "bytea", src: `\x41`, result: []byte("A")},
		{name: "numeric", src: "1.25", result: 1.25},
		{name: "money", src: "$3.50", result: 3.5},
		{name: "json", src: `{"a":1}`, result: `{"a":1}`},
		{name: "int2vector", src: "1 2 3", result: []int64{1, 2, 3}},
		{name: "date", src: "2001-02-03", result: time.Date(2001, 2, 3, 0, 0, 0, 0, time.UTC)},
		{name: "_int4", src: "{1,NULL}", result: []any{int64(1), nil}},
		{name: "_text", src: `{"a,b",c}`, result: []any{"a,b", "c"}},
		{name: "_nosuchtype", src: "{x}", result: []any{"x"}},
	}

	for i, tt := range tests {
		cast := tc.Get(tt.name)
		require.NotNilf(t, cast, "%d. %s", i, tt.name)
		result, err := cast(tt.src)
		require.NoErrorf(t, err, "%d. %s", i, tt.name)
		assert.Equalf(t, tt.result, result, "%d. %s", i, tt.name)
	}

	assert.Nil(t, tc.Get("nosuchtype"))

	cast := tc.Get("hstore")
	require.NotNil(t, cast)
	h, err := cast(`a=>1`)
	require.NoError(t, err)
	require.IsType(t, pgcast.Hstore{}, h)
	assert.Equal(t, "1", *h.(pgcast.Hstore)["a"])

	cast = tc.Get("uuid")
	require.NotNil(t, cast)
	u, err := cast("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	require.NoError(t, err)
	assert.Equal(t, uuid.NamespaceDNS, u)
}

func TestTypecastsFollowConfig(t *testing.T) {
	cfg := pgcast.NewConfig()
	cfg.BoolAsText = true
	cfg.DecimalPoint = 0
	cfg.JSONDecode = func(s string) (any, error) { return len(s), nil }
	tc := pgcast.NewTypecasts(cfg)

	v, err := tc.Get("bool")("t")
	require.NoError(t, err)
	assert.Equal(t, "t", v)

	v, err = tc.Get("money")("$3.50")
	require.NoError(t, err)
	assert.Equal(t, "$3.50", v)

	v, err = tc.Get("jsonb")("[1]")
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestTypecastsSetAndReset(t *testing.T) {
	var entries []logEntry
	tc := pgcast.NewTypecasts(pgcast.NewConfig())
	tc.Logger = captureLogger(&entries)

	upper := func(s string) (any, error) { return strings.ToUpper(s), nil }
	tc.Set(upper, "text", "varchar", "text")

	v, err := tc.Get("text")("abc")
	require.NoError(t, err)
	assert.Equal(t, "ABC", v)

	// Array casts are derived from the new cast.
	v, err = tc.Get("_varchar")("{a,b}")
	require.NoError(t, err)
	assert.Equal(t, []any{"A", "B"}, v)

	tc.Reset("text")
	v, err = tc.Get("text")("abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", v)

	tc.Set(upper, "int4")
	tc.Set(nil, "int4")
	v, err = tc.Get("int4")("7")
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)

	tc.Reset()
	v, err = tc.Get("varchar")("abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", v)

	require.NotEmpty(t, entries)
	assert.Equal(t, "Set typecast", entries[0].msg)
	assert.Equal(t, pgcast.LogLevelDebug, entries[0].level)
}

func TestTypecastsSetAttributes(t *testing.T) {
	tc := pgcast.NewTypecasts(pgcast.NewConfig())
	tc.SetAttributes("pair", []pgcast.Attribute{{Name: "n", Type: "int4"}, {Name: "s", Type: "text"}})

	v, err := tc.Get("pair")(`(1,"x y")`)
	require.NoError(t, err)
	assert.Equal(t, pgcast.Record{int64(1), "x y"}, v)

	v, err = tc.Get("_pair")(`{"(1,a)","(2,)"}`)
	require.NoError(t, err)
	assert.Equal(t, []any{pgcast.Record{int64(1), "a"}, pgcast.Record{int64(2), nil}}, v)

	_, err = tc.Get("pair")(`(1,a,b)`)
	assert.Error(t, err)
}

func TestTypecastsRecursiveAttributes(t *testing.T) {
	tc := pgcast.NewTypecasts(pgcast.NewConfig())
	tc.SetAttributes("node", []pgcast.Attribute{{Name: "id", Type: "int4"}, {Name: "next", Type: "node"}})

	cast := tc.Get("node")
	require.NotNil(t, cast)
	v, err := cast(`(1,"(2,)")`)
	require.NoError(t, err)
	assert.Equal(t, pgcast.Record{int64(1), "(2,)"}, v)

	tc.SetAttributes("a", []pgcast.Attribute{{Name: "b", Type: "b"}})
	tc.SetAttributes("b", []pgcast.Attribute{{Name: "a", Type: "a"}})
	require.NotNil(t, tc.Get("a"))
	require.NotNil(t, tc.Get("b"))
	require.NotNil(t, tc.Get("_a"))
}

func TestTypecastsDateFormat(t *testing.T) {
	cfg := pgcast.NewConfig()
	assert.Equal(t, pgcast.DateFormatISO, pgcast.NewTypecasts(cfg).DateFormat())

	cfg.DateFormat = pgcast.DateFormatGerman
	tc := pgcast.NewTypecasts(cfg)
	assert.Equal(t, pgcast.DateFormatGerman, tc.DateFormat())

	v, err := tc.Get("date")("03.02.2001")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2001, 2, 3, 0, 0, 0, 0, time.UTC), v)

	v, err = tc.Get("timestamp")("03.02.2001 04:05:06")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2001, 2, 3, 4, 5, 6, 0, time.UTC), v)
}

func TestTypecastsHook(t *testing.T) {
	hook := pgcast.NewTypecasts(pgcast.NewConfig()).Hook()

	v, err := hook("1 day", pgcast.IntervalOID)
	require.NoError(t, err)
	assert.Equal(t, pgcast.Interval{Days: 1}, v)

	v, err = hook("whatever", 987654)
	require.NoError(t, err)
	assert.Equal(t, "whatever", v)

	v, err = hook([]byte{1}, pgcast.DateOID)
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, v)

	v, err = hook("(1,1),(0,0)", pgcast.BoxOID)
	require.NoError(t, err)
	assert.Equal(t, "(1,1),(0,0)", v)
}

func TestDefaultTypecasts(t *testing.T) {
	assert.NotNil(t, pgcast.GetDefault("int4"))
	assert.Nil(t, pgcast.GetDefault("citext"))

	pgcast.SetDefault(pgcast.CastText, "citext")
	t.Cleanup(func() { pgcast.SetDefault(nil, "citext") })

	require.NotNil(t, pgcast.GetDefault("citext"))
	v, err := pgcast.NewTypecasts(nil).Get("_citext")("{A,b}")
	require.NoError(t, err)
	assert.Equal(t, []any{"A", "b"}, v)
}

func TestTypecastsNilLogger(t *testing.T) {
	tc := pgcast.NewTypecasts(nil)
	assert.NotPanics(t, func() {
		tc.Set(pgcast.CastText, "foo")
		tc.Reset()
	})

	var got []string
	tc.Logger = pgcast.LoggerFunc(func(_ context.Context, _ pgcast.LogLevel, msg string, _ map[string]any) {
		got = append(got, msg)
	})
	tc.SetAttributes("rec", nil)
	assert.Equal(t, []string{"Set attributes"}, got)
}
