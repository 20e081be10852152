// Package pgcast converts PostgreSQL values in text format to Go values.
/*
pgcast decodes the text representation PostgreSQL sends for query results:
scalars, arrays, composite records and hstore values. It does not connect to
a server. Values come from wherever text format rows are found, e.g. a
captured protocol stream read with Reader.

Casting

A column type is first classified into a TypeTag. The tag decides how the
raw bytes of a cell are converted:

    cfg := pgcast.NewConfig()
    tag := cfg.Classify(pgcast.Int4ArrayOID) // int[]
    v, err := cfg.Cast([]byte("{1,NULL,3}"), tag, pgcast.EncodingUTF8)
    // v is []any{int64(1), nil, int64(3)}

Integers become int64 (int8 values that do not fit become *big.Int), floats
become float64, booleans become bool, and text based types are decoded from
the client encoding into strings. Values that cannot be decoded are returned
as []byte.

Arrays, records and hstore

CastArray, CastRecord and CastHstore parse the corresponding literals.
Element and field casts are selected by a TypeTag or by a CastFunc:

    r, err := cfg.CastRecord([]byte(`(1,"hello, world",)`), pgcast.EncodingUTF8,
        pgcast.RecordCasts{Types: []pgcast.TypeTag{pgcast.Simple(pgcast.KindInt), pgcast.Simple(pgcast.KindText), pgcast.Simple(pgcast.KindText)}}, 0)
    // r is pgcast.Record{int64(1), "hello, world", nil}

Malformed literals return a *ValueError. Nesting deeper than MaxArrayDepth
levels is rejected.

Configuration

Config controls numeric, money, bool, array, bytea and json handling. The
process-wide configuration is changed with SetDecimal, SetDecimalPoint,
SetBool, SetArray, SetByteaEscaped, SetJSONDecode and SetDateStyle; every
function that takes a nil *Config uses a snapshot of it. The ext packages
register decimal and json implementations:

    numeric.Register() // github.com/jackc/pgcast/ext/shopspring-numeric

Typecasts

Typecasts maps type names to CastFunc values for the types that have no
internal caster, such as dates, timestamps, intervals and uuids. Casts for
array types and registered composite types are derived automatically. Its
Hook is used as the CastHook of a Result.

Logging

Reader logs notices, parameter changes and rows through the Logger
interface. Adapters for common logging libraries are in the log directory.
Casting itself never logs.
*/
package pgcast
