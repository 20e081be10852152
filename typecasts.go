package pgcast

import (
	"context"
	"strings"
	"sync"

	"github.com/samber/lo"
)

// castFactory returns the cast function for a type, bound to the registry
// it is used by.
type castFactory func(tc *Typecasts) CastFunc

func staticCast(f CastFunc) castFactory {
	return func(*Typecasts) CastFunc { return f }
}

var (
	defaultCastsMux sync.RWMutex
	defaultCasts    = map[string]castFactory{
		"char":           staticCast(CastText),
		"bpchar":         staticCast(CastText),
		"name":           staticCast(CastText),
		"text":           staticCast(CastText),
		"varchar":        staticCast(CastText),
		"sql_identifier": staticCast(CastText),
		"bool":           func(tc *Typecasts) CastFunc { return tc.castBool },
		"bytea":          staticCast(CastBytea),
		"int2":           staticCast(CastInt),
		"int4":           staticCast(CastInt),
		"serial":         staticCast(CastInt),
		"int8":           staticCast(CastInt),
		"oid":            staticCast(CastInt),
		"hstore":         func(tc *Typecasts) CastFunc { return tc.castHstore },
		"json":           func(tc *Typecasts) CastFunc { return tc.castJSON },
		"jsonb":          func(tc *Typecasts) CastFunc { return tc.castJSON },
		"float4":         staticCast(CastFloat),
		"float8":         staticCast(CastFloat),
		"numeric":        func(tc *Typecasts) CastFunc { return tc.castNum },
		"money":          func(tc *Typecasts) CastFunc { return tc.castMoney },
		"date":           func(tc *Typecasts) CastFunc { return tc.castDate },
		"interval":       staticCast(CastInterval),
		"time":           staticCast(CastTime),
		"timetz":         staticCast(CastTimetz),
		"timestamp":      func(tc *Typecasts) CastFunc { return tc.castTimestamp },
		"timestamptz":    func(tc *Typecasts) CastFunc { return tc.castTimestamptz },
		"int2vector":     staticCast(CastInt2Vector),
		"uuid":           staticCast(CastUUID),
	}
)

// GetDefault returns the process-wide default cast function for the named
// type or nil.
func GetDefault(name string) CastFunc {
	defaultCastsMux.RLock()
	factory := defaultCasts[name]
	defaultCastsMux.RUnlock()

	if factory == nil {
		return nil
	}
	return factory(NewTypecasts(nil))
}

// SetDefault sets the process-wide default cast function for the named
// types. A nil cast removes the defaults. Registries created before the call
// keep the casts they already resolved.
func SetDefault(cast CastFunc, names ...string) {
	defaultCastsMux.Lock()
	defer defaultCastsMux.Unlock()

	for _, name := range names {
		if cast == nil {
			delete(defaultCasts, name)
		} else {
			defaultCasts[name] = staticCast(cast)
		}
		delete(defaultCasts, "_"+name)
	}
}

// Attribute is a field of a composite type.
type Attribute struct {
	Name string
	Type string
}

// Typecasts maps type names to cast functions. Casts for array types (named
// with a leading underscore) and for composite types registered with
// SetAttributes are derived on first use and cached.
type Typecasts struct {
	// Logger receives registry changes at debug level. May be nil.
	Logger Logger

	mux        sync.RWMutex
	cfg        *Config
	casts      map[string]CastFunc
	attributes map[string][]Attribute
	resolving  map[string]struct{}
	dateLayout string
	dateFixed  bool
}

// NewTypecasts returns a registry whose casts follow cfg. If cfg is nil a
// snapshot of DefaultConfig is used. Dates are parsed with cfg.DateFormat
// when it is set; otherwise with the ISO layout until the server reports
// another DateStyle.
func NewTypecasts(cfg *Config) *Typecasts {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	tc := &Typecasts{
		cfg:        cfg,
		casts:      make(map[string]CastFunc),
		attributes: make(map[string][]Attribute),
		resolving:  make(map[string]struct{}),
		dateLayout: cfg.DateFormat,
		dateFixed:  cfg.DateFormat != "",
	}
	if tc.dateLayout == "" {
		tc.dateLayout = DateFormatISO
	}
	return tc
}

// Get returns the cast function for the named type or nil if there is none.
func (tc *Typecasts) Get(name string) CastFunc {
	tc.mux.RLock()
	cast, ok := tc.casts[name]
	tc.mux.RUnlock()
	if ok {
		return cast
	}

	tc.mux.Lock()
	defer tc.mux.Unlock()
	return tc.resolve(name)
}

// resolve must be called with mux held.
func (tc *Typecasts) resolve(name string) CastFunc {
	if cast, ok := tc.casts[name]; ok {
		return cast
	}

	defaultCastsMux.RLock()
	factory := defaultCasts[name]
	defaultCastsMux.RUnlock()

	if factory != nil {
		cast := factory(tc)
		tc.casts[name] = cast
		return cast
	}

	if strings.HasPrefix(name, "_") {
		base := tc.resolve(name[1:])
		cast := tc.arrayCast(base, Delimiter(typeOIDByName(name[1:])))
		if base != nil {
			tc.casts[name] = cast
		}
		return cast
	}

	if attrs, ok := tc.attributes[name]; ok {
		// A composite that contains itself gets its inner fields as text.
		if _, ok := tc.resolving[name]; ok {
			return nil
		}
		tc.resolving[name] = struct{}{}
		defer delete(tc.resolving, name)

		casts := lo.Map(attrs, func(a Attribute, _ int) CastFunc { return tc.resolve(a.Type) })
		cast := tc.recordCast(casts)
		tc.casts[name] = cast
		return cast
	}

	return nil
}

// Set registers cast for the named types. A nil cast removes them. Derived
// array casts of the types are dropped.
func (tc *Typecasts) Set(cast CastFunc, names ...string) {
	tc.mux.Lock()
	for _, name := range lo.Uniq(names) {
		if cast == nil {
			delete(tc.casts, name)
		} else {
			tc.casts[name] = cast
		}
		delete(tc.casts, "_"+name)
	}
	tc.mux.Unlock()

	tc.log(LogLevelDebug, "Set typecast", map[string]any{"types": names, "removed": cast == nil})
}

// Reset restores the default casts for the named types, or for all types if
// no names are given.
func (tc *Typecasts) Reset(names ...string) {
	tc.mux.Lock()
	if len(names) == 0 {
		tc.casts = make(map[string]CastFunc)
	} else {
		for _, name := range names {
			delete(tc.casts, name)
		}
	}
	tc.mux.Unlock()

	tc.log(LogLevelDebug, "Reset typecasts", map[string]any{"types": names})
}

// SetAttributes registers the fields of a composite type so that a record
// cast can be derived for it.
func (tc *Typecasts) SetAttributes(name string, attrs []Attribute) {
	tc.mux.Lock()
	tc.attributes[name] = attrs
	delete(tc.casts, name)
	delete(tc.casts, "_"+name)
	tc.mux.Unlock()

	tc.log(LogLevelDebug, "Set attributes", map[string]any{
		"type":   name,
		"fields": lo.Map(attrs, func(a Attribute, _ int) string { return a.Name }),
	})
}

// DateFormat returns the Go layout used for dates.
func (tc *Typecasts) DateFormat() string {
	tc.mux.RLock()
	defer tc.mux.RUnlock()
	return tc.dateLayout
}

func (tc *Typecasts) setServerDateStyle(style string) {
	tc.mux.Lock()
	defer tc.mux.Unlock()
	if !tc.dateFixed {
		tc.dateLayout = DateStyleToFormat(style)
	}
}

// Hook returns a CastHook that casts values of builtin types by the name of
// their type. Values of other types are passed through.
func (tc *Typecasts) Hook() CastHook {
	return func(value any, oid uint32) (any, error) {
		s, ok := value.(string)
		if !ok {
			return value, nil
		}
		ti, ok := TypeByOID(oid)
		if !ok {
			return value, nil
		}
		cast := tc.Get(ti.Name)
		if cast == nil {
			return value, nil
		}
		return cast(s)
	}
}

func (tc *Typecasts) arrayCast(base CastFunc, delim byte) CastFunc {
	return func(s string) (any, error) {
		a, err := tc.cfg.CastArray([]byte(s), EncodingUTF8, TypeTag{}, base, delim)
		if err != nil {
			return nil, err
		}
		return a, nil
	}
}

func (tc *Typecasts) recordCast(casts []CastFunc) CastFunc {
	return func(s string) (any, error) {
		r, err := tc.cfg.CastRecord([]byte(s), EncodingUTF8, RecordCasts{Casts: casts}, 0)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
}

func (tc *Typecasts) castBool(s string) (any, error) {
	return tc.cfg.castSimple(s, KindBool)
}

func (tc *Typecasts) castJSON(s string) (any, error) {
	if tc.cfg.JSONDecode == nil {
		return s, nil
	}
	return tc.cfg.castText([]byte(s), KindJSON, EncodingUTF8)
}

func (tc *Typecasts) castNum(s string) (any, error) {
	return tc.cfg.decimal(s)
}

func (tc *Typecasts) castMoney(s string) (any, error) {
	if tc.cfg.DecimalPoint == 0 {
		return s, nil
	}
	return tc.cfg.castSimple(s, KindMoney)
}

func (tc *Typecasts) castHstore(s string) (any, error) {
	h, err := tc.cfg.CastHstore([]byte(s), EncodingUTF8)
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (tc *Typecasts) castDate(s string) (any, error) {
	return CastDate(s, tc.DateFormat())
}

func (tc *Typecasts) castTimestamp(s string) (any, error) {
	return CastTimestamp(s, tc.DateFormat())
}

func (tc *Typecasts) castTimestamptz(s string) (any, error) {
	return CastTimestamptz(s, tc.DateFormat())
}

func (tc *Typecasts) log(lvl LogLevel, msg string, data map[string]any) {
	if tc.Logger != nil {
		tc.Logger.Log(context.Background(), lvl, msg, data)
	}
}

func typeOIDByName(name string) uint32 {
	if ti, ok := TypeByName(name); ok {
		return ti.OID
	}
	return 0
}
