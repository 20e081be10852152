package pgcast

import (
	"fmt"
	"strings"
	"sync"
)

// DecimalFunc constructs a decimal value from the textual digits of a numeric
// or money value, e.g. "-1234.56".
type DecimalFunc func(s string) (any, error)

// JSONDecodeFunc decodes the text of a json or jsonb value.
type JSONDecodeFunc func(s string) (any, error)

// Config controls how values are cast. A Config must not be modified while it
// is used for casting. Copy it and modify the copy instead.
type Config struct {
	// Decimal constructs numeric and money values. When nil they are parsed
	// as float64.
	Decimal DecimalFunc

	// DecimalPoint is the decimal mark of money values. When zero, money
	// values are returned as text.
	DecimalPoint byte

	// BoolAsText returns booleans as the strings "t" and "f".
	BoolAsText bool

	// ArrayAsText returns arrays as their literal text.
	ArrayAsText bool

	// ByteaEscaped returns bytea values in their escaped text form.
	ByteaEscaped bool

	// JSONDecode decodes json and jsonb values. When nil they are returned
	// as text.
	JSONDecode JSONDecodeFunc

	// DateFormat is the Go layout assumed for date values. When empty it is
	// derived from the DateStyle reported by the server, falling back to ISO.
	DateFormat string

	// MaxBufferSize limits the size of the copy buffers used to unescape
	// values. Zero means no limit.
	MaxBufferSize int
}

// NewConfig returns a Config with the default settings: money values use a
// dot as decimal mark and every other option is off.
func NewConfig() *Config {
	return &Config{DecimalPoint: '.'}
}

// Copy returns a shallow copy of c.
func (c *Config) Copy() *Config {
	newConfig := new(Config)
	*newConfig = *c
	return newConfig
}

func (c *Config) checkBufferSize(n int) error {
	if c.MaxBufferSize > 0 && n > c.MaxBufferSize {
		return &MemoryError{Size: n, Limit: c.MaxBufferSize}
	}
	return nil
}

// validDecimalPoints are the characters accepted by SetDecimalPoint.
const validDecimalPoints = ".,;: '*/_`|"

var (
	defaultConfigMux sync.RWMutex
	defaultConfig    = NewConfig()
)

// DefaultConfig returns a snapshot of the process-wide configuration.
// Changing the snapshot does not affect the process-wide configuration.
func DefaultConfig() *Config {
	defaultConfigMux.RLock()
	defer defaultConfigMux.RUnlock()
	return defaultConfig.Copy()
}

func updateDefaultConfig(f func(c *Config)) {
	defaultConfigMux.Lock()
	defer defaultConfigMux.Unlock()
	c := defaultConfig.Copy()
	f(c)
	defaultConfig = c
}

// ResetDefaultConfig restores the process-wide configuration to NewConfig.
func ResetDefaultConfig() {
	updateDefaultConfig(func(c *Config) { *c = *NewConfig() })
}

// SetDecimal sets the constructor used for numeric values. nil restores
// float64.
func SetDecimal(f DecimalFunc) {
	updateDefaultConfig(func(c *Config) { c.Decimal = f })
}

// GetDecimal returns the constructor used for numeric values.
func GetDecimal() DecimalFunc {
	defaultConfigMux.RLock()
	defer defaultConfigMux.RUnlock()
	return defaultConfig.Decimal
}

// SetDecimalPoint sets the decimal mark for money values. An empty string
// means money values are returned as text.
func SetDecimalPoint(point string) error {
	var p byte
	if point != "" {
		if len(point) != 1 || !strings.Contains(validDecimalPoints, point) {
			return fmt.Errorf("invalid decimal mark %q", point)
		}
		p = point[0]
	}
	updateDefaultConfig(func(c *Config) { c.DecimalPoint = p })
	return nil
}

// GetDecimalPoint returns the decimal mark for money values or an empty
// string if money values are returned as text.
func GetDecimalPoint() string {
	defaultConfigMux.RLock()
	defer defaultConfigMux.RUnlock()
	if defaultConfig.DecimalPoint == 0 {
		return ""
	}
	return string(defaultConfig.DecimalPoint)
}

// SetBool sets whether boolean values are returned as bool (true) or as the
// strings "t" and "f" (false).
func SetBool(on bool) {
	updateDefaultConfig(func(c *Config) { c.BoolAsText = !on })
}

// GetBool reports whether boolean values are returned as bool.
func GetBool() bool {
	defaultConfigMux.RLock()
	defer defaultConfigMux.RUnlock()
	return !defaultConfig.BoolAsText
}

// SetArray sets whether arrays are returned as slices (true) or as text.
func SetArray(on bool) {
	updateDefaultConfig(func(c *Config) { c.ArrayAsText = !on })
}

// GetArray reports whether arrays are returned as slices.
func GetArray() bool {
	defaultConfigMux.RLock()
	defer defaultConfigMux.RUnlock()
	return !defaultConfig.ArrayAsText
}

// SetByteaEscaped sets whether bytea values are returned escaped.
func SetByteaEscaped(on bool) {
	updateDefaultConfig(func(c *Config) { c.ByteaEscaped = on })
}

// GetByteaEscaped reports whether bytea values are returned escaped.
func GetByteaEscaped() bool {
	defaultConfigMux.RLock()
	defer defaultConfigMux.RUnlock()
	return defaultConfig.ByteaEscaped
}

// SetJSONDecode sets the decoder for json values. nil returns them as text.
func SetJSONDecode(f JSONDecodeFunc) {
	updateDefaultConfig(func(c *Config) { c.JSONDecode = f })
}

// GetJSONDecode returns the decoder for json values.
func GetJSONDecode() JSONDecodeFunc {
	defaultConfigMux.RLock()
	defer defaultConfigMux.RUnlock()
	return defaultConfig.JSONDecode
}

// SetDateStyle fixes the DateStyle assumed for date values, e.g. "ISO, YMD"
// or "SQL, DMY". An empty style means the style reported by the server is
// used.
func SetDateStyle(style string) {
	var format string
	if style != "" {
		format = DateStyleToFormat(style)
	}
	updateDefaultConfig(func(c *Config) { c.DateFormat = format })
}

// GetDateStyle returns the fixed DateStyle or an empty string.
func GetDateStyle() string {
	defaultConfigMux.RLock()
	defer defaultConfigMux.RUnlock()
	if defaultConfig.DateFormat == "" {
		return ""
	}
	return DateFormatToStyle(defaultConfig.DateFormat)
}
