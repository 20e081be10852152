package pgcast

import (
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Cast converts the text representation src of a non-NULL value of type tag
// to a Go value. Arrays are parsed with the default delimiter, bytea is
// unescaped, and text based types are decoded from enc.
//
// The returned value is one of: int64, *big.Int, float64, the result of
// Config.Decimal, bool, string, []byte, []any for arrays, or the result of
// Config.JSONDecode.
func (c *Config) Cast(src []byte, tag TypeTag, enc Encoding) (any, error) {
	if tag.Array {
		return c.castArrayValue(src, enc, tag)
	}
	return c.CastSized(src, tag, enc)
}

// CastSized casts a simple or text based value with an explicit length. src
// may contain NUL bytes.
func (c *Config) CastSized(src []byte, tag TypeTag, enc Encoding) (any, error) {
	if tag.Array {
		return c.castArrayValue(src, enc, tag)
	}
	if tag.Kind == KindNone || tag.Kind.IsText() {
		return c.castText(src, tag.Kind, enc)
	}
	return c.castSimple(string(src), tag.Kind)
}

// CastUnsized casts a value given as a NUL terminated UTF-8 string: anything
// from the first NUL byte on is ignored. Otherwise it follows CastSized.
func (c *Config) CastUnsized(s string, tag TypeTag) (any, error) {
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	if tag.Array {
		return c.castArrayValue([]byte(s), EncodingUTF8, tag)
	}
	if tag.Kind == KindNone || tag.Kind.IsText() {
		return c.castText([]byte(s), tag.Kind, EncodingUTF8)
	}
	return c.castSimple(s, tag.Kind)
}

func (c *Config) castArrayValue(src []byte, enc Encoding, tag TypeTag) (any, error) {
	a, err := c.CastArray(src, enc, tag, nil, 0)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (c *Config) castSimple(s string, kind Kind) (any, error) {
	switch kind {
	case KindInt:
		n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, &ValueError{Msg: fmt.Sprintf("invalid literal for int: %q", s), Err: numError(err)}
		}
		return n, nil

	case KindLong:
		return parseLong(s)

	case KindFloat:
		return parseFloat(s)

	case KindMoney:
		return c.decimal(NormalizeMoney(s, c.moneyPoint()))

	case KindDecimal:
		return c.decimal(s)

	case KindBool:
		t := len(s) > 0 && s[0] == 't'
		if c.BoolAsText {
			if t {
				return "t", nil
			}
			return "f", nil
		}
		return t, nil
	}

	return s, nil
}

func (c *Config) castText(src []byte, kind Kind, enc Encoding) (any, error) {
	switch kind {
	case KindBytea:
		if err := c.checkBufferSize(len(src)); err != nil {
			return nil, err
		}
		return UnescapeBytea(src), nil

	case KindJSON:
		s, err := Decode(src, enc)
		if err != nil {
			return copyBytes(src), nil
		}
		if c.JSONDecode == nil {
			return s, nil
		}
		v, err := c.JSONDecode(s)
		if err != nil {
			return nil, &ValueError{Msg: "invalid json value", Err: err}
		}
		return v, nil
	}

	s, err := Decode(src, enc)
	if err != nil {
		return copyBytes(src), nil
	}
	return s, nil
}

func (c *Config) moneyPoint() byte {
	if c.DecimalPoint == 0 {
		return '.'
	}
	return c.DecimalPoint
}

func (c *Config) decimal(s string) (any, error) {
	if c.Decimal == nil {
		return parseFloat(s)
	}
	v, err := c.Decimal(s)
	if err != nil {
		return nil, &ValueError{Msg: fmt.Sprintf("invalid literal for decimal: %q", s), Err: err}
	}
	return v, nil
}

// NormalizeMoney reduces the text of a money value to a decimal string: only
// digits are kept, point becomes '.', and an opening parenthesis or a minus
// sign becomes '-'. "-$1,234.56" and "($1,234.56)" both become "-1234.56".
func NormalizeMoney(s string, point byte) string {
	buf := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; {
		case '0' <= ch && ch <= '9':
			buf = append(buf, ch)
		case ch == point:
			buf = append(buf, '.')
		case ch == '(' || ch == '-':
			buf = append(buf, '-')
		}
	}
	return string(buf)
}

func parseLong(s string) (any, error) {
	trimmed := strings.TrimSpace(s)
	n, err := strconv.ParseInt(trimmed, 10, 64)
	if err == nil {
		return n, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		if bi, ok := new(big.Int).SetString(strings.TrimPrefix(trimmed, "+"), 10); ok {
			return bi, nil
		}
	}
	return nil, &ValueError{Msg: fmt.Sprintf("invalid literal for long: %q", s), Err: numError(err)}
}

func parseFloat(s string) (any, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil, &ValueError{Msg: fmt.Sprintf("could not convert string to float: %q", s), Err: numError(err)}
	}
	return f, nil
}

func numError(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return ne.Err
	}
	return err
}

func copyBytes(src []byte) []byte {
	buf := make([]byte, len(src))
	copy(buf, src)
	return buf
}
