package pgcast

import "encoding/hex"

// UnescapeBytea converts the text representation of a bytea value to the
// bytes it represents. Both the hex format (\x...) used since PostgreSQL 9.0
// and the traditional escape format are understood. Like libpq it is lenient:
// characters that are not part of a valid escape are kept or skipped rather
// than reported.
func UnescapeBytea(src []byte) []byte {
	if len(src) >= 2 && src[0] == '\\' && src[1] == 'x' {
		return unescapeByteaHex(src[2:])
	}

	buf := make([]byte, 0, len(src))
	for i := 0; i < len(src); {
		if src[i] != '\\' {
			buf = append(buf, src[i])
			i++
			continue
		}

		i++
		switch {
		case i < len(src) && src[i] == '\\':
			buf = append(buf, '\\')
			i++
		case i+2 < len(src) && isFirstOctDigit(src[i]) && isOctDigit(src[i+1]) && isOctDigit(src[i+2]):
			buf = append(buf, (src[i]-'0')<<6|(src[i+1]-'0')<<3|(src[i+2]-'0'))
			i += 3
		}
		// An unrecognized escape emits the following character as data on
		// the next iteration. A trailing backslash is dropped.
	}

	return buf
}

func unescapeByteaHex(src []byte) []byte {
	buf := make([]byte, 0, len(src)/2)
	for i := 0; i < len(src); {
		v1, ok := hexValue(src[i])
		i++
		if !ok || i == len(src) {
			continue
		}
		v2, ok := hexValue(src[i])
		i++
		if ok {
			buf = append(buf, v1<<4|v2)
		}
	}
	return buf
}

// EscapeBytea returns the hex format text representation of src.
func EscapeBytea(src []byte) []byte {
	buf := make([]byte, 2+hex.EncodedLen(len(src)))
	buf[0], buf[1] = '\\', 'x'
	hex.Encode(buf[2:], src)
	return buf
}

func hexValue(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func isFirstOctDigit(c byte) bool {
	return '0' <= c && c <= '3'
}

func isOctDigit(c byte) bool {
	return '0' <= c && c <= '7'
}
