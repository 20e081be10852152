package pgcast

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/transform"
)

// Encoding is a PostgreSQL character set id as reported by
// pg_char_to_encoding.
type Encoding int32

const (
	EncodingSQLASCII Encoding = 0
	EncodingUTF8     Encoding = 6
	EncodingLatin1   Encoding = 8
)

var encodingNames = [...]string{
	"SQL_ASCII", "EUC_JP", "EUC_CN", "EUC_KR", "EUC_TW", "EUC_JIS_2004",
	"UTF8", "MULE_INTERNAL", "LATIN1", "LATIN2", "LATIN3", "LATIN4",
	"LATIN5", "LATIN6", "LATIN7", "LATIN8", "LATIN9", "LATIN10",
	"WIN1256", "WIN1258", "WIN866", "WIN874", "KOI8R", "WIN1251",
	"WIN1252", "ISO_8859_5", "ISO_8859_6", "ISO_8859_7", "ISO_8859_8",
	"WIN1250", "WIN1253", "WIN1254", "WIN1255", "WIN1257", "KOI8U",
	"SJIS", "BIG5", "GBK", "UHC", "GB18030", "JOHAB", "SHIFT_JIS_2004",
}

// codecs maps PostgreSQL encoding names to their golang.org/x/text
// implementation. Names missing here are looked up in htmlindex.
var codecs = map[string]encoding.Encoding{
	"EUC_JP":     japanese.EUCJP,
	"EUC_CN":     simplifiedchinese.GBK,
	"EUC_KR":     korean.EUCKR,
	"LATIN2":     charmap.ISO8859_2,
	"LATIN3":     charmap.ISO8859_3,
	"LATIN4":     charmap.ISO8859_4,
	"LATIN5":     charmap.ISO8859_9,
	"LATIN6":     charmap.ISO8859_10,
	"LATIN7":     charmap.ISO8859_13,
	"LATIN8":     charmap.ISO8859_14,
	"LATIN9":     charmap.ISO8859_15,
	"LATIN10":    charmap.ISO8859_16,
	"WIN1256":    charmap.Windows1256,
	"WIN1258":    charmap.Windows1258,
	"WIN866":     charmap.CodePage866,
	"WIN874":     charmap.Windows874,
	"KOI8R":      charmap.KOI8R,
	"WIN1251":    charmap.Windows1251,
	"WIN1252":    charmap.Windows1252,
	"ISO_8859_5": charmap.ISO8859_5,
	"ISO_8859_6": charmap.ISO8859_6,
	"ISO_8859_7": charmap.ISO8859_7,
	"ISO_8859_8": charmap.ISO8859_8,
	"WIN1250":    charmap.Windows1250,
	"WIN1253":    charmap.Windows1253,
	"WIN1254":    charmap.Windows1254,
	"WIN1255":    charmap.Windows1255,
	"WIN1257":    charmap.Windows1257,
	"KOI8U":      charmap.KOI8U,
	"SJIS":       japanese.ShiftJIS,
	"BIG5":       traditionalchinese.Big5,
	"GBK":        simplifiedchinese.GBK,
	"UHC":        korean.EUCKR,
	"GB18030":    simplifiedchinese.GB18030,
}

var encodingAliases = map[string]Encoding{
	"unicode":   EncodingUTF8,
	"utf8":      EncodingUTF8,
	"iso88591":  EncodingLatin1,
	"latin1":    EncodingLatin1,
	"sqlascii":  EncodingSQLASCII,
	"ascii":     EncodingSQLASCII,
	"shiftjis":  35,
	"win":       23,
	"windows":   23,
	"alt":       20,
	"koi8":      22,
	"tcvn":      19,
	"tcvn5712":  19,
	"vscii":     19,
	"abc":       19,
	"mskanji":   35,
	"iso885915": 16,
}

func cleanEncodingName(name string) string {
	var sb strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case 'a' <= c && c <= 'z', '0' <= c && c <= '9':
			sb.WriteByte(c)
		case 'A' <= c && c <= 'Z':
			sb.WriteByte(c + 'a' - 'A')
		}
	}
	return sb.String()
}

// EncodingByName resolves a PostgreSQL encoding name such as "UTF8", "utf-8"
// or "LATIN1" the way pg_char_to_encoding does: case and punctuation are
// ignored and a few historical aliases are accepted.
func EncodingByName(name string) (Encoding, bool) {
	clean := cleanEncodingName(name)
	if enc, ok := encodingAliases[clean]; ok {
		return enc, true
	}
	for i, n := range encodingNames {
		if cleanEncodingName(n) == clean {
			return Encoding(i), true
		}
	}
	return 0, false
}

func (e Encoding) String() string {
	if e >= 0 && int(e) < len(encodingNames) {
		return encodingNames[e]
	}
	return "unknown"
}

func (e Encoding) codec() (encoding.Encoding, error) {
	name := e.String()
	if c, ok := codecs[name]; ok {
		return c, nil
	}
	c, err := htmlindex.Get(name)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Decode converts src from encoding enc to a Go string. UTF8, LATIN1 and
// SQL_ASCII are handled directly, every other encoding goes through
// golang.org/x/text. Invalid input returns a *DecodeError with the offset of
// the first offending byte.
func Decode(src []byte, enc Encoding) (string, error) {
	switch enc {
	case EncodingUTF8:
		if utf8.Valid(src) {
			return string(src), nil
		}
		return "", &DecodeError{Encoding: "utf-8", Offset: invalidUTF8Offset(src)}
	case EncodingLatin1:
		return decodeLatin1(src), nil
	case EncodingSQLASCII:
		for i, c := range src {
			if c >= utf8.RuneSelf {
				return "", &DecodeError{Encoding: "ascii", Offset: i}
			}
		}
		return string(src), nil
	}

	codec, err := enc.codec()
	if err != nil {
		return "", &DecodeError{Encoding: enc.String(), Err: err}
	}
	out, n, err := transform.Bytes(codec.NewDecoder(), src)
	if err != nil {
		return "", &DecodeError{Encoding: enc.String(), Offset: n, Err: err}
	}
	return string(out), nil
}

// Encode converts s to encoding enc. It is the inverse of Decode.
func Encode(s string, enc Encoding) ([]byte, error) {
	switch enc {
	case EncodingUTF8:
		if utf8.ValidString(s) {
			return []byte(s), nil
		}
		return nil, &EncodeError{Encoding: "utf-8", Offset: invalidUTF8Offset([]byte(s))}
	case EncodingLatin1, EncodingSQLASCII:
		limit := rune(0xff)
		name := "latin-1"
		if enc == EncodingSQLASCII {
			limit = utf8.RuneSelf - 1
			name = "ascii"
		}
		buf := make([]byte, 0, len(s))
		for i, r := range s {
			if r > limit {
				return nil, &EncodeError{Encoding: name, Offset: i}
			}
			buf = append(buf, byte(r))
		}
		return buf, nil
	}

	codec, err := enc.codec()
	if err != nil {
		return nil, &EncodeError{Encoding: enc.String(), Err: err}
	}
	out, n, err := transform.String(codec.NewEncoder(), s)
	if err != nil {
		return nil, &EncodeError{Encoding: enc.String(), Offset: n, Err: err}
	}
	return []byte(out), nil
}

func decodeLatin1(src []byte) string {
	ascii := true
	for _, c := range src {
		if c >= utf8.RuneSelf {
			ascii = false
			break
		}
	}
	if ascii {
		return string(src)
	}

	buf := make([]byte, 0, len(src)+len(src)/2)
	for _, c := range src {
		buf = utf8.AppendRune(buf, rune(c))
	}
	return string(buf)
}

func invalidUTF8Offset(src []byte) int {
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRune(src[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(src)
}
