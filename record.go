package pgcast

// RecordCasts selects how the fields of a record are cast. Types takes
// precedence over Casts, which takes precedence over Cast. When Types or
// Casts is set, the record must have exactly that many fields.
type RecordCasts struct {
	// Types casts each field with the internal caster for its tag.
	Types []TypeTag

	// Casts casts each field with the function at its position. A nil
	// entry leaves the field as decoded text.
	Casts []CastFunc

	// Cast is applied to every field.
	Cast CastFunc
}

// expectedLen returns the number of fields the record must have, or -1 if
// any number is allowed.
func (rc *RecordCasts) expectedLen() int {
	if rc.Types != nil {
		return len(rc.Types)
	}
	if rc.Casts != nil {
		return len(rc.Casts)
	}
	return -1
}

func (c *Config) castField(raw []byte, i int, enc Encoding, rc *RecordCasts) (any, error) {
	if rc.Types != nil {
		tag := rc.Types[i]
		switch {
		case tag.Array:
			return c.castArrayValue(raw, enc, tag)
		case tag.Kind == KindNone || tag.Kind.IsText():
			return c.castText(raw, tag.Kind, enc)
		default:
			return c.castSimple(string(raw), tag.Kind)
		}
	}

	f := rc.Cast
	if rc.Casts != nil {
		f = rc.Casts[i]
	}
	fc := funcCaster{f: f, enc: enc}
	return fc.Cast(raw)
}

// CastRecord parses the text representation of a composite value, e.g.
// `(1,"hello, world",)`, into a Record. An empty unquoted field is NULL. delim
// separates the fields; zero means a comma.
func (c *Config) CastRecord(src []byte, enc Encoding, rc RecordCasts, delim byte) (Record, error) {
	switch delim {
	case 0:
		delim = ','
	case '(', ')', '\\':
		return nil, valueError("invalid record delimiter")
	}

	rp := 0
	for rp < len(src) && src[rp] == ' ' {
		rp++
	}
	if rp == len(src) || src[rp] != '(' {
		return nil, valueError("record must start with a left parenthesis")
	}

	n := rc.expectedLen()
	result := make(Record, 0, max(n, 1))

	for {
		rp++
		if rp == len(src) {
			break
		}

		if n >= 0 && len(result) >= n {
			return nil, valueError("too many columns")
		}

		var field any
		if src[rp] != ')' && src[rp] != delim {
			start := rp
			end, size := scanRecordField(src, rp, delim)
			rp = end
			if rp == len(src) {
				break
			}

			raw := src[start:rp]
			if size != len(raw) {
				if err := c.checkBufferSize(size); err != nil {
					return nil, err
				}
				raw = unescapeRecordField(raw, size)
			}

			var err error
			field, err = c.castField(raw, len(result), enc, &rc)
			if err != nil {
				return nil, err
			}
		}
		result = append(result, field)

		if src[rp] != delim {
			break
		}
	}

	if rp == len(src) || src[rp] != ')' {
		return nil, valueError("unexpected end of record")
	}
	for rp++; rp < len(src) && src[rp] == ' '; rp++ {
	}
	if rp != len(src) {
		return nil, valueError("unexpected characters after end of record")
	}
	if n >= 0 && len(result) < n {
		return nil, valueError("too few columns")
	}

	return result, nil
}

// scanRecordField finds the end of the field starting at rp. It returns the
// position of the delimiter or closing parenthesis following the field and
// the length of the field once unescaped.
func scanRecordField(src []byte, rp int, delim byte) (end, size int) {
	quoted := src[rp] == '"'
	if quoted {
		rp++
	}
	for rp < len(src) {
		if !quoted && (src[rp] == ')' || src[rp] == delim) {
			break
		}
		if src[rp] == '"' {
			rp++
			if rp == len(src) {
				break
			}
			if !(quoted && src[rp] == '"') {
				quoted = !quoted
				continue
			}
		}
		if src[rp] == '\\' {
			rp++
			if rp == len(src) {
				break
			}
		}
		rp++
		size++
	}
	return rp, size
}

func unescapeRecordField(raw []byte, size int) []byte {
	buf := make([]byte, 0, size)
	quoted := false
	for i := 0; i < len(raw); {
		if raw[i] == '"' {
			i++
			if !(quoted && i < len(raw) && raw[i] == '"') {
				quoted = !quoted
				continue
			}
		}
		if raw[i] == '\\' {
			i++
			if i == len(raw) {
				break
			}
		}
		buf = append(buf, raw[i])
		i++
	}
	return buf
}
