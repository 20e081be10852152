package pgcast

// CastHstore parses the text representation of an hstore, e.g.
// `"a"=>"1", "b"=>NULL`, into an Hstore. Keys and values are decoded from
// enc. Only an unquoted value spelled exactly NULL is a NULL value.
func (c *Config) CastHstore(src []byte, enc Encoding) (Hstore, error) {
	p := &hstoreParser{cfg: c, src: src, enc: enc}
	result := make(Hstore)

	for {
		p.skipSpace()
		if p.atEnd() {
			return result, nil
		}

		key, _, err := p.parseToken(true)
		if err != nil {
			return nil, err
		}

		p.skipSpace()
		if !p.consume('=') || !p.consume('>') {
			return nil, valueError("invalid characters after key")
		}
		p.skipSpace()

		val, isNull, err := p.parseToken(false)
		if err != nil {
			return nil, err
		}

		p.skipSpace()
		if !p.atEnd() {
			if !p.consume(',') {
				return nil, valueError("invalid characters after value")
			}
			p.skipSpace()
			if p.atEnd() {
				return nil, valueError("missing entry")
			}
		}

		if isNull {
			result[*key] = nil
		} else {
			result[*key] = val
		}
	}
}

type hstoreParser struct {
	cfg *Config
	src []byte
	pos int
	enc Encoding
}

// parseToken parses a quoted or unquoted key or value. Unquoted keys end at
// '=' or a blank, unquoted values at ',' or a blank.
func (p *hstoreParser) parseToken(isKey bool) (s *string, isNull bool, err error) {
	var raw []byte
	escaped := false

	if p.peek() == '"' {
		p.pos++
		start := p.pos
		for p.pos < len(p.src) && p.src[p.pos] != '"' {
			if p.src[p.pos] == '\\' {
				p.pos++
				if p.pos == len(p.src) {
					break
				}
				escaped = true
			}
			p.pos++
		}
		if p.atEnd() {
			return nil, false, valueError("unterminated quote")
		}
		raw = p.src[start:p.pos]
		p.pos++
	} else {
		stop := byte(',')
		if isKey {
			stop = '='
		}
		start := p.pos
		for p.pos < len(p.src) && p.src[p.pos] != stop && p.src[p.pos] != ' ' {
			if p.src[p.pos] == '\\' {
				p.pos++
				if p.pos == len(p.src) {
					break
				}
				escaped = true
			}
			p.pos++
		}
		raw = p.src[start:p.pos]
		if len(raw) == 0 {
			if isKey {
				return nil, false, valueError("missing key")
			}
			return nil, false, valueError("missing value")
		}
		if !isKey && string(raw) == "NULL" {
			return nil, true, nil
		}
	}

	if escaped {
		if err := p.cfg.checkBufferSize(len(raw)); err != nil {
			return nil, false, err
		}
		raw = unescapeBackslashes(raw)
	}

	decoded, err := Decode(raw, p.enc)
	if err != nil {
		return nil, false, err
	}
	return &decoded, false, nil
}

func (p *hstoreParser) atEnd() bool {
	return p.pos >= len(p.src)
}

func (p *hstoreParser) peek() byte {
	if p.atEnd() {
		return 0
	}
	return p.src[p.pos]
}

func (p *hstoreParser) consume(ch byte) bool {
	if p.peek() == ch && !p.atEnd() {
		p.pos++
		return true
	}
	return false
}

func (p *hstoreParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func unescapeBackslashes(raw []byte) []byte {
	buf := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\\' {
			i++
			if i == len(raw) {
				break
			}
		}
		buf = append(buf, raw[i])
	}
	return buf
}
