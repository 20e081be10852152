package pgcast

import "strings"

// MaxArrayDepth is the deepest nesting of array literals that CastArray
// accepts.
const MaxArrayDepth = 16

// CastArray parses the text representation of an array, e.g.
// "{{1,2},{3,NULL}}" or "[0:1]={a,b}", into nested []any slices.
//
// Elements are cast with the internal caster for the base kind of tag. When
// tag is the zero TypeTag, elements are decoded as text and passed to cast if
// it is not nil. delim separates the elements; zero means a comma. Dimension
// bounds are validated against the nesting depth and otherwise ignored.
func (c *Config) CastArray(src []byte, enc Encoding, tag TypeTag, cast CastFunc, delim byte) ([]any, error) {
	switch delim {
	case 0:
		delim = ','
	case '{', '}', '\\':
		return nil, valueError("invalid array delimiter")
	}

	p := &arrayParser{
		cfg:   c,
		src:   src,
		delim: delim,
		elem:  c.elementCaster(tag, cast, enc),
	}
	return p.parse()
}

type arrayParser struct {
	cfg   *Config
	src   []byte
	pos   int
	delim byte
	depth int
	elem  ElementCaster
}

func (p *arrayParser) parse() ([]any, error) {
	p.skipSpace()

	ranges := 0
	if p.pos < len(p.src) && p.src[p.pos] == '[' {
		var err error
		ranges, err = p.parseDimensions()
		if err != nil {
			return nil, err
		}
	}

	depth := 0
	for i := p.pos; i < len(p.src) && (p.src[i] == '{' || p.src[i] == ' '); i++ {
		if p.src[i] == '{' {
			depth++
		}
	}
	if depth == 0 {
		return nil, valueError("array must start with a left brace")
	}
	if ranges > 0 && depth != ranges {
		return nil, valueError("array dimensions do not match content")
	}
	if depth > MaxArrayDepth {
		return nil, valueError("array is too deeply nested")
	}
	p.depth = depth - 1

	p.advance()
	result, err := p.parseArray(0)
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.src) {
		return nil, valueError("unexpected characters after end of array")
	}
	return result, nil
}

// parseDimensions validates a sequence of "[lo:hi]" ranges followed by '='
// and returns how many ranges there were.
func (p *arrayParser) parseDimensions() (int, error) {
	ranges := 0
	for {
		if !p.consume('[') {
			break
		}
		p.skipSpace()
		if !p.scanInt() || !p.consume(':') || !p.scanInt() || !p.consume(']') {
			break
		}
		p.skipSpace()
		ranges++
		if p.consume('=') {
			p.skipSpace()
			return ranges, nil
		}
	}
	return 0, valueError("invalid array dimensions")
}

// parseArray parses the contents of an array whose opening brace has been
// consumed, up to and including the closing brace.
func (p *arrayParser) parseArray(level int) ([]any, error) {
	result := make([]any, 0)

	for p.pos < len(p.src) {
		if p.src[p.pos] == '}' {
			p.advance()
			return result, nil
		}

		if level == p.depth {
			elem, err := p.parseElement()
			if err != nil {
				return nil, err
			}
			result = append(result, elem)

			if p.pos == len(p.src) {
				break
			}
			if p.src[p.pos] == p.delim {
				p.advance()
				continue
			}
			if p.src[p.pos] != '}' {
				return nil, valueError("unexpected characters after array element")
			}
			continue
		}

		if p.src[p.pos] != '{' {
			return nil, valueError("subarray must start with a left brace")
		}
		p.advance()
		sub, err := p.parseArray(level + 1)
		if err != nil {
			return nil, err
		}
		result = append(result, sub)

		if p.pos == len(p.src) {
			break
		}
		if p.src[p.pos] == p.delim {
			p.advance()
			if p.pos < len(p.src) && p.src[p.pos] != '{' {
				return nil, valueError("subarray expected but not found")
			}
			continue
		}
		if p.src[p.pos] != '}' {
			return nil, valueError("unexpected characters after subarray")
		}
	}

	return nil, valueError("unexpected end of array")
}

// parseElement parses one quoted or unquoted element and leaves the cursor on
// the following delimiter or closing brace.
func (p *arrayParser) parseElement() (any, error) {
	if p.src[p.pos] == '{' {
		return nil, valueError("subarray found where not expected")
	}

	var raw []byte
	escaped := false

	if p.src[p.pos] == '"' {
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
		if p.pos == len(p.src) {
			return nil, valueError("unexpected end of array")
		}
		raw = p.src[start:p.pos]
		p.advance()
	} else {
		start := p.pos
	scan:
		for p.pos < len(p.src) {
			switch p.src[p.pos] {
			case '"', '{', '}', p.delim:
				break scan
			case '\\':
				p.pos++
				if p.pos == len(p.src) {
					break scan
				}
				escaped = true
			}
			p.pos++
		}
		end := p.pos
		for end > start && p.src[end-1] == ' ' {
			end--
		}
		if end == start {
			return nil, valueError("missing array element")
		}
		raw = p.src[start:end]
		if len(raw) == 4 && strings.EqualFold(string(raw), "NULL") {
			return nil, nil
		}
	}

	if escaped {
		var err error
		if raw, err = p.unescape(raw); err != nil {
			return nil, err
		}
	}
	return p.elem.Cast(raw)
}

func (p *arrayParser) unescape(raw []byte) ([]byte, error) {
	if err := p.cfg.checkBufferSize(len(raw)); err != nil {
		return nil, err
	}
	return unescapeBackslashes(raw), nil
}

// advance moves past the current byte and any following blanks.
func (p *arrayParser) advance() {
	p.pos++
	p.skipSpace()
}

func (p *arrayParser) skipSpace() {
	for p.pos < len(p.src) && p.src[p.pos] == ' ' {
		p.pos++
	}
}

func (p *arrayParser) consume(ch byte) bool {
	if p.pos < len(p.src) && p.src[p.pos] == ch {
		p.pos++
		return true
	}
	return false
}

// scanInt consumes an optionally signed decimal integer.
func (p *arrayParser) scanInt() bool {
	if p.pos < len(p.src) && (p.src[p.pos] == '+' || p.src[p.pos] == '-') {
		p.pos++
	}
	start := p.pos
	for p.pos < len(p.src) && '0' <= p.src[p.pos] && p.src[p.pos] <= '9' {
		p.pos++
	}
	return p.pos > start
}
