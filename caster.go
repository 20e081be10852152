package pgcast

// CastFunc converts the decoded text of an element or field to a value.
type CastFunc func(s string) (any, error)

// Record is the value of a composite type. Fields that are NULL are nil.
type Record []any

// Hstore is the value of an hstore. NULL values are nil.
type Hstore map[string]*string

// ElementCaster converts the raw, already unescaped bytes of an array element
// or record field to a value.
type ElementCaster interface {
	Cast(src []byte) (any, error)
}

// tagCaster casts elements with the internal caster for a fixed kind.
type tagCaster struct {
	cfg *Config
	tag TypeTag
	enc Encoding
}

func (tc *tagCaster) Cast(src []byte) (any, error) {
	if tc.tag.Kind.IsText() {
		return tc.cfg.castText(src, tc.tag.Kind, tc.enc)
	}
	return tc.cfg.castSimple(string(src), tc.tag.Kind)
}

// funcCaster decodes elements as text and passes them to an external
// function. Without a function the decoded text is the value.
type funcCaster struct {
	f   CastFunc
	enc Encoding
}

func (fc *funcCaster) Cast(src []byte) (any, error) {
	s, err := Decode(src, fc.enc)
	if err != nil {
		if fc.f == nil {
			return copyBytes(src), nil
		}
		return nil, err
	}
	if fc.f == nil {
		return s, nil
	}
	return fc.f(s)
}

// elementCaster selects the strategy for the elements of one array. A tag
// takes precedence over an external function.
func (c *Config) elementCaster(tag TypeTag, f CastFunc, enc Encoding) ElementCaster {
	if !tag.IsZero() {
		return &tagCaster{cfg: c, tag: tag.Base(), enc: enc}
	}
	return &funcCaster{f: f, enc: enc}
}
