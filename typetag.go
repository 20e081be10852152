package pgcast

// Kind is the casting strategy for a column's base type.
type Kind uint8

const (
	// KindNone is the zero Kind. A TypeTag with KindNone means "no internal
	// type", which makes array and record parsing fall back to external casts.
	KindNone Kind = iota
	KindInt
	KindLong
	KindFloat
	KindDecimal
	KindMoney
	KindBool
	KindText
	KindBytea
	KindJSON
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindDecimal:
		return "decimal"
	case KindMoney:
		return "money"
	case KindBool:
		return "bool"
	case KindText:
		return "text"
	case KindBytea:
		return "bytea"
	case KindJSON:
		return "json"
	case KindOther:
		return "other"
	default:
		return "invalid"
	}
}

// IsText reports whether values of this kind are decoded as text before any
// further conversion.
func (k Kind) IsText() bool {
	return k >= KindText
}

// TypeTag is the internal classification of a column type. Array is
// orthogonal to Kind: an array of any kind is representable.
type TypeTag struct {
	Kind  Kind
	Array bool
}

// Simple returns a non-array tag of kind k.
func Simple(k Kind) TypeTag {
	return TypeTag{Kind: k}
}

// ArrayOf returns an array tag with base kind k.
func ArrayOf(k Kind) TypeTag {
	return TypeTag{Kind: k, Array: true}
}

// IsZero reports whether t carries no type information at all.
func (t TypeTag) IsZero() bool {
	return t.Kind == KindNone && !t.Array
}

// Base returns the element tag of an array tag. An array without a base kind
// has text elements.
func (t TypeTag) Base() TypeTag {
	if t.Kind == KindNone {
		return TypeTag{Kind: KindText}
	}
	return TypeTag{Kind: t.Kind}
}

func (t TypeTag) String() string {
	if t.Array {
		return t.Kind.String() + "[]"
	}
	return t.Kind.String()
}
