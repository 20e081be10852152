package pgcast

// Classify returns the casting strategy for columns of type oid. It never
// fails: unknown oids are KindOther. The configuration decides whether
// arrays, bytea, json and money are decoded or returned as text.
func (c *Config) Classify(oid uint32) TypeTag {
	switch oid {
	case Int2OID, Int4OID, CIDOID, OIDOID, XIDOID:
		return Simple(KindInt)
	case Int8OID:
		return Simple(KindLong)
	case Float4OID, Float8OID:
		return Simple(KindFloat)
	case NumericOID:
		return Simple(KindDecimal)
	case CashOID:
		return Simple(c.moneyKind())
	case BoolOID:
		return Simple(KindBool)
	case ByteaOID:
		return Simple(c.byteaKind())
	case JSONOID, JSONBOID:
		return Simple(c.jsonKind())
	case BPCharOID, CharOID, TextOID, VarcharOID, NameOID, RegTypeOID:
		return Simple(KindText)

	case Int2ArrayOID, Int4ArrayOID, CIDArrayOID, OIDArrayOID, XIDArrayOID:
		return c.arrayOf(KindInt)
	case Int8ArrayOID:
		return c.arrayOf(KindLong)
	case Float4ArrayOID, Float8ArrayOID:
		return c.arrayOf(KindFloat)
	case NumericArrayOID:
		return c.arrayOf(KindDecimal)
	case CashArrayOID:
		return c.arrayOf(c.moneyKind())
	case BoolArrayOID:
		return c.arrayOf(KindBool)
	case ByteaArrayOID:
		return c.arrayOf(c.byteaKind())
	case JSONArrayOID, JSONBArrayOID:
		return c.arrayOf(c.jsonKind())
	case BPCharArrayOID, CharArrayOID, TextArrayOID, VarcharArrayOID, NameArrayOID, RegTypeArrayOID:
		return c.arrayOf(KindText)
	}

	return Simple(KindOther)
}

// ColumnTypes classifies every oid in oids.
func (c *Config) ColumnTypes(oids []uint32) []TypeTag {
	tags := make([]TypeTag, len(oids))
	for i, oid := range oids {
		tags[i] = c.Classify(oid)
	}
	return tags
}

func (c *Config) arrayOf(k Kind) TypeTag {
	if c.ArrayAsText {
		return Simple(KindText)
	}
	return ArrayOf(k)
}

func (c *Config) moneyKind() Kind {
	if c.DecimalPoint == 0 {
		return KindText
	}
	return KindMoney
}

func (c *Config) byteaKind() Kind {
	if c.ByteaEscaped {
		return KindText
	}
	return KindBytea
}

func (c *Config) jsonKind() Kind {
	if c.JSONDecode == nil {
		return KindText
	}
	return KindJSON
}
