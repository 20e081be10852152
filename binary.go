package pgcast

import (
	"encoding/binary"
	"fmt"
	"math"
)

// decodeBinary converts a cell sent in binary format. Types without a binary
// decoder are returned as raw bytes.
func (c *Config) decodeBinary(oid uint32, src []byte, enc Encoding) (any, error) {
	switch oid {
	case Int2OID:
		if len(src) != 2 {
			return nil, fmt.Errorf("invalid length for int2: %v", len(src))
		}
		return int64(int16(binary.BigEndian.Uint16(src))), nil

	case Int4OID:
		if len(src) != 4 {
			return nil, fmt.Errorf("invalid length for int4: %v", len(src))
		}
		return int64(int32(binary.BigEndian.Uint32(src))), nil

	case OIDOID, XIDOID, CIDOID:
		if len(src) != 4 {
			return nil, fmt.Errorf("invalid length for oid: %v", len(src))
		}
		return int64(binary.BigEndian.Uint32(src)), nil

	case Int8OID:
		if len(src) != 8 {
			return nil, fmt.Errorf("invalid length for int8: %v", len(src))
		}
		return int64(binary.BigEndian.Uint64(src)), nil

	case Float4OID:
		if len(src) != 4 {
			return nil, fmt.Errorf("invalid length for float4: %v", len(src))
		}
		return float64(math.Float32frombits(binary.BigEndian.Uint32(src))), nil

	case Float8OID:
		if len(src) != 8 {
			return nil, fmt.Errorf("invalid length for float8: %v", len(src))
		}
		return math.Float64frombits(binary.BigEndian.Uint64(src)), nil

	case BoolOID:
		if len(src) != 1 {
			return nil, fmt.Errorf("invalid length for bool: %v", len(src))
		}
		t := src[0] == 1
		if c.BoolAsText {
			if t {
				return "t", nil
			}
			return "f", nil
		}
		return t, nil

	case TextOID, VarcharOID, BPCharOID, NameOID, CharOID:
		return c.castText(src, KindText, enc)

	case JSONOID:
		return c.castText(src, c.jsonKind(), enc)

	case JSONBOID:
		if len(src) == 0 || src[0] != 1 {
			return nil, fmt.Errorf("unknown jsonb version number")
		}
		return c.castText(src[1:], c.jsonKind(), enc)
	}

	return copyBytes(src), nil
}
