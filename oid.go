package pgcast

// PostgreSQL oids for builtin types
const (
	BoolOID             = 16
	ByteaOID            = 17
	CharOID             = 18
	NameOID             = 19
	Int8OID             = 20
	Int2OID             = 21
	Int2VectorOID       = 22
	Int4OID             = 23
	RegProcOID          = 24
	TextOID             = 25
	OIDOID              = 26
	TIDOID              = 27
	XIDOID              = 28
	CIDOID              = 29
	JSONOID             = 114
	XMLOID              = 142
	XMLArrayOID         = 143
	JSONArrayOID        = 199
	PointOID            = 600
	LsegOID             = 601
	PathOID             = 602
	BoxOID              = 603
	PolygonOID          = 604
	LineOID             = 628
	CIDROID             = 650
	CIDRArrayOID        = 651
	Float4OID           = 700
	Float8OID           = 701
	UnknownOID          = 705
	CircleOID           = 718
	CashOID             = 790
	CashArrayOID        = 791
	MacaddrOID          = 829
	InetOID             = 869
	BoolArrayOID        = 1000
	ByteaArrayOID       = 1001
	CharArrayOID        = 1002
	NameArrayOID        = 1003
	Int2ArrayOID        = 1005
	Int2VectorArrayOID  = 1006
	Int4ArrayOID        = 1007
	TextArrayOID        = 1009
	TIDArrayOID         = 1010
	XIDArrayOID         = 1011
	CIDArrayOID         = 1012
	BPCharArrayOID      = 1014
	VarcharArrayOID     = 1015
	Int8ArrayOID        = 1016
	PointArrayOID       = 1017
	LsegArrayOID        = 1018
	PathArrayOID        = 1019
	BoxArrayOID         = 1020
	Float4ArrayOID      = 1021
	Float8ArrayOID      = 1022
	PolygonArrayOID     = 1027
	OIDArrayOID         = 1028
	ACLItemOID          = 1033
	ACLItemArrayOID     = 1034
	InetArrayOID        = 1041
	BPCharOID           = 1042
	VarcharOID          = 1043
	DateOID             = 1082
	TimeOID             = 1083
	TimestampOID        = 1114
	TimestampArrayOID   = 1115
	DateArrayOID        = 1182
	TimeArrayOID        = 1183
	TimestamptzOID      = 1184
	TimestamptzArrayOID = 1185
	IntervalOID         = 1186
	IntervalArrayOID    = 1187
	NumericArrayOID     = 1231
	TimetzOID           = 1266
	TimetzArrayOID      = 1270
	BitOID              = 1560
	VarbitOID           = 1562
	NumericOID          = 1700
	RegTypeOID          = 2206
	RegTypeArrayOID     = 2211
	RecordOID           = 2249
	RecordArrayOID      = 2287
	UUIDOID             = 2950
	UUIDArrayOID        = 2951
	JSONBOID            = 3802
	JSONBArrayOID       = 3807
)

// TypeInfo describes a builtin type the way pg_type does: its name, the oid
// of its array type and the element delimiter used in array literals.
type TypeInfo struct {
	OID      uint32
	Name     string
	ArrayOID uint32
	ElemOID  uint32
	Delim    byte
}

var builtinTypes = []TypeInfo{
	{OID: BoolOID, Name: "bool", ArrayOID: BoolArrayOID},
	{OID: ByteaOID, Name: "bytea", ArrayOID: ByteaArrayOID},
	{OID: CharOID, Name: "char", ArrayOID: CharArrayOID},
	{OID: NameOID, Name: "name", ArrayOID: NameArrayOID},
	{OID: Int8OID, Name: "int8", ArrayOID: Int8ArrayOID},
	{OID: Int2OID, Name: "int2", ArrayOID: Int2ArrayOID},
	{OID: Int2VectorOID, Name: "int2vector", ArrayOID: Int2VectorArrayOID},
	{OID: Int4OID, Name: "int4", ArrayOID: Int4ArrayOID},
	{OID: RegProcOID, Name: "regproc"},
	{OID: TextOID, Name: "text", ArrayOID: TextArrayOID},
	{OID: OIDOID, Name: "oid", ArrayOID: OIDArrayOID},
	{OID: TIDOID, Name: "tid", ArrayOID: TIDArrayOID},
	{OID: XIDOID, Name: "xid", ArrayOID: XIDArrayOID},
	{OID: CIDOID, Name: "cid", ArrayOID: CIDArrayOID},
	{OID: JSONOID, Name: "json", ArrayOID: JSONArrayOID},
	{OID: XMLOID, Name: "xml", ArrayOID: XMLArrayOID},
	{OID: PointOID, Name: "point", ArrayOID: PointArrayOID},
	{OID: LsegOID, Name: "lseg", ArrayOID: LsegArrayOID},
	{OID: PathOID, Name: "path", ArrayOID: PathArrayOID},
	{OID: BoxOID, Name: "box", ArrayOID: BoxArrayOID, Delim: ';'},
	{OID: PolygonOID, Name: "polygon", ArrayOID: PolygonArrayOID},
	{OID: LineOID, Name: "line"},
	{OID: CIDROID, Name: "cidr", ArrayOID: CIDRArrayOID},
	{OID: Float4OID, Name: "float4", ArrayOID: Float4ArrayOID},
	{OID: Float8OID, Name: "float8", ArrayOID: Float8ArrayOID},
	{OID: UnknownOID, Name: "unknown"},
	{OID: CircleOID, Name: "circle"},
	{OID: CashOID, Name: "money", ArrayOID: CashArrayOID},
	{OID: MacaddrOID, Name: "macaddr"},
	{OID: InetOID, Name: "inet", ArrayOID: InetArrayOID},
	{OID: ACLItemOID, Name: "aclitem", ArrayOID: ACLItemArrayOID},
	{OID: BPCharOID, Name: "bpchar", ArrayOID: BPCharArrayOID},
	{OID: VarcharOID, Name: "varchar", ArrayOID: VarcharArrayOID},
	{OID: DateOID, Name: "date", ArrayOID: DateArrayOID},
	{OID: TimeOID, Name: "time", ArrayOID: TimeArrayOID},
	{OID: TimestampOID, Name: "timestamp", ArrayOID: TimestampArrayOID},
	{OID: TimestamptzOID, Name: "timestamptz", ArrayOID: TimestamptzArrayOID},
	{OID: IntervalOID, Name: "interval", ArrayOID: IntervalArrayOID},
	{OID: TimetzOID, Name: "timetz", ArrayOID: TimetzArrayOID},
	{OID: BitOID, Name: "bit"},
	{OID: VarbitOID, Name: "varbit"},
	{OID: NumericOID, Name: "numeric", ArrayOID: NumericArrayOID},
	{OID: RegTypeOID, Name: "regtype", ArrayOID: RegTypeArrayOID},
	{OID: RecordOID, Name: "record", ArrayOID: RecordArrayOID},
	{OID: UUIDOID, Name: "uuid", ArrayOID: UUIDArrayOID},
	{OID: JSONBOID, Name: "jsonb", ArrayOID: JSONBArrayOID},
}

var (
	typesByOID  map[uint32]TypeInfo
	typesByName map[string]TypeInfo
)

func init() {
	typesByOID = make(map[uint32]TypeInfo, 2*len(builtinTypes))
	typesByName = make(map[string]TypeInfo, 2*len(builtinTypes))
	for _, ti := range builtinTypes {
		if ti.Delim == 0 {
			ti.Delim = ','
		}
		typesByOID[ti.OID] = ti
		typesByName[ti.Name] = ti
		if ti.ArrayOID != 0 {
			at := TypeInfo{OID: ti.ArrayOID, Name: "_" + ti.Name, ElemOID: ti.OID, Delim: ti.Delim}
			typesByOID[at.OID] = at
			typesByName[at.Name] = at
		}
	}
}

// TypeByOID returns the builtin type with the given oid.
func TypeByOID(oid uint32) (TypeInfo, bool) {
	ti, ok := typesByOID[oid]
	return ti, ok
}

// TypeByName returns the builtin type with the given name. Array types are
// named with a leading underscore as in pg_type.
func TypeByName(name string) (TypeInfo, bool) {
	ti, ok := typesByName[name]
	return ti, ok
}

// Delimiter returns the array element delimiter for oid, which may be either
// an element or an array type. Unknown types use a comma.
func Delimiter(oid uint32) byte {
	if ti, ok := typesByOID[oid]; ok {
		return ti.Delim
	}
	return ','
}
