package pgcast

// ErrorClass groups SQLSTATE codes into the DB-API error hierarchy.
type ErrorClass int

const (
	DatabaseError ErrorClass = iota
	NotSupportedError
	ProgrammingError
	DataError
	IntegrityError
	InternalError
	OperationalError
)

func (c ErrorClass) String() string {
	switch c {
	case NotSupportedError:
		return "NotSupportedError"
	case ProgrammingError:
		return "ProgrammingError"
	case DataError:
		return "DataError"
	case IntegrityError:
		return "IntegrityError"
	case InternalError:
		return "InternalError"
	case OperationalError:
		return "OperationalError"
	default:
		return "DatabaseError"
	}
}

// ClassifySQLState maps a five character SQLSTATE to its error class. Only
// the first two characters are significant. Unknown or short codes map to
// DatabaseError.
func ClassifySQLState(code string) ErrorClass {
	if len(code) < 2 {
		return DatabaseError
	}

	switch code[0] {
	case '0':
		if code[1] == 'A' {
			return NotSupportedError
		}
	case '2':
		switch code[1] {
		case '0', '1':
			return ProgrammingError
		case '2':
			return DataError
		case '3':
			return IntegrityError
		case '4', '5':
			return InternalError
		case '6', '7', '8':
			return OperationalError
		case 'B', 'D', 'F':
			return InternalError
		}
	case '3':
		switch code[1] {
		case '4':
			return OperationalError
		case '8', '9', 'B':
			return InternalError
		case 'D', 'F':
			return ProgrammingError
		}
	case '4':
		switch code[1] {
		case '0':
			return OperationalError
		case '2', '4':
			return ProgrammingError
		}
	case '5', 'H':
		return OperationalError
	case 'F', 'P', 'X':
		return InternalError
	}

	return DatabaseError
}
