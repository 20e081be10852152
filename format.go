package pgcast

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// String formats the result as a table the way psql does: numeric columns
// are right aligned, binary cells are shown as <binary>, and a footer gives
// the number of rows.
func (r *Result) String() string {
	n := len(r.fields)
	if n == 0 {
		return "(nothing selected)"
	}
	m := len(r.rows)

	// align is 'r', 'l' or 0 for binary columns
	aligns := make([]byte, n)
	sizes := make([]int, n)
	for j, fd := range r.fields {
		sizes[j] = utf8.RuneCountInString(fd.Name)
		if fd.Format != TextFormatCode {
			if m > 0 && sizes[j] < 8 {
				sizes[j] = 8
			}
			continue
		}
		switch fd.DataTypeOID {
		case Int2OID, Int4OID, Int8OID, Float4OID, Float8OID, NumericOID, OIDOID, XIDOID, CIDOID, CashOID:
			aligns[j] = 'r'
		default:
			aligns[j] = 'l'
		}
	}
	for _, row := range r.rows {
		for j, v := range row {
			if aligns[j] != 0 {
				if k := utf8.RuneCount(v); sizes[j] < k {
					sizes[j] = k
				}
			}
		}
	}

	var sb strings.Builder

	for j, fd := range r.fields {
		k := sizes[j]
		h := (k - utf8.RuneCountInString(fd.Name)) / 2
		fmt.Fprintf(&sb, "%*s%-*s", h, "", k-h, fd.Name)
		if j+1 < n {
			sb.WriteByte('|')
		}
	}
	sb.WriteByte('\n')
	for j := range r.fields {
		sb.WriteString(strings.Repeat("-", sizes[j]))
		if j+1 < n {
			sb.WriteByte('+')
		}
	}
	sb.WriteByte('\n')

	for _, row := range r.rows {
		for j, v := range row {
			k := sizes[j]
			switch aligns[j] {
			case 'r':
				fmt.Fprintf(&sb, "%*s", k, v)
			case 'l':
				fmt.Fprintf(&sb, "%-*s", k, v)
			default:
				cell := "<binary>"
				if v == nil {
					cell = ""
				}
				fmt.Fprintf(&sb, "%-*s", k, cell)
			}
			if j+1 < n {
				sb.WriteByte('|')
			}
		}
		sb.WriteByte('\n')
	}

	if m == 1 {
		sb.WriteString("(1 row)")
	} else {
		fmt.Fprintf(&sb, "(%d rows)", m)
	}
	return sb.String()
}
