package pgcast

import "strings"

// Go layouts for the date part of each PostgreSQL DateStyle.
const (
	DateFormatISO         = "2006-01-02"
	DateFormatPostgresMDY = "01-02-2006"
	DateFormatPostgresDMY = "02-01-2006"
	DateFormatSQLMDY      = "01/02/2006"
	DateFormatSQLDMY      = "02/01/2006"
	DateFormatGerman      = "02.01.2006"
)

// DateStyleToFormat returns the Go layout for dates printed with the given
// DateStyle setting, e.g. "ISO, MDY" or "SQL, DMY".
func DateStyleToFormat(style string) string {
	order := func() byte {
		i := strings.IndexByte(style, ',')
		if i < 0 {
			return 0
		}
		rest := strings.TrimLeft(style[i+1:], " ")
		if rest == "" {
			return 0
		}
		return rest[0]
	}

	if style == "" {
		return DateFormatISO
	}

	switch style[0] {
	case 'P':
		if order() == 'D' {
			return DateFormatPostgresDMY
		}
		return DateFormatPostgresMDY
	case 'S':
		if order() == 'D' {
			return DateFormatSQLDMY
		}
		return DateFormatSQLMDY
	case 'G':
		return DateFormatGerman
	default:
		return DateFormatISO
	}
}

// DateFormatToStyle returns the DateStyle setting that prints dates with the
// given Go layout.
func DateFormatToStyle(format string) string {
	switch format {
	case DateFormatPostgresMDY:
		return "Postgres, MDY"
	case DateFormatPostgresDMY:
		return "Postgres, DMY"
	case DateFormatSQLMDY:
		return "SQL, MDY"
	case DateFormatSQLDMY:
		return "SQL, DMY"
	case DateFormatGerman:
		return "German, DMY"
	default:
		return "ISO, YMD"
	}
}
