package pgcast

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/uuid"
)

// Sentinels for infinite and out of range dates and timestamps.
var (
	MinTime = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	MaxTime = time.Date(9999, time.December, 31, 23, 59, 59, 999999000, time.UTC)
)

// Interval is the value of an interval. Like PostgreSQL it keeps months and
// days apart from the time part.
type Interval struct {
	Months       int32
	Days         int32
	Microseconds int64
}

// Duration converts the interval to a time.Duration, counting a year as 365
// days and a month as 30 days.
func (iv Interval) Duration() time.Duration {
	days := int64(iv.Days) + 365*int64(iv.Months/12) + 30*int64(iv.Months%12)
	return time.Duration(days)*24*time.Hour + time.Duration(iv.Microseconds)*time.Microsecond
}

// CastInt casts an integer value to int64.
func CastInt(s string) (any, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return nil, &ValueError{Msg: fmt.Sprintf("invalid literal for int: %q", s), Err: numError(err)}
	}
	return n, nil
}

// CastFloat casts a floating point value to float64.
func CastFloat(s string) (any, error) {
	return parseFloat(s)
}

// CastText returns s unchanged.
func CastText(s string) (any, error) {
	return s, nil
}

// CastBytea unescapes the text representation of a bytea value.
func CastBytea(s string) (any, error) {
	return UnescapeBytea([]byte(s)), nil
}

// CastInt2Vector casts an int2vector value, e.g. "1 2 3", to []int64.
func CastInt2Vector(s string) (any, error) {
	fields := strings.Fields(s)
	result := make([]int64, len(fields))
	for i, f := range fields {
		n, err := strconv.ParseInt(f, 10, 16)
		if err != nil {
			return nil, &ValueError{Msg: fmt.Sprintf("invalid int2vector element %q", f), Err: numError(err)}
		}
		result[i] = n
	}
	return result, nil
}

// CastUUID casts a uuid value.
func CastUUID(s string) (any, error) {
	u, err := uuid.FromString(s)
	if err != nil {
		return nil, &ValueError{Msg: "invalid uuid", Err: err}
	}
	return u, nil
}

// CastDate casts a date value printed with the given Go layout, see
// DateStyleToFormat. Infinite dates and dates BC become MinTime or MaxTime.
func CastDate(s, layout string) (any, error) {
	switch s {
	case "-infinity":
		return MinTime, nil
	case "infinity":
		return MaxTime, nil
	}
	values := strings.Fields(s)
	if len(values) == 0 {
		return nil, valueError("invalid date: empty string")
	}
	if values[len(values)-1] == "BC" {
		return MinTime, nil
	}
	if len(values[0]) > 10 {
		return MaxTime, nil
	}
	t, err := time.Parse(layout, values[0])
	if err != nil {
		return nil, &ValueError{Msg: fmt.Sprintf("invalid date %q", s), Err: err}
	}
	return t, nil
}

// CastTime casts a time value. The date part of the result is zero.
func CastTime(s string) (any, error) {
	t, err := time.Parse("15:04:05", s)
	if err != nil {
		return nil, &ValueError{Msg: fmt.Sprintf("invalid time %q", s), Err: err}
	}
	return t, nil
}

// CastTimetz casts a time value with time zone, e.g. "04:05:06.789-08".
func CastTimetz(s string) (any, error) {
	clock, zone := splitZone(s)
	t, err := time.Parse("15:04:05 -0700", clock+" "+zoneOffset(zone))
	if err != nil {
		return nil, &ValueError{Msg: fmt.Sprintf("invalid timetz %q", s), Err: err}
	}
	return t, nil
}

// CastTimestamp casts a timestamp value printed with the date part in the
// given Go layout, see DateStyleToFormat.
func CastTimestamp(s, layout string) (any, error) {
	return castTimestamp(s, layout, false)
}

// CastTimestamptz casts a timestamp with time zone value printed with the
// date part in the given Go layout, see DateStyleToFormat.
func CastTimestamptz(s, layout string) (any, error) {
	return castTimestamp(s, layout, true)
}

func castTimestamp(s, layout string, withZone bool) (any, error) {
	switch s {
	case "-infinity":
		return MinTime, nil
	case "infinity":
		return MaxTime, nil
	}
	values := strings.Fields(s)
	if len(values) < 2 {
		return nil, valueErrorf("invalid timestamp %q", s)
	}
	if values[len(values)-1] == "BC" {
		return MinTime, nil
	}

	var str, parseLayout, zone string

	if strings.HasSuffix(layout, "-2006") && len(values) > 2 {
		// Postgres style: "Wed Dec 17 07:37:16 1997 PST"
		if len(values) < 5 {
			return nil, valueErrorf("invalid timestamp %q", s)
		}
		values = values[1:]
		if len(values[3]) > 4 {
			return MaxTime, nil
		}
		parseLayout = "Jan 02 15:04:05 2006"
		if strings.HasPrefix(layout, "02") {
			parseLayout = "02 Jan 15:04:05 2006"
		}
		str = strings.Join(values[:4], " ")
		if withZone && len(values) > 4 {
			zone = values[4]
		}
	} else {
		if len(values[0]) > 10 {
			return MaxTime, nil
		}
		date, clock := values[0], values[1]
		if withZone {
			if strings.HasPrefix(layout, "2006-") {
				clock, zone = splitZone(clock)
			} else if len(values) > 2 {
				zone = values[len(values)-1]
			}
		}
		parseLayout = layout + " 15:04:05"
		str = date + " " + clock
	}

	if withZone {
		parseLayout += " -0700"
		str += " " + zoneOffset(zone)
	}

	t, err := time.Parse(parseLayout, str)
	if err != nil {
		return nil, &ValueError{Msg: fmt.Sprintf("invalid timestamp %q", s), Err: err}
	}
	return t, nil
}

// splitZone splits a numeric zone offset from the end of a time.
func splitZone(s string) (clock, zone string) {
	if i := strings.LastIndexAny(s, "+-"); i > 0 {
		return s[:i], s[i:]
	}
	return s, ""
}

// zoneAbbrevs are the zone abbreviations PostgreSQL prints in the non-ISO
// date styles.
var zoneAbbrevs = map[string]string{
	"CET": "+0100", "EET": "+0200", "EST": "-0500",
	"GMT": "+0000", "HST": "-1000", "MET": "+0100", "MST": "-0700",
	"UCT": "+0000", "UTC": "+0000", "WET": "+0000",
}

// zoneOffset converts a zone as printed by PostgreSQL to the form +hhmm.
// Unknown abbreviations are treated as UTC.
func zoneOffset(zone string) string {
	if strings.HasPrefix(zone, "+") || strings.HasPrefix(zone, "-") {
		if len(zone) < 5 {
			return zone + "00"
		}
		zone = strings.ReplaceAll(zone, ":", "")
		if len(zone) > 5 {
			zone = zone[:5]
		}
		return zone
	}
	if offset, ok := zoneAbbrevs[zone]; ok {
		return offset
	}
	return "+0000"
}

var (
	intervalISO8601 = regexp.MustCompile(`^P(?:([+-]?[0-9]+)Y)?` +
		`(?:([+-]?[0-9]+)M)?` +
		`(?:([+-]?[0-9]+)D)?` +
		`(?:T(?:([+-]?[0-9]+)H)?` +
		`(?:([+-]?[0-9]+)M)?` +
		`(?:([+-])?([0-9]+)(?:\.([0-9]+))?S)?)? *$`)

	intervalPostgresVerbose = regexp.MustCompile(`^@ ?(?:([+-]?[0-9]+) ?years? ?)?` +
		`(?:([+-]?[0-9]+) ?mons? ?)?` +
		`(?:([+-]?[0-9]+) ?days? ?)?` +
		`(?:([+-]?[0-9]+) ?hours? ?)?` +
		`(?:([+-]?[0-9]+) ?mins? ?)?` +
		`(?:([+-])?([0-9]+)(?:\.([0-9]+))? ?secs?)? ?(ago)? *$`)

	intervalPostgres = regexp.MustCompile(`^(?:([+-]?[0-9]+) ?years? ?)?` +
		`(?:([+-]?[0-9]+) ?mons? ?)?` +
		`(?:([+-]?[0-9]+) ?days? ?)?` +
		`(?:([+-])?([0-9]+):([0-9]+):([0-9]+)(?:\.([0-9]+))?)? *$`)

	intervalSQLStandard = regexp.MustCompile(`^(?:([+-])?([0-9]+)-([0-9]+) ?)?` +
		`(?:([+-]?[0-9]+)(?: |$))?` +
		`(?:([+-])?([0-9]+):([0-9]+):([0-9]+)(?:\.([0-9]+))?)? *$`)
)

// CastInterval casts an interval value printed in any IntervalStyle.
func CastInterval(s string) (any, error) {
	var years, mons, days, hours, mins, secs, usecs int64

	if m := intervalISO8601.FindStringSubmatch(s); m != nil {
		years, mons, days, hours, mins = atoi(m[1]), atoi(m[2]), atoi(m[3]), atoi(m[4]), atoi(m[5])
		secs, usecs = atoi(m[7]), fraction(m[8])
		if m[6] == "-" {
			secs, usecs = -secs, -usecs
		}
	} else if m := intervalPostgresVerbose.FindStringSubmatch(s); m != nil {
		years, mons, days, hours, mins = atoi(m[1]), atoi(m[2]), atoi(m[3]), atoi(m[4]), atoi(m[5])
		secs, usecs = atoi(m[7]), fraction(m[8])
		if m[6] == "-" {
			secs, usecs = -secs, -usecs
		}
		if m[9] != "" {
			years, mons, days, hours, mins, secs, usecs = -years, -mons, -days, -hours, -mins, -secs, -usecs
		}
	} else if m := intervalPostgres.FindStringSubmatch(s); m != nil && anyGroup(m) {
		years, mons, days = atoi(m[1]), atoi(m[2]), atoi(m[3])
		hours, mins, secs, usecs = atoi(m[5]), atoi(m[6]), atoi(m[7]), fraction(m[8])
		if m[4] == "-" {
			hours, mins, secs, usecs = -hours, -mins, -secs, -usecs
		}
	} else if m := intervalSQLStandard.FindStringSubmatch(s); m != nil && anyGroup(m) {
		years, mons, days = atoi(m[2]), atoi(m[3]), atoi(m[4])
		hours, mins, secs, usecs = atoi(m[6]), atoi(m[7]), atoi(m[8]), fraction(m[9])
		if m[1] == "-" {
			years, mons = -years, -mons
		}
		if m[5] == "-" {
			hours, mins, secs, usecs = -hours, -mins, -secs, -usecs
		}
	} else {
		return nil, valueErrorf("cannot parse interval: %q", s)
	}

	return Interval{
		Months:       int32(12*years + mons),
		Days:         int32(days),
		Microseconds: ((hours*60+mins)*60+secs)*1000000 + usecs,
	}, nil
}

func atoi(s string) int64 {
	n, _ := strconv.ParseInt(s, 10, 64)
	return n
}

// fraction converts the digits after a decimal point to microseconds.
func fraction(s string) int64 {
	if len(s) > 6 {
		s = s[:6]
	}
	for len(s) < 6 {
		s += "0"
	}
	return atoi(s)
}

func anyGroup(m []string) bool {
	for _, g := range m[1:] {
		if g != "" {
			return true
		}
	}
	return false
}
