package ion

import (
	"fmt"
	"strings"
	"time"
)

// TimestampPrecision marks the finest field a timestamp actually carries.
// Coarser timestamps are not the same value as finer ones that happen to
// land on the same instant.
type TimestampPrecision uint8

const (
	NoPrecision TimestampPrecision = iota
	Year
	Month
	Day
	Minute
	Second
	Nanosecond
)

func (tp TimestampPrecision) String() string {
	switch tp {
	case NoPrecision:
		return "<no precision>"
	case Year:
		return "Year"
	case Month:
		return "Month"
	case Day:
		return "Day"
	case Minute:
		return "Minute"
	case Second:
		return "Second"
	case Nanosecond:
		return "Nanosecond"
	default:
		return fmt.Sprintf("<unknown precision %v>", uint8(tp))
	}
}

// layout returns the time.Format layout for this precision. fracDigits
// is the number of fractional-second digits to render, trailing zeros
// included.
func (tp TimestampPrecision) layout(kind TimezoneKind, fracDigits uint8) string {
	switch tp {
	case Year:
		return "2006T"
	case Month:
		return "2006-01T"
	case Day:
		return "2006-01-02T"
	case Minute, Second, Nanosecond:
		str := "2006-01-02T15:04"
		if tp >= Second {
			str += ":05"
		}
		if tp >= Nanosecond && fracDigits > 0 {
			if fracDigits > 9 {
				fracDigits = 9
			}
			str += "." + strings.Repeat("0", int(fracDigits))
		}
		if kind == TimezoneUnspecified {
			return str + "-07:00"
		}
		return str + "Z07:00"
	}

	return time.RFC3339Nano
}

// TimezoneKind distinguishes the three ways a timestamp can relate to UTC.
type TimezoneKind uint8

const (
	// TimezoneUnspecified covers date-only timestamps and timestamps
	// whose offset is unknown, written with a -00:00 offset in text.
	TimezoneUnspecified TimezoneKind = iota

	// TimezoneUTC covers timestamps at UTC proper, written with a
	// trailing Z or a +00:00 offset.
	TimezoneUTC

	// TimezoneLocal covers timestamps with a nonzero known offset.
	TimezoneLocal
)

// Timestamp is a point in time carrying its own precision and timezone
// semantics. Two timestamps naming the same instant at different
// precisions are distinct values.
type Timestamp struct {
	DateTime    time.Time
	precision   TimestampPrecision
	kind        TimezoneKind
	fracSeconds uint8
}

// NewDateTimestamp creates a timestamp of at most Day precision. The
// timezone is necessarily unspecified.
func NewDateTimestamp(dateTime time.Time, precision TimestampPrecision) Timestamp {
	return Timestamp{dateTime, precision, TimezoneUnspecified, 0}
}

// NewTimestamp creates a timestamp without fractional seconds.
func NewTimestamp(dateTime time.Time, precision TimestampPrecision, kind TimezoneKind) Timestamp {
	if precision <= Day {
		kind = TimezoneUnspecified
	}
	return Timestamp{dateTime, precision, kind, 0}
}

// NewTimestampWithFractionalSeconds creates a timestamp carrying the
// given number of fractional-second digits, up to nanoseconds.
func NewTimestampWithFractionalSeconds(dateTime time.Time, precision TimestampPrecision, kind TimezoneKind, fracDigits uint8) Timestamp {
	if fracDigits > 9 {
		fracDigits = 9
	}
	return Timestamp{dateTime, precision, kind, fracDigits}
}

// NewTimestampFromStr parses str at the given precision and kind. The
// count of fractional digits in the input is preserved.
func NewTimestampFromStr(str string, precision TimestampPrecision, kind TimezoneKind) (Timestamp, error) {
	fracDigits := uint8(0)

	if precision >= Nanosecond {
		if i := strings.LastIndex(str, "."); i != -1 {
			for i++; i < len(str) && isDigit(int(str[i])); i++ {
				fracDigits++
			}
		}
	}

	dateTime, err := time.Parse(precision.layout(kind, fracDigits), str)
	if err != nil {
		return emptyTimestamp(), err
	}

	return NewTimestampWithFractionalSeconds(dateTime, precision, kind, fracDigits), nil
}

func emptyTimestamp() Timestamp {
	return Timestamp{time.Time{}, NoPrecision, TimezoneUnspecified, 0}
}

func invalidTimestamp(val string) (Timestamp, error) {
	return emptyTimestamp(), fmt.Errorf("ion: invalid timestamp: %v", val)
}

// newDateTimestamp validates the calendar date and builds a timestamp of
// at most Day precision. time.Date quietly normalizes out-of-range
// fields, so the round trip check catches e.g. a 32nd of January.
func newDateTimestamp(year, month, day int, precision TimestampPrecision) (Timestamp, error) {
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if year != date.Year() || time.Month(month) != date.Month() || day != date.Day() {
		return emptyTimestamp(), fmt.Errorf("ion: invalid timestamp")
	}

	return NewDateTimestamp(date, precision), nil
}

// newTimestamp validates and builds a full timestamp. parts holds year,
// month, day, hour, minute, second in order; offset is minutes east of
// UTC and offSign carries its textual sign so a -00:00 offset can be
// told apart from +00:00. secondOverflow accounts for a fractional part
// that rounded up to a full second.
func newTimestamp(parts []int, nsecs int, secondOverflow bool, offset, offSign int64, precision TimestampPrecision, fracDigits uint8) (Timestamp, error) {
	date := time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], nsecs, time.UTC)
	if parts[0] != date.Year() || time.Month(parts[1]) != date.Month() || parts[2] != date.Day() {
		return emptyTimestamp(), fmt.Errorf("ion: invalid timestamp")
	}

	if secondOverflow {
		date = date.Add(time.Second)
	}

	date = date.In(time.FixedZone("fixed", int(offset)*60))

	switch {
	case precision <= Day:
		return NewDateTimestamp(date, precision), nil
	case offset == 0 && offSign == -1:
		return NewTimestampWithFractionalSeconds(date, precision, TimezoneUnspecified, fracDigits), nil
	case offset == 0:
		return NewTimestampWithFractionalSeconds(date, precision, TimezoneUTC, fracDigits), nil
	}

	return NewTimestampWithFractionalSeconds(date, precision, TimezoneLocal, fracDigits), nil
}

// Format renders this timestamp in Ion text form.
func (ts Timestamp) Format() string {
	layout := ts.precision.layout(ts.kind, ts.fracSeconds)
	if ts.precision >= Minute && ts.kind == TimezoneUnspecified {
		// time.Format has no verb that renders a zero offset as
		// -00:00, so append the suffix by hand.
		return ts.DateTime.Format(strings.TrimSuffix(layout, "-07:00")) + "-00:00"
	}
	return ts.DateTime.Format(layout)
}

// Precision returns the precision of this timestamp.
func (ts Timestamp) Precision() TimestampPrecision {
	return ts.precision
}

// Kind returns the timezone kind of this timestamp.
func (ts Timestamp) Kind() TimezoneKind {
	return ts.kind
}

// Equal reports whether two timestamps are the same Ion value: same
// instant, same precision, same timezone kind, same count of
// fractional digits.
func (ts Timestamp) Equal(o Timestamp) bool {
	return ts.DateTime.Equal(o.DateTime) &&
		ts.precision == o.precision &&
		ts.kind == o.kind &&
		ts.fracSeconds == o.fracSeconds
}

// Equivalent reports whether two timestamps name the same instant at
// the same precision, ignoring timezone representation.
func (ts Timestamp) Equivalent(o Timestamp) bool {
	return ts.DateTime.Equal(o.DateTime) && ts.precision == o.precision
}

// SetLocation rehomes the underlying time value.
func (ts *Timestamp) SetLocation(loc *time.Location) {
	ts.DateTime = ts.DateTime.In(loc)
}

// fraction returns the fractional seconds as a trimmed coefficient plus
// the declared digit count, ready for the binary encoder.
func (ts Timestamp) fraction() (int, uint8) {
	nsecs := ts.DateTime.Nanosecond()
	for i := ts.fracSeconds; i < 9 && nsecs > 0 && nsecs%10 == 0; i++ {
		nsecs /= 10
	}
	return nsecs, ts.fracSeconds
}
