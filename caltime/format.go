package caltime

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

var pow10 = [...]int64{1, 10, 100, 1000, 10000, 100000, 1000000}

// truncateFraction drops the digits of a microsecond count beyond
// decimalCount fractional-second digits.
func truncateFraction(us int64, decimalCount int) int64 {
	unit := pow10[maxDecimalCount-clampDecimals(decimalCount)]
	return us - us%unit
}

// ToCIM formats t as a CIM DATETIME, yyyymmddhhmmss.mmmmmmsutc, where
// utc is the offset in minutes. Fraction digits past the decimal count
// are written as zeros.
func (t CalendarTime) ToCIM() string {
	t.check()
	sign := '+'
	offset := t.minutesFromUTC
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	us := truncateFraction(t.microsecond, t.decimalCount)
	return fmt.Sprintf("%04d%02d%02d%02d%02d%02d.%06d%c%03d",
		t.pos.Year, t.pos.Month, t.pos.Day, t.pos.Hour, t.pos.Minute,
		us/microsecondsPerSec, us%microsecondsPerSec, sign, offset)
}

// ToBasicISO8601 formats t as 20041203T162010.123456+0230.
func (t CalendarTime) ToBasicISO8601() string { return t.ToISO8601("", "") }

// ToExtendedISO8601 formats t as 2004-12-03T16:20:10.123456+02:30.
func (t CalendarTime) ToExtendedISO8601() string { return t.ToISO8601("-", ":") }

// ToISO8601 formats t with the given date and time separators. The
// fraction is written only when the decimal count is positive, and the
// offset is Z for UTC, otherwise ±hh followed by the minutes only when
// they are not zero.
func (t CalendarTime) ToISO8601(dateSep, timeSep string) string {
	t.check()
	var b strings.Builder
	fmt.Fprintf(&b, "%04d%s%02d%s%02dT%02d%s%02d%s%02d",
		t.pos.Year, dateSep, t.pos.Month, dateSep, t.pos.Day,
		t.pos.Hour, timeSep, t.pos.Minute, timeSep, t.microsecond/microsecondsPerSec)
	if t.decimalCount > 0 {
		frac := fmt.Sprintf("%06d", t.microsecond%microsecondsPerSec)
		b.WriteByte('.')
		b.WriteString(frac[:t.decimalCount])
	}
	if t.minutesFromUTC == 0 {
		b.WriteByte('Z')
		return b.String()
	}
	offset := t.minutesFromUTC
	if offset < 0 {
		b.WriteByte('-')
		offset = -offset
	} else {
		b.WriteByte('+')
	}
	fmt.Fprintf(&b, "%02d", offset/minutesPerHour)
	if m := offset % minutesPerHour; m != 0 {
		fmt.Fprintf(&b, "%s%02d", timeSep, m)
	}
	return b.String()
}

// String returns the extended ISO 8601 form.
func (t CalendarTime) String() string {
	if !t.initialized {
		return "<uninitialized>"
	}
	return t.ToExtendedISO8601()
}

// MarshalText encodes t in extended ISO 8601.
func (t CalendarTime) MarshalText() ([]byte, error) {
	if !t.initialized {
		return nil, errors.New("caltime: marshal of uninitialized calendar time")
	}
	return []byte(t.ToExtendedISO8601()), nil
}

// UnmarshalText decodes an ISO 8601 combined date and time.
func (t *CalendarTime) UnmarshalText(text []byte) error {
	v, err := FromISO8601(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}
