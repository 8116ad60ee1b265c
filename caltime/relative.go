package caltime

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// RelativeTime is a signed amount of calendar time. Each component is
// kept separately because a month or a year has no fixed length until
// it is applied to a CalendarTime.
//
// RelativeTime is also the representation of a UTC offset, in which case
// only the hour and minute components may be set.
type RelativeTime struct {
	years        int
	months       int
	days         int
	hours        int
	minutes      int
	microseconds int64
	decimalCount int
}

// NewRelativeTime builds a RelativeTime with six significant decimals.
func NewRelativeTime(years, months, days, hours, minutes int, seconds float64) RelativeTime {
	return NewRelativeTimeDecimals(years, months, days, hours, minutes, seconds, maxDecimalCount)
}

// NewRelativeTimeDecimals builds a RelativeTime that keeps decimalCount
// significant fractional-second digits when formatted. The count is
// clamped to 0..6.
func NewRelativeTimeDecimals(years, months, days, hours, minutes int, seconds float64, decimalCount int) RelativeTime {
	return RelativeTime{
		years:        years,
		months:       months,
		days:         days,
		hours:        hours,
		minutes:      minutes,
		microseconds: secondsToMicroseconds(seconds),
		decimalCount: clampDecimals(decimalCount),
	}
}

// Microseconds builds a RelativeTime holding only a microsecond count.
func Microseconds(us int64) RelativeTime {
	return RelativeTime{microseconds: us, decimalCount: maxDecimalCount}
}

// OffsetFromMinutes builds a UTC offset of the given signed minute count,
// east of UTC positive.
func OffsetFromMinutes(minutes int) RelativeTime {
	return RelativeTime{hours: minutes / minutesPerHour, minutes: minutes % minutesPerHour}
}

func secondsToMicroseconds(seconds float64) int64 {
	return int64(math.Round(seconds * microsecondsPerSec))
}

func clampDecimals(n int) int {
	if n < 0 {
		return 0
	}
	if n > maxDecimalCount {
		return maxDecimalCount
	}
	return n
}

func (r RelativeTime) Years() int   { return r.years }
func (r RelativeTime) Months() int  { return r.months }
func (r RelativeTime) Days() int    { return r.days }
func (r RelativeTime) Hours() int   { return r.hours }
func (r RelativeTime) Minutes() int { return r.minutes }

// Seconds returns the seconds component including its fraction.
func (r RelativeTime) Seconds() float64 {
	return float64(r.microseconds) / microsecondsPerSec
}

// Microseconds returns the seconds component scaled to microseconds.
func (r RelativeTime) Microseconds() int64 { return r.microseconds }

func (r RelativeTime) DecimalCount() int { return r.decimalCount }

func (r *RelativeTime) SetYears(n int)   { r.years = n }
func (r *RelativeTime) SetMonths(n int)  { r.months = n }
func (r *RelativeTime) SetDays(n int)    { r.days = n }
func (r *RelativeTime) SetHours(n int)   { r.hours = n }
func (r *RelativeTime) SetMinutes(n int) { r.minutes = n }

func (r *RelativeTime) SetSeconds(seconds float64) {
	r.microseconds = secondsToMicroseconds(seconds)
}

func (r *RelativeTime) SetMicroseconds(us int64) { r.microseconds = us }

// SetDecimalCount returns an IllegalIndex error for counts outside 0..6.
func (r *RelativeTime) SetDecimalCount(n int) error {
	if n < 0 || n > maxDecimalCount {
		return illegalIndex("decimal count", int64(n), 0, maxDecimalCount)
	}
	r.decimalCount = n
	return nil
}

// Add sums the two values component by component.
func (r RelativeTime) Add(o RelativeTime) RelativeTime {
	r.years += o.years
	r.months += o.months
	r.days += o.days
	r.hours += o.hours
	r.minutes += o.minutes
	r.microseconds += o.microseconds
	if o.decimalCount > r.decimalCount {
		r.decimalCount = o.decimalCount
	}
	return r
}

// Sub subtracts o component by component.
func (r RelativeTime) Sub(o RelativeTime) RelativeTime {
	return r.Add(o.Neg())
}

// Neg negates every component.
func (r RelativeTime) Neg() RelativeTime {
	r.years = -r.years
	r.months = -r.months
	r.days = -r.days
	r.hours = -r.hours
	r.minutes = -r.minutes
	r.microseconds = -r.microseconds
	return r
}

// Equal compares component by component. The decimal count is ignored.
func (r RelativeTime) Equal(o RelativeTime) bool {
	return r.years == o.years && r.months == o.months && r.days == o.days &&
		r.hours == o.hours && r.minutes == o.minutes && r.microseconds == o.microseconds
}

// IsZero reports whether every component is zero.
func (r RelativeTime) IsZero() bool {
	return r.Equal(RelativeTime{})
}

// IsValidAsOffsetFromUTC reports whether r can serve as a UTC offset:
// hours and minutes only, of one sign, and at most 14 hours away.
func (r RelativeTime) IsValidAsOffsetFromUTC() bool {
	if r.years != 0 || r.months != 0 || r.days != 0 || r.microseconds != 0 {
		return false
	}
	if (r.hours > 0 && r.minutes < 0) || (r.hours < 0 && r.minutes > 0) {
		return false
	}
	if r.minutes <= -minutesPerHour || r.minutes >= minutesPerHour {
		return false
	}
	total := r.OffsetMinutes()
	return total >= -maxOffsetMinutes && total <= maxOffsetMinutes
}

// OffsetMinutes returns hours*60+minutes.
func (r RelativeTime) OffsetMinutes() int {
	return r.hours*minutesPerHour + r.minutes
}

// Duration converts a value with no year, month or day component.
// Nominal components make the result ambiguous, so ok is false for them.
func (r RelativeTime) Duration() (d time.Duration, ok bool) {
	if r.years != 0 || r.months != 0 || r.days != 0 {
		return 0, false
	}
	us := int64(r.hours)*microsecondsPerHour + int64(r.minutes)*microsecondsPerMin + r.microseconds
	return time.Duration(us) * time.Microsecond, true
}

// String renders r as an ISO 8601 duration, for example "P1Y2M3DT4H5M6.5S"
// or "-PT30M". Mixed-sign values are rendered component by component.
func (r RelativeTime) String() string {
	if r.IsZero() {
		return "PT0S"
	}
	neg := r.years <= 0 && r.months <= 0 && r.days <= 0 && r.hours <= 0 && r.minutes <= 0 && r.microseconds <= 0
	v := r
	if neg {
		v = r.Neg()
	}
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	b.WriteByte('P')
	writeComponent(&b, v.years, 'Y')
	writeComponent(&b, v.months, 'M')
	writeComponent(&b, v.days, 'D')
	if v.hours != 0 || v.minutes != 0 || v.microseconds != 0 {
		b.WriteByte('T')
		writeComponent(&b, v.hours, 'H')
		writeComponent(&b, v.minutes, 'M')
		if v.microseconds != 0 {
			b.WriteString(formatSeconds(v.microseconds, v.decimalCount))
			b.WriteByte('S')
		}
	}
	return b.String()
}

func writeComponent(b *strings.Builder, n int, unit byte) {
	if n != 0 {
		fmt.Fprintf(b, "%d%c", n, unit)
	}
}

// formatSeconds renders us as seconds with at most decimalCount fraction
// digits, trailing zeros trimmed.
func formatSeconds(us int64, decimalCount int) string {
	sign := ""
	if us < 0 {
		sign = "-"
		us = -us
	}
	whole := us / microsecondsPerSec
	frac := truncateFraction(us%microsecondsPerSec, decimalCount)
	if frac == 0 {
		return fmt.Sprintf("%s%d", sign, whole)
	}
	s := strings.TrimRight(fmt.Sprintf("%06d", frac), "0")
	return fmt.Sprintf("%s%d.%s", sign, whole, s)
}
