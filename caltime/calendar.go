package caltime

import (
	"time"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("caltime")

// Precision records the coarsest calendar unit a value was specified
// with. Comparisons between two values run at the coarser of their two
// precisions, so a larger Precision is a finer one.
type Precision int

const (
	// PrecisionUnknown compares like PrecisionSecond.
	PrecisionUnknown Precision = iota
	PrecisionYear
	PrecisionMonth
	PrecisionDay
	PrecisionHour
	PrecisionMinute
	PrecisionSecond
)

func (p Precision) String() string {
	switch p {
	case PrecisionYear:
		return "year"
	case PrecisionMonth:
		return "month"
	case PrecisionDay:
		return "day"
	case PrecisionHour:
		return "hour"
	case PrecisionMinute:
		return "minute"
	case PrecisionSecond:
		return "second"
	default:
		return "unknown"
	}
}

func (p Precision) effective() Precision {
	if p == PrecisionUnknown {
		return PrecisionSecond
	}
	return p
}

// CalendarTime is an absolute moment: a calendar position, the seconds
// of the minute scaled to microseconds, and the wall clock's offset from
// UTC. Only the years 1970 through 9999 are representable.
//
// The zero value is uninitialized. Only assignment is valid on it;
// any other use panics.
type CalendarTime struct {
	pos            Position
	microsecond    int64 // second*1e6 + fraction, in [0, 60e6)
	decimalCount   int
	minutesFromUTC int
	precision      Precision
	initialized    bool
}

// UnixEpoch is 1970-01-01T00:00:00Z.
var UnixEpoch = newUnchecked(Position{Year: 1970, Month: 1, Day: 1}, 0, maxDecimalCount, 0, PrecisionSecond)

// newUnchecked skips validation. Only for values already known to
// satisfy every invariant.
func newUnchecked(pos Position, us int64, decimalCount, offsetMinutes int, precision Precision) CalendarTime {
	t := CalendarTime{
		pos:            pos,
		microsecond:    us,
		decimalCount:   decimalCount,
		minutesFromUTC: offsetMinutes,
		precision:      precision,
		initialized:    true,
	}
	assert(t.valid(), "unchecked calendar time %+v violates its invariants", pos)
	return t
}

func (t CalendarTime) valid() bool {
	return validateFields(t.pos, t.microsecond) == nil &&
		t.decimalCount >= 0 && t.decimalCount <= maxDecimalCount &&
		OffsetFromMinutes(t.minutesFromUTC).IsValidAsOffsetFromUTC()
}

// validateFields checks a calendar position and the microsecond-of-minute.
func validateFields(pos Position, us int64) error {
	if err := checkYear(pos.Year); err != nil {
		return err
	}
	if pos.Month < 1 || pos.Month > monthsPerYear {
		return illegalIndex("month", int64(pos.Month), 1, monthsPerYear)
	}
	if n := daysInMonth(pos.Year, pos.Month); pos.Day < 1 || pos.Day > n {
		return illegalIndex("day", int64(pos.Day), 1, int64(n))
	}
	if pos.Hour < 0 || pos.Hour >= hoursPerDay {
		return illegalIndex("hour", int64(pos.Hour), 0, hoursPerDay-1)
	}
	if pos.Minute < 0 || pos.Minute >= minutesPerHour {
		return illegalIndex("minute", int64(pos.Minute), 0, minutesPerHour-1)
	}
	if us < 0 || us >= microsecondsPerMin {
		return invalidArgument("second %.6f not in [0, 60)", float64(us)/microsecondsPerSec)
	}
	return nil
}

func newValidated(pos Position, us int64, decimalCount int, offset RelativeTime, precision Precision) (CalendarTime, error) {
	if err := validateFields(pos, us); err != nil {
		return CalendarTime{}, err
	}
	if decimalCount < 0 || decimalCount > maxDecimalCount {
		return CalendarTime{}, invalidArgument("decimal count %d not in [0, %d]", decimalCount, maxDecimalCount)
	}
	if !offset.IsValidAsOffsetFromUTC() {
		return CalendarTime{}, invalidArgument("%s is not a valid offset from UTC", offset)
	}
	return CalendarTime{
		pos:            pos,
		microsecond:    us,
		decimalCount:   decimalCount,
		minutesFromUTC: offset.OffsetMinutes(),
		precision:      precision,
		initialized:    true,
	}, nil
}

// New builds a second-precision CalendarTime with six significant
// decimals. second may carry a fraction and must be in [0, 60).
func New(year, month, day, hour, minute int, second float64, offset RelativeTime) (CalendarTime, error) {
	return NewWithDecimals(year, month, day, hour, minute, second, maxDecimalCount, offset)
}

// NewWithDecimals is New with an explicit count of significant
// fractional-second digits.
func NewWithDecimals(year, month, day, hour, minute int, second float64, decimalCount int, offset RelativeTime) (CalendarTime, error) {
	if second < 0 || second >= 60 {
		return CalendarTime{}, invalidArgument("second %v not in [0, 60)", second)
	}
	pos := Position{Year: year, Month: month, Day: day, Hour: hour, Minute: minute}
	return newValidated(pos, secondsToMicroseconds(second), decimalCount, offset, PrecisionSecond)
}

// NewDate builds a day-precision CalendarTime at midnight UTC.
func NewDate(year, month, day int) (CalendarTime, error) {
	return newValidated(Position{Year: year, Month: month, Day: day}, 0, 0, RelativeTime{}, PrecisionDay)
}

// FromPosixTime converts seconds since the epoch. Negative input would
// produce a year before 1970 and is rejected, as is anything after 9999.
func FromPosixTime(seconds int64) (CalendarTime, error) {
	if seconds < 0 {
		return CalendarTime{}, notSupported("posix time %d is before the epoch", seconds)
	}
	if seconds > maxPosixTime {
		return CalendarTime{}, notSupported("posix time %d is after %d", seconds, maxSupportedYear)
	}
	t := UnixEpoch
	t.decimalCount = 0
	t = t.addDays(seconds / 86400)
	t = t.addMicroseconds((seconds % 86400) * microsecondsPerSec)
	return t, nil
}

// FromTime converts a time.Time, keeping its zone offset.
func FromTime(tm time.Time) (CalendarTime, error) {
	_, offset := tm.Zone()
	if offset%60 != 0 {
		return CalendarTime{}, invalidArgument("zone offset of %d seconds is not a whole minute", offset)
	}
	pos := Position{Year: tm.Year(), Month: int(tm.Month()), Day: tm.Day(), Hour: tm.Hour(), Minute: tm.Minute()}
	us := int64(tm.Second())*microsecondsPerSec + int64(tm.Nanosecond()/1000)
	return newValidated(pos, us, maxDecimalCount, OffsetFromMinutes(offset/60), PrecisionSecond)
}

func (t CalendarTime) check() {
	assert(t.initialized, "calendar time used before initialization")
}

// IsInitialized reports whether t was produced by a constructor.
func (t CalendarTime) IsInitialized() bool { return t.initialized }

func (t CalendarTime) Year() int   { t.check(); return t.pos.Year }
func (t CalendarTime) Month() int  { t.check(); return t.pos.Month }
func (t CalendarTime) Day() int    { t.check(); return t.pos.Day }
func (t CalendarTime) Hour() int   { t.check(); return t.pos.Hour }
func (t CalendarTime) Minute() int { t.check(); return t.pos.Minute }

// Second returns the seconds of the minute including the fraction.
func (t CalendarTime) Second() float64 {
	t.check()
	return float64(t.microsecond) / microsecondsPerSec
}

// Microsecond returns the fraction of the current second, in [0, 1e6).
func (t CalendarTime) Microsecond() int {
	t.check()
	return int(t.microsecond % microsecondsPerSec)
}

// Position returns the calendar position of the wall clock.
func (t CalendarTime) Position() Position {
	t.check()
	return t.pos
}

// OffsetFromUTC returns the wall clock's offset, east of UTC positive.
func (t CalendarTime) OffsetFromUTC() RelativeTime {
	t.check()
	return OffsetFromMinutes(t.minutesFromUTC)
}

func (t CalendarTime) DecimalCount() int {
	t.check()
	return t.decimalCount
}

func (t CalendarTime) Precision() Precision {
	t.check()
	return t.precision
}

// TimeOfDay returns the hours, minutes and seconds since midnight.
func (t CalendarTime) TimeOfDay() RelativeTime {
	t.check()
	return RelativeTime{
		hours:        t.pos.Hour,
		minutes:      t.pos.Minute,
		microseconds: t.microsecond,
		decimalCount: t.decimalCount,
	}
}

// SetYear fails with NotSupported outside 1970 through 9999, and with
// IllegalIndex when the current day does not exist in the new year
// (February 29).
func (t *CalendarTime) SetYear(year int) error {
	t.check()
	if err := checkYear(year); err != nil {
		return err
	}
	if n := daysInMonth(year, t.pos.Month); t.pos.Day > n {
		return illegalIndex("day", int64(t.pos.Day), 1, int64(n))
	}
	t.pos.Year = year
	return nil
}

// SetMonth fails with IllegalIndex outside 1..12 or when the current
// day does not exist in the new month.
func (t *CalendarTime) SetMonth(month int) error {
	t.check()
	if month < 1 || month > monthsPerYear {
		return illegalIndex("month", int64(month), 1, monthsPerYear)
	}
	if n := daysInMonth(t.pos.Year, month); t.pos.Day > n {
		return illegalIndex("day", int64(t.pos.Day), 1, int64(n))
	}
	t.pos.Month = month
	return nil
}

func (t *CalendarTime) SetDay(day int) error {
	t.check()
	if n := daysInMonth(t.pos.Year, t.pos.Month); day < 1 || day > n {
		return illegalIndex("day", int64(day), 1, int64(n))
	}
	t.pos.Day = day
	return nil
}

func (t *CalendarTime) SetHour(hour int) error {
	t.check()
	if hour < 0 || hour >= hoursPerDay {
		return illegalIndex("hour", int64(hour), 0, hoursPerDay-1)
	}
	t.pos.Hour = hour
	return nil
}

func (t *CalendarTime) SetMinute(minute int) error {
	t.check()
	if minute < 0 || minute >= minutesPerHour {
		return illegalIndex("minute", int64(minute), 0, minutesPerHour-1)
	}
	t.pos.Minute = minute
	return nil
}

// SetSecond replaces the seconds and their fraction.
func (t *CalendarTime) SetSecond(second float64) error {
	t.check()
	us := secondsToMicroseconds(second)
	if second < 0 || us >= microsecondsPerMin {
		return invalidArgument("second %v not in [0, 60)", second)
	}
	t.microsecond = us
	return nil
}

func (t *CalendarTime) SetDecimalCount(n int) error {
	t.check()
	if n < 0 || n > maxDecimalCount {
		return illegalIndex("decimal count", int64(n), 0, maxDecimalCount)
	}
	t.decimalCount = n
	return nil
}

// SetOffsetFromUTC relabels the wall clock with a new offset without
// moving the wall-clock fields. Use MakeLocalOffset to convert instead.
func (t *CalendarTime) SetOffsetFromUTC(offset RelativeTime) error {
	t.check()
	if !offset.IsValidAsOffsetFromUTC() {
		return invalidArgument("%s is not a valid offset from UTC", offset)
	}
	t.minutesFromUTC = offset.OffsetMinutes()
	return nil
}

func (t *CalendarTime) SetPrecision(p Precision) error {
	t.check()
	if p < PrecisionUnknown || p > PrecisionSecond {
		return illegalIndex("precision", int64(p), int64(PrecisionUnknown), int64(PrecisionSecond))
	}
	t.precision = p
	return nil
}

// SetTimeOfDay replaces the time of day on the same calendar date. The
// amount must land on that date: anything that rolls into another day
// is an invalid argument.
func (t *CalendarTime) SetTimeOfDay(timeOfDay RelativeTime) error {
	t.check()
	midnight := *t
	midnight.pos.Hour, midnight.pos.Minute, midnight.microsecond = 0, 0, 0
	r := midnight.add(timeOfDay)
	if r.pos.Year != t.pos.Year || r.pos.Month != t.pos.Month || r.pos.Day != t.pos.Day {
		return invalidArgument("time of day %s does not fall on %04d-%02d-%02d", timeOfDay, t.pos.Year, t.pos.Month, t.pos.Day)
	}
	t.pos.Hour, t.pos.Minute, t.microsecond = r.pos.Hour, r.pos.Minute, r.microsecond
	return nil
}

// Time converts t to a time.Time in a fixed zone carrying t's offset.
func (t CalendarTime) Time() time.Time {
	t.check()
	zone := time.UTC
	if t.minutesFromUTC != 0 {
		zone = time.FixedZone("", t.minutesFromUTC*60)
	}
	return time.Date(t.pos.Year, time.Month(t.pos.Month), t.pos.Day, t.pos.Hour, t.pos.Minute,
		int(t.microsecond/microsecondsPerSec), int(t.microsecond%microsecondsPerSec)*1000, zone)
}
