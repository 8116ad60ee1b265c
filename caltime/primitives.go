package caltime

// Calendar building blocks. A day always has 24 hours and an hour 60
// minutes: daylight saving time is not modeled here, so arithmetic on
// local wall-clock values that crosses a DST transition is off by the
// shift. Arithmetic is only exact once a value has been made UTC.

const (
	hoursPerDay         = 24
	daysPerWeek         = 7
	minutesPerHour      = 60
	monthsPerYear       = 12
	microsecondsPerSec  = 1000000
	microsecondsPerMin  = 60 * microsecondsPerSec
	maxOffsetMinutes    = 14 * 60
	maxDecimalCount     = 6
	minSupportedYear    = 1970
	maxSupportedYear    = 9999
	daysPer400Years     = 146097
	microsecondsPerHour = minutesPerHour * microsecondsPerMin
	microsecondsPerDay  = hoursPerDay * microsecondsPerHour
	minutesPerDay       = hoursPerDay * minutesPerHour

	// 9999-12-31T23:59:59Z
	maxPosixTime = 253402300799
)

var monthLengths = [monthsPerYear + 1]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// IsLeapYear applies the Gregorian rule.
func IsLeapYear(year int) bool {
	return year%400 == 0 || (year%4 == 0 && year%100 != 0)
}

// DaysInMonth returns the length of month in year. February has 29 days
// in leap years. A month outside 1..12 is an invalid argument; callers
// stepping across a year boundary must normalize first.
func DaysInMonth(year, month int) (int, error) {
	if month < 1 || month > monthsPerYear {
		return 0, invalidArgument("month %d not in [1, 12]", month)
	}
	return daysInMonth(year, month), nil
}

func daysInMonth(year, month int) int {
	if month == 2 && IsLeapYear(year) {
		return 29
	}
	return monthLengths[month]
}

// DaysInPriorMonth returns the length of the month before month.
func DaysInPriorMonth(year, month int) (int, error) {
	if month < 1 || month > monthsPerYear {
		return 0, invalidArgument("month %d not in [1, 12]", month)
	}
	return daysInPriorMonth(year, month), nil
}

func daysInPriorMonth(year, month int) int {
	year, month = priorMonth(year, month)
	return daysInMonth(year, month)
}

// DaysInYear returns 366 for leap years and 365 otherwise.
func DaysInYear(year int) int {
	if IsLeapYear(year) {
		return 366
	}
	return 365
}

// daysBeforeYear counts the days from January 1 of year 1 to January 1
// of year.
func daysBeforeYear(year int) int64 {
	y := int64(year - 1)
	return 365*y + y/4 - y/100 + y/400
}

// DaysInPriorYear returns the number of days in year-1.
func DaysInPriorYear(year int) int { return DaysInYear(year - 1) }

func HoursInDay() int { return hoursPerDay }

// HoursInMonth returns the number of hours in month of year.
func HoursInMonth(year, month int) (int, error) {
	days, err := DaysInMonth(year, month)
	return days * hoursPerDay, err
}

// HoursInPriorMonth returns the number of hours in the month before month.
func HoursInPriorMonth(year, month int) (int, error) {
	days, err := DaysInPriorMonth(year, month)
	return days * hoursPerDay, err
}

func HoursInYear(year int) int { return DaysInYear(year) * hoursPerDay }

func MinutesInHour() int { return minutesPerHour }

func MinutesInDay() int { return minutesPerDay }

// MinutesInMonth returns the number of minutes in month of year.
func MinutesInMonth(year, month int) (int, error) {
	hours, err := HoursInMonth(year, month)
	return hours * minutesPerHour, err
}

func MinutesInYear(year int) int { return HoursInYear(year) * minutesPerHour }

func MicrosecondsInMinute() int64 { return microsecondsPerMin }

func MicrosecondsInHour() int64 { return microsecondsPerHour }

func MicrosecondsInDay() int64 { return microsecondsPerDay }

// MicrosecondsInMonth returns the number of microseconds in month of year.
func MicrosecondsInMonth(year, month int) (int64, error) {
	days, err := DaysInMonth(year, month)
	return int64(days) * microsecondsPerDay, err
}

// MicrosecondsInPriorMonth returns the number of microseconds in the
// month before month.
func MicrosecondsInPriorMonth(year, month int) (int64, error) {
	days, err := DaysInPriorMonth(year, month)
	return int64(days) * microsecondsPerDay, err
}

func MicrosecondsInYear(year int) int64 { return int64(DaysInYear(year)) * microsecondsPerDay }

// Position is a (year, month, day, hour, minute) tuple. The steppers
// return a new Position one unit away, cascading into coarser units at
// the boundaries.
type Position struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
}

func (p Position) checkMonth() error {
	if p.Month < 1 || p.Month > monthsPerYear {
		return invalidArgument("month %d not in [1, 12]", p.Month)
	}
	return nil
}

func (p Position) checkDay() error {
	if err := p.checkMonth(); err != nil {
		return err
	}
	if n := daysInMonth(p.Year, p.Month); p.Day < 1 || p.Day > n {
		return invalidArgument("day %d not in [1, %d]", p.Day, n)
	}
	return nil
}

func (p Position) checkHour() error {
	if err := p.checkDay(); err != nil {
		return err
	}
	if p.Hour < 0 || p.Hour >= hoursPerDay {
		return invalidArgument("hour %d not in [0, 23]", p.Hour)
	}
	return nil
}

func (p Position) checkMinute() error {
	if err := p.checkHour(); err != nil {
		return err
	}
	if p.Minute < 0 || p.Minute >= minutesPerHour {
		return invalidArgument("minute %d not in [0, 59]", p.Minute)
	}
	return nil
}

// NextMonth steps the month forward, rolling into January of the next year.
// The day field is carried unchanged.
func (p Position) NextMonth() (Position, error) {
	if err := p.checkMonth(); err != nil {
		return p, err
	}
	p.Year, p.Month = nextMonth(p.Year, p.Month)
	return p, nil
}

// PriorMonth steps the month back, rolling into December of the previous year.
func (p Position) PriorMonth() (Position, error) {
	if err := p.checkMonth(); err != nil {
		return p, err
	}
	p.Year, p.Month = priorMonth(p.Year, p.Month)
	return p, nil
}

// NextDay steps one day forward.
func (p Position) NextDay() (Position, error) {
	if err := p.checkDay(); err != nil {
		return p, err
	}
	return p.nextDay(), nil
}

// PriorDay steps one day back.
func (p Position) PriorDay() (Position, error) {
	if err := p.checkDay(); err != nil {
		return p, err
	}
	return p.priorDay(), nil
}

// NextHour steps one hour forward.
func (p Position) NextHour() (Position, error) {
	if err := p.checkHour(); err != nil {
		return p, err
	}
	return p.nextHour(), nil
}

// PriorHour steps one hour back.
func (p Position) PriorHour() (Position, error) {
	if err := p.checkHour(); err != nil {
		return p, err
	}
	return p.priorHour(), nil
}

// NextMinute steps one minute forward.
func (p Position) NextMinute() (Position, error) {
	if err := p.checkMinute(); err != nil {
		return p, err
	}
	return p.nextMinute(), nil
}

// PriorMinute steps one minute back.
func (p Position) PriorMinute() (Position, error) {
	if err := p.checkMinute(); err != nil {
		return p, err
	}
	return p.priorMinute(), nil
}

func nextMonth(year, month int) (int, int) {
	if month == monthsPerYear {
		return year + 1, 1
	}
	return year, month + 1
}

func priorMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, monthsPerYear
	}
	return year, month - 1
}

func (p Position) nextDay() Position {
	if p.Day < daysInMonth(p.Year, p.Month) {
		p.Day++
		return p
	}
	p.Year, p.Month = nextMonth(p.Year, p.Month)
	p.Day = 1
	return p
}

func (p Position) priorDay() Position {
	if p.Day > 1 {
		p.Day--
		return p
	}
	p.Year, p.Month = priorMonth(p.Year, p.Month)
	p.Day = daysInMonth(p.Year, p.Month)
	return p
}

func (p Position) nextHour() Position {
	if p.Hour < hoursPerDay-1 {
		p.Hour++
		return p
	}
	p = p.nextDay()
	p.Hour = 0
	return p
}

func (p Position) priorHour() Position {
	if p.Hour > 0 {
		p.Hour--
		return p
	}
	p = p.priorDay()
	p.Hour = hoursPerDay - 1
	return p
}

func (p Position) nextMinute() Position {
	if p.Minute < minutesPerHour-1 {
		p.Minute++
		return p
	}
	p = p.nextHour()
	p.Minute = 0
	return p
}

func (p Position) priorMinute() Position {
	if p.Minute > 0 {
		p.Minute--
		return p
	}
	p = p.priorHour()
	p.Minute = minutesPerHour - 1
	return p
}
