package caltime

import (
	"github.com/pkg/errors"
)

// Add returns t moved forward by amount. Components are applied from
// the largest unit to the smallest: years, months, days, hours, minutes,
// then microseconds. A year or month step that lands on a day the
// target month lacks (February 29 in a common year, the 31st of a short
// month) rolls the excess days into the following month.
//
// A result outside the years 1970 through 9999 fails with NotSupported
// and t is unchanged, as does an amount with a component spanning more
// than that range.
func (t CalendarTime) Add(amount RelativeTime) (CalendarTime, error) {
	t.check()
	if !withinSpan(amount) {
		return t, notSupported("%s exceeds the supported range of years", amount)
	}
	r := t.add(amount)
	if err := checkYear(r.pos.Year); err != nil {
		return t, errors.WithMessagef(err, "%s plus %s", t, amount)
	}
	return r, nil
}

// Subtract returns t moved back by amount, with the same component order
// and range checks as Add.
func (t CalendarTime) Subtract(amount RelativeTime) (CalendarTime, error) {
	t.check()
	if !withinSpan(amount) {
		return t, notSupported("%s exceeds the supported range of years", amount)
	}
	r := t.add(amount.Neg())
	if err := checkYear(r.pos.Year); err != nil {
		return t, errors.WithMessagef(err, "%s minus %s", t, amount)
	}
	return r, nil
}

// checkYear reports a year outside 1970 through 9999 as NotSupported.
func checkYear(year int) error {
	if year < minSupportedYear {
		return notSupported("year %d is before %d", year, minSupportedYear)
	}
	if year > maxSupportedYear {
		return notSupported("year %d is after %d", year, maxSupportedYear)
	}
	return nil
}

// withinSpan reports whether no single component of r moves a value by
// more than the supported range of years.
func withinSpan(r RelativeTime) bool {
	const (
		years = maxSupportedYear - minSupportedYear + 1
		days  = int64(years) * 366
	)
	return abs64(int64(r.years)) <= years &&
		abs64(int64(r.months)) <= years*monthsPerYear &&
		abs64(int64(r.days)) <= days &&
		abs64(int64(r.hours)) <= days*hoursPerDay &&
		abs64(int64(r.minutes)) <= days*minutesPerDay &&
		abs64(r.microseconds) <= days*microsecondsPerDay
}

// Sub returns the elapsed time t-u as a microsecond-only RelativeTime.
// Both values are made UTC first, so differing offsets are accounted for.
func (t CalendarTime) Sub(u CalendarTime) RelativeTime {
	t.check()
	u.check()
	a, b := t.utc(), u.utc()
	anchor := a
	anchor.pos = Position{
		Year:   min(a.pos.Year, b.pos.Year),
		Month:  min(a.pos.Month, b.pos.Month),
		Day:    min(a.pos.Day, b.pos.Day),
		Hour:   min(a.pos.Hour, b.pos.Hour),
		Minute: min(a.pos.Minute, b.pos.Minute),
	}
	anchor.microsecond = min(a.microsecond, b.microsecond)
	anchor.decimalCount = min(a.decimalCount, b.decimalCount)
	us := anchor.microsecondsUntil(a) - anchor.microsecondsUntil(b)
	return RelativeTime{microseconds: us, decimalCount: max(a.decimalCount, b.decimalCount)}
}

// AmountOfTime returns the elapsed time that adding amount to t covers.
// A month added in February is shorter than one added in March.
func (t CalendarTime) AmountOfTime(amount RelativeTime) RelativeTime {
	t.check()
	return t.add(amount).Sub(t)
}

// Equivalent reports whether a and b are no more than tolerance apart.
// Nominal components of tolerance are measured from the earlier value.
// A tolerance wider than the supported range of years covers any pair.
func Equivalent(a, b CalendarTime, tolerance RelativeTime) bool {
	if !withinSpan(tolerance) {
		return true
	}
	diff := a.Sub(b).microseconds
	earlier := a
	if diff > 0 {
		earlier = b
	}
	limit := earlier.AmountOfTime(tolerance).microseconds
	return abs64(diff) <= abs64(limit)
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

// microsecondsUntil counts the microseconds from t to later. Every
// field of later must be at least the matching field of t. Whole years
// are counted first, then the day-of-year difference, then the clock.
func (t CalendarTime) microsecondsUntil(later CalendarTime) int64 {
	assert(later.pos.Year >= t.pos.Year && later.pos.Month >= t.pos.Month && later.pos.Day >= t.pos.Day &&
		later.pos.Hour >= t.pos.Hour && later.pos.Minute >= t.pos.Minute && later.microsecond >= t.microsecond,
		"microsecondsUntil: %+v is not field-wise after %+v", later.pos, t.pos)

	days := daysBeforeYear(later.pos.Year) - daysBeforeYear(t.pos.Year)
	days += int64(dayOfYear(later.pos.Year, later.pos.Month, later.pos.Day) - dayOfYear(t.pos.Year, t.pos.Month, t.pos.Day))

	us := days * MicrosecondsInDay()
	us += int64(later.pos.Hour-t.pos.Hour) * MicrosecondsInHour()
	us += int64(later.pos.Minute-t.pos.Minute) * MicrosecondsInMinute()
	us += later.microsecond - t.microsecond
	us -= int64(later.minutesFromUTC-t.minutesFromUTC) * MicrosecondsInMinute()
	return us
}

// dayOfYear is 1-based. day may exceed the month length; the excess is
// counted as days into the following months.
func dayOfYear(year, month, day int) int {
	n := day
	for m := 1; m < month; m++ {
		n += daysInMonth(year, m)
	}
	return n
}

// add applies amount without the epoch floor. Internal callers may
// pass through years before 1970 (UTC normalization near the epoch).
func (t CalendarTime) add(amount RelativeTime) CalendarTime {
	t = t.addYears(amount.years)
	if amount.months >= 0 {
		t = t.addMonths(amount.months)
	} else {
		t = t.subtractMonths(-amount.months)
	}
	if amount.days >= 0 {
		t = t.addDays(int64(amount.days))
	} else {
		t = t.subtractDays(-int64(amount.days))
	}
	if amount.hours >= 0 {
		t = t.addHours(int64(amount.hours))
	} else {
		t = t.subtractHours(-int64(amount.hours))
	}
	if amount.minutes >= 0 {
		t = t.addMinutes(int64(amount.minutes))
	} else {
		t = t.subtractMinutes(-int64(amount.minutes))
	}
	if amount.microseconds >= 0 {
		t = t.addMicroseconds(amount.microseconds)
	} else {
		t = t.subtractMicroseconds(-amount.microseconds)
	}
	return t
}

// addYears moves the year directly, in either direction.
func (t CalendarTime) addYears(n int) CalendarTime {
	t.pos.Year += n
	return t.adjustDayOfMonth()
}

// adjustDayOfMonth rolls a day past the end of its month forward into
// the next month: February 29, 2025 becomes March 1.
func (t CalendarTime) adjustDayOfMonth() CalendarTime {
	n := daysInMonth(t.pos.Year, t.pos.Month)
	if t.pos.Day <= n {
		return t
	}
	excess := t.pos.Day - n
	t.pos.Day = n
	return t.addDays(int64(excess))
}

func (t CalendarTime) addMonths(n int) CalendarTime {
	t.pos.Year += n / monthsPerYear
	n %= monthsPerYear
	for ; n > 0; n-- {
		t.pos.Year, t.pos.Month = nextMonth(t.pos.Year, t.pos.Month)
	}
	return t.adjustDayOfMonth()
}

func (t CalendarTime) subtractMonths(n int) CalendarTime {
	t.pos.Year -= n / monthsPerYear
	n %= monthsPerYear
	for ; n > 0; n-- {
		t.pos.Year, t.pos.Month = priorMonth(t.pos.Year, t.pos.Month)
	}
	return t.adjustDayOfMonth()
}

// addDays first moves whole 400-year cycles, which repeat the calendar
// exactly. It then consumes whole years while sitting on January 1,
// otherwise the days left in the current month, stepping the month each
// time, until the remainder fits in the current month.
func (t CalendarTime) addDays(n int64) CalendarTime {
	t.pos.Year += 400 * int(n/daysPer400Years)
	n %= daysPer400Years
	for n > 0 {
		if t.pos.Month == 1 && t.pos.Day == 1 {
			if inYear := int64(DaysInYear(t.pos.Year)); n >= inYear {
				n -= inYear
				t.pos.Year++
				continue
			}
		}
		left := int64(daysInMonth(t.pos.Year, t.pos.Month) - t.pos.Day)
		if n <= left {
			t.pos.Day += int(n)
			return t
		}
		n -= left + 1
		t.pos.Year, t.pos.Month = nextMonth(t.pos.Year, t.pos.Month)
		t.pos.Day = 1
	}
	return t
}

// subtractDays mirrors addDays: whole 400-year cycles, then whole years
// while sitting on December 31, otherwise the days elapsed in the
// current month, stepping back to the last day of the prior month.
func (t CalendarTime) subtractDays(n int64) CalendarTime {
	t.pos.Year -= 400 * int(n/daysPer400Years)
	n %= daysPer400Years
	for n > 0 {
		if t.pos.Month == monthsPerYear && t.pos.Day == 31 {
			if inYear := int64(DaysInYear(t.pos.Year)); n >= inYear {
				n -= inYear
				t.pos.Year--
				continue
			}
		}
		if n < int64(t.pos.Day) {
			t.pos.Day -= int(n)
			return t
		}
		n -= int64(t.pos.Day)
		t.pos.Day = daysInPriorMonth(t.pos.Year, t.pos.Month)
		t.pos.Year, t.pos.Month = priorMonth(t.pos.Year, t.pos.Month)
	}
	return t
}

func (t CalendarTime) addHours(n int64) CalendarTime {
	perDay := int64(HoursInDay())
	t = t.addDays(n / perDay)
	t.pos.Hour += int(n % perDay)
	if t.pos.Hour >= hoursPerDay {
		t.pos.Hour -= hoursPerDay
		t.pos = t.pos.nextDay()
	}
	return t
}

func (t CalendarTime) subtractHours(n int64) CalendarTime {
	perDay := int64(HoursInDay())
	t = t.subtractDays(n / perDay)
	rem := int(n % perDay)
	if t.pos.Hour < rem {
		t.pos.Hour += hoursPerDay
		t.pos = t.pos.priorDay()
	}
	t.pos.Hour -= rem
	return t
}

func (t CalendarTime) addMinutes(n int64) CalendarTime {
	perHour := int64(MinutesInHour())
	t = t.addHours(n / perHour)
	t.pos.Minute += int(n % perHour)
	if t.pos.Minute >= minutesPerHour {
		t.pos.Minute -= minutesPerHour
		t.pos = t.pos.nextHour()
	}
	return t
}

func (t CalendarTime) subtractMinutes(n int64) CalendarTime {
	perHour := int64(MinutesInHour())
	t = t.subtractHours(n / perHour)
	rem := int(n % perHour)
	if t.pos.Minute < rem {
		t.pos.Minute += minutesPerHour
		t.pos = t.pos.priorHour()
	}
	t.pos.Minute -= rem
	return t
}

func (t CalendarTime) addMicroseconds(n int64) CalendarTime {
	perMinute := MicrosecondsInMinute()
	t = t.addMinutes(n / perMinute)
	t.microsecond += n % perMinute
	if t.microsecond >= microsecondsPerMin {
		t.microsecond -= microsecondsPerMin
		t.pos = t.pos.nextMinute()
	}
	return t
}

func (t CalendarTime) subtractMicroseconds(n int64) CalendarTime {
	perMinute := MicrosecondsInMinute()
	t = t.subtractMinutes(n / perMinute)
	rem := n % perMinute
	if t.microsecond < rem {
		t.microsecond += microsecondsPerMin
		t.pos = t.pos.priorMinute()
	}
	t.microsecond -= rem
	return t
}
