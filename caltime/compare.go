package caltime

// comparableKey is t reduced to the fields that matter at a precision.
// Keys are compared field by field, most significant first.
type comparableKey struct {
	year, month, day, hour, minute int
	microsecond                    int64
}

// comparableKey zeroes every field finer than precision. At second
// precision the fraction is truncated to t's decimal count.
func (t CalendarTime) comparableKey(precision Precision) comparableKey {
	k := comparableKey{
		year:        t.pos.Year,
		month:       t.pos.Month,
		day:         t.pos.Day,
		hour:        t.pos.Hour,
		minute:      t.pos.Minute,
		microsecond: t.microsecond,
	}
	switch precision {
	case PrecisionYear:
		k.month = 0
		fallthrough
	case PrecisionMonth:
		k.day = 0
		fallthrough
	case PrecisionDay:
		k.hour = 0
		fallthrough
	case PrecisionHour:
		k.minute = 0
		fallthrough
	case PrecisionMinute:
		k.microsecond = 0
	default:
		k.microsecond = truncateFraction(k.microsecond, t.decimalCount)
	}
	return k
}

func (k comparableKey) compare(o comparableKey) int {
	fields := [...][2]int64{
		{int64(k.year), int64(o.year)},
		{int64(k.month), int64(o.month)},
		{int64(k.day), int64(o.day)},
		{int64(k.hour), int64(o.hour)},
		{int64(k.minute), int64(o.minute)},
		{k.microsecond, o.microsecond},
	}
	for _, f := range fields {
		switch {
		case f[0] < f[1]:
			return -1
		case f[0] > f[1]:
			return 1
		}
	}
	return 0
}

func coarser(a, b Precision) Precision {
	return min(a.effective(), b.effective())
}

// Compare returns -1, 0 or +1 as t is before, equal to or after u. Both
// values are made UTC and compared at the coarser of their precisions.
func (t CalendarTime) Compare(u CalendarTime) int {
	t.check()
	u.check()
	p := coarser(t.precision, u.precision)
	return t.utc().comparableKey(p).compare(u.utc().comparableKey(p))
}

// Equal reports whether t and u denote the same moment at the coarser of
// their precisions. Offsets and decimal counts do not matter.
func (t CalendarTime) Equal(u CalendarTime) bool  { return t.Compare(u) == 0 }
func (t CalendarTime) Before(u CalendarTime) bool { return t.Compare(u) < 0 }
func (t CalendarTime) After(u CalendarTime) bool  { return t.Compare(u) > 0 }

// IsIdentical is stricter than Equal: no UTC normalization is done, and
// offset, decimal count and precision must all match.
func IsIdentical(a, b CalendarTime) bool {
	a.check()
	b.check()
	if a.minutesFromUTC != b.minutesFromUTC || a.decimalCount != b.decimalCount || a.precision != b.precision {
		return false
	}
	p := a.precision.effective()
	return a.comparableKey(p).compare(b.comparableKey(p)) == 0
}
