package caltime

import (
	"strings"
)

const cimLength = 25

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// atoi converts a string already checked with isDigits.
func atoi(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}

// FromCIM parses a CIM DATETIME: exactly 25 characters,
// yyyymmddhhmmss.mmmmmm followed by a sign and the offset in minutes.
func FromCIM(s string) (CalendarTime, error) {
	if len(s) != cimLength {
		return CalendarTime{}, invalidFormat(s, "CIM datetime must be 25 characters")
	}
	if s[14] != '.' {
		return CalendarTime{}, invalidFormat(s, "missing '.' at position 14")
	}
	if s[21] != '+' && s[21] != '-' {
		return CalendarTime{}, invalidFormat(s, "missing offset sign at position 21")
	}
	if !isDigits(s[:14]) || !isDigits(s[15:21]) || !isDigits(s[22:]) {
		return CalendarTime{}, invalidFormat(s, "non-digit in numeric field")
	}
	pos := Position{
		Year:   atoi(s[0:4]),
		Month:  atoi(s[4:6]),
		Day:    atoi(s[6:8]),
		Hour:   atoi(s[8:10]),
		Minute: atoi(s[10:12]),
	}
	us := int64(atoi(s[12:14]))*microsecondsPerSec + int64(atoi(s[15:21]))
	offset := atoi(s[22:])
	if s[21] == '-' {
		offset = -offset
	}
	return newValidated(pos, us, maxDecimalCount, OffsetFromMinutes(offset), PrecisionSecond)
}

// FromISO8601 parses a combined date and time: a calendar date, 'T', a
// time of day with up to six fraction digits, and an optional offset
// (Z, ±hh, ±hhmm or ±hh:mm). A missing offset is read as UTC.
func FromISO8601(s string) (CalendarTime, error) {
	sep := strings.IndexByte(s, 'T')
	if sep < 0 {
		return CalendarTime{}, invalidFormat(s, "missing 'T' between date and time")
	}
	timePart, offset, err := splitOffset(s[sep+1:])
	if err != nil {
		return CalendarTime{}, err
	}
	date, err := DateFromISO8601(s[:sep])
	if err != nil {
		return CalendarTime{}, err
	}
	tod, err := TimeFromISO8601(timePart)
	if err != nil {
		return CalendarTime{}, err
	}
	pos := date.pos
	pos.Hour, pos.Minute = tod.hours, tod.minutes
	return newValidated(pos, tod.microseconds, tod.decimalCount, offset, PrecisionSecond)
}

// splitOffset separates a trailing UTC offset from the time of day.
// The time of day holds no sign characters, so a sign three, five or
// six characters from the end starts the offset.
func splitOffset(s string) (string, RelativeTime, error) {
	n := len(s)
	if n > 0 && s[n-1] == 'Z' {
		return s[:n-1], RelativeTime{}, nil
	}
	for _, k := range []int{6, 5, 3} {
		if n > k && (s[n-k] == '+' || s[n-k] == '-') {
			offset, err := parseOffset(s[n-k:])
			return s[:n-k], offset, err
		}
	}
	return s, RelativeTime{}, nil
}

func parseOffset(s string) (RelativeTime, error) {
	body := s[1:]
	var hours, minutes string
	switch {
	case len(body) == 2:
		hours = body
	case len(body) == 4:
		hours, minutes = body[:2], body[2:]
	case len(body) == 5 && body[2] == ':':
		hours, minutes = body[:2], body[3:]
	default:
		return RelativeTime{}, invalidFormat(s, "malformed UTC offset")
	}
	if !isDigits(hours) || (minutes != "" && !isDigits(minutes)) {
		return RelativeTime{}, invalidFormat(s, "malformed UTC offset")
	}
	total := atoi(hours) * minutesPerHour
	if minutes != "" {
		m := atoi(minutes)
		if m >= minutesPerHour {
			return RelativeTime{}, invalidFormat(s, "offset minutes out of range")
		}
		total += m
	}
	if s[0] == '-' {
		total = -total
	}
	offset := OffsetFromMinutes(total)
	if !offset.IsValidAsOffsetFromUTC() {
		return RelativeTime{}, invalidArgument("%s is not a valid offset from UTC", s)
	}
	return offset, nil
}

// DateFromISO8601 parses a calendar date, yyyymmdd or yyyy-mm-dd, into
// a day-precision value. Week dates, ordinal dates and the reduced
// yyyy and yyyy-mm forms are NotSupported; a month or day out of range
// is an IllegalIndex error.
func DateFromISO8601(s string) (CalendarTime, error) {
	var year, month, day string
	switch {
	case strings.ContainsRune(s, 'W'):
		return CalendarTime{}, notSupported("week date %q", s)
	case len(s) == 10 && s[4] == '-' && s[7] == '-':
		year, month, day = s[:4], s[5:7], s[8:]
	case len(s) == 8 && isDigits(s):
		year, month, day = s[:4], s[4:6], s[6:]
	case len(s) == 4 && isDigits(s),
		len(s) == 7 && s[4] == '-' && isDigits(s[:4]) && isDigits(s[5:]):
		return CalendarTime{}, notSupported("reduced precision date %q", s)
	case len(s) == 7 && isDigits(s),
		len(s) == 8 && s[4] == '-' && isDigits(s[:4]) && isDigits(s[5:]):
		return CalendarTime{}, notSupported("ordinal date %q", s)
	default:
		return CalendarTime{}, invalidFormat(s, "not an ISO 8601 calendar date")
	}
	if !isDigits(year) || !isDigits(month) || !isDigits(day) {
		return CalendarTime{}, invalidFormat(s, "non-digit in date")
	}
	return NewDate(atoi(year), atoi(month), atoi(day))
}

// TimeFromISO8601 parses a time of day, hhmmss or hh:mm:ss, with an
// optional fraction of one to six digits after '.' or ','. The result
// keeps the number of fraction digits as its decimal count. The reduced
// hh, hhmm and hh:mm forms are NotSupported.
func TimeFromISO8601(s string) (RelativeTime, error) {
	main, frac := s, ""
	hasFrac := false
	if i := strings.IndexAny(s, ".,"); i >= 0 {
		main, frac, hasFrac = s[:i], s[i+1:], true
	}
	if hasFrac && (frac == "" || !isDigits(frac)) {
		return RelativeTime{}, invalidFormat(s, "malformed fractional seconds")
	}
	if len(frac) > maxDecimalCount {
		return RelativeTime{}, invalidFormat(s, "more than 6 fractional digits")
	}

	var hh, mm, ss string
	switch {
	case len(main) == 6 && isDigits(main):
		hh, mm, ss = main[:2], main[2:4], main[4:]
	case len(main) == 8 && main[2] == ':' && main[5] == ':':
		hh, mm, ss = main[:2], main[3:5], main[6:]
	case len(main) == 2 && isDigits(main),
		len(main) == 4 && isDigits(main),
		len(main) == 5 && main[2] == ':' && isDigits(main[:2]) && isDigits(main[3:]):
		return RelativeTime{}, notSupported("reduced precision time %q", s)
	default:
		return RelativeTime{}, invalidFormat(s, "not an ISO 8601 time of day")
	}
	if !isDigits(hh) || !isDigits(mm) || !isDigits(ss) {
		return RelativeTime{}, invalidFormat(s, "non-digit in time")
	}

	hour, minute, second := atoi(hh), atoi(mm), atoi(ss)
	if hour >= hoursPerDay {
		return RelativeTime{}, illegalIndex("hour", int64(hour), 0, hoursPerDay-1)
	}
	if minute >= minutesPerHour {
		return RelativeTime{}, illegalIndex("minute", int64(minute), 0, minutesPerHour-1)
	}
	if second >= 60 {
		return RelativeTime{}, invalidArgument("second %d not in [0, 60)", second)
	}
	us := int64(second) * microsecondsPerSec
	if frac != "" {
		us += int64(atoi(frac)) * pow10[maxDecimalCount-len(frac)]
	}
	return RelativeTime{hours: hour, minutes: minute, microseconds: us, decimalCount: len(frac)}, nil
}
