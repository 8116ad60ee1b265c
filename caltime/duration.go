package caltime

import (
	"strings"
)

// maxComponentDigits keeps every component inside an int64. Seconds are
// scaled to microseconds and get fewer digits.
const (
	maxComponentDigits = 15
	maxSecondsDigits   = maxComponentDigits - 3
)

// ParseRelativeTime reads an ISO 8601 duration such as "P1Y2M3DT4H5M6.5S",
// the form String writes. A leading '-' negates the whole value and each
// component may carry its own sign. Weeks are read as seven days. The
// seconds component keeps the number of its fraction digits as the
// decimal count.
func ParseRelativeTime(s string) (RelativeTime, error) {
	in := s
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if !strings.HasPrefix(s, "P") {
		return RelativeTime{}, invalidFormat(in, "duration must start with 'P'")
	}
	s = s[1:]
	datePart, timePart, hasTime := s, "", false
	if i := strings.IndexByte(s, 'T'); i >= 0 {
		datePart, timePart, hasTime = s[:i], s[i+1:], true
	}
	if datePart == "" && !hasTime {
		return RelativeTime{}, invalidFormat(in, "empty duration")
	}
	if hasTime && timePart == "" {
		return RelativeTime{}, invalidFormat(in, "'T' without time components")
	}
	r := RelativeTime{decimalCount: maxDecimalCount}
	if err := r.readComponents(in, datePart, "YMWD"); err != nil {
		return RelativeTime{}, err
	}
	if err := r.readComponents(in, timePart, "HMS"); err != nil {
		return RelativeTime{}, err
	}
	if neg {
		r = r.Neg()
	}
	return r, nil
}

// readComponents consumes number+unit pairs whose units appear in order
// in units.
func (r *RelativeTime) readComponents(in, part, units string) error {
	next := 0
	for part != "" {
		i := strings.IndexAny(part, units)
		if i <= 0 {
			return invalidFormat(in, "malformed duration component")
		}
		num, unit := part[:i], part[i]
		part = part[i+1:]
		k := strings.IndexByte(units[next:], unit)
		if k < 0 {
			return invalidFormat(in, "duration components out of order")
		}
		next += k + 1
		if unit == 'S' {
			us, decimals, ok := parseSeconds(num)
			if !ok {
				return invalidFormat(in, "malformed seconds")
			}
			r.microseconds, r.decimalCount = us, decimals
			continue
		}
		n, ok := parseSigned(num)
		if !ok {
			return invalidFormat(in, "non-digit in duration component")
		}
		switch {
		case unit == 'Y':
			r.years = n
		case unit == 'M' && units[0] == 'Y':
			r.months = n
		case unit == 'W':
			r.days += n * daysPerWeek
		case unit == 'D':
			r.days += n
		case unit == 'H':
			r.hours = n
		case unit == 'M':
			r.minutes = n
		}
	}
	return nil
}

func parseSigned(s string) (int, bool) {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if !isDigits(s) || len(s) > maxComponentDigits {
		return 0, false
	}
	n := atoi(s)
	if neg {
		n = -n
	}
	return n, true
}

func parseSeconds(s string) (us int64, decimals int, ok bool) {
	whole, frac := s, ""
	if i := strings.IndexAny(s, ".,"); i >= 0 {
		whole, frac = s[:i], s[i+1:]
		if frac == "" || !isDigits(frac) || len(frac) > maxDecimalCount {
			return 0, 0, false
		}
	}
	neg := strings.HasPrefix(whole, "-")
	n, ok := parseSigned(whole)
	if !ok || len(strings.TrimPrefix(whole, "-")) > maxSecondsDigits {
		return 0, 0, false
	}
	if neg {
		n = -n
	}
	us = int64(n) * microsecondsPerSec
	if frac != "" {
		us += int64(atoi(frac + strings.Repeat("0", maxDecimalCount-len(frac))))
	}
	if neg {
		us = -us
	}
	return us, len(frac), true
}

// MarshalText encodes r as an ISO 8601 duration.
func (r RelativeTime) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes an ISO 8601 duration.
func (r *RelativeTime) UnmarshalText(text []byte) error {
	v, err := ParseRelativeTime(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
