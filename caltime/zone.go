package caltime

import (
	"github.com/pkg/errors"
)

// utc returns t with the offset removed from the wall-clock fields. The
// result may fall before 1970; it is only used for comparison and
// subtraction.
func (t CalendarTime) utc() CalendarTime {
	if t.minutesFromUTC == 0 {
		return t
	}
	delta := int64(t.minutesFromUTC) * MicrosecondsInMinute()
	if delta > 0 {
		t = t.subtractMicroseconds(delta)
	} else {
		t = t.addMicroseconds(-delta)
	}
	t.minutesFromUTC = 0
	return t
}

// MakeUTC converts t to UTC in place.
func (t *CalendarTime) MakeUTC() error {
	t.check()
	u := t.utc()
	if err := checkYear(u.pos.Year); err != nil {
		return errors.WithMessagef(err, "%s in UTC", t)
	}
	*t = u
	return nil
}

// MakeLocalOffset converts t in place to the wall clock of the given
// offset.
func (t *CalendarTime) MakeLocalOffset(offset RelativeTime) error {
	t.check()
	if !offset.IsValidAsOffsetFromUTC() {
		return invalidArgument("%s is not a valid offset from UTC", offset)
	}
	u := t.utc()
	minutes := offset.OffsetMinutes()
	delta := int64(minutes) * MicrosecondsInMinute()
	if delta > 0 {
		u = u.addMicroseconds(delta)
	} else {
		u = u.subtractMicroseconds(-delta)
	}
	u.minutesFromUTC = minutes
	if err := checkYear(u.pos.Year); err != nil {
		return errors.WithMessagef(err, "%s at offset %s", t, offset)
	}
	*t = u
	return nil
}

// MakeLocal converts t in place to the local wall clock of sys, using
// the offset (daylight saving included) sys reports for t's instant.
// The result depends on the system zone at the time of the call.
func (t *CalendarTime) MakeLocal(sys System) error {
	t.check()
	minutes, err := MinutesFromUTC(sys, t.ToPosixTime())
	if err != nil {
		return err
	}
	return t.MakeLocalOffset(OffsetFromMinutes(minutes))
}

// MinutesFromUTC resolves the local offset sys applies at posix time.
func MinutesFromUTC(sys System, posix int64) (int, error) {
	minutes, err := sys.MinutesFromUTC(posix)
	if err != nil {
		return 0, errors.Wrapf(err, "resolve UTC offset at %d", posix)
	}
	if !OffsetFromMinutes(minutes).IsValidAsOffsetFromUTC() {
		return 0, invalidArgument("system reported offset of %d minutes", minutes)
	}
	log.Debugf("local offset at %d is %+d minutes", posix, minutes)
	return minutes, nil
}

// ToPosixTime returns whole seconds since the epoch, rounded down.
func (t CalendarTime) ToPosixTime() int64 {
	t.check()
	us := t.Sub(UnixEpoch).microseconds
	sec := us / microsecondsPerSec
	if us%microsecondsPerSec < 0 {
		sec--
	}
	return sec
}

// CurrentUTC reads the UTC wall clock from sys.
func CurrentUTC(sys System) (CalendarTime, error) {
	sec, usec, err := sys.Now()
	if err != nil {
		return CalendarTime{}, errors.Wrap(err, "read system clock")
	}
	t, err := FromPosixTime(sec)
	if err != nil {
		return CalendarTime{}, err
	}
	t = t.addMicroseconds(usec)
	t.decimalCount = maxDecimalCount
	return t, nil
}

// CurrentLocal reads the local wall clock from sys.
func CurrentLocal(sys System) (CalendarTime, error) {
	t, err := CurrentUTC(sys)
	if err != nil {
		return CalendarTime{}, err
	}
	if err := t.MakeLocal(sys); err != nil {
		return CalendarTime{}, err
	}
	return t, nil
}
