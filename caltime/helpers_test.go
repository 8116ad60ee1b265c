package caltime

import (
	"math/rand"
	"testing"
)

func mustNew(t *testing.T, year, month, day, hour, minute int, second float64, offsetMinutes int) CalendarTime {
	t.Helper()
	v, err := New(year, month, day, hour, minute, second, OffsetFromMinutes(offsetMinutes))
	if err != nil {
		t.Fatalf("New(%d-%02d-%02d %02d:%02d:%v %+d): %v", year, month, day, hour, minute, second, offsetMinutes, err)
	}
	return v
}

func mustISO(t *testing.T, s string) CalendarTime {
	t.Helper()
	v, err := FromISO8601(s)
	if err != nil {
		t.Fatalf("FromISO8601(%q): %v", s, err)
	}
	return v
}

func wantKind(t *testing.T, what string, err error, want Kind) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected %s error, got nil", what, want)
	}
	got, ok := KindOf(err)
	if !ok {
		t.Fatalf("%s: error %v does not come from caltime", what, err)
	}
	if got != want {
		t.Fatalf("%s: expected %s error, got %s (%v)", what, want, got, err)
	}
}

// randomTime returns a value between fromYear and 2099 with an offset of
// whole quarter hours and a random decimal count. The fraction carries
// no digits past the decimal count.
func randomTime(t *testing.T, rng *rand.Rand, fromYear int) CalendarTime {
	t.Helper()
	year := fromYear + rng.Intn(2100-fromYear)
	month := 1 + rng.Intn(12)
	day := 1 + rng.Intn(daysInMonth(year, month))
	pos := Position{Year: year, Month: month, Day: day, Hour: rng.Intn(24), Minute: rng.Intn(60)}
	offset := OffsetFromMinutes((rng.Intn(57) - 28) * 15)
	decimals := rng.Intn(maxDecimalCount + 1)
	us := truncateFraction(rng.Int63n(microsecondsPerMin), decimals)
	v, err := newValidated(pos, us, decimals, offset, PrecisionSecond)
	if err != nil {
		t.Fatalf("random time %+v: %v", pos, err)
	}
	return v
}
