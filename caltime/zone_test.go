package caltime

import (
	"testing"
	"time"

	"github.com/pkg/errors"
)

func TestMakeUTC(t *testing.T) {
	v := mustISO(t, "2004-12-03T16:20:10.123456+02:30")
	if err := v.MakeUTC(); err != nil {
		t.Fatal(err)
	}
	if got := v.ToExtendedISO8601(); got != "2004-12-03T13:50:10.123456Z" {
		t.Errorf("MakeUTC = %s", got)
	}

	w := mustISO(t, "2024-12-31T20:00:00-05:00")
	if err := w.MakeUTC(); err != nil {
		t.Fatal(err)
	}
	if got := w.ToExtendedISO8601(); got != "2025-01-01T01:00:00Z" {
		t.Errorf("MakeUTC over new year = %s", got)
	}
}

func TestMakeUTCBeforeEpoch(t *testing.T) {
	v := mustNew(t, 1970, 1, 1, 0, 30, 0, 60)
	before := v
	wantKind(t, "MakeUTC", v.MakeUTC(), KindNotSupported)
	if !IsIdentical(v, before) {
		t.Errorf("failed MakeUTC changed the value to %s", v)
	}
}

func TestMakeLocalOffset(t *testing.T) {
	v := mustISO(t, "2004-12-03T16:20:10+02:30")
	if err := v.MakeLocalOffset(OffsetFromMinutes(-300)); err != nil {
		t.Fatal(err)
	}
	if got := v.ToExtendedISO8601(); got != "2004-12-03T08:50:10-05" {
		t.Errorf("MakeLocalOffset = %s", got)
	}
	wantKind(t, "MakeLocalOffset(+15h)", v.MakeLocalOffset(OffsetFromMinutes(900)), KindInvalidArgument)
	wantKind(t, "MakeLocalOffset(1 day)", v.MakeLocalOffset(NewRelativeTime(0, 0, 1, 0, 0, 0)), KindInvalidArgument)

	early := mustISO(t, "1970-01-01T00:30:00Z")
	wantKind(t, "MakeLocalOffset(-1h) at the epoch", early.MakeLocalOffset(OffsetFromMinutes(-60)), KindNotSupported)
}

func TestMakeLocal(t *testing.T) {
	sys := Fixed(time.Unix(0, 0), time.FixedZone("IST", 5*3600+30*60))
	v := mustISO(t, "2024-06-01T12:00:00Z")
	if err := v.MakeLocal(sys); err != nil {
		t.Fatal(err)
	}
	if got := v.ToExtendedISO8601(); got != "2024-06-01T17:30:00+05:30" {
		t.Errorf("MakeLocal = %s", got)
	}
}

func TestPosixTimeAcrossOffsets(t *testing.T) {
	v := mustISO(t, "2004-12-03T16:20:10.9+02:00")
	if got := v.ToPosixTime(); got != 1102083610 {
		t.Errorf("ToPosixTime = %d, want 1102083610", got)
	}
	if got, want := v.ToPosixTime(), v.Time().Unix(); got != want {
		t.Errorf("ToPosixTime = %d, time.Time says %d", got, want)
	}

	// Half a second before the epoch rounds down.
	early := mustISO(t, "1970-01-01T00:59:59.5+01:00")
	if got := early.ToPosixTime(); got != -1 {
		t.Errorf("ToPosixTime = %d, want -1", got)
	}
	if got, want := early.ToPosixTime(), early.Time().Unix(); got != want {
		t.Errorf("ToPosixTime = %d, time.Time says %d", got, want)
	}
}

func TestCurrentTime(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 500000000, time.UTC)
	sys := Fixed(start, time.FixedZone("", -4*3600))

	utc, err := CurrentUTC(sys)
	if err != nil {
		t.Fatal(err)
	}
	if got := utc.ToExtendedISO8601(); got != "2024-06-01T12:00:00.500000Z" {
		t.Errorf("CurrentUTC = %s", got)
	}

	local, err := CurrentLocal(sys)
	if err != nil {
		t.Fatal(err)
	}
	if got := local.ToExtendedISO8601(); got != "2024-06-01T08:00:00.500000-04" {
		t.Errorf("CurrentLocal = %s", got)
	}
	if !local.Equal(utc) {
		t.Errorf("local %s and UTC %s differ", local, utc)
	}

	sys.Advance(90 * time.Minute)
	later, err := CurrentUTC(sys)
	if err != nil {
		t.Fatal(err)
	}
	if got := later.Sub(utc).Microseconds(); got != 90*MicrosecondsInMinute() {
		t.Errorf("clock advanced by %d us, want 90m", got)
	}
}

func TestHostClock(t *testing.T) {
	before := time.Now().Unix()
	now, err := CurrentUTC(Host())
	if err != nil {
		t.Fatal(err)
	}
	after := time.Now().Unix()
	if p := now.ToPosixTime(); p < before || p > after {
		t.Errorf("host clock read %d, outside [%d, %d]", p, before, after)
	}
	if _, err := CurrentLocal(HostIn(time.UTC)); err != nil {
		t.Fatal(err)
	}
}

type brokenSystem struct {
	offset int
	err    error
}

func (b brokenSystem) Now() (int64, int64, error)        { return 0, 0, b.err }
func (b brokenSystem) MinutesFromUTC(int64) (int, error) { return b.offset, b.err }

func TestSystemFailures(t *testing.T) {
	boom := errors.New("clock unavailable")
	_, err := CurrentUTC(brokenSystem{err: boom})
	if errors.Cause(err) != boom {
		t.Errorf("CurrentUTC error %v does not wrap the system error", err)
	}

	v := mustISO(t, "2024-06-01T12:00:00Z")
	wantKind(t, "MakeLocal with a 15h zone", v.MakeLocal(brokenSystem{offset: 900}), KindInvalidArgument)
	if _, err := MinutesFromUTC(brokenSystem{err: boom}, 0); errors.Cause(err) != boom {
		t.Errorf("MinutesFromUTC error %v does not wrap the system error", err)
	}
}
