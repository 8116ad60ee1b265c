package caltime

import (
	"sync"
	"time"
)

// System is the operating system surface the package reads: the wall
// clock and the zone rules of the local time. Production code passes
// Host(); tests pass a *FixedSystem.
type System interface {
	// Now returns the wall clock as seconds and microseconds since the
	// epoch.
	Now() (sec, usec int64, err error)

	// MinutesFromUTC returns the offset, daylight saving included, that
	// the local zone applies at posix time. East of UTC is positive.
	MinutesFromUTC(posix int64) (int, error)
}

// Host returns a System backed by the OS clock and the process-local
// zone.
func Host() System { return hostSystem{zone: time.Local} }

// HostIn returns a System backed by the OS clock whose local zone is
// loc instead of the process zone.
func HostIn(loc *time.Location) System { return hostSystem{zone: loc} }

type hostSystem struct {
	zone *time.Location
}

func (h hostSystem) MinutesFromUTC(posix int64) (int, error) {
	_, offset := time.Unix(posix, 0).In(h.zone).Zone()
	return offset / 60, nil
}

// FixedSystem is a System whose clock stands still until Advance is
// called. It is safe for concurrent use.
type FixedSystem struct {
	mu      sync.Mutex
	current time.Time
	zone    *time.Location
}

// Fixed returns a FixedSystem reading initial. Local time follows the
// rules of zone; a nil zone is UTC.
func Fixed(initial time.Time, zone *time.Location) *FixedSystem {
	if zone == nil {
		zone = time.UTC
	}
	return &FixedSystem{current: initial, zone: zone}
}

func (f *FixedSystem) Now() (int64, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current.Unix(), int64(f.current.Nanosecond() / 1000), nil
}

func (f *FixedSystem) MinutesFromUTC(posix int64) (int, error) {
	_, offset := time.Unix(posix, 0).In(f.zone).Zone()
	return offset / 60, nil
}

// Advance moves the clock forward by d.
func (f *FixedSystem) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = f.current.Add(d)
}
