//go:build linux || darwin || freebsd

package caltime

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

func (hostSystem) Now() (int64, int64, error) {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_REALTIME, &ts); err != nil {
		return 0, 0, errors.Wrap(err, "clock_gettime")
	}
	sec, nsec := ts.Unix()
	return sec, nsec / 1000, nil
}
