//go:build !linux && !darwin && !freebsd

package caltime

import "time"

func (hostSystem) Now() (int64, int64, error) {
	now := time.Now()
	return now.Unix(), int64(now.Nanosecond() / 1000), nil
}
