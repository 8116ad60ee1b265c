// Package plugins holds what the individual collectors share: the
// environment they gather from and the interface their results satisfy.
package plugins

import (
	"context"

	"github.com/rackn/gopal/caltime"
)

// Info is the result of one collector. Class names its section in a
// report.
type Info interface {
	Class() string
}

// Gatherer runs one collector.
type Gatherer func(ctx context.Context, env *Env) (Info, error)

// Env is the host surface a collector reads. Tests point the roots at
// synthetic trees and pass a fixed clock.
type Env struct {
	Sys          caltime.System
	ProcRoot     string
	SysRoot      string
	DecimalCount int
}

// DefaultEnv reads the live /proc and /sys of the host.
func DefaultEnv(sys caltime.System) *Env {
	return &Env{
		Sys:          sys,
		ProcRoot:     "/proc",
		SysRoot:      "/sys",
		DecimalCount: 6,
	}
}

// Now returns the local wall clock of the environment at its decimal
// count.
func (e *Env) Now() (caltime.CalendarTime, error) {
	now, err := caltime.CurrentLocal(e.Sys)
	if err != nil {
		return now, err
	}
	if err := now.SetDecimalCount(e.DecimalCount); err != nil {
		return now, err
	}
	return now, nil
}
