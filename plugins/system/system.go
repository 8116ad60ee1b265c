package system

import (
	"context"
	"runtime"
	"strconv"

	"github.com/op/go-logging"
	"github.com/pkg/errors"

	"github.com/rackn/gopal/caltime"
	"github.com/rackn/gopal/plugins"
)

var log = logging.MustGetLogger("system")

type AddressSizes struct {
	Physical int64
	Virtual  int64
}

type Processor struct {
	ID             int64
	Vendor         string
	Family         int64
	ModelCode      int64
	Model          string
	Stepping       int64
	Microcode      int64
	Speed          string
	CacheSize      string
	PhysID         int64
	Siblings       int64
	CoreID         int64
	Cores          int64
	FPU            bool
	WriteProtect   bool
	Flags          []string
	Bugs           []string
	CacheAlignment int64
	AddressSizes   AddressSizes
}

type Memory struct {
	Total     int64
	Free      int64
	Available int64
}

type Info struct {
	OS             string
	Arch           string
	Kernel         string
	Hostname       string
	Memory         Memory
	ProcessorCount int
	Processors     []Processor
	BootTime       *caltime.CalendarTime `json:",omitempty" yaml:",omitempty"`
	Uptime         caltime.RelativeTime
	UTCOffset      caltime.RelativeTime
	CollectedAt    caltime.CalendarTime
}

func (i *Info) Class() string {
	return "System"
}

// parseInt is lenient: /proc fields that do not parse read as zero.
func parseInt(s string) int64 {
	res, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		log.Debugf("not an integer: %q", s)
		return 0
	}
	return res
}

// stamp sets the boot time from posix seconds and the collection time
// from the environment clock.
func (i *Info) stamp(env *plugins.Env, bootPosix int64) error {
	now, err := env.Now()
	if err != nil {
		return errors.Wrap(err, "read collection time")
	}
	i.CollectedAt = now
	i.UTCOffset = now.OffsetFromUTC()
	if bootPosix <= 0 {
		return nil
	}
	boot, err := caltime.FromPosixTime(bootPosix)
	if err != nil {
		return errors.Wrapf(err, "boot time %d", bootPosix)
	}
	if err := boot.MakeLocal(env.Sys); err != nil {
		return errors.Wrap(err, "boot time in local time")
	}
	if err := boot.SetDecimalCount(0); err != nil {
		return err
	}
	i.BootTime = &boot
	i.Uptime = now.Sub(boot)
	return nil
}

func Gather(ctx context.Context, env *plugins.Env) (*Info, error) {
	res := &Info{
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		Processors: []Processor{},
	}
	bootPosix, err := fill(ctx, env, res)
	if err != nil {
		return nil, err
	}
	res.ProcessorCount = len(res.Processors)
	if err := res.stamp(env, bootPosix); err != nil {
		return nil, err
	}
	return res, nil
}
