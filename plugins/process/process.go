package process

import (
	"context"
	"sort"

	"github.com/op/go-logging"
	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/rackn/gopal/caltime"
	"github.com/rackn/gopal/plugins"
)

var log = logging.MustGetLogger("process")

type Process struct {
	PID       int32
	PPID      int32
	Name      string
	User      string
	Status    []string
	StartTime *caltime.CalendarTime `json:",omitempty" yaml:",omitempty"`
	Elapsed   caltime.RelativeTime
}

type Info struct {
	Count       int
	Processes   []Process
	CollectedAt caltime.CalendarTime
}

func (i *Info) Class() string {
	return "Processes"
}

// record is one row of the process table as the OS reports it.
// CreateMillis is milliseconds since the epoch, zero when unknown.
type record struct {
	PID          int32
	PPID         int32
	Name         string
	User         string
	Status       []string
	CreateMillis int64
}

func list(ctx context.Context) ([]record, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list processes")
	}
	res := make([]record, 0, len(procs))
	for _, p := range procs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name, err := p.NameWithContext(ctx)
		if err != nil {
			// exited while we were looking
			log.Debugf("pid %d: %v", p.Pid, err)
			continue
		}
		rec := record{PID: p.Pid, Name: name}
		if rec.PPID, err = p.PpidWithContext(ctx); err != nil {
			log.Debugf("pid %d: ppid: %v", p.Pid, err)
		}
		if rec.User, err = p.UsernameWithContext(ctx); err != nil {
			log.Debugf("pid %d: user: %v", p.Pid, err)
		}
		if rec.Status, err = p.StatusWithContext(ctx); err != nil {
			log.Debugf("pid %d: status: %v", p.Pid, err)
		}
		if rec.CreateMillis, err = p.CreateTimeWithContext(ctx); err != nil {
			log.Debugf("pid %d: create time: %v", p.Pid, err)
		}
		res = append(res, rec)
	}
	return res, nil
}

// startTime converts a creation time in epoch milliseconds to a UTC
// calendar time with millisecond decimals.
func startTime(millis int64) (caltime.CalendarTime, error) {
	t, err := caltime.FromPosixTime(millis / 1000)
	if err != nil {
		return t, err
	}
	t, err = t.Add(caltime.Microseconds((millis % 1000) * 1000))
	if err != nil {
		return t, err
	}
	if err := t.SetDecimalCount(3); err != nil {
		return t, err
	}
	return t, nil
}

func newProcess(rec record, now caltime.CalendarTime) Process {
	res := Process{
		PID:    rec.PID,
		PPID:   rec.PPID,
		Name:   rec.Name,
		User:   rec.User,
		Status: rec.Status,
	}
	if res.Status == nil {
		res.Status = []string{}
	}
	if rec.CreateMillis <= 0 {
		return res
	}
	start, err := startTime(rec.CreateMillis)
	if err != nil {
		log.Debugf("pid %d: start time %d: %v", rec.PID, rec.CreateMillis, err)
		return res
	}
	res.StartTime = &start
	res.Elapsed = now.Sub(start)
	return res
}

func collect(recs []record, now caltime.CalendarTime) *Info {
	res := &Info{
		Processes:   make([]Process, 0, len(recs)),
		CollectedAt: now,
	}
	for _, rec := range recs {
		res.Processes = append(res.Processes, newProcess(rec, now))
	}
	sort.Slice(res.Processes, func(i, j int) bool {
		return res.Processes[i].PID < res.Processes[j].PID
	})
	res.Count = len(res.Processes)
	return res
}

func Gather(ctx context.Context, env *plugins.Env) (*Info, error) {
	now, err := env.Now()
	if err != nil {
		return nil, errors.Wrap(err, "read collection time")
	}
	recs, err := list(ctx)
	if err != nil {
		return nil, err
	}
	return collect(recs, now), nil
}
