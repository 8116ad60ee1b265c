//go:build !linux

package system

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/rackn/gopal/plugins"
)

func fromCPUStat(c cpu.InfoStat) Processor {
	return Processor{
		ID:        int64(c.CPU),
		Vendor:    c.VendorID,
		Family:    parseInt(c.Family),
		ModelCode: parseInt(c.Model),
		Model:     c.ModelName,
		Stepping:  int64(c.Stepping),
		Microcode: parseInt(c.Microcode),
		Speed:     fmt.Sprintf("%.3f", c.Mhz),
		CacheSize: fmt.Sprintf("%d KB", c.CacheSize),
		PhysID:    parseInt(c.PhysicalID),
		CoreID:    parseInt(c.CoreID),
		Cores:     int64(c.Cores),
		Flags:     c.Flags,
		Bugs:      []string{},
	}
}

// fill asks gopsutil where there is no procfs to read. It returns the
// boot time in posix seconds.
func fill(ctx context.Context, env *plugins.Env, i *Info) (int64, error) {
	hi, err := host.InfoWithContext(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "host info")
	}
	i.Kernel = hi.KernelVersion
	i.Hostname = hi.Hostname
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "virtual memory")
	}
	i.Memory = Memory{
		Total:     int64(vm.Total),
		Free:      int64(vm.Free),
		Available: int64(vm.Available),
	}
	cpus, err := cpu.InfoWithContext(ctx)
	if err != nil {
		log.Warningf("cpu info unavailable: %v", err)
	}
	for _, c := range cpus {
		i.Processors = append(i.Processors, fromCPUStat(c))
	}
	return int64(hi.BootTime), nil
}
