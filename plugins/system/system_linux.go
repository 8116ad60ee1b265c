//go:build linux

package system

import (
	"context"
	"io"
	"os"
	"path"
	"runtime"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/rackn/gopal/plugins"
)

func readProc(procRoot, name string, fn func(io.Reader) error) error {
	p := path.Join(procRoot, name)
	f, err := os.Open(p)
	if err != nil {
		return errors.Wrapf(err, "open %s", p)
	}
	defer f.Close()
	return errors.Wrapf(fn(f), "read %s", p)
}

// fill reads uname and procfs. It returns the boot time in posix
// seconds.
func fill(ctx context.Context, env *plugins.Env, i *Info) (int64, error) {
	uts := unix.Utsname{}
	if err := unix.Uname(&uts); err != nil {
		return 0, errors.Wrap(err, "uname")
	}
	i.Kernel = unix.ByteSliceToString(uts.Release[:])
	i.Hostname = unix.ByteSliceToString(uts.Nodename[:])

	err := readProc(env.ProcRoot, "meminfo", func(r io.Reader) (err error) {
		i.Memory, err = parseMeminfo(r)
		return err
	})
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	err = readProc(env.ProcRoot, "cpuinfo", func(r io.Reader) (err error) {
		i.Processors, err = parseCPUInfo(r, runtime.GOARCH)
		return err
	})
	if err != nil {
		return 0, err
	}
	var boot int64
	err = readProc(env.ProcRoot, "stat", func(r io.Reader) (err error) {
		boot, err = parseBootTime(r)
		return err
	})
	if err != nil {
		log.Warningf("boot time unavailable: %v", err)
		return 0, nil
	}
	return boot, nil
}
