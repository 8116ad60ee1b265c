package storage

import (
	"bufio"
	"context"
	"io"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/op/go-logging"
	"github.com/pkg/errors"

	"github.com/rackn/gopal/plugins"
)

var log = logging.MustGetLogger("storage")

type Blocks struct {
	Size  int64
	Total uint64
	Free  uint64
	Avail uint64
}

type Volume struct {
	BackingDevice string
	Filesystem    string
	Name          string
	Options       string
	Virtual       bool
	Blocks        Blocks
}

// Disk is a block device as the kernel lists it under /sys/block.
type Disk struct {
	Name       string
	Size       uint64
	Removable  bool
	Rotational bool
	Model      string
	Vendor     string
}

type Info struct {
	Volumes []Volume
	Disks   []Disk
}

func (i *Info) Class() string {
	return "Storage"
}

// unescapeMount undoes the octal escapes the kernel uses for spaces,
// tabs, newlines and backslashes in mount table fields.
func unescapeMount(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+4 <= len(s) {
			if n, err := strconv.ParseUint(s[i+1:i+4], 8, 8); err == nil {
				b.WriteByte(byte(n))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// parseMounts reads a mounts table in the /proc/self/mounts format.
func parseMounts(r io.Reader) ([]Volume, error) {
	res := []Volume{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) != 6 {
			continue
		}
		res = append(res, Volume{
			Name:          unescapeMount(fields[1]),
			BackingDevice: unescapeMount(fields[0]),
			Filesystem:    fields[2],
			Options:       fields[3],
			Virtual:       true,
		})
	}
	return res, sc.Err()
}

func readString(p string) string {
	buf, err := os.ReadFile(p)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(buf))
}

func readUint(p string) uint64 {
	res, _ := strconv.ParseUint(readString(p), 10, 64)
	return res
}

// disks lists the block devices under sysRoot/block. Sizes there are
// counted in 512 byte sectors whatever the device block size is.
func disks(sysRoot string) ([]Disk, error) {
	base := path.Join(sysRoot, "block")
	ents, err := os.ReadDir(base)
	if err != nil {
		if os.IsNotExist(err) {
			return []Disk{}, nil
		}
		return nil, errors.Wrapf(err, "list %s", base)
	}
	res := []Disk{}
	for _, ent := range ents {
		dir := path.Join(base, ent.Name())
		res = append(res, Disk{
			Name:       ent.Name(),
			Size:       readUint(path.Join(dir, "size")) << 9,
			Removable:  readString(path.Join(dir, "removable")) == "1",
			Rotational: readString(path.Join(dir, "queue/rotational")) == "1",
			Model:      readString(path.Join(dir, "device/model")),
			Vendor:     readString(path.Join(dir, "device/vendor")),
		})
	}
	return res, nil
}

func Gather(ctx context.Context, env *plugins.Env) (*Info, error) {
	mountsPath := path.Join(env.ProcRoot, "self/mounts")
	mounts, err := os.Open(mountsPath)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", mountsPath)
	}
	defer mounts.Close()
	vols, err := parseMounts(mounts)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", mountsPath)
	}
	for i := range vols {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vol := &vols[i]
		if stat, err := os.Stat(vol.BackingDevice); err == nil {
			vol.Virtual = stat.Mode()&os.ModeDevice == 0
		}
		blocks, err := statfs(vol.Name)
		if err != nil {
			log.Debugf("statfs %s: %v", vol.Name, err)
			continue
		}
		vol.Blocks = blocks
	}
	res := &Info{Volumes: vols}
	if res.Disks, err = disks(env.SysRoot); err != nil {
		return nil, err
	}
	return res, nil
}
