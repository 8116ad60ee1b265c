//go:build linux

package storage

import (
	"golang.org/x/sys/unix"
)

func statfs(name string) (Blocks, error) {
	st := unix.Statfs_t{}
	if err := unix.Statfs(name, &st); err != nil {
		return Blocks{}, err
	}
	return Blocks{
		Size:  int64(st.Bsize),
		Total: st.Blocks,
		Free:  st.Bfree,
		Avail: st.Bavail,
	}, nil
}
