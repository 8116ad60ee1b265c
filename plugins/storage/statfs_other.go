//go:build !linux

package storage

import (
	"github.com/pkg/errors"
)

func statfs(name string) (Blocks, error) {
	return Blocks{}, errors.Errorf("statfs %s: not supported on this platform", name)
}
