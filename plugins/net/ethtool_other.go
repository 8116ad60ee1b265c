//go:build !linux

package net

import (
	"github.com/pkg/errors"
)

func (i *Interface) fillEthtool() error {
	return errors.New("ethtool is only available on linux")
}
