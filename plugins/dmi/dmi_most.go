//go:build !ppc64le

package dmi

import (
	"context"

	"github.com/VictorLowther/godmi"
	"github.com/pkg/errors"

	"github.com/rackn/gopal/plugins"
)

func Gather(ctx context.Context, env *plugins.Env) (*Info, error) {
	if err := godmi.Init(); err != nil {
		return nil, errors.Wrap(err, "decode SMBIOS tables")
	}
	return processDMI(loadTables()), nil
}
