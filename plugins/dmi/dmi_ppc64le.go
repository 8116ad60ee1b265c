//go:build ppc64le

package dmi

import (
	"context"
	"os/exec"

	"github.com/VictorLowther/godmi"
	"github.com/pkg/errors"

	"github.com/rackn/gopal/plugins"
)

// Gather uses SMBIOS when the platform has it and otherwise builds the
// same tables from lshw. Power LPARs report LPAR as their hypervisor.
func Gather(ctx context.Context, env *plugins.Env) (*Info, error) {
	if err := godmi.Init(); err == nil {
		return processDMI(loadTables()), nil
	}
	log.Debugf("no SMBIOS tables, falling back to lshw")
	out, err := exec.CommandContext(ctx, "lshw", "-json").Output()
	if err != nil {
		return nil, errors.Wrap(err, "run lshw")
	}
	res, err := fromLSHW(out)
	if err != nil {
		return nil, err
	}
	res.Hypervisor = "LPAR"
	return res, nil
}
