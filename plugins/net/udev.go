package net

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"
)

var stableNameOrder = []string{"E: ID_NET_NAME_ONBOARD", "E: ID_NET_NAME_SLOT", "E: ID_NET_NAME_PATH"}

func (i *Interface) fillUdev(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "udevadm", "info", "-q", "all", "-p", "/sys/class/net/"+i.Name)
	buf := &bytes.Buffer{}
	cmd.Stdout = buf
	if err := cmd.Run(); err != nil {
		return err
	}
	return i.parseUdev(buf)
}

// parseUdev reads the property dump of udevadm info.
func (i *Interface) parseUdev(r io.Reader) error {
	stableNames := map[string]string{}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		parts := strings.SplitN(sc.Text(), "=", 2)
		if len(parts) != 2 {
			continue
		}
		switch parts[0] {
		case "E: ID_BUS":
			if i.Sys.IsPhysical && i.OrdinalName == "" {
				i.OrdinalName = parts[1]
			}
		case "E: DEVTYPE":
			if i.Sys.IsPhysical && i.OrdinalName != "onboard" {
				i.OrdinalName = parts[1]
			}
		case "E: ID_MODEL_FROM_DATABASE":
			i.Model = parts[1]
		case "E: ID_NET_DRIVER":
			i.Driver = parts[1]
		case "E: ID_VENDOR_FROM_DATABASE":
			i.Vendor = parts[1]
		case "E: ID_NET_NAME_ONBOARD":
			i.OrdinalName = "onboard"
			fallthrough
		case "E: ID_NET_NAME_SLOT", "E: ID_NET_NAME_PATH":
			stableNames[parts[0]] = parts[1]
		case "E: ID_PATH":
			i.Path = parts[1]
		}
	}
	for _, n := range stableNameOrder {
		if val, ok := stableNames[n]; ok {
			i.StableName = val
			break
		}
	}
	return sc.Err()
}
