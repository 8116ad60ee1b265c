package system

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// parseMeminfo reads the totals of /proc/meminfo. Sizes there are in
// kB.
func parseMeminfo(r io.Reader) (Memory, error) {
	res := Memory{}
	lines := bufio.NewScanner(r)
	for lines.Scan() {
		frags := strings.SplitN(lines.Text(), ":", 2)
		if len(frags) != 2 {
			continue
		}
		fields := strings.Fields(frags[1])
		if len(fields) == 0 {
			continue
		}
		sz, err := strconv.ParseInt(fields[0], 10, 64)
		if err != nil {
			continue
		}
		switch frags[0] {
		case "MemTotal":
			res.Total = sz << 10
		case "MemFree":
			res.Free = sz << 10
		case "MemAvailable":
			res.Available = sz << 10
		}
	}
	return res, lines.Err()
}

// parseCPUInfo reads /proc/cpuinfo. Records are separated by blank
// lines; key names follow x86, with the POWER spellings for ppc64le.
func parseCPUInfo(r io.Reader, arch string) ([]Processor, error) {
	res := []Processor{}
	cur := -1
	var machineModel string
	lines := bufio.NewScanner(r)
	lines.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for lines.Scan() {
		frags := strings.SplitN(lines.Text(), ":", 2)
		if len(frags) != 2 {
			cur = -1
			continue
		}
		k, v := strings.TrimSpace(frags[0]), strings.TrimSpace(frags[1])
		if k == "processor" {
			res = append(res, Processor{ID: parseInt(v), Flags: []string{}, Bugs: []string{}})
			cur = len(res) - 1
			continue
		}
		if cur < 0 {
			if k == "model" {
				machineModel = v
			}
			continue
		}
		proc := &res[cur]
		switch k {
		case "vendor_id":
			proc.Vendor = v
		case "cpu family":
			proc.Family = parseInt(v)
		case "model":
			proc.ModelCode = parseInt(v)
		case "model name", "cpu":
			proc.Model = v
		case "stepping":
			proc.Stepping = parseInt(v)
		case "microcode":
			proc.Microcode = parseInt(v)
		case "cpu MHz", "clock":
			proc.Speed = v
		case "cache size":
			proc.CacheSize = v
		case "physical id":
			proc.PhysID = parseInt(v)
		case "siblings":
			proc.Siblings = parseInt(v)
		case "core id":
			proc.CoreID = parseInt(v)
		case "cpu cores":
			proc.Cores = parseInt(v)
		case "fpu":
			proc.FPU = v == "yes"
		case "wp":
			proc.WriteProtect = v == "yes"
		case "flags":
			proc.Flags = strings.Fields(v)
		case "bugs":
			proc.Bugs = strings.Fields(v)
		case "cache_alignment":
			proc.CacheAlignment = parseInt(v)
		case "address sizes":
			fmt.Sscanf(v, "%d bits physical, %d bits virtual", &proc.AddressSizes.Physical, &proc.AddressSizes.Virtual)
		}
	}
	if err := lines.Err(); err != nil {
		return nil, err
	}
	if arch == "ppc64le" {
		for ii := range res {
			res[ii].Vendor = machineModel
			res[ii].Cores = 1
		}
	}
	return res, nil
}

// parseBootTime finds the btime line of /proc/stat.
func parseBootTime(r io.Reader) (int64, error) {
	lines := bufio.NewScanner(r)
	lines.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for lines.Scan() {
		fields := strings.Fields(lines.Text())
		if len(fields) != 2 || fields[0] != "btime" {
			continue
		}
		res, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return 0, errors.Wrapf(err, "btime %q", fields[1])
		}
		return res, nil
	}
	if err := lines.Err(); err != nil {
		return 0, err
	}
	return 0, errors.New("no btime line")
}
