package dmi

import (
	"encoding/json"
	"strconv"

	"github.com/VictorLowther/godmi"
	"github.com/pkg/errors"
)

// lshwNode is the part of an lshw -json node the DMI tables are built
// from.
type lshwNode struct {
	ID            string            `json:"id"`
	Class         string            `json:"class"`
	Description   string            `json:"description"`
	Product       string            `json:"product"`
	Vendor        string            `json:"vendor"`
	Version       string            `json:"version"`
	Serial        string            `json:"serial"`
	Date          string            `json:"date"`
	Size          float64           `json:"size"`
	Configuration map[string]string `json:"configuration"`
	Children      []lshwNode        `json:"children"`
}

// choose first non-empty string, else empty
func chooseNonEmpty(list ...string) string {
	for _, s := range list {
		if s != "" {
			return s
		}
	}
	return ""
}

// fromLSHW makes up DMI tables from lshw output on machines without
// SMBIOS.
func fromLSHW(data []byte) (*Info, error) {
	var root lshwNode
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrap(err, "decode lshw output")
	}
	var core *lshwNode
	for i := range root.Children {
		if root.Children[i].ID == "core" {
			core = &root.Children[i]
			break
		}
	}
	if core == nil {
		return nil, errors.New("lshw output has no core node")
	}

	var firmware lshwNode
	cpus := []lshwNode{}
	mems := []lshwNode{}
	for _, c := range core.Children {
		switch {
		case c.ID == "firmware":
			firmware = c
		case c.Class == "memory":
			mems = append(mems, c)
		case c.Class == "processor":
			cpus = append(cpus, c)
		}
	}

	res := &Info{}
	res.BIOS = &godmi.BIOSInformation{
		Vendor:      root.Vendor,
		BIOSVersion: chooseNonEmpty(firmware.Version, root.Version, root.Product),
		ReleaseDate: chooseNonEmpty(firmware.Date, firmware.Version, root.Version, root.Product),
	}
	res.System = &godmi.SystemInformation{
		Manufacturer: root.Vendor,
		ProductName:  root.Product,
		Version:      chooseNonEmpty(root.Version, root.Product),
		SerialNumber: root.Serial,
		Family:       root.Description,
	}
	res.Baseboards = []*godmi.BaseboardInformation{
		{
			Manufacturer: root.Vendor,
			ProductName:  root.Product,
			Version:      chooseNonEmpty(root.Version, root.Product),
			SerialNumber: root.Serial,
			BoardType:    10,
		},
	}
	res.Chassis = []*godmi.ChassisInformation{}

	res.Processors.Items = []*godmi.ProcessorInformation{}
	for ii, p := range cpus {
		threads := byte(1)
		if tv, ok := p.Configuration["threads"]; ok {
			if n, err := strconv.Atoi(tv); err == nil {
				threads = byte(n)
			}
		}
		mhz := uint16(p.Size / 1000000)
		res.Processors.Items = append(res.Processors.Items, &godmi.ProcessorInformation{
			SocketDesignation: p.Product,
			ProcessorType:     3,
			Family:            godmi.ProcessorPowerPCFamily,
			Manufacturer:      chooseNonEmpty(p.Vendor, firmware.Vendor, root.Vendor),
			ID:                godmi.ProcessorID(ii),
			Version:           p.Version,
			MaxSpeed:          mhz,
			CurrentSpeed:      mhz,
			CoreCount:         1,
			CoreEnabled:       1,
			ThreadCount:       threads,
		})
	}

	res.Memory.Arrays = []*godmi.PhysicalMemoryArray{
		{
			Location:              0,
			Use:                   3,
			ErrorCorrection:       3,
			MaximumCapacity:       0,
			NumberOfMemoryDevices: uint16(len(mems)),
		},
	}
	res.Memory.Devices = []*godmi.MemoryDevice{}
	for _, m := range mems {
		res.Memory.Devices = append(res.Memory.Devices, &godmi.MemoryDevice{Size: uint64(m.Size)})
		res.Memory.Arrays[0].MaximumCapacity += uint64(m.Size)
	}
	summarize(res)
	return res, nil
}
