package dmi

import (
	"strconv"
	"strings"

	"github.com/VictorLowther/godmi"
	"github.com/op/go-logging"
	"github.com/pkg/errors"

	"github.com/rackn/gopal/caltime"
)

var log = logging.MustGetLogger("dmi")

type Processors struct {
	TotalCoreCount   uint32
	EnabledCoreCount uint32
	TotalThreadCount uint32
	Items            []*godmi.ProcessorInformation
}

type Memory struct {
	TotalCapacity  uint64
	Size           uint64
	TotalSlots     uint32
	PopulatedSlots uint32
	Arrays         []*godmi.PhysicalMemoryArray
	Devices        []*godmi.MemoryDevice
}

type Info struct {
	BIOS         *godmi.BIOSInformation
	BIOSReleased *caltime.CalendarTime `json:",omitempty" yaml:",omitempty"`
	System       *godmi.SystemInformation
	Baseboards   []*godmi.BaseboardInformation
	Chassis      []*godmi.ChassisInformation
	Processors   Processors
	Memory       Memory
	Hypervisor   string
}

func (i *Info) Class() string {
	return "DMI"
}

var vendors = [][2]string{
	{"KVM", "KVM"},
	{"QEMU", "QEMU"},
	{"VMware", "VMware"},
	{"VMW", "VMware"},
	{"innotek GmbH", "VirtualBox"},
	{"Oracle Corporation", "VirtualBox"},
	{"Xen", "Xen"},
	{"Bochs", "Bochs"},
	{"Parallels", "Parallels"},
	{"BHYVE", "BHYVE"},
	{"Microsoft Corporation Virtual", "Hyper-V"},
}

// DetectVirtType matches the system, baseboard and BIOS vendor strings
// against known hypervisors.
func DetectVirtType(dmiinfo *Info) (string, bool) {
	keys := []string{}
	if dmiinfo.System != nil {
		keys = append(keys, dmiinfo.System.ProductName, dmiinfo.System.Manufacturer)
	}
	for _, v := range dmiinfo.Baseboards {
		keys = append(keys, v.Manufacturer)
	}
	if dmiinfo.BIOS != nil {
		keys = append(keys, dmiinfo.BIOS.Vendor)
	}
	for _, key := range keys {
		for _, vendor := range vendors {
			if strings.HasPrefix(key, vendor[0]) {
				return vendor[1], true
			}
		}
	}
	return "", false
}

func specified(s string) bool {
	return s != "" && s != "Not Specified"
}

// tables is one snapshot of the decoded SMBIOS structures.
type tables struct {
	BIOS       []*godmi.BIOSInformation
	System     []*godmi.SystemInformation
	Baseboards []*godmi.BaseboardInformation
	Chassis    []*godmi.ChassisInformation
	Processors []*godmi.ProcessorInformation
	Arrays     []*godmi.PhysicalMemoryArray
	Devices    []*godmi.MemoryDevice
}

func loadTables() tables {
	return tables{
		BIOS:       godmi.BIOSInformations,
		System:     godmi.SystemInformations,
		Baseboards: godmi.BaseboardInformations,
		Chassis:    godmi.ChassisInformations,
		Processors: godmi.ProcessorInformations,
		Arrays:     godmi.PhysicalMemoryArrays,
		Devices:    godmi.MemoryDevices,
	}
}

func processDMI(tb tables) *Info {
	res := &Info{}
	// Filter out bad BIOS records
	for _, bios := range tb.BIOS {
		if !specified(bios.BIOSVersion) || !specified(bios.ReleaseDate) || !specified(bios.Vendor) {
			continue
		}
		res.BIOS = bios
		break
	}
	// filter out bad System records
	if len(tb.System) == 1 {
		res.System = tb.System[0]
	}
	res.Baseboards = tb.Baseboards
	res.Chassis = tb.Chassis
	res.Processors.Items = tb.Processors
	res.Memory.Arrays = tb.Arrays
	res.Memory.Devices = tb.Devices
	summarize(res)
	res.Hypervisor, _ = DetectVirtType(res)
	return res
}

// summarize fills the totals and the parsed BIOS release date.
func summarize(res *Info) {
	for _, proc := range res.Processors.Items {
		res.Processors.TotalCoreCount += uint32(proc.CoreCount)
		res.Processors.TotalThreadCount += uint32(proc.ThreadCount)
		res.Processors.EnabledCoreCount += uint32(proc.CoreEnabled)
	}
	for _, array := range res.Memory.Arrays {
		res.Memory.TotalCapacity += uint64(array.MaximumCapacity)
	}
	for _, device := range res.Memory.Devices {
		res.Memory.Size += device.Size
		res.Memory.TotalSlots++
		if device.Size != 0 {
			res.Memory.PopulatedSlots++
		}
	}
	if res.BIOS == nil {
		return
	}
	released, err := ParseReleaseDate(res.BIOS.ReleaseDate)
	if err != nil {
		log.Debugf("BIOS release date: %v", err)
		return
	}
	res.BIOSReleased = &released
}

// ParseReleaseDate reads a BIOS release date. SMBIOS writes mm/dd/yyyy
// or mm/dd/yy; two-digit years below 70 are taken as 20yy. ISO 8601
// calendar dates are accepted as well.
func ParseReleaseDate(s string) (caltime.CalendarTime, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		date, err := caltime.DateFromISO8601(s)
		if err != nil {
			return date, errors.Wrapf(err, "unrecognized BIOS release date %q", s)
		}
		return date, nil
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return caltime.CalendarTime{}, errors.Wrapf(err, "unrecognized BIOS release date %q", s)
		}
		nums[i] = n
	}
	year := nums[2]
	if len(parts[2]) == 2 {
		year += 1900
		if year < 1970 {
			year += 100
		}
	}
	date, err := caltime.NewDate(year, nums[0], nums[1])
	if err != nil {
		return date, errors.Wrapf(err, "BIOS release date %q", s)
	}
	return date, nil
}
