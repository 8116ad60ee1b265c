package system

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/rackn/gopal/caltime"
	"github.com/rackn/gopal/plugins"
)

const meminfoSample = `MemTotal:       16318412 kB
MemFree:         1034728 kB
MemAvailable:    9671356 kB
Buffers:          632012 kB
HugePages_Total:       0
garbage
`

func TestParseMeminfo(t *testing.T) {
	got, err := parseMeminfo(strings.NewReader(meminfoSample))
	if err != nil {
		t.Fatal(err)
	}
	want := Memory{Total: 16318412 << 10, Free: 1034728 << 10, Available: 9671356 << 10}
	if got != want {
		t.Errorf("parseMeminfo = %+v, want %+v", got, want)
	}
}

const cpuinfoX86 = `processor	: 0
vendor_id	: GenuineIntel
cpu family	: 6
model		: 85
model name	: Intel(R) Xeon(R) Gold 6130 CPU @ 2.10GHz
stepping	: 4
microcode	: 0x2006e05
cpu MHz		: 2100.000
cache size	: 22528 KB
physical id	: 0
siblings	: 2
core id		: 0
cpu cores	: 1
fpu		: yes
wp		: yes
flags		: fpu vme de pse
bugs		: spectre_v1 spectre_v2
cache_alignment	: 64
address sizes	: 46 bits physical, 48 bits virtual

processor	: 1
vendor_id	: GenuineIntel
model name	: Intel(R) Xeon(R) Gold 6130 CPU @ 2.10GHz
physical id	: 0
core id		: 0
fpu		: no

`

func TestParseCPUInfoX86(t *testing.T) {
	got, err := parseCPUInfo(strings.NewReader(cpuinfoX86), "amd64")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("%d processors, want 2", len(got))
	}
	p := got[0]
	if p.ID != 0 || p.Vendor != "GenuineIntel" || p.Family != 6 || p.ModelCode != 85 || p.Stepping != 4 {
		t.Errorf("identity %+v", p)
	}
	if p.Microcode != 0x2006e05 || p.Speed != "2100.000" || p.CacheSize != "22528 KB" {
		t.Errorf("microcode %x speed %q cache %q", p.Microcode, p.Speed, p.CacheSize)
	}
	if p.Siblings != 2 || p.Cores != 1 || !p.FPU || !p.WriteProtect || p.CacheAlignment != 64 {
		t.Errorf("topology %+v", p)
	}
	if !reflect.DeepEqual(p.Flags, []string{"fpu", "vme", "de", "pse"}) || !reflect.DeepEqual(p.Bugs, []string{"spectre_v1", "spectre_v2"}) {
		t.Errorf("flags %v bugs %v", p.Flags, p.Bugs)
	}
	if p.AddressSizes != (AddressSizes{Physical: 46, Virtual: 48}) {
		t.Errorf("address sizes %+v", p.AddressSizes)
	}
	if q := got[1]; q.ID != 1 || q.FPU || len(q.Flags) != 0 {
		t.Errorf("second processor %+v", q)
	}
}

const cpuinfoPower = `processor	: 0
cpu		: POWER8E (raw), altivec supported
clock		: 3690.000000MHz
revision	: 2.1 (pvr 004b 0201)

processor	: 8
cpu		: POWER8E (raw), altivec supported
clock		: 3690.000000MHz
revision	: 2.1 (pvr 004b 0201)

timebase	: 512000000
platform	: pSeries
model		: IBM,8247-22L
machine		: CHRP IBM,8247-22L
`

func TestParseCPUInfoPower(t *testing.T) {
	got, err := parseCPUInfo(strings.NewReader(cpuinfoPower), "ppc64le")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Fatalf("%d processors, want 2", len(got))
	}
	for _, p := range got {
		if p.Vendor != "IBM,8247-22L" || p.Cores != 1 || p.Speed != "3690.000000MHz" || !strings.HasPrefix(p.Model, "POWER8E") {
			t.Errorf("processor %+v", p)
		}
		// the trailer model is the machine, not a model code
		if p.ModelCode != 0 {
			t.Errorf("model code %d", p.ModelCode)
		}
	}
	if got[1].ID != 8 {
		t.Errorf("second id %d", got[1].ID)
	}
}

func TestParseBootTime(t *testing.T) {
	in := "cpu  10 20 30 40\nintr 1234 0 0\nctxt 5678\nbtime 1714564800\nprocesses 42\n"
	got, err := parseBootTime(strings.NewReader(in))
	if err != nil || got != 1714564800 {
		t.Errorf("parseBootTime = %d, %v", got, err)
	}
	if _, err := parseBootTime(strings.NewReader("cpu 1 2 3\n")); err == nil {
		t.Error("stat without btime accepted")
	}
	if _, err := parseBootTime(strings.NewReader("btime soon\n")); err == nil {
		t.Error("malformed btime accepted")
	}
}

func TestStamp(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	env := plugins.DefaultEnv(caltime.Fixed(now, time.FixedZone("CEST", 2*3600)))
	i := &Info{}
	if err := i.stamp(env, now.Unix()-3600); err != nil {
		t.Fatal(err)
	}
	if i.BootTime == nil || i.BootTime.ToExtendedISO8601() != "2024-05-01T13:00:00+02" {
		t.Errorf("boot time %v", i.BootTime)
	}
	if i.CollectedAt.Hour() != 14 || i.UTCOffset.OffsetMinutes() != 120 {
		t.Errorf("collected at %s offset %s", i.CollectedAt, i.UTCOffset)
	}
	if d, ok := i.Uptime.Duration(); !ok || d != time.Hour {
		t.Errorf("uptime %s", i.Uptime)
	}

	none := &Info{}
	if err := none.stamp(env, 0); err != nil || none.BootTime != nil {
		t.Errorf("unknown boot time: %v %v", err, none.BootTime)
	}
	if !none.CollectedAt.IsInitialized() {
		t.Error("collection time not set")
	}
}
