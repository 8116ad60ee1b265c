package net

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func modeNames(bits []ModeBit) []string {
	res := []string{}
	for _, b := range bits {
		res = append(res, b.String())
	}
	return res
}

func TestModeBitString(t *testing.T) {
	tests := []struct {
		bit  ModeBit
		want string
	}{
		{ModeBit{"1000", "T", false, true}, "1000 base T Full"},
		{ModeBit{"10", "T", false, false}, "10 base T Half"},
		{ModeBit{"Autoneg", "", true, false}, "Autoneg"},
	}
	for _, tt := range tests {
		if got := tt.bit.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestToModeBits(t *testing.T) {
	got := modeNames(toModeBits([]byte{0x2f, 0, 0, 0, 0, 0, 1, 0xff}))
	want := []string{
		"10 base T Half",
		"10 base T Full",
		"100 base T Half",
		"100 base T Full",
		"1000 base T Full",
		"5000 base T Full",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("toModeBits = %v, want %v", got, want)
	}
	if got := toModeBits(nil); len(got) != 0 {
		t.Errorf("empty buffer gave %v", got)
	}
}

func TestFillGset(t *testing.T) {
	buf := make([]byte, GSET_SIZE)
	endian.PutUint32(buf[:4], CMD_GSET)
	buf[4] = 0x2f
	buf[8] = 0x20
	endian.PutUint16(buf[12:14], 1000)
	buf[14] = 1
	buf[18] = 1
	buf[32] = 0x20
	i := &Interface{Name: "eth0"}
	if err := i.fillGset(buf); err != nil {
		t.Fatal(err)
	}
	if i.Speed != 1000 || !i.Duplex || !i.Autonegotiation {
		t.Errorf("speed %d duplex %v autoneg %v", i.Speed, i.Duplex, i.Autonegotiation)
	}
	if len(i.Supported) != 5 {
		t.Errorf("supported = %v", modeNames(i.Supported))
	}
	if got := modeNames(i.Advertised); !reflect.DeepEqual(got, []string{"1000 base T Full"}) {
		t.Errorf("advertised = %v", got)
	}
	if got := modeNames(i.PeerAdvertised); !reflect.DeepEqual(got, []string{"1000 base T Full"}) {
		t.Errorf("peer advertised = %v", got)
	}
	if err := i.fillGset(buf[:20]); err == nil {
		t.Error("short GSET reply accepted")
	}
}

func TestFillGlink(t *testing.T) {
	buf := make([]byte, GLINKSETTINGS_SIZE+12)
	endian.PutUint32(buf[4:8], 10000)
	buf[8] = 1
	buf[11] = 0
	buf[15] = 1
	buf[48] = 0x40
	buf[49] = 0x10
	buf[52] = 0x40
	i := &Interface{Name: "eth1"}
	if err := i.fillGlink(buf); err != nil {
		t.Fatal(err)
	}
	if i.Speed != 10000 || !i.Duplex || i.Autonegotiation {
		t.Errorf("speed %d duplex %v autoneg %v", i.Speed, i.Duplex, i.Autonegotiation)
	}
	if got := modeNames(i.Supported); !reflect.DeepEqual(got, []string{"Autoneg", "10000 base T Full"}) {
		t.Errorf("supported = %v", got)
	}
	if got := modeNames(i.Advertised); !reflect.DeepEqual(got, []string{"Autoneg"}) {
		t.Errorf("advertised = %v", got)
	}
	if len(i.PeerAdvertised) != 0 {
		t.Errorf("peer advertised = %v", modeNames(i.PeerAdvertised))
	}

	short := make([]byte, GLINKSETTINGS_SIZE+4)
	short[15] = 2
	if err := i.fillGlink(short); err == nil {
		t.Error("short GLINKSETTINGS reply accepted")
	}
	if err := i.fillGlink(short[:10]); err == nil {
		t.Error("truncated GLINKSETTINGS header accepted")
	}
}

func writeFile(t *testing.T, name, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(name, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func symlink(t *testing.T, target, name string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Symlink(target, name); err != nil {
		t.Fatal(err)
	}
}

// fakeSysfs lays out eth0 enslaved to bond0 and bridged into br0.
func fakeSysfs(t *testing.T) (sysRoot, procRoot string) {
	root := t.TempDir()
	sysRoot = filepath.Join(root, "sys")
	procRoot = filepath.Join(root, "proc")

	eth0 := filepath.Join(sysRoot, "devices/pci0000:00/0000:00:03.0/net/eth0")
	writeFile(t, filepath.Join(eth0, "ifindex"), "2\n")
	writeFile(t, filepath.Join(eth0, "iflink"), "2\n")
	writeFile(t, filepath.Join(eth0, "operstate"), "up\n")
	writeFile(t, filepath.Join(eth0, "type"), "1\n")
	writeFile(t, filepath.Join(eth0, "bonding_slave/state"), "active\n")
	symlink(t, "../../../../virtual/net/bond0", filepath.Join(eth0, "master"))
	symlink(t, "../../../../../virtual/net/br0", filepath.Join(eth0, "brport/bridge"))
	symlink(t, "../../devices/pci0000:00/0000:00:03.0/net/eth0", filepath.Join(sysRoot, "class/net/eth0"))

	br0 := filepath.Join(sysRoot, "devices/virtual/net/br0")
	writeFile(t, filepath.Join(br0, "ifindex"), "4\n")
	writeFile(t, filepath.Join(br0, "type"), "1\n")
	writeFile(t, filepath.Join(br0, "bridge/bridge_id"), "8000.525400123456\n")
	writeFile(t, filepath.Join(br0, "brif/eth0"), "")
	writeFile(t, filepath.Join(br0, "brif/eth1"), "")
	symlink(t, "../../devices/virtual/net/br0", filepath.Join(sysRoot, "class/net/br0"))

	bond0 := filepath.Join(sysRoot, "devices/virtual/net/bond0")
	writeFile(t, filepath.Join(bond0, "bonding/slaves"), "eth0 eth1\n")
	writeFile(t, filepath.Join(bond0, "bonding/mode"), "active-backup 1\n")
	writeFile(t, filepath.Join(bond0, "type"), "1\n")
	symlink(t, "../../devices/virtual/net/bond0", filepath.Join(sysRoot, "class/net/bond0"))

	lo := filepath.Join(sysRoot, "devices/virtual/net/lo")
	writeFile(t, filepath.Join(lo, "type"), "772\n")
	symlink(t, "../../devices/virtual/net/lo", filepath.Join(sysRoot, "class/net/lo"))

	writeFile(t, filepath.Join(procRoot, "net/vlan/config"), strings.Join([]string{
		"VLAN Dev name    | VLAN ID",
		"Name-Type: VLAN_NAME_TYPE_RAW_PLUS_VID_NO_PAD",
		"eth0.100       | 100  | eth0",
		"br0.7          | 7  | br0",
	}, "\n")+"\n")
	return sysRoot, procRoot
}

func TestFillSysPhysical(t *testing.T) {
	sysRoot, procRoot := fakeSysfs(t)
	i := &Interface{Name: "eth0"}
	if err := i.fillSys(sysRoot, procRoot); err != nil {
		t.Fatal(err)
	}
	s := i.Sys
	if s.BusAddress != "pci0000:00/0000:00:03.0" || !s.IsPhysical {
		t.Errorf("bus address %q physical %v", s.BusAddress, s.IsPhysical)
	}
	if s.IfIndex != 2 || s.IfLink != 2 || s.OperState != "up" || s.Type != "ether" {
		t.Errorf("attributes %+v", s)
	}
	if !s.IsBridge || s.Bridge.Master != "br0" {
		t.Errorf("bridge port: %v %q", s.IsBridge, s.Bridge.Master)
	}
	if !s.IsBond || s.Bond.Master != "bond0" || s.Bond.LinkState != "active" {
		t.Errorf("bond slave: %+v", s.Bond)
	}
	if s.IsVlan {
		t.Error("eth0 marked as a VLAN")
	}
}

func TestFillSysVirtual(t *testing.T) {
	sysRoot, procRoot := fakeSysfs(t)

	br := &Interface{Name: "br0"}
	if err := br.fillSys(sysRoot, procRoot); err != nil {
		t.Fatal(err)
	}
	if br.Sys.IsPhysical || !br.Sys.IsBridge {
		t.Errorf("br0 physical %v bridge %v", br.Sys.IsPhysical, br.Sys.IsBridge)
	}
	if !reflect.DeepEqual(br.Sys.Bridge.Members, []string{"eth0", "eth1"}) {
		t.Errorf("bridge members %v", br.Sys.Bridge.Members)
	}
	// br0.7 is a VLAN on top of br0, not br0 itself
	if br.Sys.IsVlan {
		t.Errorf("br0 marked as a VLAN: %+v", br.Sys.VLAN)
	}

	bond := &Interface{Name: "bond0"}
	if err := bond.fillSys(sysRoot, procRoot); err != nil {
		t.Fatal(err)
	}
	if !bond.Sys.IsBond || bond.Sys.Bond.Mode != "active-backup" {
		t.Errorf("bond %+v", bond.Sys.Bond)
	}
	if !reflect.DeepEqual(bond.Sys.Bond.Members, []string{"eth0", "eth1"}) {
		t.Errorf("bond members %v", bond.Sys.Bond.Members)
	}

	lo := &Interface{Name: "lo"}
	if err := lo.fillSys(sysRoot, procRoot); err != nil {
		t.Fatal(err)
	}
	if lo.Sys.Type != "loopback" || lo.Sys.IsBridge || lo.Sys.IsBond {
		t.Errorf("lo %+v", lo.Sys)
	}

	missing := &Interface{Name: "wlan9"}
	if err := missing.fillSys(sysRoot, procRoot); !os.IsNotExist(err) {
		t.Errorf("missing interface: %v", err)
	}
}

func TestFillVlan(t *testing.T) {
	_, procRoot := fakeSysfs(t)
	i := &Interface{Name: "eth0.100"}
	if err := i.fillVlan(procRoot); err != nil {
		t.Fatal(err)
	}
	if !i.Sys.IsVlan || i.Sys.VLAN.Id != 100 || i.Sys.VLAN.Master != "eth0" {
		t.Errorf("vlan %+v", i.Sys.VLAN)
	}
	// no 8021q module loaded
	none := &Interface{Name: "eth0.100"}
	if err := none.fillVlan(t.TempDir()); err != nil || none.Sys.IsVlan {
		t.Errorf("without a vlan table: %v %v", err, none.Sys.IsVlan)
	}
}

const udevSlot = `P: /devices/pci0000:00/0000:00:03.0/net/eth0
E: ID_BUS=pci
E: ID_NET_NAME_PATH=enp0s3
E: ID_NET_NAME_SLOT=ens3
E: ID_MODEL_FROM_DATABASE=82540EM Gigabit Ethernet Controller
E: ID_VENDOR_FROM_DATABASE=Intel Corporation
E: ID_NET_DRIVER=e1000
E: ID_PATH=pci-0000:00:03.0
`

const udevOnboard = `E: ID_NET_NAME_PATH=enp2s0f0
E: ID_NET_NAME_ONBOARD=eno1
E: ID_BUS=pci
E: ID_NET_DRIVER=ixgbe
`

func TestParseUdev(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		stable  string
		ordinal string
	}{
		{"slot", udevSlot, "ens3", "pci"},
		{"onboard", udevOnboard, "eno1", "onboard"},
	}
	for _, tt := range tests {
		i := &Interface{Name: "eth0"}
		i.Sys.IsPhysical = true
		if err := i.parseUdev(strings.NewReader(tt.in)); err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if i.StableName != tt.stable || i.OrdinalName != tt.ordinal {
			t.Errorf("%s: stable %q ordinal %q, want %q %q", tt.name, i.StableName, i.OrdinalName, tt.stable, tt.ordinal)
		}
	}

	i := &Interface{Name: "eth0"}
	i.Sys.IsPhysical = true
	if err := i.parseUdev(strings.NewReader(udevSlot)); err != nil {
		t.Fatal(err)
	}
	if i.Driver != "e1000" || i.Vendor != "Intel Corporation" || i.Path != "pci-0000:00:03.0" || !strings.HasPrefix(i.Model, "82540EM") {
		t.Errorf("udev properties %+v", i)
	}
}

func TestFlagsText(t *testing.T) {
	b, err := HardwareAddr{0x52, 0x54, 0, 0x12, 0x34, 0x56}.MarshalText()
	if err != nil || string(b) != "52:54:00:12:34:56" {
		t.Errorf("hardware address %q %v", b, err)
	}
	if (&Info{}).Class() != "Networking" {
		t.Error("class")
	}
}
