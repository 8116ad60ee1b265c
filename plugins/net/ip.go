package net

import (
	"context"
	"encoding/binary"
	"fmt"
	"net"

	"github.com/op/go-logging"
	"github.com/pkg/errors"

	"github.com/rackn/gopal/plugins"
)

var log = logging.MustGetLogger("net")

const (
	CMD_GSET           = 1
	CMD_GLINKSETTINGS  = 0x4c
	GSET_SIZE          = 44
	GLINKSETTINGS_SIZE = 48
)

var endian = binary.NativeEndian

type ModeBit struct {
	Name, Phy       string
	Feature, Duplex bool
}

func (m ModeBit) String() string {
	if m.Feature {
		return m.Name
	}
	res := fmt.Sprintf("%s base %s", m.Name, m.Phy)
	if m.Duplex {
		return res + " Full"
	}
	return res + " Half"
}

var modeBits = [][8]ModeBit{
	{
		{"10", "T", false, false},
		{"10", "T", false, true},
		{"100", "T", false, false},
		{"100", "T", false, true},
		{"1000", "T", false, false},
		{"1000", "T", false, true},
		{"Autoneg", "", true, false},
		{"TP", "", true, false},
	},
	{
		{"AUI", "", true, false},
		{"MII", "", true, false},
		{"FIBRE", "", true, false},
		{"BNC", "", true, false},
		{"10000", "T", false, true},
		{"Pause", "", true, false},
		{"Asym_Pause", "", true, false},
		{"2500", "X", false, true},
	},
	{
		{"Backplane", "", true, false},
		{"1000", "KX", false, true},
		{"10000", "KX4", false, true},
		{"10000", "KR", false, true},
		{"10000", "R_FEC", false, true},
		{"20000", "MLD2", false, true},
		{"20000", "KR2", false, true},
		{"40000", "KR4", false, true},
	}, {
		{"40000", "CR4", false, true},
		{"40000", "SR4", false, true},
		{"40000", "LR4", false, true},
		{"56000", "KR4", false, true},
		{"56000", "CR4", false, true},
		{"56000", "SR4", false, true},
		{"56000", "LR4", false, true},
		{"25000", "CR", false, true},
	}, {
		{"25000", "KR", false, true},
		{"25000", "SR", false, true},
		{"50000", "CR2", false, true},
		{"50000", "KR2", false, true},
		{"100000", "KR4", false, true},
		{"100000", "SR4", false, true},
		{"100000", "CR4", false, true},
		{"100000", "LR4_ER4", false, true},
	}, {
		{"50000", "SR2", false, true},
		{"1000", "X", false, true},
		{"10000", "CR", false, true},
		{"10000", "SR", false, true},
		{"10000", "LR", false, true},
		{"10000", "LRM", false, true},
		{"10000", "ER", false, true},
		{"2500", "T", false, true},
	}, {
		{"5000", "T", false, true},
	},
}

type Flags net.Flags

func (f Flags) String() string {
	return net.Flags(f).String()
}

func (f Flags) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

type HardwareAddr net.HardwareAddr

func (h HardwareAddr) String() string {
	return net.HardwareAddr(h).String()
}

func (h HardwareAddr) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// Sys is what sysfs and procfs say about an interface.
type Sys struct {
	BusAddress string
	IfIndex    int64
	IfLink     int64
	OperState  string
	Type       string
	IsPhysical bool
	IsBridge   bool
	IsBond     bool
	IsVlan     bool
	Bridge     struct {
		Master  string
		Members []string
	}
	Bond struct {
		Master    string
		Mode      string
		LinkState string
		Members   []string
	}
	VLAN struct {
		Id     int64
		Master string
	}
}

type Interface struct {
	Name            string
	StableName      string
	OrdinalName     string
	Model           string
	Vendor          string
	Driver          string
	DriverVersion   string
	FirmwareVersion string
	Path            string
	MTU             int
	Flags           Flags
	HardwareAddr    HardwareAddr
	Addrs           []string
	Sys             Sys
	Supported       []ModeBit
	Advertised      []ModeBit
	PeerAdvertised  []ModeBit
	Speed           uint32
	Duplex          bool
	Autonegotiation bool
}

func toModeBits(buf []byte) []ModeBit {
	res := []ModeBit{}
	log.Debugf("modebuf: %v", buf)
	for segment, bits := range buf {
		if segment >= len(modeBits) {
			break
		}
		for i, modeBit := range modeBits[segment] {
			if modeBit.Name == "" {
				break
			}
			if bits&(1<<uint(i)) > 0 {
				res = append(res, modeBit)
			}
		}
	}
	return res
}

/* buf layout for GSET:
0..3: cmd
4..7: supported features
8..11: advertised features
12..13: low bits of speed
14: duplex
15: port in use
16: MDIO phy address
17: transceiver to use
18: autonegotiation
19: MDIO support
20..23: max tx packets before an interrupt
24..27: max rx packets before an interrupt
28..29: high bits of speed
30: tp mdix
31: reserved
32..35: partner advertised features
36..43: reserved
*/
func (i *Interface) fillGset(buf []byte) error {
	if len(buf) < GSET_SIZE {
		return errors.Errorf("%s: short GSET reply of %d bytes", i.Name, len(buf))
	}
	speedLo := endian.Uint16(buf[12:14])
	speedHi := endian.Uint16(buf[28:30])
	i.Speed = (uint32(speedHi) << 16) + uint32(speedLo)
	i.Duplex = buf[14] != 0
	i.Autonegotiation = buf[18] != 0
	i.Supported = toModeBits(buf[4:8])
	i.Advertised = toModeBits(buf[8:12])
	i.PeerAdvertised = toModeBits(buf[32:36])
	return nil
}

/* buf layout for GLINKSETTINGS:
0..3: cmd
4..7: speed
8: duplex
9: port
10: phy address
11: autonegotiation
12: MDIO support
13: eth tp mdix
14: eth tp mdix control
15: number of 32 bit words to be used for the
    supported features, advertised features, and peer advertised features bits
16..47
48: supported features, advertized features, peer advertised features
*/
func (i *Interface) fillGlink(buf []byte) error {
	if len(buf) < GLINKSETTINGS_SIZE {
		return errors.Errorf("%s: short GLINKSETTINGS reply of %d bytes", i.Name, len(buf))
	}
	b := int(buf[15]) << 2
	s := GLINKSETTINGS_SIZE
	a := s + b
	p := a + b
	if len(buf) < p+b {
		return errors.Errorf("%s: GLINKSETTINGS reply of %d bytes is shorter than %d", i.Name, len(buf), p+b)
	}
	i.Speed = endian.Uint32(buf[4:8])
	i.Duplex = buf[8] != 0
	i.Autonegotiation = buf[11] != 0
	log.Debugf("buflen: %v, modelen: %v, s: %d, a: %d, p: %d", len(buf), buf[15], s, a, p)
	i.Supported = toModeBits(buf[s : s+b])
	i.Advertised = toModeBits(buf[a : a+b])
	i.PeerAdvertised = toModeBits(buf[p : p+b])
	return nil
}

// Fill adds what sysfs, udev and ethtool know about the interface. Each
// source is optional; failures are logged and the rest still run.
func (i *Interface) Fill(ctx context.Context, env *plugins.Env) {
	if err := i.fillSys(env.SysRoot, env.ProcRoot); err != nil {
		log.Debugf("%s: sysfs: %v", i.Name, err)
	}
	if err := i.fillUdev(ctx); err != nil {
		log.Debugf("%s: udev: %v", i.Name, err)
	}
	if err := i.fillEthtool(); err != nil {
		log.Debugf("%s: ethtool: %v", i.Name, err)
	}
}

type Info struct {
	Interfaces []Interface
}

func (i *Info) Class() string {
	return "Networking"
}

func Gather(ctx context.Context, env *plugins.Env) (*Info, error) {
	res := &Info{}
	baseifs, err := net.Interfaces()
	if err != nil {
		return nil, errors.Wrap(err, "list interfaces")
	}
	res.Interfaces = make([]Interface, len(baseifs))
	for i, intf := range baseifs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		iface := Interface{
			Name:           intf.Name,
			HardwareAddr:   HardwareAddr(intf.HardwareAddr),
			MTU:            intf.MTU,
			Flags:          Flags(intf.Flags),
			Addrs:          []string{},
			Supported:      []ModeBit{},
			Advertised:     []ModeBit{},
			PeerAdvertised: []ModeBit{},
		}
		if addrs, err := intf.Addrs(); err == nil {
			for _, a := range addrs {
				iface.Addrs = append(iface.Addrs, a.String())
			}
		}
		iface.Fill(ctx, env)
		res.Interfaces[i] = iface
	}
	return res, nil
}
