package net

import (
	"bufio"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
)

// arpHW names the ARPHRD_* link types found in /sys/class/net/*/type.
var arpHW = map[int64]string{
	1:     "ether",
	6:     "ieee802",
	19:    "atm",
	24:    "ieee1394",
	32:    "infiniband",
	512:   "ppp",
	768:   "tunnel",
	769:   "tunnel6",
	772:   "loopback",
	776:   "sit",
	778:   "ipgre",
	801:   "ieee80211",
	803:   "ieee80211_radiotap",
	823:   "ip6gre",
	824:   "netlink",
	65534: "none",
}

// sysfs reads the attributes of one interface under a sysfs root.
type sysfs struct {
	root, name string
}

func (s sysfs) path(p string) string {
	return path.Join(s.root, "class/net", s.name, p)
}

func (s sysfs) String(p string) string {
	buf, err := os.ReadFile(s.path(p))
	if err == nil {
		return strings.TrimSpace(string(buf))
	}
	return ""
}

func (s sysfs) Int(p string) int64 {
	res, _ := strconv.ParseInt(s.String(p), 0, 64)
	return res
}

func (s sysfs) Dir(p string) []string {
	res := []string{}
	f, err := os.Open(s.path(p))
	if err != nil {
		return res
	}
	defer f.Close()
	ents, err := f.Readdirnames(0)
	if err != nil {
		return res
	}
	for _, ent := range ents {
		if ent == "." || ent == ".." {
			continue
		}
		res = append(res, ent)
	}
	sort.Strings(res)
	return res
}

func (s sysfs) Link(p string) string {
	l, _ := os.Readlink(s.path(p))
	return l
}

func (i *Interface) fillSys(sysRoot, procRoot string) error {
	sys := sysfs{root: sysRoot, name: i.Name}
	link := sys.Link("")
	if link == "" {
		return os.ErrNotExist
	}
	link = strings.TrimPrefix(link, "../../devices/")
	i.Sys.BusAddress = strings.TrimSuffix(link, "/net/"+i.Name)
	i.Sys.IsPhysical = !strings.HasPrefix(i.Sys.BusAddress, "virtual")
	i.Sys.IfIndex = sys.Int("ifindex")
	i.Sys.IfLink = sys.Int("iflink")
	i.Sys.OperState = sys.String("operstate")
	i.Sys.Type = arpHW[sys.Int("type")]
	i.Sys.Bridge.Members = []string{}
	i.Sys.Bond.Members = []string{}
	if dp := sys.Dir("brport"); len(dp) > 0 {
		i.Sys.IsBridge = true
		i.Sys.Bridge.Master = path.Base(sys.Link("brport/bridge"))
	}
	if sys.String("bridge/bridge_id") != "" {
		i.Sys.IsBridge = true
	}
	if dp := sys.Dir("brif"); len(dp) > 0 {
		i.Sys.Bridge.Members = dp
	}
	if sl := sys.String("bonding/slaves"); sl != "" {
		i.Sys.IsBond = true
		i.Sys.Bond.Members = strings.Fields(sl)
	}
	if sm := sys.String("bonding/mode"); sm != "" {
		i.Sys.IsBond = true
		i.Sys.Bond.Mode = strings.Fields(sm)[0]
	}
	if dp := sys.String("bonding_slave/state"); dp != "" {
		i.Sys.IsBond = true
		i.Sys.Bond.LinkState = dp
		i.Sys.Bond.Master = path.Base(sys.Link("master"))
	}
	return i.fillVlan(procRoot)
}

// fillVlan looks the interface up in the 8021q table.
func (i *Interface) fillVlan(procRoot string) error {
	vlan, err := os.Open(path.Join(procRoot, "net/vlan/config"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer vlan.Close()
	sc := bufio.NewScanner(vlan)
	for sc.Scan() {
		parts := strings.Split(sc.Text(), "|")
		if len(parts) != 3 || strings.TrimSpace(parts[0]) != i.Name {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 0, 64)
		if err != nil {
			continue
		}
		i.Sys.IsVlan = true
		i.Sys.VLAN.Id = id
		i.Sys.VLAN.Master = strings.TrimSpace(parts[2])
		break
	}
	return sc.Err()
}
