//go:build linux

package net

import (
	"runtime"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// ifReq is struct ifreq with the union holding a pointer to the ethtool
// command buffer.
type ifReq struct {
	ifName [unix.IFNAMSIZ]byte
	data   uintptr
	_      [16]byte
}

func (i *ifReq) SetName(name string) {
	copy(i.ifName[:], name)
	i.ifName[unix.IFNAMSIZ-1] = 0
}

func (i *ifReq) ioctl(fd int, cmd uint32, buf []byte) error {
	endian.PutUint32(buf[:4], cmd)
	i.data = uintptr(unsafe.Pointer(&buf[0]))
	_, _, errCode := unix.Syscall(
		unix.SYS_IOCTL,
		uintptr(fd),
		unix.SIOCETHTOOL,
		uintptr(unsafe.Pointer(i)))
	runtime.KeepAlive(buf)
	if errCode != 0 {
		return errCode
	}
	return nil
}

func (i *Interface) fillEthtool() error {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_DGRAM, unix.IPPROTO_IP)
	if err != nil {
		return errors.Wrap(err, "open ethtool socket")
	}
	defer unix.Close(fd)

	if drv, err := unix.IoctlGetEthtoolDrvinfo(fd, i.Name); err == nil {
		if i.Driver == "" {
			i.Driver = unix.ByteSliceToString(drv.Driver[:])
		}
		i.DriverVersion = unix.ByteSliceToString(drv.Version[:])
		i.FirmwareVersion = unix.ByteSliceToString(drv.Fw_version[:])
	}

	// First, try GLINKSETTINGS
	buf := make([]byte, 4096)
	req := &ifReq{}
	req.SetName(i.Name)
	err = req.ioctl(fd, CMD_GLINKSETTINGS, buf)
	if err == nil {
		// We support GLINKSETTINGS, figure out how much space is needed for
		// additional bits and get the real data.
		additionalSize := int8(buf[15])
		if additionalSize < 0 {
			additionalSize = -additionalSize
			buf[15] = byte(additionalSize)
		}
		if err := req.ioctl(fd, CMD_GLINKSETTINGS, buf); err != nil {
			return errors.Wrapf(err, "%s: GLINKSETTINGS", i.Name)
		}
		return i.fillGlink(buf)
	}
	if err := req.ioctl(fd, CMD_GSET, buf); err != nil {
		return errors.Wrapf(err, "%s: GSET", i.Name)
	}
	return i.fillGset(buf)
}
