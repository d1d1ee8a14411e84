//go:build linux

package i2c

import (
	"fmt"
	"os"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/unix"
)

// devfs talks to /dev/i2c-* directly.
//
// Register reads use I2C_RDWR so the register pointer write and the data
// read happen as one combined transfer (repeated start).

const (
	i2cMrd  = 0x0001
	i2cRdwr = 0x0707
)

type msg struct {
	addr  uint16
	flags uint16
	len   uint16
	buf   uintptr
}

type rdwrData struct {
	msgs  uintptr
	nmsgs uint32
}

type devfs struct {
	f    *os.File
	path string
	addr uint16
}

func openDevfs(path string, addr uint16) (Conn, error) {
	path = filepath.Clean(path)
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}
	return &devfs{f: f, path: path, addr: addr}, nil
}

func (d *devfs) Close() error {
	if d == nil || d.f == nil {
		return nil
	}
	err := d.f.Close()
	d.f = nil
	return err
}

func (d *devfs) ReadRegU8(reg byte) (byte, error) {
	var b [1]byte
	if _, err := d.tx([]byte{reg}, b[:]); err != nil {
		return 0, fmt.Errorf("i2c %s: %w", d.path, err)
	}
	return b[0], nil
}

func (d *devfs) WriteReg(reg, value byte) error {
	if _, err := d.tx([]byte{reg, value}, nil); err != nil {
		return fmt.Errorf("i2c %s: %w", d.path, err)
	}
	return nil
}

func (d *devfs) tx(w, r []byte) (int, error) {
	if d.f == nil {
		return 0, fmt.Errorf("device is closed")
	}
	if err := validAddr(d.addr); err != nil {
		return 0, err
	}

	msgs := make([]msg, 0, 2)
	if len(w) > 0 {
		msgs = append(msgs, msg{addr: d.addr, flags: 0, len: uint16(len(w)), buf: uintptr(unsafe.Pointer(&w[0]))})
	}
	if len(r) > 0 {
		msgs = append(msgs, msg{addr: d.addr, flags: i2cMrd, len: uint16(len(r)), buf: uintptr(unsafe.Pointer(&r[0]))})
	}
	if len(msgs) == 0 {
		return 0, nil
	}

	data := rdwrData{msgs: uintptr(unsafe.Pointer(&msgs[0])), nmsgs: uint32(len(msgs))}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, d.f.Fd(), uintptr(i2cRdwr), uintptr(unsafe.Pointer(&data)))
	if errno != 0 {
		return 0, errno
	}
	if len(r) > 0 {
		return len(r), nil
	}
	return len(w), nil
}
