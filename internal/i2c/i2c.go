// Package i2c provides register-level access to a single I2C device.
//
// Three backends are available: the kernel devfs interface (/dev/i2c-N),
// periph.io and golang.org/x/exp/io/i2c. All of them expose the same
// byte-register Conn so drivers do not care which one is in use.
package i2c

import (
	"fmt"
	"strings"
)

// Backend selects the library used to talk to the bus.
type Backend string

const (
	BackendDevfs  Backend = "devfs"
	BackendPeriph Backend = "periph"
	BackendExp    Backend = "exp"
)

// Backends lists the accepted backend names.
var Backends = []Backend{BackendDevfs, BackendPeriph, BackendExp}

// Conn is a connection to one device at a fixed 7-bit address.
//
// A Conn is not safe for concurrent use.
type Conn interface {
	ReadRegU8(reg byte) (byte, error)
	WriteReg(reg, value byte) error
	Close() error
}

var (
	openDevfsFn  = openDevfs
	openPeriphFn = openPeriph
	openExpFn    = openExp
)

// ParseBackend maps a config string to a Backend. Empty means devfs.
func ParseBackend(s string) (Backend, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return BackendDevfs, nil
	}
	for _, b := range Backends {
		if string(b) == s {
			return b, nil
		}
	}
	return "", fmt.Errorf("i2c: unknown backend %q", s)
}

// Open connects to the device at addr on the given bus.
//
// bus is a device node such as /dev/i2c-0. The periph backend also accepts
// a bare bus number or a periph bus name.
func Open(backend Backend, bus string, addr uint16) (Conn, error) {
	if err := validAddr(addr); err != nil {
		return nil, err
	}
	switch backend {
	case BackendDevfs, "":
		return openDevfsFn(bus, addr)
	case BackendPeriph:
		return openPeriphFn(bus, addr)
	case BackendExp:
		return openExpFn(bus, addr)
	default:
		return nil, fmt.Errorf("i2c: unknown backend %q", backend)
	}
}

func validAddr(addr uint16) error {
	if addr == 0 || addr > 0x7F {
		return fmt.Errorf("invalid i2c addr 0x%X", addr)
	}
	return nil
}
