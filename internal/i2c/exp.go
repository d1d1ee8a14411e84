package i2c

import (
	"fmt"

	xi2c "golang.org/x/exp/io/i2c"
)

type expConn struct {
	dev *xi2c.Device
}

func openExp(bus string, addr uint16) (Conn, error) {
	dev, err := xi2c.Open(&xi2c.Devfs{Dev: bus}, int(addr))
	if err != nil {
		return nil, fmt.Errorf("i2c: exp open %q: %w", bus, err)
	}
	return &expConn{dev: dev}, nil
}

func (e *expConn) ReadRegU8(reg byte) (byte, error) {
	var b [1]byte
	if err := e.dev.ReadReg(reg, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (e *expConn) WriteReg(reg, value byte) error {
	return e.dev.WriteReg(reg, []byte{value})
}

func (e *expConn) Close() error {
	if e == nil || e.dev == nil {
		return nil
	}
	err := e.dev.Close()
	e.dev = nil
	return err
}
