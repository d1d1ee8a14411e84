package i2c

import (
	"fmt"
	"strings"
	"sync"

	pi2c "periph.io/x/periph/conn/i2c"
	"periph.io/x/periph/conn/i2c/i2creg"
	"periph.io/x/periph/host"
)

var periphInit struct {
	once sync.Once
	err  error
}

type periphConn struct {
	bus pi2c.BusCloser
	dev *pi2c.Dev
}

// periphBusName turns /dev/i2c-N into N, which i2creg resolves by bus number.
func periphBusName(bus string) string {
	return strings.TrimPrefix(strings.TrimSpace(bus), "/dev/i2c-")
}

func openPeriph(bus string, addr uint16) (Conn, error) {
	periphInit.once.Do(func() {
		_, periphInit.err = host.Init()
	})
	if periphInit.err != nil {
		return nil, fmt.Errorf("i2c: periph host init: %w", periphInit.err)
	}
	b, err := i2creg.Open(periphBusName(bus))
	if err != nil {
		return nil, fmt.Errorf("i2c: periph open %q: %w", bus, err)
	}
	return &periphConn{bus: b, dev: &pi2c.Dev{Addr: addr, Bus: b}}, nil
}

func (p *periphConn) ReadRegU8(reg byte) (byte, error) {
	var b [1]byte
	if err := p.dev.Tx([]byte{reg}, b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (p *periphConn) WriteReg(reg, value byte) error {
	return p.dev.Tx([]byte{reg, value}, nil)
}

func (p *periphConn) Close() error {
	if p == nil || p.bus == nil {
		return nil
	}
	err := p.bus.Close()
	p.bus = nil
	return err
}
