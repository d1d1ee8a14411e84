//go:build !linux

package i2c

import "fmt"

func openDevfs(path string, addr uint16) (Conn, error) {
	return nil, fmt.Errorf("i2c: devfs backend unsupported on this OS (need linux)")
}
