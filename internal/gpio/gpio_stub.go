//go:build !linux

package gpio

import "fmt"

// Open is unavailable without the Linux GPIO character device.
func Open(cfg Config) (Line, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("gpio: unsupported on this platform")
}
