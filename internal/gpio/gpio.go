// Package gpio drives the single digital output line used as the PWM
// controller's output-enable (OE) pin.
package gpio

import (
	"fmt"
	"strconv"
	"strings"
)

// Level is the logical value driven on a line: 0 (low) or 1 (high).
type Level int

const (
	Low  Level = 0
	High Level = 1
)

// Config describes the output-enable line.
type Config struct {
	Enable bool

	// Chip is the character device, e.g. /dev/gpiochip0. When empty and Line
	// is a name, all /dev/gpiochip* devices are searched.
	Chip string
	// Line is either a line name (e.g. "PG11") or a numeric offset on Chip.
	Line string
	// Level is the value that enables the PWM outputs. The PCA9685 OE pin is
	// active low, so this is normally Low.
	Level Level
}

// Line is a requested output line, held at its level until Close.
type Line interface {
	Close() error
}

// Validate reports configuration errors without touching hardware.
func (c Config) Validate() error {
	if !c.Enable {
		return nil
	}
	if strings.TrimSpace(c.Line) == "" {
		return fmt.Errorf("gpio: output enable line is required")
	}
	if c.Level != Low && c.Level != High {
		return fmt.Errorf("gpio: invalid level %d", c.Level)
	}
	return nil
}

// offset returns the numeric line offset if Line is a number.
func (c Config) offset() (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(c.Line))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
