//go:build linux

package gpio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/warthog618/go-gpiocdev"
)

const consumer = "pca9685-oe"

var devDir = "/dev"

// Open requests the configured line as an output already driven to
// cfg.Level, using the Linux GPIO character device.
//
// The line stays requested, and therefore held at its level, until Close.
func Open(cfg Config) (Line, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !cfg.Enable {
		return nil, fmt.Errorf("gpio: output enable line disabled")
	}

	if offset, ok := cfg.offset(); ok {
		chipPath := cfg.Chip
		if chipPath == "" {
			chipPath = filepath.Join(devDir, "gpiochip0")
		}
		chip, err := gpiocdev.NewChip(chipPath)
		if err != nil {
			return nil, fmt.Errorf("gpio: open %s: %w", chipPath, err)
		}
		line, err := chip.RequestLine(offset, gpiocdev.AsOutput(int(cfg.Level)), gpiocdev.WithConsumer(consumer))
		if err != nil {
			_ = chip.Close()
			return nil, fmt.Errorf("gpio: request %s line %d: %w", chipPath, offset, err)
		}
		return &cdevLine{chip: chip, line: line}, nil
	}

	for _, chipPath := range chipCandidates(cfg.Chip) {
		chip, err := gpiocdev.NewChip(chipPath)
		if err != nil {
			continue
		}
		offset, err := chip.FindLine(cfg.Line)
		if err != nil {
			_ = chip.Close()
			continue
		}
		line, err := chip.RequestLine(offset, gpiocdev.AsOutput(int(cfg.Level)), gpiocdev.WithConsumer(consumer))
		if err != nil {
			_ = chip.Close()
			continue
		}
		return &cdevLine{chip: chip, line: line}, nil
	}

	return nil, fmt.Errorf("gpio: line %q not found (or busy)", cfg.Line)
}

func chipCandidates(chip string) []string {
	if chip != "" {
		return []string{chip}
	}
	var out []string
	entries, _ := os.ReadDir(devDir)
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "gpiochip") {
			out = append(out, filepath.Join(devDir, e.Name()))
		}
	}
	return out
}

type cdevLine struct {
	chip *gpiocdev.Chip
	line *gpiocdev.Line
}

// Close releases the line; the kernel then returns it to its default state.
func (g *cdevLine) Close() error {
	if g == nil || g.line == nil {
		return nil
	}
	err := g.line.Close()
	g.line = nil
	if g.chip != nil {
		_ = g.chip.Close()
		g.chip = nil
	}
	return err
}
