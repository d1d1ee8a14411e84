package config

import (
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Log LogConfig `yaml:"log"`
	PWM PWMConfig `yaml:"pwm"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type PWMConfig struct {
	Bus         string  `yaml:"bus"`
	Addr        uint16  `yaml:"addr"`
	Backend     string  `yaml:"backend"`
	FrequencyHz float64 `yaml:"frequency_hz"`

	OutputEnable OutputEnableConfig `yaml:"output_enable"`
	Channels     []ChannelConfig    `yaml:"channels"`
}

// OutputEnableConfig describes the GPIO wired to the chip's OE pin.
type OutputEnableConfig struct {
	Enable bool   `yaml:"enable"`
	Chip   string `yaml:"chip"`
	// Line is a line name or a numeric offset on Chip.
	Line string `yaml:"line"`
	// Level enables the outputs; OE is active low.
	Level int `yaml:"level"`
}

// ChannelConfig is an initial on/off tick pair applied at startup.
type ChannelConfig struct {
	Channel int `yaml:"channel"`
	On      int `yaml:"on"`
	Off     int `yaml:"off"`
}

const (
	maxChannel = 15
	maxTick    = 4095
)

var backends = []string{"devfs", "periph", "exp"}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	cfg := preset()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.applyDefaults(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default is the configuration used when no file is given.
func Default() Config {
	cfg := preset()
	_ = cfg.applyDefaults()
	return cfg
}

// preset holds defaults that a zero value cannot express. YAML decoding
// only overwrites keys present in the file, so `enable: false` still opts
// out of driving the OE line.
func preset() Config {
	return Config{
		PWM: PWMConfig{
			OutputEnable: OutputEnableConfig{Enable: true, Line: "PG11", Level: 0},
		},
	}
}

func (cfg *Config) applyDefaults() error {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	p := &cfg.PWM
	if p.Bus == "" {
		p.Bus = "/dev/i2c-0"
	}
	if p.Addr == 0 {
		p.Addr = 0x40
	}
	if p.Addr > 0x7F {
		return fmt.Errorf("pwm.addr must be a 7-bit address (got 0x%X)", p.Addr)
	}
	p.Backend = strings.ToLower(strings.TrimSpace(p.Backend))
	if p.Backend == "" {
		p.Backend = "devfs"
	}
	if !contains(backends, p.Backend) {
		return fmt.Errorf("pwm.backend must be one of %s", strings.Join(backends, ", "))
	}
	if p.FrequencyHz == 0 {
		p.FrequencyHz = 50
	}
	if !(p.FrequencyHz > 0) || math.IsInf(p.FrequencyHz, 0) {
		return fmt.Errorf("pwm.frequency_hz must be > 0")
	}

	if p.OutputEnable.Enable {
		if strings.TrimSpace(p.OutputEnable.Line) == "" {
			return fmt.Errorf("pwm.output_enable.line is required when pwm.output_enable.enable is true")
		}
		if p.OutputEnable.Level != 0 && p.OutputEnable.Level != 1 {
			return fmt.Errorf("pwm.output_enable.level must be 0 or 1")
		}
	}

	seen := make(map[int]bool, len(p.Channels))
	for i, ch := range p.Channels {
		if ch.Channel < 0 || ch.Channel > maxChannel {
			return fmt.Errorf("pwm.channels[%d].channel must be in 0..%d", i, maxChannel)
		}
		if seen[ch.Channel] {
			return fmt.Errorf("pwm.channels[%d].channel %d is duplicated", i, ch.Channel)
		}
		seen[ch.Channel] = true
		if ch.On < 0 || ch.On > maxTick {
			return fmt.Errorf("pwm.channels[%d].on must be in 0..%d", i, maxTick)
		}
		if ch.Off < 0 || ch.Off > maxTick {
			return fmt.Errorf("pwm.channels[%d].off must be in 0..%d", i, maxTick)
		}
	}
	return nil
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
