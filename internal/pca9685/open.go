package pca9685

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/chenxiqiyuan/Underwater-Vehicle-NanoPi/internal/gpio"
	"github.com/chenxiqiyuan/Underwater-Vehicle-NanoPi/internal/i2c"
	"github.com/chenxiqiyuan/Underwater-Vehicle-NanoPi/internal/logging"
)

const (
	DefaultBus = "/dev/i2c-0"
	// DefaultOELine is the NanoPi header pin (GPIOG11) wired to OE.
	DefaultOELine = "PG11"
)

// ErrDeviceOpen is returned when the I2C connection cannot be established.
var ErrDeviceOpen = errors.New("pca9685: device open failed")

var (
	openBusFn = i2c.Open
	openOEFn  = gpio.Open
)

type Config struct {
	Bus     string
	Addr    uint16
	Backend i2c.Backend

	OutputEnable gpio.Config
}

// DefaultConfig is the board wiring: /dev/i2c-0 at 0x40 with OE on PG11
// driven low. Set OutputEnable.Enable to false when OE is hard-wired.
func DefaultConfig() Config {
	return Config{
		Bus:     DefaultBus,
		Addr:    DefaultAddr,
		Backend: i2c.BackendDevfs,
		OutputEnable: gpio.Config{
			Enable: true,
			Line:   DefaultOELine,
			Level:  gpio.Low,
		},
	}
}

func (c Config) withDefaults() Config {
	if c.Bus == "" {
		c.Bus = DefaultBus
	}
	if c.Addr == 0 {
		c.Addr = DefaultAddr
	}
	if c.Backend == "" {
		c.Backend = i2c.BackendDevfs
	}
	return c
}

// Open brings up the controller: drive the output-enable line to its enable
// level, connect to the chip and reset it.
//
// Open does not retry. A connection failure is logged and returned wrapping
// ErrDeviceOpen.
func Open(cfg Config, log logrus.FieldLogger) (*Device, error) {
	if log == nil {
		log = logging.Discard()
	}
	cfg = cfg.withDefaults()
	log.WithField("build", logging.BuildTime).Info("pca9685: init")

	var oe gpio.Line
	if cfg.OutputEnable.Enable {
		var err error
		oe, err = openOEFn(cfg.OutputEnable)
		if err != nil {
			log.WithError(err).Error("pca9685: output enable failed")
			return nil, fmt.Errorf("pca9685: output enable: %w", err)
		}
		log.WithFields(logrus.Fields{
			"line":  cfg.OutputEnable.Line,
			"level": cfg.OutputEnable.Level,
		}).Debug("pca9685: outputs enabled")
	}

	conn, err := openBusFn(cfg.Backend, cfg.Bus, cfg.Addr)
	if err != nil {
		log.WithError(err).WithFields(logrus.Fields{
			"bus":  cfg.Bus,
			"addr": fmt.Sprintf("0x%02X", cfg.Addr),
		}).Error("pca9685: init failed")
		if oe != nil {
			_ = oe.Close()
		}
		return nil, fmt.Errorf("%w: %s addr 0x%02X: %w", ErrDeviceOpen, cfg.Bus, cfg.Addr, err)
	}
	log.WithFields(logrus.Fields{
		"bus":     cfg.Bus,
		"addr":    fmt.Sprintf("0x%02X", cfg.Addr),
		"backend": cfg.Backend,
	}).Debug("pca9685: i2c open")

	d := New(conn, log)
	d.oe = oe
	if err := d.Reset(); err != nil {
		log.WithError(err).Error("pca9685: reset failed")
		_ = d.Close()
		return nil, err
	}
	return d, nil
}
