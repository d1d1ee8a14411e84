package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/chenxiqiyuan/Underwater-Vehicle-NanoPi/internal/config"
	"github.com/chenxiqiyuan/Underwater-Vehicle-NanoPi/internal/gpio"
	"github.com/chenxiqiyuan/Underwater-Vehicle-NanoPi/internal/i2c"
	"github.com/chenxiqiyuan/Underwater-Vehicle-NanoPi/internal/logging"
	"github.com/chenxiqiyuan/Underwater-Vehicle-NanoPi/internal/pca9685"
)

type pwmDevice interface {
	SetFrequency(hz float64) error
	SetChannel(ch int, on, off uint16) error
	Close() error
}

var openDevice = func(cfg pca9685.Config, log logrus.FieldLogger) (pwmDevice, error) {
	return pca9685.Open(cfg, log)
}

type options struct {
	freq    float64
	channel int
	on      int
	off     int
	hold    bool
}

func main() {
	var configPath string
	var opts options
	flag.StringVar(&configPath, "config", "", "Path to YAML config (built-in defaults when empty)")
	flag.Float64Var(&opts.freq, "freq", 0, "PWM frequency in Hz, overrides pwm.frequency_hz")
	flag.IntVar(&opts.channel, "channel", -1, "Channel to set (0-15), -1 for none")
	flag.IntVar(&opts.on, "on", 0, "On tick for -channel (0-4095)")
	flag.IntVar(&opts.off, "off", 0, "Off tick for -channel (0-4095)")
	flag.BoolVar(&opts.hold, "hold", false, "Keep the outputs enabled until SIGINT/SIGTERM")
	flag.Parse()

	cfg := config.Default()
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			log.Fatalf("config load failed: %v", err)
		}
	}

	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		log.Fatalf("logger init failed: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, opts, logger); err != nil {
		logger.WithError(err).Error("pwmctl failed")
		os.Exit(1)
	}
}

func driverConfig(p config.PWMConfig) (pca9685.Config, error) {
	backend, err := i2c.ParseBackend(p.Backend)
	if err != nil {
		return pca9685.Config{}, err
	}
	return pca9685.Config{
		Bus:     p.Bus,
		Addr:    p.Addr,
		Backend: backend,
		OutputEnable: gpio.Config{
			Enable: p.OutputEnable.Enable,
			Chip:   p.OutputEnable.Chip,
			Line:   p.OutputEnable.Line,
			Level:  gpio.Level(p.OutputEnable.Level),
		},
	}, nil
}

func tick(name string, v int) (uint16, error) {
	if v < 0 || v > pca9685.MaxTick {
		return 0, fmt.Errorf("-%s must be in 0..%d", name, pca9685.MaxTick)
	}
	return uint16(v), nil
}

func run(ctx context.Context, cfg config.Config, opts options, logger logrus.FieldLogger) error {
	dcfg, err := driverConfig(cfg.PWM)
	if err != nil {
		return err
	}

	var on, off uint16
	if opts.channel >= 0 {
		if on, err = tick("on", opts.on); err != nil {
			return err
		}
		if off, err = tick("off", opts.off); err != nil {
			return err
		}
	}

	dev, err := openDevice(dcfg, logger)
	if err != nil {
		return err
	}
	defer dev.Close()

	freq := cfg.PWM.FrequencyHz
	if opts.freq > 0 && !math.IsInf(opts.freq, 0) {
		freq = opts.freq
	}
	if err := dev.SetFrequency(freq); err != nil {
		return fmt.Errorf("set frequency %.2fHz: %w", freq, err)
	}
	logger.WithField("hz", freq).Info("pwm frequency set")

	for _, ch := range cfg.PWM.Channels {
		if err := dev.SetChannel(ch.Channel, uint16(ch.On), uint16(ch.Off)); err != nil {
			return fmt.Errorf("set channel %d: %w", ch.Channel, err)
		}
	}
	if opts.channel >= 0 {
		if err := dev.SetChannel(opts.channel, on, off); err != nil {
			return fmt.Errorf("set channel %d: %w", opts.channel, err)
		}
	}

	if !opts.hold {
		return nil
	}
	logger.Info("holding outputs; send SIGINT or SIGTERM to stop")
	<-ctx.Done()
	logger.Info("pwmctl stopping")
	return nil
}
