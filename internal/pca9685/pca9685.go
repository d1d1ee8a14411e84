// Package pca9685 drives the NXP PCA9685 16-channel, 12-bit PWM controller
// over I2C.
//
// A Device is not safe for concurrent use. Callers sharing one across
// goroutines must serialize every call, otherwise the byte writes making up
// a channel update can interleave.
package pca9685

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/chenxiqiyuan/Underwater-Vehicle-NanoPi/internal/gpio"
	"github.com/chenxiqiyuan/Underwater-Vehicle-NanoPi/internal/i2c"
	"github.com/chenxiqiyuan/Underwater-Vehicle-NanoPi/internal/logging"
)

var sleep = time.Sleep

const (
	DefaultAddr = 0x40

	regMode1    = 0x00
	regLED0OnL  = 0x06 // channel N occupies regLED0OnL+4N .. +3
	regPrescale = 0xFE

	mode1Sleep     = 0x10
	mode1RestartAI = 0xA1 // RESTART | AI | ALLCALL

	// Channels is the number of PWM outputs.
	Channels = 16
	// MaxTick is the last tick of the 4096-tick PWM period.
	MaxTick = 4095

	oscillatorHz   = 25_000_000
	ticksPerPeriod = 4096

	// The chip runs fast; scaling the request down lands closer to it.
	freqCorrection = 0.9

	// Oscillator settle time around the prescale change.
	settleDelay = 50 * time.Millisecond
)

// ErrInvalidChannel is returned for channel indexes outside [0, Channels).
var ErrInvalidChannel = errors.New("pca9685: invalid channel")

// TransportError is a failed register access.
type TransportError struct {
	Op  string // "read" or "write"
	Reg byte
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("pca9685: %s reg 0x%02X: %v", e.Op, e.Reg, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Device is an open PCA9685.
type Device struct {
	conn i2c.Conn
	oe   gpio.Line
	log  logrus.FieldLogger
}

// New wraps an already-open connection. It does not touch the chip.
func New(conn i2c.Conn, log logrus.FieldLogger) *Device {
	if log == nil {
		log = logging.Discard()
	}
	return &Device{conn: conn, log: log}
}

func (d *Device) read(reg byte) (byte, error) {
	v, err := d.conn.ReadRegU8(reg)
	if err != nil {
		return 0, &TransportError{Op: "read", Reg: reg, Err: err}
	}
	return v, nil
}

func (d *Device) write(reg, value byte) error {
	if err := d.conn.WriteReg(reg, value); err != nil {
		return &TransportError{Op: "write", Reg: reg, Err: err}
	}
	return nil
}

// Reset writes 0 to MODE1: awake, no auto-increment.
func (d *Device) Reset() error {
	return d.write(regMode1, 0x00)
}

func prescaleEstimate(hz float64) float64 {
	hz *= freqCorrection
	return float64(oscillatorHz)/ticksPerPeriod/hz - 1
}

// Prescale returns the PRESCALE register value written for hz.
//
// The input is not range checked. Frequencies outside roughly 24-1526 Hz
// produce values that do not fit the register and are truncated to 8 bits.
func Prescale(hz float64) uint8 {
	return uint8(int64(math.Floor(prescaleEstimate(hz) + 0.5)))
}

// SetFrequency programs the PWM frequency in Hz.
//
// The prescaler can only be changed while the oscillator sleeps, so MODE1 is
// put to sleep, PRESCALE written, MODE1 restored and then restarted with
// register auto-increment. The call blocks for about 100ms.
func (d *Device) SetFrequency(hz float64) error {
	prescale := Prescale(hz)
	d.log.WithFields(logrus.Fields{
		"hz":       hz,
		"estimate": prescaleEstimate(hz),
		"prescale": prescale,
	}).Debug("pca9685: pre-scale")

	oldmode, err := d.read(regMode1)
	if err != nil {
		return err
	}
	newmode := (oldmode & 0x7F) | mode1Sleep
	if err := d.write(regMode1, newmode); err != nil {
		return err
	}
	if err := d.write(regPrescale, prescale); err != nil {
		// Do not leave the oscillator stopped.
		_ = d.write(regMode1, oldmode)
		return err
	}
	sleep(settleDelay)
	if err := d.write(regMode1, oldmode); err != nil {
		return err
	}
	sleep(settleDelay)
	return d.write(regMode1, oldmode|mode1RestartAI)
}

// SetChannel sets the tick at which channel ch turns on and off within the
// 4096-tick period. Values are written as-is; keep them within MaxTick.
func (d *Device) SetChannel(ch int, on, off uint16) error {
	if ch < 0 || ch >= Channels {
		return fmt.Errorf("%w: %d", ErrInvalidChannel, ch)
	}
	base := byte(regLED0OnL + 4*ch)
	vals := [4]byte{byte(on), byte(on >> 8), byte(off), byte(off >> 8)}
	for i, v := range vals {
		if err := d.write(base+byte(i), v); err != nil {
			return err
		}
	}
	d.log.WithFields(logrus.Fields{"channel": ch, "on": on, "off": off}).Debug("pca9685: set pwm")
	return nil
}

// Close releases the bus connection and the output-enable line.
func (d *Device) Close() error {
	if d == nil {
		return nil
	}
	var errs []error
	if d.conn != nil {
		errs = append(errs, d.conn.Close())
		d.conn = nil
	}
	if d.oe != nil {
		errs = append(errs, d.oe.Close())
		d.oe = nil
	}
	return errors.Join(errs...)
}
