// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adxl375

import (
	"encoding/binary"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

// SPI settings used to communicate with the device. The device supports up
// to 5MHz with CPOL=1 and CPHA=1.
var (
	SpiFrequency = 5 * physic.MegaHertz
	SpiMode      = spi.Mode3
	SpiBits      = 8
)

// Clock returns the number of microseconds elapsed since an arbitrary fixed
// epoch. It must be monotonic.
type Clock func() uint64

var epoch = time.Now()

func monotonic() uint64 {
	return uint64(time.Since(epoch).Microseconds())
}

// DefaultOpts samples at 100Hz with timestamps from the process monotonic
// clock.
var DefaultOpts = Opts{
	Rate: Rate100Hz,
}

// Opts holds the configuration of a Dev.
type Opts struct {
	Rate  Rate  // Output data rate, one of the RateXXX constants.
	Clock Clock // Timestamp source. nil selects the process monotonic clock.
}

// Reading is one FIFO entry converted to m/s².
type Reading struct {
	X float64
	Y float64
	Z float64
	// Timestamp is the estimated sampling time in microseconds, in the
	// domain of the Dev Clock.
	Timestamp uint64
}

func (r Reading) String() string {
	return fmt.Sprintf("t=%dµs X:%.3f Y:%.3f Z:%.3f", r.Timestamp, r.X, r.Y, r.Z)
}

// Dev is a driver for the ADXL375 accelerometer connected over SPI.
//
// Calls on a Dev are serialized; a register sequence is never interleaved
// with another call on the same Dev.
type Dev struct {
	c        spi.Conn
	cs       gpio.PinOut
	rate     Rate
	interval float64
	now      Clock

	mu sync.Mutex
}

// New returns a Dev for the device connected on p.
//
// When cs is not nil, the port is connected with spi.NoCS and the driver
// drives cs itself around each transaction. Otherwise the port chip select
// is used.
//
// o nil selects DefaultOpts. No register is accessed; call Init before the
// first Read.
func New(p spi.Port, cs gpio.PinOut, o *Opts) (*Dev, error) {
	if o == nil {
		o = &DefaultOpts
	}
	if !o.Rate.valid() {
		return nil, fmt.Errorf("adxl375: invalid rate code %#x", byte(o.Rate))
	}
	mode := SpiMode
	if cs != nil {
		mode |= spi.NoCS
		if err := cs.Out(gpio.High); err != nil {
			return nil, fmt.Errorf("adxl375: chip select: %w", err)
		}
	}
	c, err := p.Connect(SpiFrequency, mode, SpiBits)
	if err != nil {
		return nil, fmt.Errorf("adxl375: %w", err)
	}
	d := &Dev{
		c:        c,
		cs:       cs,
		rate:     o.Rate,
		interval: o.Rate.Interval(),
		now:      o.Clock,
	}
	if d.now == nil {
		d.now = monotonic
	}
	return d, nil
}

func (d *Dev) String() string {
	return fmt.Sprintf("ADXL375{%s}", d.rate)
}

// Rate returns the configured output data rate.
func (d *Dev) Rate() Rate {
	return d.rate
}

// Interval returns the time between two samples in microseconds.
func (d *Dev) Interval() float64 {
	return d.interval
}

// Init verifies the device identity then configures the output data rate,
// the data format, FIFO stream mode and finally measurement mode.
//
// Each written register is read back. The first mismatch is returned as a
// *VerifyError and nothing else is written. Init can be called again to
// retry.
func (d *Dev) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	id, err := d.readRegister(DevID)
	if err != nil {
		return err
	}
	if id != ExpectedDeviceID {
		return &VerifyError{Reg: DevID, Want: ExpectedDeviceID, Got: id}
	}
	for _, s := range d.configuration() {
		if err := d.writeVerify(s.reg, s.value); err != nil {
			return err
		}
	}
	return nil
}

// setting is one register write of the initialization sequence.
type setting struct {
	reg   Register
	value byte
}

// configuration returns the settings written by Init, in order. Measurement
// is enabled last so no sample is taken with a partial configuration.
func (d *Dev) configuration() []setting {
	return []setting{
		{BwRate, byte(d.rate)},
		{DataFormat, selfTestOff | spi4Wire | justifyRight},
		{FifoCtl, fifoModeStream},
		{PowerCtl, powerMeasure},
	}
}

// DeviceID returns the content of the DevID register.
func (d *Dev) DeviceID() (byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.readRegister(DevID)
}

// FIFOEntries returns the number of entries buffered in the FIFO, capped at
// FIFODepth.
func (d *Dev) FIFOEntries() (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fifoEntries()
}

// Read drains up to len(dst) entries from the FIFO, oldest first, and
// returns the number of entries written to dst.
//
// See ReadOffset for timestamps.
func (d *Dev) Read(dst []Reading) (int, error) {
	return d.ReadOffset(dst, 0)
}

// ReadOffset is Read with offset added to every timestamp.
//
// The FIFO is assumed to have been filled at exactly the configured rate,
// the newest entry being one interval old. The oldest entry is stamped
// now - entries*interval + offset and each following entry one interval
// later. Host scheduling jitter is not accounted for.
//
// At most FIFODepth entries are considered. Entries that do not fit in dst
// stay in the FIFO. When the FIFO is empty dst is left untouched.
func (d *Dev) ReadOffset(dst []Reading, offset time.Duration) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	count, err := d.fifoEntries()
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, nil
	}
	ts := float64(d.now()) - float64(count)*d.interval + float64(offset.Microseconds())
	n := min(count, len(dst))
	w := make([]byte, 1+entrySize)
	w[0] = command(DataX0, read|multi)
	r := make([]byte, len(w))
	for i := range n {
		if err := d.tx(w, r); err != nil {
			return i, fmt.Errorf("adxl375: read fifo entry %d: %w", i, err)
		}
		dst[i] = decode(r[1:], ts)
		ts += d.interval
	}
	return n, nil
}

// Sense drains the FIFO and stores the newest entry in r. Older entries are
// discarded.
//
// It returns ErrFIFOEmpty when nothing is buffered.
func (d *Dev) Sense(r *Reading) error {
	return d.SenseOffset(r, 0)
}

// SenseOffset is Sense with offset added to the timestamp. See ReadOffset.
func (d *Dev) SenseOffset(r *Reading, offset time.Duration) error {
	var all [FIFODepth]Reading
	n, err := d.ReadOffset(all[:], offset)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrFIFOEmpty
	}
	*r = all[n-1]
	return nil
}

// Halt implements conn.Resource.
//
// It puts the device in standby. Init enables measurement again.
func (d *Dev) Halt() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writeRegister(PowerCtl, powerStandby)
}

func (d *Dev) fifoEntries() (int, error) {
	status, err := d.readRegister(FifoStatus)
	if err != nil {
		return 0, err
	}
	return min(int(status&fifoEntriesMask), FIFODepth), nil
}

// decode converts the six data bytes of one entry.
func decode(b []byte, ts float64) Reading {
	return Reading{
		X:         axis(b[0:2]),
		Y:         axis(b[2:4]),
		Z:         axis(b[4:6]),
		Timestamp: stamp(ts),
	}
}

// axis combines the low and high bytes of an axis into a signed count and
// scales it.
func axis(b []byte) float64 {
	return float64(int16(binary.LittleEndian.Uint16(b))) * Scale
}

// stamp truncates ts to whole microseconds. Projections before the clock
// epoch are clamped to 0.
func stamp(ts float64) uint64 {
	if ts < 0 {
		return 0
	}
	return uint64(ts)
}

func (d *Dev) writeVerify(reg Register, value byte) error {
	if err := d.writeRegister(reg, value); err != nil {
		return err
	}
	got, err := d.readRegister(reg)
	if err != nil {
		return err
	}
	if got != value {
		return &VerifyError{Reg: reg, Want: value, Got: got}
	}
	return nil
}

// readRegister reads a single register.
func (d *Dev) readRegister(reg Register) (byte, error) {
	// The second byte is a "don't care" value clocking the answer out.
	tx := []byte{command(reg, read|single), 0x00}
	rx := make([]byte, len(tx))
	if err := d.tx(tx, rx); err != nil {
		return 0, fmt.Errorf("adxl375: read register %#02x: %w", byte(reg), err)
	}
	return rx[1], nil
}

// writeRegister writes a single register.
func (d *Dev) writeRegister(reg Register, value byte) error {
	tx := []byte{command(reg, write|single), value}
	rx := make([]byte, len(tx))
	if err := d.tx(tx, rx); err != nil {
		return fmt.Errorf("adxl375: write register %#02x: %w", byte(reg), err)
	}
	return nil
}

// tx runs one transaction. When the driver owns the chip select, the line is
// held low for the transfer and driven high again on every path.
func (d *Dev) tx(w, r []byte) (err error) {
	if d.cs == nil {
		return d.c.Tx(w, r)
	}
	defer func() {
		err = multierr.Combine(err, d.cs.Out(gpio.High))
	}()
	if err = d.cs.Out(gpio.Low); err != nil {
		return err
	}
	return d.c.Tx(w, r)
}

var _ conn.Resource = &Dev{}
var _ fmt.Stringer = &Dev{}
