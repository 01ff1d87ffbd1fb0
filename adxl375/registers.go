// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adxl375

import (
	"fmt"

	"periph.io/x/conn/v3/physic"
)

// Register is a 6-bit register address of the device.
type Register byte

const (
	DevID Register = 0x00 // Device ID, expected to be 0xE5

	ThreshShock    Register = 0x1D // Shock threshold
	OfsX           Register = 0x1E // X-axis offset
	OfsY           Register = 0x1F // Y-axis offset
	OfsZ           Register = 0x20 // Z-axis offset
	Dur            Register = 0x21 // Shock duration
	Latent         Register = 0x22 // Shock latency
	Window         Register = 0x23 // Shock window
	ThreshAct      Register = 0x24 // Activity threshold
	ThreshInact    Register = 0x25 // Inactivity threshold
	TimeInact      Register = 0x26 // Inactivity time
	ActInactCtl    Register = 0x27 // Axis enable control for activity/inactivity detection
	ShockAxes      Register = 0x2A // Axis control for single shock/double shock
	ActShockStatus Register = 0x2B // Source of single shock/double shock

	// Control registers

	BwRate     Register = 0x2C // Data rate and power mode control
	PowerCtl   Register = 0x2D // Power saving features control
	IntEnable  Register = 0x2E // Interrupt enable control
	IntMap     Register = 0x2F // Interrupt mapping control
	IntSource  Register = 0x30 // Source of interrupts
	DataFormat Register = 0x31 // Data format control

	// Data registers
	DataX0 Register = 0x32 // X-Axis Data 0
	DataX1 Register = 0x33 // X-Axis Data 1
	DataY0 Register = 0x34 // Y-Axis Data 0
	DataY1 Register = 0x35 // Y-Axis Data 1
	DataZ0 Register = 0x36 // Z-Axis Data 0
	DataZ1 Register = 0x37 // Z-Axis Data 1

	// FIFO control
	FifoCtl    Register = 0x38 // FIFO control
	FifoStatus Register = 0x39 // FIFO status
)

const (
	// ExpectedDeviceID is the value of the DevID register on an ADXL375.
	ExpectedDeviceID byte = 0xE5

	// FIFODepth is the maximum number of entries consumed by one drain.
	FIFODepth = 33

	// Scale converts one LSB of a data register to m/s².
	Scale = 0.049 * GravityEarth

	// GravityEarth is standard gravity in m/s².
	GravityEarth = 9.80665

	fifoEntriesMask byte = 0x3F
	addressMask     byte = 0x3F

	selfTestOff    byte = 0 << 7
	spi4Wire       byte = 0 << 6
	justifyRight   byte = 0 << 2
	fifoModeStream byte = 0x2 << 6
	powerMeasure   byte = 1 << 3
	powerStandby   byte = 0

	// bytes per FIFO entry: X, Y and Z, low byte first.
	entrySize = 6
)

// access is the mode half of a command byte.
type access byte

const (
	write  access = 0 << 7
	read   access = 1 << 7
	single access = 0 << 6
	multi  access = 1 << 6
)

// command frames the first byte of a transaction: bit 7 selects read, bit 6
// selects a multi-byte burst and bits 5-0 hold the register address.
func command(reg Register, mode access) byte {
	return byte(mode) | byte(reg)&addressMask
}

// Rate is an output data rate code as written to the BwRate register.
type Rate byte

const (
	Rate100Hz  Rate = 0x0A
	Rate200Hz  Rate = 0x0B
	Rate400Hz  Rate = 0x0C
	Rate800Hz  Rate = 0x0D
	Rate1600Hz Rate = 0x0E
	Rate3200Hz Rate = 0x0F
)

var rates = map[Rate]physic.Frequency{
	Rate100Hz:  100 * physic.Hertz,
	Rate200Hz:  200 * physic.Hertz,
	Rate400Hz:  400 * physic.Hertz,
	Rate800Hz:  800 * physic.Hertz,
	Rate1600Hz: 1600 * physic.Hertz,
	Rate3200Hz: 3200 * physic.Hertz,
}

// RateFor returns the rate code producing exactly f.
func RateFor(f physic.Frequency) (Rate, error) {
	for r, rf := range rates {
		if rf == f {
			return r, nil
		}
	}
	return 0, fmt.Errorf("adxl375: unsupported output data rate %s", f)
}

// Frequency returns the output data rate, or 0 for an unknown code.
func (r Rate) Frequency() physic.Frequency {
	return rates[r]
}

// Interval returns the time between two samples in microseconds.
func (r Rate) Interval() float64 {
	f, ok := rates[r]
	if !ok {
		return 0
	}
	return 1e6 / (float64(f) / float64(physic.Hertz))
}

func (r Rate) valid() bool {
	_, ok := rates[r]
	return ok
}

func (r Rate) String() string {
	if f, ok := rates[r]; ok {
		return f.String()
	}
	return fmt.Sprintf("Rate(%#x)", byte(r))
}
