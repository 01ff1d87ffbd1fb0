// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package gauge displays accelerometer readings on a terminal as three
// colored bars, one per axis, using ANSI 256 color codes.
//
// Each call to Show rewrites the same line.
package gauge

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/GermanBionicSystems/accel/adxl375"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3"
)

// DefaultFullScale is the ADXL375 measurement range, ±200g, in m/s².
const DefaultFullScale = 200 * adxl375.GravityEarth

// Colors used for the bar cells.
var (
	Positive = color.NRGBA{R: 255, G: 48, B: 48, A: 255}
	Negative = color.NRGBA{R: 48, G: 96, B: 255, A: 255}
	Empty    = color.NRGBA{A: 255}
)

// Opts represents the options available for this gauge.
type Opts struct {
	// Width is the number of cells of each bar. Zero means 32.
	Width int
	// FullScale is the absolute value mapped to a full half bar. Zero means
	// DefaultFullScale.
	FullScale float64
	Palette   *ansi256.Palette
	// W receives the output. nil means a colorable stdout.
	W io.Writer

	_ struct{}
}

// Dev is a console gauge for adxl375 readings.
type Dev struct {
	w         io.Writer
	width     int
	fullScale float64
	palette   ansi256.Palette

	buf bytes.Buffer
}

// New returns a Dev that displays at the console.
func New(opts *Opts) *Dev {
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	d := &Dev{
		w:         opts.W,
		width:     opts.Width,
		fullScale: opts.FullScale,
		palette:   *p,
	}
	if d.w == nil {
		d.w = colorable.NewColorableStdout()
	}
	if d.width <= 0 {
		d.width = 32
	}
	if d.fullScale <= 0 {
		d.fullScale = DefaultFullScale
	}
	return d
}

func (d *Dev) String() string {
	return fmt.Sprintf("Gauge{%d}", d.width)
}

// Halt implements conn.Resource.
//
// It resets the terminal colors and moves to the next line.
func (d *Dev) Halt() error {
	_, err := d.w.Write([]byte("\n\033[0m"))
	return err
}

// Show draws r on the current line.
func (d *Dev) Show(r adxl375.Reading) error {
	d.buf.Reset()
	_, _ = d.buf.WriteString("\r\033[0m")
	for i, v := range [3]float64{r.X, r.Y, r.Z} {
		_, _ = d.buf.WriteString([]string{"X ", " Y ", " Z "}[i])
		d.bar(v)
		_, _ = d.buf.WriteString("\033[0m")
	}
	_, _ = fmt.Fprintf(&d.buf, " %8.2f %8.2f %8.2f ", r.X, r.Y, r.Z)
	_, err := d.buf.WriteTo(d.w)
	return err
}

// bar appends the cells of one axis. The bar is centered on zero and fills
// toward the side of the value's sign.
func (d *Dev) bar(v float64) {
	for i := range d.width {
		_, _ = io.WriteString(&d.buf, d.palette.Block(d.cell(i, v)))
	}
}

func (d *Dev) cell(i int, v float64) color.NRGBA {
	half := d.width / 2
	n := cells(v, d.fullScale, half)
	switch {
	case n > 0 && i >= half && i < half+n:
		return Positive
	case n < 0 && i < half && i >= half+n:
		return Negative
	}
	return Empty
}

// cells returns the signed number of filled cells for v, saturated at half.
func cells(v, fullScale float64, half int) int {
	n := int(math.Round(v / fullScale * float64(half)))
	return max(-half, min(half, n))
}

var _ conn.Resource = &Dev{}
var _ fmt.Stringer = &Dev{}
