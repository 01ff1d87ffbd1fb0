// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package chart renders a batch of accelerometer readings as a PNG line
// chart, one line per axis against the sample timestamp.
package chart

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/GermanBionicSystems/accel/adxl375"
	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("chart: no readings")

// Axis colors.
var (
	ColorX = color.NRGBA{R: 220, G: 40, B: 40, A: 255}
	ColorY = color.NRGBA{R: 40, G: 160, B: 40, A: 255}
	ColorZ = color.NRGBA{R: 40, G: 80, B: 220, A: 255}
)

// DefaultOpts is a 1024x512 chart.
var DefaultOpts = Opts{
	Width:  1024,
	Height: 512,
}

// Opts holds the chart dimensions in pixels.
type Opts struct {
	Width  int
	Height int
}

const margin = 48

// Render draws rs and writes it to w as a PNG.
func Render(w io.Writer, rs []adxl375.Reading, o *Opts) error {
	dc, err := draw(rs, o)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

// Save draws rs to the PNG file path.
func Save(path string, rs []adxl375.Reading, o *Opts) error {
	dc, err := draw(rs, o)
	if err != nil {
		return err
	}
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("chart: %w", err)
	}
	return nil
}

func draw(rs []adxl375.Reading, o *Opts) (*gg.Context, error) {
	if len(rs) == 0 {
		return nil, ErrNoData
	}
	if o.Width <= 2*margin || o.Height <= 2*margin {
		return nil, fmt.Errorf("chart: size %dx%d too small", o.Width, o.Height)
	}
	b := bounds(rs)
	dc := gg.NewContext(o.Width, o.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(basicfont.Face7x13)

	pw := float64(o.Width - 2*margin)
	ph := float64(o.Height - 2*margin)
	px := func(ts uint64) float64 {
		return margin + float64(ts-b.t0)/float64(b.t1-b.t0)*pw
	}
	py := func(v float64) float64 {
		return margin + (b.max-v)/(b.max-b.min)*ph
	}

	// Frame and zero line.
	dc.SetRGB(0.2, 0.2, 0.2)
	dc.SetLineWidth(1)
	dc.DrawRectangle(margin, margin, pw, ph)
	dc.Stroke()
	dc.SetRGB(0.6, 0.6, 0.6)
	dc.DrawLine(margin, py(0), margin+pw, py(0))
	dc.Stroke()

	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored(fmt.Sprintf("%.1f", b.max), margin-4, margin, 1, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("%.1f", b.min), margin-4, margin+ph, 1, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("%dµs", b.t0), margin, margin+ph+4, 0, 1)
	dc.DrawStringAnchored(fmt.Sprintf("%dµs", b.t1), margin+pw, margin+ph+4, 1, 1)
	dc.DrawStringAnchored("m/s²", margin, margin-8, 0, 0)

	for i, s := range []struct {
		name string
		c    color.Color
		v    func(adxl375.Reading) float64
	}{
		{"X", ColorX, func(r adxl375.Reading) float64 { return r.X }},
		{"Y", ColorY, func(r adxl375.Reading) float64 { return r.Y }},
		{"Z", ColorZ, func(r adxl375.Reading) float64 { return r.Z }},
	} {
		dc.SetColor(s.c)
		dc.SetLineWidth(1.5)
		for j, r := range rs {
			if j == 0 {
				dc.MoveTo(px(r.Timestamp), py(s.v(r)))
				continue
			}
			dc.LineTo(px(r.Timestamp), py(s.v(r)))
		}
		dc.Stroke()
		lx := float64(o.Width-margin) - float64(3-i)*32
		dc.DrawStringAnchored(s.name, lx, margin-8, 0, 0)
	}
	return dc, nil
}

type extent struct {
	t0, t1   uint64
	min, max float64
}

// bounds returns the time and value ranges of rs. Degenerate ranges are
// widened so every reading maps inside the plot area.
func bounds(rs []adxl375.Reading) extent {
	e := extent{t0: rs[0].Timestamp, t1: rs[0].Timestamp, min: math.Inf(1), max: math.Inf(-1)}
	for _, r := range rs {
		e.t0 = min(e.t0, r.Timestamp)
		e.t1 = max(e.t1, r.Timestamp)
		e.min = min(e.min, r.X, r.Y, r.Z)
		e.max = max(e.max, r.X, r.Y, r.Z)
	}
	// Keep zero visible.
	e.min = min(e.min, 0)
	e.max = max(e.max, 0)
	if e.t1 == e.t0 {
		e.t1 = e.t0 + 1
	}
	if e.max == e.min {
		e.max = e.min + 1
	}
	return e
}
