// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package chart

import (
	"bytes"
	"errors"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/GermanBionicSystems/accel/adxl375"
	"github.com/google/go-cmp/cmp"
)

func readings() []adxl375.Reading {
	return []adxl375.Reading{
		{X: 1, Y: -2, Z: 9.8, Timestamp: 1000},
		{X: 3, Y: -1, Z: 9.7, Timestamp: 1312},
		{X: -4, Y: 0, Z: 9.9, Timestamp: 1625},
	}
}

func TestBounds(t *testing.T) {
	for _, test := range []struct {
		name string
		rs   []adxl375.Reading
		want extent
	}{
		{
			name: "spread",
			rs:   readings(),
			want: extent{t0: 1000, t1: 1625, min: -4, max: 9.9},
		},
		{
			name: "single positive",
			rs:   []adxl375.Reading{{X: 2, Y: 2, Z: 2, Timestamp: 7}},
			want: extent{t0: 7, t1: 8, min: 0, max: 2},
		},
		{
			name: "all zero",
			rs:   []adxl375.Reading{{Timestamp: 5}, {Timestamp: 5}},
			want: extent{t0: 5, t1: 6, min: 0, max: 1},
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			if diff := cmp.Diff(bounds(test.rs), test.want, cmp.AllowUnexported(extent{})); diff != "" {
				t.Errorf("bounds() difference (-got +want):\n%s", diff)
			}
		})
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, readings(), &Opts{Width: 320, Height: 200}); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 320 || b.Dy() != 200 {
		t.Errorf("size = %dx%d, want 320x200", b.Dx(), b.Dy())
	}
	if r, g, b, _ := img.At(0, 0).RGBA(); r != 0xffff || g != 0xffff || b != 0xffff {
		t.Errorf("background = %x %x %x, want white", r, g, b)
	}
}

func TestRenderErrors(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, nil, &DefaultOpts); !errors.Is(err, ErrNoData) {
		t.Errorf("Render(nil) = %v, want ErrNoData", err)
	}
	if err := Render(&buf, readings(), &Opts{Width: 64, Height: 64}); err == nil {
		t.Error("expected error for a chart smaller than its margins")
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %d bytes on error", buf.Len())
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.png")
	if err := Save(path, readings(), &DefaultOpts); err != nil {
		t.Fatal(err)
	}
}
