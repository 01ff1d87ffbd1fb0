// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/GermanBionicSystems/accel/adxl375"
	"github.com/google/go-cmp/cmp"
)

// fakeDrainer returns one scripted batch per call, then err or nothing.
type fakeDrainer struct {
	batches [][]adxl375.Reading
	err     error
	cancel  context.CancelFunc

	calls   int
	offsets []time.Duration
}

func (f *fakeDrainer) ReadOffset(dst []adxl375.Reading, offset time.Duration) (int, error) {
	f.offsets = append(f.offsets, offset)
	if f.calls >= len(f.batches) {
		if f.err != nil {
			return 0, f.err
		}
		if f.cancel != nil {
			f.cancel()
		}
		return 0, nil
	}
	b := f.batches[f.calls]
	f.calls++
	return copy(dst, b), nil
}

func batches() [][]adxl375.Reading {
	return [][]adxl375.Reading{
		{{X: 1, Timestamp: 10}, {X: 2, Timestamp: 20}},
		{},
		{{X: 3, Timestamp: 30}},
	}
}

func TestStream(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f := &fakeDrainer{batches: batches(), cancel: cancel}
	var got []adxl375.Reading
	err := stream(ctx, f, time.Millisecond, 5*time.Microsecond, func(r adxl375.Reading) error {
		got = append(got, r)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []adxl375.Reading{{X: 1, Timestamp: 10}, {X: 2, Timestamp: 20}, {X: 3, Timestamp: 30}}
	if diff := cmp.Diff(got, want); diff != "" {
		t.Errorf("stream() difference (-got +want):\n%s", diff)
	}
	for _, o := range f.offsets {
		if o != 5*time.Microsecond {
			t.Errorf("offset = %s, want 5µs", o)
		}
	}
}

func TestStreamErrors(t *testing.T) {
	errBus := errors.New("bus")
	errEmit := errors.New("emit")
	for _, test := range []struct {
		name string
		f    *fakeDrainer
		emit emitFunc
		want error
	}{
		{
			name: "drain",
			f:    &fakeDrainer{batches: batches(), err: errBus},
			emit: func(adxl375.Reading) error { return nil },
			want: errBus,
		},
		{
			name: "emit",
			f:    &fakeDrainer{batches: batches()},
			emit: func(adxl375.Reading) error { return errEmit },
			want: errEmit,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			err := stream(context.Background(), test.f, time.Millisecond, 0, test.emit)
			if !errors.Is(err, test.want) {
				t.Errorf("stream() = %v, want %v", err, test.want)
			}
		})
	}
}

func TestCollect(t *testing.T) {
	f := &fakeDrainer{batches: batches()}
	rs, err := collect(context.Background(), f, time.Millisecond, 0, 50*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if len(rs) != 3 {
		t.Errorf("collect() returned %d readings, want 3", len(rs))
	}
}

func TestCSVEmitter(t *testing.T) {
	var out bytes.Buffer
	emit, flush := csvEmitter(&out)
	for _, r := range []adxl375.Reading{
		{X: 1.5, Y: -0.25, Z: 9.5, Timestamp: 950000},
		{Timestamp: 960000},
	} {
		if err := emit(r); err != nil {
			t.Fatal(err)
		}
	}
	if err := flush(); err != nil {
		t.Fatal(err)
	}
	want := "timestamp_us,accel_x,accel_y,accel_z\n" +
		"950000,1.5000,-0.2500,9.5000\n" +
		"960000,0.0000,0.0000,0.0000\n"
	if diff := cmp.Diff(out.String(), want); diff != "" {
		t.Errorf("csv difference (-got +want):\n%s", diff)
	}
}
