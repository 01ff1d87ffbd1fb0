// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package cmd

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"github.com/GermanBionicSystems/accel/adxl375"
	"github.com/GermanBionicSystems/accel/gauge"
)

// drainer is the part of *adxl375.Dev the capture loops need.
type drainer interface {
	ReadOffset(dst []adxl375.Reading, offset time.Duration) (int, error)
}

// emitFunc receives every drained reading in FIFO order.
type emitFunc func(adxl375.Reading) error

// stream drains d every interval and hands each reading to emit until ctx
// is done.
func stream(ctx context.Context, d drainer, interval, offset time.Duration, emit emitFunc) error {
	buf := make([]adxl375.Reading, adxl375.FIFODepth)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := d.ReadOffset(buf, offset)
			if err != nil {
				return err
			}
			for _, r := range buf[:n] {
				if err := emit(r); err != nil {
					return err
				}
			}
		}
	}
}

// collect streams for duration and returns every reading.
func collect(ctx context.Context, d drainer, interval, offset, duration time.Duration) ([]adxl375.Reading, error) {
	ctx, cancel := context.WithTimeout(ctx, duration)
	defer cancel()
	var rs []adxl375.Reading
	err := stream(ctx, d, interval, offset, func(r adxl375.Reading) error {
		rs = append(rs, r)
		return nil
	})
	return rs, err
}

var csvHeader = []string{"timestamp_us", "accel_x", "accel_y", "accel_z"}

// csvEmitter writes readings as CSV rows to w. flush must be called once
// streaming stops.
func csvEmitter(w io.Writer) (emit emitFunc, flush func() error) {
	cw := csv.NewWriter(w)
	_ = cw.Write(csvHeader) // error is buffered; checked on Flush
	emit = func(r adxl375.Reading) error {
		return cw.Write([]string{
			strconv.FormatUint(r.Timestamp, 10),
			strconv.FormatFloat(r.X, 'f', 4, 64),
			strconv.FormatFloat(r.Y, 'f', 4, 64),
			strconv.FormatFloat(r.Z, 'f', 4, 64),
		})
	}
	flush = func() error {
		cw.Flush()
		return cw.Error()
	}
	return emit, flush
}

// gaugeEmitter shows the newest reading on a terminal gauge.
func gaugeEmitter(g *gauge.Dev) emitFunc {
	return g.Show
}
