// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package adxl375 controls an ADXL375 ±200g 3-axis accelerometer over SPI.
//
// The driver configures the device for FIFO stream mode and drains the
// hardware FIFO in batches. Each sample is timestamped by projecting
// backwards from the time of the drain, using the configured output data
// rate as the sample spacing.
//
// # Datasheet
//
// https://www.analog.com/media/en/technical-documentation/data-sheets/ADXL375.pdf
package adxl375
