// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package accel is a container for the ADXL375 high-g accelerometer driver
// and the tools built on it.
//
// The driver lives in package adxl375. Packages gauge and chart display
// readings on a terminal or as a PNG image, and cmd/adxl375 is a command
// line tool to probe, stream and plot a device.
package accel
