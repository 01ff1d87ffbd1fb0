// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package example drains an ADXL375 FIFO every 10ms for 3 seconds.
package example

import (
	"fmt"
	"log"
	"time"

	"github.com/GermanBionicSystems/accel/adxl375"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// Example prints every sample buffered at 3200Hz for 3 seconds.
func Example() {
	// Initialize the host
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Use spireg SPI port registry to find the first available SPI bus.
	p, err := spireg.Open("")
	if err != nil {
		log.Fatal(err)
	}

	defer p.Close()

	d, err := adxl375.New(p, nil, &adxl375.Opts{Rate: adxl375.Rate3200Hz})
	if err != nil {
		log.Fatal(err)
	}
	if err := d.Init(); err != nil {
		log.Fatal(err)
	}

	fmt.Println(d.String())

	// At 3200Hz the FIFO fills in about 10ms.
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	// stop after 3 seconds
	stop := time.After(3 * time.Second)

	buf := make([]adxl375.Reading, adxl375.FIFODepth)
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			n, err := d.Read(buf)
			if err != nil {
				log.Fatal(err)
			}
			for _, r := range buf[:n] {
				fmt.Println(r)
			}
		}
	}
}
