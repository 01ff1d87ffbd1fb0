// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package cmd

import (
	"fmt"

	"github.com/GermanBionicSystems/accel/adxl375"
	"github.com/GermanBionicSystems/accel/internal/config"
	log "github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// session owns the SPI port and the driver opened on it.
type session struct {
	dev  *adxl375.Dev
	port spi.PortCloser
}

// open initializes the host drivers and opens the device described by opt.
// It does not touch the device registers.
func open(opt *config.Opt) (*session, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("host init: %w", err)
	}
	rate, err := opt.Rate()
	if err != nil {
		return nil, err
	}
	p, err := spireg.Open(opt.Device.SPIPort)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", opt.Device.SPIPort, err)
	}
	var cs gpio.PinOut
	if opt.Device.CSPin != "" {
		pin := gpioreg.ByName(opt.Device.CSPin)
		if pin == nil {
			_ = p.Close()
			return nil, fmt.Errorf("unknown chip select pin %q", opt.Device.CSPin)
		}
		cs = pin
	}
	d, err := adxl375.New(p, cs, &adxl375.Opts{Rate: rate})
	if err != nil {
		_ = p.Close()
		return nil, err
	}
	log.WithFields(log.Fields{
		"port": p.String(),
		"cs":   opt.Device.CSPin,
		"rate": rate.String(),
	}).Debugln("opened device")
	return &session{dev: d, port: p}, nil
}

// Close releases the port. The device keeps measuring.
func (s *session) Close() error {
	return s.port.Close()
}
