// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package adxl375

import (
	"errors"
	"fmt"
)

// ErrFIFOEmpty is returned by Sense when no sample is buffered.
var ErrFIFOEmpty = errors.New("adxl375: fifo is empty")

// VerifyError reports a register that did not read back the expected value.
//
// It usually means a wiring problem, a device that is not an ADXL375 or a
// device that is not responding.
type VerifyError struct {
	Reg  Register
	Want byte
	Got  byte
}

func (e *VerifyError) Error() string {
	return fmt.Sprintf("adxl375: register %#02x read back %#02x, expected %#02x", byte(e.Reg), e.Got, e.Want)
}
