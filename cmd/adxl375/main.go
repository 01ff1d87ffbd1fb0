// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// adxl375 configures an ADXL375 accelerometer and streams or plots its
// samples.
package main

import "github.com/GermanBionicSystems/accel/internal/cmd"

func main() {
	cmd.Execute()
}
