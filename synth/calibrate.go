// Copyright 2021 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package synth

import (
	"fmt"
	"log"
)

// VoltageSource provides a voltage reading.
type VoltageSource interface {
	Voltage() (float64, error)
}

// FixedVoltage is a VoltageSource of a known voltage.
type FixedVoltage float64

// Voltage returns the fixed voltage.
func (v FixedVoltage) Voltage() (float64, error) {
	return float64(v), nil
}

// Calibrate measures the reference voltage as the average of a number
// of samples. The drive output bounds are derived from this, so it must
// be done before the drive is created.
func Calibrate(src VoltageSource, samples int) (float64, error) {
	if samples < 1 {
		samples = 1
	}
	var total float64
	for i := 0; i < samples; i++ {
		v, err := src.Voltage()
		if err != nil {
			return 0, fmt.Errorf("calibrate: %v", err)
		}
		total += v
	}
	vref := total / float64(samples)
	if vref <= 0 {
		return 0, fmt.Errorf("calibrate: invalid reference voltage %g", vref)
	}
	log.Printf("calibrate: reference voltage %.4fV (%d samples)", vref, samples)
	return vref, nil
}
