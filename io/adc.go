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

package io

import (
	"fmt"
)

const iioDir = "/sys/bus/iio/devices/iio:device0/"

// ADC is one channel of an Industrial I/O analog to digital converter.
type ADC struct {
	raw   string
	scale string
}

// NewADC returns the ADC channel, checking that it exists.
func NewADC(channel int) (*ADC, error) {
	a := &ADC{
		raw:   fmt.Sprintf("%sin_voltage%d_raw", iioDir, channel),
		scale: fmt.Sprintf("%sin_voltage%d_scale", iioDir, channel),
	}
	if _, err := readFloat(a.raw); err != nil {
		return nil, fmt.Errorf("adc%d: %v", channel, err)
	}
	return a, nil
}

// Voltage reads the channel and returns the value in volts.
// IIO reports the scale in millivolts per count.
func (a *ADC) Voltage() (float64, error) {
	raw, err := readFloat(a.raw)
	if err != nil {
		return 0, err
	}
	scale, err := readFloat(a.scale)
	if err != nil {
		return 0, err
	}
	return raw * scale / 1000, nil
}
