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
	gpio "github.com/aamcrae/gpio"
)

// EdgePin opens a GPIO pin as an input that reports both edges,
// suitable for counting pulses with WatchEdges.
func EdgePin(n int) (*gpio.Gpio, error) {
	p, err := gpio.Pin(n)
	if err != nil {
		return nil, err
	}
	if err := p.Edge(gpio.BOTH); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// OutputPin opens a GPIO pin as an output, e.g for a software PWM.
func OutputPin(n int) (*gpio.Gpio, error) {
	return gpio.OutputPin(n)
}
