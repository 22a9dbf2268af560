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
	"log"
	"time"
)

// Analog is a normalized analog output synthesized from a PWM carrier.
// The external driver filters the carrier, so the resulting voltage is the
// written value multiplied by the PWM high level voltage.
type Analog struct {
	pwm    PWM
	period time.Duration
}

// NewAnalog creates an analog output on pwm with the carrier frequency in Hz.
func NewAnalog(pwm PWM, frequency float64) *Analog {
	a := new(Analog)
	a.pwm = pwm
	a.period = time.Duration(float64(time.Second) / frequency)
	return a
}

// Write sets the output to v, where 0.0 is off and 1.0 is fully on.
// Out of range values are clamped.
func (a *Analog) Write(v float64) {
	if v < 0 {
		v = 0
	} else if v > 1 {
		v = 1
	}
	if err := a.pwm.Set(a.period, v); err != nil {
		log.Printf("analog: %v", err)
	}
}

// Close turns off the output and closes the PWM.
func (a *Analog) Close() {
	if err := a.pwm.Set(a.period, 0); err != nil {
		log.Printf("analog: %v", err)
	}
	a.pwm.Close()
}
