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

const (
	servoFrame = 20 * time.Millisecond
	servoRange = 180.0
)

// Servo is a hobby servo driven by a PWM output. The position
// is expressed in degrees from 0 to 180, which is mapped linearly
// to a pulse width between min and max, repeated every 20ms.
type Servo struct {
	pwm      PWM
	min, max time.Duration
}

// NewServo creates a servo on the PWM output.
func NewServo(pwm PWM, min, max time.Duration) *Servo {
	return &Servo{pwm: pwm, min: min, max: max}
}

// Write moves the servo to the angle in degrees.
func (s *Servo) Write(deg float64) {
	if deg < 0 {
		deg = 0
	} else if deg > servoRange {
		deg = servoRange
	}
	s.pwm.Set(servoFrame, s.Duty(deg))
}

// Duty returns the PWM duty cycle for the angle.
func (s *Servo) Duty(deg float64) float64 {
	pulse := float64(s.min) + deg*float64(s.max-s.min)/servoRange
	return pulse / float64(servoFrame)
}

// Close releases the servo and closes the PWM.
func (s *Servo) Close() {
	if err := s.pwm.Set(servoFrame, 0); err != nil {
		log.Printf("servo: %v", err)
	}
	s.pwm.Close()
}
