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
	"time"

	"go.einride.tech/pid"
)

// Regulator is a feedback controller with a bounded output.
type Regulator interface {
	Configure(target, min, max float64)
	SetTarget(target float64)
	Update(measured float64, dt time.Duration) float64
}

// PID is a Regulator using a PID controller, with the output
// clamped to the configured bounds.
type PID struct {
	c        pid.Controller
	target   float64
	min, max float64
}

// NewPID creates a PID regulator with the gains.
func NewPID(kp, ki, kd float64) *PID {
	p := new(PID)
	p.c.Config = pid.ControllerConfig{
		ProportionalGain: kp,
		IntegralGain:     ki,
		DerivativeGain:   kd,
	}
	return p
}

// Configure sets the target and the output bounds.
func (p *PID) Configure(target, min, max float64) {
	p.target = target
	p.min = min
	p.max = max
	p.c.Reset()
}

// SetTarget changes the target, leaving the bounds as they are.
func (p *PID) SetTarget(target float64) {
	p.target = target
}

// Update feeds a new measurement into the controller and returns
// the new output.
func (p *PID) Update(measured float64, dt time.Duration) float64 {
	p.c.Update(pid.ControllerInput{
		ReferenceSignal:  p.target,
		ActualSignal:     measured,
		SamplingInterval: dt,
	})
	return clamp(p.c.State.ControlSignal, p.min, p.max)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
