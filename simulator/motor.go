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

package main

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/aamcrae/discsynth/io"
	"github.com/aamcrae/discsynth/synth"
)

// motor is a first order model of a DC motor with a slotted disc.
// The steady speed rises linearly from zero at the minimum drive
// voltage to top at the maximum drive voltage.
type motor struct {
	counter  *io.PulseCounter
	vref     float64
	stall    float64 // Voltage where the motor stops
	gain     float64 // rev/sec per volt above stall
	pulses   float64 // Pulses per revolution
	tau      float64 // Time constant in seconds
	drive    float64
	speed    float64 // rev/sec
	phase    float64 // Fraction of a pulse
	last     time.Time
	reported atomic.Uint64 // Speed for the audio monitor
}

func newMotor(c *io.PulseCounter, mc *synth.MotorConfig, top float64, lag time.Duration) *motor {
	return &motor{
		counter: c,
		vref:    mc.VRef,
		stall:   mc.MinVolts,
		gain:    top / (mc.MaxVolts - mc.MinVolts),
		pulses:  float64(mc.Pulses),
		tau:     lag.Seconds(),
	}
}

// Write sets the drive level as a fraction of the reference voltage.
func (m *motor) Write(v float64) {
	m.drive = v
}

// Step advances the model to now, counting the pulses that the
// disc would have generated.
func (m *motor) Step(now time.Time) {
	if m.last.IsZero() {
		m.last = now
		return
	}
	dt := now.Sub(m.last).Seconds()
	m.last = now
	if dt <= 0 {
		return
	}
	want := math.Max(0, (m.drive*m.vref-m.stall)*m.gain)
	m.speed += (want - m.speed) * math.Min(1, dt/m.tau)
	m.phase += m.speed * m.pulses * dt
	for ; m.phase >= 1; m.phase-- {
		m.counter.Inc()
	}
	m.reported.Store(math.Float64bits(m.speed))
}

// Speed returns the speed in rev/sec. It is safe to call from
// any goroutine.
func (m *motor) Speed() float64 {
	return math.Float64frombits(m.reported.Load())
}

// simServo records the position written to it.
type simServo struct {
	position atomic.Uint64
}

func (s *simServo) Write(deg float64) {
	s.position.Store(math.Float64bits(deg))
}

func (s *simServo) Position() float64 {
	return math.Float64frombits(s.position.Load())
}
