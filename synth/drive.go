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

// Motor speed control

package synth

import (
	"log"
	"time"

	"github.com/aamcrae/discsynth/loop"
)

// Counter is a free running pulse count.
type Counter interface {
	Load() uint32
}

// Output is an actuator that holds the last value written.
type Output interface {
	Write(float64)
}

// Drive holds the motor at a target rotation frequency. At every
// period, the pulses from the motor's commutation output are counted to
// measure the frequency of rotation, and the regulator output is written
// to the analog drive.
// The drive output is normalized to the range of the analog output,
// and is bounded by the configured drive voltages scaled by the
// reference voltage.
type Drive struct {
	counter     Counter
	out         Output
	reg         Regulator
	period      time.Duration
	revPerPulse float64    // Revolutions per counted pulse
	min, max    float64    // Output bounds
	last        uint32     // Count at last sample
	lastTime    time.Time  // Time of last sample
	frequency   float64    // Measured frequency in Hz
	target      float64    // Target frequency in Hz
	output      float64    // Last output written
	ticker      loop.Timer // Control loop
}

// NewDrive creates a Drive. vref is the voltage of a fully on output.
func NewDrive(counter Counter, out Output, reg Regulator, cfg *MotorConfig, vref float64) *Drive {
	d := new(Drive)
	d.counter = counter
	d.out = out
	d.reg = reg
	d.period = cfg.Period
	d.revPerPulse = 1 / float64(cfg.Pulses)
	d.min = cfg.MinVolts / vref
	d.max = cfg.MaxVolts / vref
	d.output = d.min
	d.reg.Configure(0, d.min, d.max)
	log.Printf("drive: vref %.4fV, output %.4f - %.4f, %d pulses/rev, period %s", vref, d.min, d.max, cfg.Pulses, d.period)
	return d
}

// Start runs the control loop on the scheduler.
func (d *Drive) Start(s loop.Scheduler) {
	d.last = d.counter.Load()
	d.lastTime = s.Now()
	d.ticker = s.Every(d.period, func() {
		d.Tick(s.Now())
	})
}

// Stop halts the control loop. The output is left at the last value.
func (d *Drive) Stop() {
	if d.ticker != nil {
		d.ticker.Stop()
		d.ticker = nil
	}
}

// SetTarget sets the frequency to hold, taking effect on the next tick.
func (d *Drive) SetTarget(hz float64) {
	d.target = hz
	d.reg.SetTarget(hz)
}

// Target returns the current target frequency.
func (d *Drive) Target() float64 {
	return d.target
}

// Frequency returns the last measured frequency.
func (d *Drive) Frequency() float64 {
	return d.frequency
}

// Output returns the last value written to the drive.
func (d *Drive) Output() float64 {
	return d.output
}

// Tick samples the pulse counter and updates the drive output.
func (d *Drive) Tick(now time.Time) {
	count := d.counter.Load()
	// Unsigned difference is correct across counter wrap.
	pulses := count - d.last
	d.last = count
	elapsed := now.Sub(d.lastTime)
	first := d.lastTime.IsZero()
	d.lastTime = now
	if first || elapsed <= 0 {
		return
	}
	// With no pulses, keep the last estimate; a slow motor
	// may legitimately see no pulses in a sample period.
	if pulses > 0 {
		d.frequency = float64(pulses) * d.revPerPulse / elapsed.Seconds()
	}
	d.output = clamp(d.reg.Update(d.frequency, elapsed), d.min, d.max)
	d.out.Write(d.output)
}
