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

// Amplitude envelope

package synth

import (
	"time"

	"github.com/aamcrae/discsynth/loop"
)

// VelocityMax is the largest velocity or controller value.
const VelocityMax = 127

// Stage is the state of the envelope.
type Stage int

const (
	Idle     Stage = iota // Nothing scheduled
	Holding               // Waiting for the hold time to expire
	Decaying              // Approaching the sustain floor
)

func (s Stage) String() string {
	switch s {
	case Idle:
		return "idle"
	case Holding:
		return "holding"
	case Decaying:
		return "decaying"
	}
	return "unknown"
}

// Envelope drives the position actuator that sets the volume.
// A trigger jumps to a position set by the velocity, holds it for
// the hold time, and then decays exponentially towards the sustain floor
// until the next trigger.
// The Envelope is not safe for concurrent use; all methods must be
// called on the scheduler's goroutine.
type Envelope struct {
	out      Output
	sched    loop.Scheduler
	min, max float64       // Positions of minimum and maximum volume
	floor    float64       // Sustain position
	hold     time.Duration // Time before decay starts
	update   time.Duration // Decay tick period
	kMin     float64
	kMax     float64
	k        float64 // Decay rate coefficient
	position float64
	stage    Stage
	timer    loop.Timer // Hold delay when Holding, decay tick when Decaying
}

// NewEnvelope creates an envelope writing positions to out.
func NewEnvelope(out Output, sched loop.Scheduler, cfg *EnvelopeConfig) *Envelope {
	e := new(Envelope)
	e.out = out
	e.sched = sched
	e.min = cfg.MinPos
	e.max = cfg.MaxPos
	e.floor = cfg.MinPos + (cfg.MaxPos-cfg.MinPos)*cfg.Sustain
	e.hold = cfg.Hold
	e.update = cfg.Update
	e.kMin = cfg.KMin
	e.kMax = cfg.KMax
	e.k = cfg.KMax
	e.position = cfg.MinPos
	return e
}

// Trigger starts a new envelope at the position mapped from the velocity.
// Any envelope in progress is abandoned.
func (e *Envelope) Trigger(velocity uint8) {
	e.cancel()
	e.position = e.min + float64(velocity)*(e.max-e.min)/VelocityMax
	e.out.Write(e.position)
	e.set(Holding, e.sched.After(e.hold, e.decay))
}

// Silence drops to the minimum volume.
func (e *Envelope) Silence() {
	e.Trigger(0)
}

// SetDecayRate maps a controller value to the decay rate coefficient
// used by subsequent decay ticks.
func (e *Envelope) SetDecayRate(control uint8) {
	e.k = e.kMin + float64(control)*(e.kMax-e.kMin)/VelocityMax
}

// Position returns the last position written.
func (e *Envelope) Position() float64 {
	return e.position
}

// Rate returns the current decay rate coefficient.
func (e *Envelope) Rate() float64 {
	return e.k
}

// Stage returns the current envelope stage.
func (e *Envelope) Stage() Stage {
	return e.stage
}

// Floor returns the sustain position.
func (e *Envelope) Floor() float64 {
	return e.floor
}

// decay ends the hold and starts the periodic decay.
func (e *Envelope) decay() {
	e.set(Decaying, e.sched.Every(e.update, e.step))
}

// step moves one decay tick towards the sustain floor. The floor
// is approached but never reached; the next trigger ends the decay.
func (e *Envelope) step() {
	e.position = e.floor*(1-e.k) + e.position*e.k
	e.out.Write(e.position)
}

func (e *Envelope) set(s Stage, t loop.Timer) {
	e.stage = s
	e.timer = t
}

func (e *Envelope) cancel() {
	if e.timer != nil {
		e.timer.Stop()
	}
	e.set(Idle, nil)
}
