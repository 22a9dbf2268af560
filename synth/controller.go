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
	"log"
)

// Controller plays the instrument from key and controller events.
// Only the most recently pressed key that is still held sounds: a press
// retunes the motor and retriggers the envelope, and a release
// falls back to the previous held key, or silences the instrument
// when no keys remain. The motor keeps spinning at the last pitch.
type Controller struct {
	Verbose bool
	channel uint8
	decayCC uint8
	notes   *NoteStack
	env     *Envelope
	drive   *Drive
}

// NewController creates a controller for the channel and decay controller number.
func NewController(cfg *MidiConfig, notes *NoteStack, env *Envelope, drive *Drive) *Controller {
	return &Controller{
		channel: cfg.Channel,
		decayCC: cfg.DecayCC,
		notes:   notes,
		env:     env,
		drive:   drive,
	}
}

// Start sets the volume to minimum. It must be called before
// any events are delivered.
func (c *Controller) Start() {
	c.env.Silence()
}

// NoteOn handles a key press. A zero velocity retriggers the
// envelope at minimum volume without recording the key.
func (c *Controller) NoteOn(channel, note, velocity uint8) {
	if channel != c.channel {
		return
	}
	if c.Verbose {
		log.Printf("controller: note on %d velocity %d", note, velocity)
	}
	c.env.Trigger(velocity)
	if velocity != 0 {
		c.notes.Press(note)
		c.retune()
	}
}

// NoteOff handles a key release.
func (c *Controller) NoteOff(channel, note uint8) {
	if channel != c.channel {
		return
	}
	if c.Verbose {
		log.Printf("controller: note off %d (%d held)", note, c.notes.Len())
	}
	c.notes.Release(note)
	if !c.retune() {
		c.env.Silence()
	}
}

// ControlChange handles a controller change, updating the decay rate
// from the configured controller.
func (c *Controller) ControlChange(channel, controller, value uint8) {
	if channel != c.channel || controller != c.decayCC {
		return
	}
	c.env.SetDecayRate(value)
}

// retune sets the motor to the frequency of the last held note,
// returning false if no note is held.
func (c *Controller) retune() bool {
	n, ok := c.notes.Last()
	if !ok {
		return false
	}
	if f, ok := Frequency(n); ok {
		c.drive.SetTarget(f)
	}
	return true
}
