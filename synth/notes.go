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

// Package synth contains the control core of the instrument: the motor
// speed loop that sets the pitch, the amplitude envelope that sets the
// volume, and the controller that drives both from key events.

package synth

import (
	"math"
)

// NumNotes is the size of the note frequency table.
const NumNotes = 127

const (
	refNote = 69    // A4
	refFreq = 440.0 // Hz
)

// Frequencies holds the equal tempered frequency of each MIDI note.
var Frequencies = noteTable()

func noteTable() [NumNotes]float64 {
	var t [NumNotes]float64
	for n := range t {
		t[n] = refFreq * math.Pow(2, float64(n-refNote)/12)
	}
	return t
}

// Frequency returns the frequency of the note in Hz, and false if
// the note is outside the table.
func Frequency(note uint8) (float64, bool) {
	if int(note) >= NumNotes {
		return 0, false
	}
	return Frequencies[note], true
}

// NoteStack tracks the keys currently held down, in the order pressed.
// The last note is the most recently pressed key still held, which gives
// last note priority for a monophonic instrument.
type NoteStack struct {
	notes []uint8
}

// Press records a key press. Repeated presses of the same key are
// each recorded.
func (s *NoteStack) Press(note uint8) {
	s.notes = append(s.notes, note)
}

// Release removes every occurrence of the note.
func (s *NoteStack) Release(note uint8) {
	held := s.notes[:0]
	for _, n := range s.notes {
		if n != note {
			held = append(held, n)
		}
	}
	s.notes = held
}

// Last returns the most recently pressed note still held.
func (s *NoteStack) Last() (uint8, bool) {
	if len(s.notes) == 0 {
		return 0, false
	}
	return s.notes[len(s.notes)-1], true
}

// Len returns the number of entries held.
func (s *NoteStack) Len() int {
	return len(s.notes)
}
