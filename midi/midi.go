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

// Package midi reads MIDI messages from a serial port or a MIDI
// input device and delivers note and controller events to a Handler.

package midi

import (
	"io"

	gomidi "gitlab.com/gomidi/midi/v2"
)

// Handler receives the events the instrument responds to.
type Handler interface {
	NoteOn(channel, key, velocity uint8)
	NoteOff(channel, key uint8)
	ControlChange(channel, controller, value uint8)
}

// Dispatch delivers a message to the handler. A note on with zero
// velocity is delivered as a note on. Other messages are ignored.
func Dispatch(msg gomidi.Message, h Handler) {
	var ch, key, val uint8
	switch {
	case msg.GetNoteOn(&ch, &key, &val):
		h.NoteOn(ch, key, val)
	case msg.GetNoteOff(&ch, &key, &val):
		h.NoteOff(ch, key)
	case msg.GetControlChange(&ch, &key, &val):
		h.ControlChange(ch, key, val)
	}
}

// Listen reads a MIDI byte stream, and for each message posts a call of
// Dispatch, so that the handler runs on the poster's goroutine.
// Listen returns nil at the end of the stream, or the read error.
func Listen(r io.Reader, post func(func()), h Handler) error {
	var f Framer
	buf := make([]byte, 64)
	for {
		n, err := r.Read(buf)
		for _, b := range buf[:n] {
			if msg, ok := f.Feed(b); ok {
				post(func() {
					Dispatch(msg, h)
				})
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
