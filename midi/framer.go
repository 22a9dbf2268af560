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

package midi

import (
	gomidi "gitlab.com/gomidi/midi/v2"
)

// Framer assembles channel messages from a serial MIDI byte stream.
// Running status is supported. Real time bytes may be interleaved
// anywhere and are discarded; system exclusive and system common
// messages are skipped.
type Framer struct {
	status byte // Running status, 0 if none
	buf    [3]byte
	n      int // Bytes in buf
	need   int // Length of the current message
	sysex  bool
}

// Feed adds a byte to the stream, returning a message when one is complete.
func (f *Framer) Feed(b byte) (gomidi.Message, bool) {
	switch {
	case b >= 0xF8:
		// Real time, does not affect running status.
		return nil, false
	case b == 0xF0:
		f.sysex = true
		f.status = 0
		f.n = 0
		return nil, false
	case b >= 0xF1:
		// System common (or end of exclusive) cancels running status.
		f.sysex = false
		f.status = 0
		f.n = 0
		return nil, false
	case b >= 0x80:
		f.sysex = false
		f.status = b
		f.buf[0] = b
		f.n = 1
		f.need = 3
		if b&0xF0 == 0xC0 || b&0xF0 == 0xD0 {
			f.need = 2
		}
		return nil, false
	}
	if f.sysex || f.status == 0 {
		return nil, false
	}
	if f.n == 0 {
		// Running status
		f.buf[0] = f.status
		f.n = 1
	}
	f.buf[f.n] = b
	f.n++
	if f.n < f.need {
		return nil, false
	}
	msg := make(gomidi.Message, f.n)
	copy(msg, f.buf[:f.n])
	f.n = 0
	return msg, true
}
