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
	"math"
	"testing"
)

func TestFrequencies(t *testing.T) {
	if f, _ := Frequency(69); math.Abs(f-440) > 1e-9 {
		t.Errorf("note 69: %g, want 440", f)
	}
	if f, _ := Frequency(81); math.Abs(f-880) > 1e-9 {
		t.Errorf("note 81: %g, want 880", f)
	}
	if f, _ := Frequency(57); math.Abs(f-220) > 1e-9 {
		t.Errorf("note 57: %g, want 220", f)
	}
	for n := 1; n < NumNotes; n++ {
		if Frequencies[n] <= Frequencies[n-1] {
			t.Fatalf("table not increasing at note %d", n)
		}
	}
	if _, ok := Frequency(127); ok {
		t.Errorf("note 127 should be outside the table")
	}
}

func TestNoteStack(t *testing.T) {
	type op struct {
		press bool
		note  uint8
	}
	tests := []struct {
		name string
		ops  []op
		last uint8
		ok   bool
	}{
		{"empty", nil, 0, false},
		{"single", []op{{true, 60}}, 60, true},
		{"last pressed wins", []op{{true, 60}, {true, 64}}, 64, true},
		{"fall back", []op{{true, 60}, {true, 64}, {false, 64}}, 60, true},
		{"release earlier", []op{{true, 60}, {true, 64}, {false, 60}}, 64, true},
		{"repeat then release", []op{{true, 60}, {true, 60}, {false, 60}}, 0, false},
		{"no dangling", []op{{true, 60}, {true, 62}, {true, 60}, {false, 60}}, 62, true},
		{"release unpressed", []op{{true, 60}, {false, 70}}, 60, true},
		{"release on empty", []op{{false, 70}}, 0, false},
		{"not highest", []op{{true, 72}, {true, 48}, {true, 60}, {false, 60}}, 48, true},
		{"note zero", []op{{true, 0}}, 0, true},
	}
	for _, tc := range tests {
		var s NoteStack
		for _, o := range tc.ops {
			if o.press {
				s.Press(o.note)
			} else {
				s.Release(o.note)
			}
		}
		n, ok := s.Last()
		if ok != tc.ok || n != tc.last {
			t.Errorf("%s: Last() = %d, %v, want %d, %v", tc.name, n, ok, tc.last, tc.ok)
		}
	}
}

func TestNoteStackOrder(t *testing.T) {
	var s NoteStack
	for _, n := range []uint8{1, 2, 3, 2, 4, 2} {
		s.Press(n)
	}
	s.Release(2)
	want := []uint8{1, 3, 4}
	if s.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", s.Len(), len(want))
	}
	for i, n := range want {
		if s.notes[i] != n {
			t.Errorf("entry %d = %d, want %d", i, s.notes[i], n)
		}
	}
}
