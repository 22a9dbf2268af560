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
	"time"

	"github.com/aamcrae/discsynth/loop"
)

// constReg is a Regulator that always returns the same output.
type constReg struct {
	out      float64
	measured []float64
}

func (r *constReg) Configure(target, min, max float64) {}
func (r *constReg) SetTarget(target float64)           {}
func (r *constReg) Update(m float64, dt time.Duration) float64 {
	r.measured = append(r.measured, m)
	return r.out
}

func testMotor() *MotorConfig {
	m := DefaultConfig().Motor
	return &m
}

func newTestDrive(reg Regulator) (*Drive, *fakeCounter, *recorder, *loop.Virtual) {
	c := &fakeCounter{}
	r := &recorder{}
	s := newFakeSched()
	d := NewDrive(c, r, reg, testMotor(), 3.3)
	return d, c, r, s
}

func TestDriveFrequency(t *testing.T) {
	d, c, r, s := newTestDrive(NewPID(0.2, 0, 0))
	d.Start(s)
	// Half a revolution in 5ms.
	c.n += 18
	s.Advance(5 * time.Millisecond)
	if f := d.Frequency(); math.Abs(f-100) > 1e-6 {
		t.Errorf("frequency %g, want 100", f)
	}
	if len(r.values) != 1 {
		t.Fatalf("%d writes, want 1", len(r.values))
	}
	// No pulses in the next sample keeps the estimate.
	s.Advance(5 * time.Millisecond)
	if f := d.Frequency(); math.Abs(f-100) > 1e-6 {
		t.Errorf("frequency after empty sample %g, want 100", f)
	}
	// Two revolutions in one sample, then none for three.
	c.n += 72
	s.Advance(5 * time.Millisecond)
	s.Advance(15 * time.Millisecond)
	if f := d.Frequency(); math.Abs(f-400) > 1e-6 {
		t.Errorf("frequency %g, want 400", f)
	}
	if len(r.values) != 6 {
		t.Errorf("%d writes, want 6", len(r.values))
	}
}

func TestDriveCounterWrap(t *testing.T) {
	d, c, _, s := newTestDrive(NewPID(0.2, 0, 0))
	c.n = 0xFFFFFFF0
	d.Start(s)
	c.n = 0x14 // 36 pulses later
	s.Advance(5 * time.Millisecond)
	if f := d.Frequency(); math.Abs(f-200) > 1e-6 {
		t.Errorf("frequency across wrap %g, want 200", f)
	}
}

func TestDriveNoElapsedTime(t *testing.T) {
	d, c, r, s := newTestDrive(NewPID(0.2, 0, 0))
	d.Start(s)
	c.n += 36
	s.Advance(5 * time.Millisecond)
	f := d.Frequency()
	out := d.Output()
	writes := len(r.values)
	c.n += 100
	d.Tick(s.Now())
	d.Tick(s.Now().Add(-time.Millisecond))
	if d.Frequency() != f {
		t.Errorf("frequency changed to %g on zero elapsed time (was %g)", d.Frequency(), f)
	}
	if d.Output() != out || len(r.values) != writes {
		t.Errorf("output written on zero elapsed time")
	}
}

func TestDriveFirstTick(t *testing.T) {
	d, c, r, _ := newTestDrive(NewPID(0.2, 0, 0))
	c.n = 1000
	d.Tick(time.Now())
	if len(r.values) != 0 || d.Frequency() != 0 {
		t.Errorf("first tick without a start time should be skipped")
	}
}

func TestDriveOutputBounds(t *testing.T) {
	min, max := 1.4652/3.3, 1.6665/3.3
	d, c, r, s := newTestDrive(NewPID(0.2, 0, 0))
	d.Start(s)
	d.SetTarget(440)
	c.n += 18
	s.Advance(5 * time.Millisecond)
	if math.Abs(r.last()-max) > 1e-9 {
		t.Errorf("too slow: output %g, want %g", r.last(), max)
	}
	d.SetTarget(50)
	c.n += 18
	s.Advance(5 * time.Millisecond)
	if math.Abs(r.last()-min) > 1e-9 {
		t.Errorf("too fast: output %g, want %g", r.last(), min)
	}
	if d.Target() != 50 {
		t.Errorf("target %g, want 50", d.Target())
	}
}

func TestDriveClampsRegulator(t *testing.T) {
	reg := &constReg{out: 5}
	d, c, r, s := newTestDrive(reg)
	d.Start(s)
	c.n += 36
	s.Advance(5 * time.Millisecond)
	if want := 1.6665 / 3.3; math.Abs(r.last()-want) > 1e-9 {
		t.Errorf("output %g, want clamped to %g", r.last(), want)
	}
	reg.out = -5
	s.Advance(5 * time.Millisecond)
	if want := 1.4652 / 3.3; math.Abs(r.last()-want) > 1e-9 {
		t.Errorf("output %g, want clamped to %g", r.last(), want)
	}
	if len(reg.measured) != 2 || math.Abs(reg.measured[1]-200) > 1e-6 {
		t.Errorf("regulator measurements %v, want [200 200]", reg.measured)
	}
}

func TestDriveStop(t *testing.T) {
	d, _, r, s := newTestDrive(NewPID(0.2, 0, 0))
	d.Start(s)
	s.Advance(20 * time.Millisecond)
	n := len(r.values)
	d.Stop()
	s.Advance(20 * time.Millisecond)
	if len(r.values) != n {
		t.Errorf("drive written after Stop")
	}
}
