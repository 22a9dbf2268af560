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
	"errors"
	"fmt"
	"testing"
	"time"
)

type fakeSection map[string]string

func (f fakeSection) GetArg(key string) (string, error) {
	v, ok := f[key]
	if !ok {
		return "", fmt.Errorf("%s: not found", key)
	}
	return v, nil
}

func (f fakeSection) Parse(key, format string, args ...interface{}) (int, error) {
	v, err := f.GetArg(key)
	if err != nil {
		return 0, err
	}
	return fmt.Sscanf(v, format, args...)
}

func sections(s map[string]fakeSection) func(string) Section {
	return func(name string) Section {
		if sec, ok := s[name]; ok {
			return sec
		}
		return nil
	}
}

func TestConfigDefaults(t *testing.T) {
	c, err := ParseConfig(sections(nil))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if c.Motor.Pulses != 36 || c.Motor.Period != 5*time.Millisecond || c.Motor.Samples != 8 {
		t.Errorf("motor defaults %+v", c.Motor)
	}
	if c.Midi.Channel != 0 || c.Midi.DecayCC != 1 {
		t.Errorf("midi defaults %+v", c.Midi)
	}
	if c.Envelope.MinPos != 45 || c.Envelope.MaxPos != 79 || c.Envelope.Hold != 100*time.Millisecond {
		t.Errorf("envelope defaults %+v", c.Envelope)
	}
}

func TestConfigParse(t *testing.T) {
	c, err := ParseConfig(sections(map[string]fakeSection{
		"midi": {
			"channel": "3",
			"decay":   "74",
			"serial":  "/dev/ttyAMA0",
		},
		"motor": {
			"sensor":  "17",
			"pwm":     "0",
			"voltage": "1.2,1.9",
			"adc":     "2",
			"pulses":  "12",
			"period":  "2ms",
			"pid":     "0.5,0.1,0.01",
		},
		"envelope": {
			"servo":    "1,500,2500",
			"position": "30,90",
			"sustain":  "0.25",
			"hold":     "50ms",
			"update":   "10ms",
			"decay":    "0.6,0.9",
		},
	}))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if c.Midi.Channel != 3 || c.Midi.DecayCC != 74 || c.Midi.Serial != "/dev/ttyAMA0" {
		t.Errorf("midi %+v", c.Midi)
	}
	m := c.Motor
	if m.Sensor != 17 || m.PWM != 0 || m.SwPWM != -1 || m.MinVolts != 1.2 || m.MaxVolts != 1.9 ||
		m.ADC != 2 || m.Pulses != 12 || m.Period != 2*time.Millisecond ||
		m.Kp != 0.5 || m.Ki != 0.1 || m.Kd != 0.01 {
		t.Errorf("motor %+v", m)
	}
	if m.VRef != 3.3 || m.Carrier != 50000 {
		t.Errorf("motor defaults not kept: %+v", m)
	}
	e := c.Envelope
	if e.Servo != 1 || e.MinPulse != 500*time.Microsecond || e.MaxPulse != 2500*time.Microsecond ||
		e.MinPos != 30 || e.MaxPos != 90 || e.Sustain != 0.25 ||
		e.Hold != 50*time.Millisecond || e.Update != 10*time.Millisecond ||
		e.KMin != 0.6 || e.KMax != 0.9 {
		t.Errorf("envelope %+v", e)
	}
}

func TestConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		s    map[string]fakeSection
	}{
		{"channel", map[string]fakeSection{"midi": {"channel": "16"}}},
		{"controller", map[string]fakeSection{"midi": {"decay": "128"}}},
		{"channel syntax", map[string]fakeSection{"midi": {"channel": "x"}}},
		{"voltage count", map[string]fakeSection{"motor": {"voltage": "1.5"}}},
		{"voltage order", map[string]fakeSection{"motor": {"voltage": "2,1"}}},
		{"pulses", map[string]fakeSection{"motor": {"pulses": "0"}}},
		{"period", map[string]fakeSection{"motor": {"period": "5"}}},
		{"zero period", map[string]fakeSection{"motor": {"period": "0s"}}},
		{"decay bounds", map[string]fakeSection{"envelope": {"decay": "0.5,1"}}},
		{"decay order", map[string]fakeSection{"envelope": {"decay": "0.9,0.5"}}},
		{"hold", map[string]fakeSection{"envelope": {"hold": "-1ms"}}},
		{"sustain", map[string]fakeSection{"envelope": {"sustain": "1.5"}}},
		{"servo", map[string]fakeSection{"envelope": {"servo": "1,2500,500"}}},
	}
	for _, tc := range tests {
		if _, err := ParseConfig(sections(tc.s)); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

type samples struct {
	v   []float64
	err error
}

func (s *samples) Voltage() (float64, error) {
	if len(s.v) == 0 {
		return 0, s.err
	}
	v := s.v[0]
	s.v = s.v[1:]
	return v, nil
}

func TestCalibrate(t *testing.T) {
	v, err := Calibrate(&samples{v: []float64{3.2, 3.4, 3.3, 3.3}}, 4)
	if err != nil {
		t.Fatalf("Calibrate: %v", err)
	}
	if v < 3.2999 || v > 3.3001 {
		t.Errorf("vref %g, want 3.3", v)
	}
	v, err = Calibrate(FixedVoltage(5), 8)
	if err != nil || v != 5 {
		t.Errorf("fixed vref %g (%v), want 5", v, err)
	}
	if _, err := Calibrate(&samples{v: []float64{3.3}, err: errors.New("adc")}, 2); err == nil {
		t.Errorf("expected read error")
	}
	if _, err := Calibrate(FixedVoltage(0), 8); err == nil {
		t.Errorf("expected error for zero reference")
	}
}
