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
	"fmt"
	"time"

	"github.com/aamcrae/config"
)

// Section is a section of a configuration file.
type Section interface {
	GetArg(key string) (string, error)
	Parse(key, format string, args ...interface{}) (int, error)
}

// MidiConfig selects the MIDI input and the events to respond to.
type MidiConfig struct {
	Channel uint8  // MIDI channel, 0-15
	DecayCC uint8  // Controller number for the decay rate
	Serial  string // Serial port of a MIDI UART
	Device  string // Name of a MIDI input device
}

// MotorConfig describes the motor, its drive and its sensor.
type MotorConfig struct {
	Sensor   int           // GPIO of the pulse input
	PWM      int           // Hardware PWM unit for the drive
	SwPWM    int           // GPIO for a software PWM drive
	Carrier  float64       // PWM frequency in Hz
	MinVolts float64       // Minimum drive voltage
	MaxVolts float64       // Maximum drive voltage
	VRef     float64       // Reference voltage if not measured
	ADC      int           // ADC channel measuring the reference voltage
	Samples  int           // Number of reference samples to average
	Pulses   int           // Counted pulses per revolution
	Period   time.Duration // Control loop period
	Kp       float64
	Ki       float64
	Kd       float64
}

// EnvelopeConfig describes the volume servo and the envelope shape.
type EnvelopeConfig struct {
	Servo    int           // Hardware PWM unit for the servo
	MinPulse time.Duration // Servo pulse width at 0 degrees
	MaxPulse time.Duration // Servo pulse width at 180 degrees
	MinPos   float64       // Servo degrees at minimum volume
	MaxPos   float64       // Servo degrees at maximum volume
	Sustain  float64       // Sustain level as a fraction of the range
	Hold     time.Duration // Hold time before decaying
	Update   time.Duration // Decay tick period
	KMin     float64       // Decay rate coefficient bounds
	KMax     float64
}

// Config is the complete instrument configuration.
type Config struct {
	Midi     MidiConfig
	Motor    MotorConfig
	Envelope EnvelopeConfig
}

// DefaultConfig returns the configuration used when keys are absent.
// Hardware selections are unset (-1 or empty).
func DefaultConfig() *Config {
	return &Config{
		Midi: MidiConfig{
			Channel: 0,
			DecayCC: 1,
		},
		Motor: MotorConfig{
			Sensor:   -1,
			PWM:      -1,
			SwPWM:    -1,
			Carrier:  50000,
			MinVolts: 1.4652,
			MaxVolts: 1.6665,
			VRef:     3.3,
			ADC:      -1,
			Samples:  8,
			Pulses:   18 * 2, // 18 coil switches per revolution, both edges
			Period:   5 * time.Millisecond,
			Kp:       0.2,
		},
		Envelope: EnvelopeConfig{
			Servo:    -1,
			MinPulse: 675 * time.Microsecond,
			MaxPulse: 2325 * time.Microsecond,
			MinPos:   45,
			MaxPos:   79,
			Sustain:  0.1,
			Hold:     100 * time.Millisecond,
			Update:   25 * time.Millisecond,
			KMin:     0.5,
			KMax:     0.98,
		},
	}
}

// Load reads and validates the configuration file.
// Sample config:
//  [midi]
//  channel=0                 # MIDI channel
//  decay=1                   # Controller number for decay rate
//  serial=/dev/ttyAMA0       # MIDI UART, or
//  device=Launchkey          # MIDI input device name
//  [motor]
//  sensor=17                 # GPIO of motor pulse output
//  pwm=0                     # PWM unit for drive, or
//  swpwm=18                  # GPIO for s/w PWM drive
//  frequency=50000           # PWM frequency
//  voltage=1.4652,1.6665     # Drive voltage bounds
//  vref=3.3                  # Reference voltage, or
//  adc=0                     # ADC channel for reference voltage
//  samples=8                 # Reference voltage samples
//  pulses=36                 # Pulses per revolution
//  period=5ms                # Control loop period
//  pid=0.2,0,0               # PID gains
//  [envelope]
//  servo=1,675,2325          # PWM unit, pulse width range in microseconds
//  position=45,79            # Servo degrees at min and max volume
//  sustain=0.1               # Sustain level
//  hold=100ms                # Hold time
//  update=25ms               # Decay update period
//  decay=0.5,0.98            # Decay rate bounds
func Load(file string) (*Config, error) {
	conf, err := config.ParseFile(file)
	if err != nil {
		return nil, err
	}
	return ParseConfig(func(name string) Section {
		if s := conf.GetSection(name); s != nil {
			return s
		}
		return nil
	})
}

// ParseConfig builds a Config from the sections returned by get.
// A missing section or key takes the default value.
func ParseConfig(get func(name string) Section) (*Config, error) {
	c := DefaultConfig()
	if s := get("midi"); s != nil {
		if err := c.Midi.parse(s); err != nil {
			return nil, fmt.Errorf("midi: %v", err)
		}
	}
	if s := get("motor"); s != nil {
		if err := c.Motor.parse(s); err != nil {
			return nil, fmt.Errorf("motor: %v", err)
		}
	}
	if s := get("envelope"); s != nil {
		if err := c.Envelope.parse(s); err != nil {
			return nil, fmt.Errorf("envelope: %v", err)
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	m := &c.Motor
	e := &c.Envelope
	switch {
	case c.Midi.Channel > 15:
		return fmt.Errorf("midi: channel %d out of range", c.Midi.Channel)
	case c.Midi.DecayCC > 127:
		return fmt.Errorf("midi: controller %d out of range", c.Midi.DecayCC)
	case m.Pulses < 1:
		return fmt.Errorf("motor: invalid pulses per revolution %d", m.Pulses)
	case m.Period <= 0:
		return fmt.Errorf("motor: invalid period %s", m.Period)
	case m.MinVolts > m.MaxVolts:
		return fmt.Errorf("motor: voltage bounds %g > %g", m.MinVolts, m.MaxVolts)
	case m.Carrier <= 0:
		return fmt.Errorf("motor: invalid PWM frequency %g", m.Carrier)
	case e.MinPulse > e.MaxPulse:
		return fmt.Errorf("envelope: pulse bounds %s > %s", e.MinPulse, e.MaxPulse)
	case e.Hold <= 0 || e.Update <= 0:
		return fmt.Errorf("envelope: invalid hold %s or update %s", e.Hold, e.Update)
	case e.KMin <= 0 || e.KMax >= 1 || e.KMin > e.KMax:
		return fmt.Errorf("envelope: invalid decay bounds %g,%g", e.KMin, e.KMax)
	case e.Sustain < 0 || e.Sustain > 1:
		return fmt.Errorf("envelope: invalid sustain %g", e.Sustain)
	}
	return nil
}

func (m *MidiConfig) parse(s Section) error {
	ch, cc := int(m.Channel), int(m.DecayCC)
	if err := optional(s, "channel", "%d", &ch); err != nil {
		return err
	}
	if err := optional(s, "decay", "%d", &cc); err != nil {
		return err
	}
	if ch < 0 || ch > 15 {
		return fmt.Errorf("channel %d out of range", ch)
	}
	if cc < 0 || cc > 127 {
		return fmt.Errorf("decay controller %d out of range", cc)
	}
	m.Channel = uint8(ch)
	m.DecayCC = uint8(cc)
	if v, err := s.GetArg("serial"); err == nil {
		m.Serial = v
	}
	if v, err := s.GetArg("device"); err == nil {
		m.Device = v
	}
	return nil
}

func (m *MotorConfig) parse(s Section) error {
	var err error
	for _, o := range []struct {
		key    string
		format string
		args   []interface{}
	}{
		{"sensor", "%d", []interface{}{&m.Sensor}},
		{"pwm", "%d", []interface{}{&m.PWM}},
		{"swpwm", "%d", []interface{}{&m.SwPWM}},
		{"frequency", "%f", []interface{}{&m.Carrier}},
		{"voltage", "%f,%f", []interface{}{&m.MinVolts, &m.MaxVolts}},
		{"vref", "%f", []interface{}{&m.VRef}},
		{"adc", "%d", []interface{}{&m.ADC}},
		{"samples", "%d", []interface{}{&m.Samples}},
		{"pulses", "%d", []interface{}{&m.Pulses}},
		{"pid", "%f,%f,%f", []interface{}{&m.Kp, &m.Ki, &m.Kd}},
	} {
		if err = optional(s, o.key, o.format, o.args...); err != nil {
			return err
		}
	}
	return duration(s, "period", &m.Period)
}

func (e *EnvelopeConfig) parse(s Section) error {
	var err error
	unit := e.Servo
	minUs := int(e.MinPulse / time.Microsecond)
	maxUs := int(e.MaxPulse / time.Microsecond)
	if err = optional(s, "servo", "%d,%d,%d", &unit, &minUs, &maxUs); err != nil {
		return err
	}
	e.Servo = unit
	e.MinPulse = time.Duration(minUs) * time.Microsecond
	e.MaxPulse = time.Duration(maxUs) * time.Microsecond
	if err = optional(s, "position", "%f,%f", &e.MinPos, &e.MaxPos); err != nil {
		return err
	}
	if err = optional(s, "sustain", "%f", &e.Sustain); err != nil {
		return err
	}
	if err = optional(s, "decay", "%f,%f", &e.KMin, &e.KMax); err != nil {
		return err
	}
	if err = duration(s, "hold", &e.Hold); err != nil {
		return err
	}
	return duration(s, "update", &e.Update)
}

// optional parses a key if it is present, checking that all
// the arguments were scanned.
func optional(s Section, key, format string, args ...interface{}) error {
	if _, err := s.GetArg(key); err != nil {
		return nil
	}
	n, err := s.Parse(key, format, args...)
	if err != nil {
		return fmt.Errorf("%s: %v", key, err)
	}
	if n != len(args) {
		return fmt.Errorf("%s: argument count", key)
	}
	return nil
}

// duration parses an optional duration value.
func duration(s Section, key string, d *time.Duration) error {
	v, err := s.GetArg(key)
	if err != nil {
		return nil
	}
	*d, err = time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %v", key, err)
	}
	return nil
}
