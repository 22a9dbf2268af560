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

package main

import (
	"encoding/binary"
	"math"

	"github.com/ebitengine/oto/v3"

	"github.com/aamcrae/discsynth/synth"
)

const sampleRate = 44100

// monitor plays a sine at the motor frequency, with the level
// following the servo between the minimum and maximum volume positions.
type monitor struct {
	ctx      *oto.Context
	player   *oto.Player
	motor    *motor
	servo    *simServo
	min, max float64
	phase    float64
}

func newMonitor(m *motor, s *simServo, ec *synth.EnvelopeConfig) (*monitor, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, err
	}
	<-ready
	mon := &monitor{ctx: ctx, motor: m, servo: s, min: ec.MinPos, max: ec.MaxPos}
	mon.player = ctx.NewPlayer(mon)
	mon.player.Play()
	return mon, nil
}

// Read generates float32 samples for the player.
func (m *monitor) Read(p []byte) (int, error) {
	f := m.motor.Speed()
	level := (m.servo.Position() - m.min) / (m.max - m.min)
	level = math.Max(0, math.Min(1, level))
	n := len(p) / 4
	for i := 0; i < n; i++ {
		v := float32(level * math.Sin(2*math.Pi*m.phase))
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
		m.phase += f / sampleRate
		if m.phase >= 1 {
			m.phase -= math.Floor(m.phase)
		}
	}
	return n * 4, nil
}

func (m *monitor) Close() {
	m.player.Close()
}
