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

// Simulator program. The synthesizer core runs against a simulated
// motor and servo, playing a demo sequence or a MIDI device.

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/aamcrae/discsynth/io"
	"github.com/aamcrae/discsynth/loop"
	"github.com/aamcrae/discsynth/midi"
	"github.com/aamcrae/discsynth/synth"
)

var configFile = flag.String("config", "", "Configuration file (default uses built in settings)")
var device = flag.String("device", "", "MIDI input device (default plays the demo sequence)")
var audio = flag.Bool("audio", false, "Play the simulated output")
var status = flag.Duration("status", 500*time.Millisecond, "Status print interval")
var top = flag.Float64("top", 1000, "Motor speed (rev/sec) at maximum drive")
var lag = flag.Duration("lag", 150*time.Millisecond, "Motor time constant")
var verbose = flag.Bool("verbose", false, "Log note events")

// Demo sequence, repeated.
var demo = []struct {
	at       time.Duration
	on       bool
	note     uint8
	velocity uint8
}{
	{0, true, 60, 100},
	{time.Second, true, 64, 80},
	{1500 * time.Millisecond, false, 64, 0},
	{2 * time.Second, true, 67, 127},
	{3 * time.Second, false, 67, 0},
	{3 * time.Second, false, 60, 0},
	{3500 * time.Millisecond, true, 72, 60},
	{5 * time.Second, false, 72, 0},
}

const demoLength = 6 * time.Second

func main() {
	flag.Parse()
	cfg := synth.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = synth.Load(*configFile); err != nil {
			log.Fatalf("%s: %v", *configFile, err)
		}
	}
	mc := &cfg.Motor
	ec := &cfg.Envelope

	l := loop.New(64)
	counter := new(io.PulseCounter)
	motor := newMotor(counter, mc, *top, *lag)
	servo := new(simServo)
	env := synth.NewEnvelope(servo, l, ec)
	drive := synth.NewDrive(counter, motor, synth.NewPID(mc.Kp, mc.Ki, mc.Kd), mc, mc.VRef)
	ctrl := synth.NewController(&cfg.Midi, new(synth.NoteStack), env, drive)
	ctrl.Verbose = *verbose
	l.Post(func() {
		ctrl.Start()
		drive.Start(l)
		l.Every(time.Millisecond, func() {
			motor.Step(l.Now())
		})
		l.Every(*status, func() {
			fmt.Printf("target %8.2f Hz, motor %8.2f Hz, drive %.4f, volume %5.1f deg (%s)\n",
				drive.Target(), drive.Frequency(), drive.Output(), env.Position(), env.Stage())
		})
	})

	if *audio {
		m, err := newMonitor(motor, servo, ec)
		if err != nil {
			log.Fatalf("Audio: %v", err)
		}
		defer m.Close()
	}
	if *device != "" {
		stop, err := midi.OpenDevice(*device, l.Post, ctrl)
		if err != nil {
			log.Fatalf("MIDI: %v", err)
		}
		defer stop()
	} else {
		l.Post(func() {
			play(l, ctrl, cfg.Midi.Channel)
		})
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	l.Run(ctx)
}

// play schedules one pass of the demo sequence, and the next pass after it.
func play(l *loop.Loop, ctrl *synth.Controller, ch uint8) {
	for _, ev := range demo {
		ev := ev
		l.After(ev.at, func() {
			if ev.on {
				ctrl.NoteOn(ch, ev.note, ev.velocity)
			} else {
				ctrl.NoteOff(ch, ev.note)
			}
		})
	}
	l.After(demoLength, func() {
		play(l, ctrl, ch)
	})
}
