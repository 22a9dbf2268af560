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

// Disc synthesizer program

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/aamcrae/discsynth/io"
	"github.com/aamcrae/discsynth/loop"
	"github.com/aamcrae/discsynth/midi"
	"github.com/aamcrae/discsynth/synth"
)

var configFile = flag.String("config", "discsynth.conf", "Configuration file")
var verbose = flag.Bool("verbose", false, "Log note events")

func main() {
	flag.Parse()
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	cfg, err := synth.Load(*configFile)
	if err != nil {
		log.Fatalf("%s: %v", *configFile, err)
	}
	mc := &cfg.Motor
	ec := &cfg.Envelope
	if mc.Sensor < 0 || (mc.PWM < 0 && mc.SwPWM < 0) || ec.Servo < 0 {
		log.Fatalf("%s: motor sensor, motor drive and servo must be configured", *configFile)
	}
	if cfg.Midi.Serial == "" && cfg.Midi.Device == "" {
		log.Fatalf("%s: no MIDI input configured", *configFile)
	}

	// Motor pulse counting.
	counter := new(io.PulseCounter)
	sensor, err := io.EdgePin(mc.Sensor)
	if err != nil {
		log.Fatalf("Sensor pin %d: %v", mc.Sensor, err)
	}
	defer sensor.Close()
	go supervise(ctx, fmt.Sprintf("Sensor pin %d", mc.Sensor), func() error {
		runtime.LockOSThread()
		return io.WatchEdges(sensor, counter)
	}, log.Fatalf)

	// Motor drive output.
	var pwm io.PWM
	if mc.PWM >= 0 {
		pwm, err = io.NewHwPWM(mc.PWM)
		if err != nil {
			log.Fatalf("PWM unit %d: %v", mc.PWM, err)
		}
	} else {
		pin, err := io.OutputPin(mc.SwPWM)
		if err != nil {
			log.Fatalf("Pin %d: %v", mc.SwPWM, err)
		}
		defer pin.Close()
		pwm = io.NewSwPWM(pin)
	}
	analog := io.NewAnalog(pwm, mc.Carrier)
	defer analog.Close()

	// Calibrate the drive bounds against the reference voltage.
	var ref synth.VoltageSource = synth.FixedVoltage(mc.VRef)
	if mc.ADC >= 0 {
		adc, err := io.NewADC(mc.ADC)
		if err != nil {
			log.Fatalf("ADC: %v", err)
		}
		ref = adc
	}
	vref, err := synth.Calibrate(ref, mc.Samples)
	if err != nil {
		log.Fatalf("%v", err)
	}

	// Volume servo.
	sp, err := io.NewHwPWM(ec.Servo)
	if err != nil {
		log.Fatalf("PWM unit %d: %v", ec.Servo, err)
	}
	servo := io.NewServo(sp, ec.MinPulse, ec.MaxPulse)
	defer servo.Close()

	l := loop.New(64)
	env := synth.NewEnvelope(servo, l, ec)
	drive := synth.NewDrive(counter, analog, synth.NewPID(mc.Kp, mc.Ki, mc.Kd), mc, vref)
	ctrl := synth.NewController(&cfg.Midi, new(synth.NoteStack), env, drive)
	ctrl.Verbose = *verbose
	// Start before any MIDI events can be queued.
	l.Post(func() {
		ctrl.Start()
		drive.Start(l)
	})

	if cfg.Midi.Serial != "" {
		port, err := midi.OpenSerial(cfg.Midi.Serial)
		if err != nil {
			log.Fatalf("MIDI: %v", err)
		}
		defer port.Close()
		go supervise(ctx, "MIDI "+cfg.Midi.Serial, func() error {
			if err := midi.Listen(port, l.Post, ctrl); err != nil {
				return err
			}
			return fmt.Errorf("input closed")
		}, log.Fatalf)
	} else {
		stop, err := midi.OpenDevice(cfg.Midi.Device, l.Post, ctrl)
		if err != nil {
			log.Fatalf("MIDI: %v", err)
		}
		defer stop()
	}

	log.Printf("discsynth: running (channel %d, decay controller %d)", cfg.Midi.Channel, cfg.Midi.DecayCC)
	l.Run(ctx)
	log.Printf("discsynth: stopping")
}

// supervise runs an input that should never end, calling fail if it
// ends before ctx is done. Inputs closed during shutdown end quietly.
func supervise(ctx context.Context, name string, run func() error, fail func(format string, v ...interface{})) {
	err := run()
	if ctx.Err() != nil {
		return
	}
	fail("%s: %v", name, err)
}
