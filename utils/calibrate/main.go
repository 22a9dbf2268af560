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

// Bench calibration utility, used to find the motor drive voltage
// bounds and the servo positions for minimum and maximum volume.

package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strings"
	"time"

	"github.com/aamcrae/discsynth/io"
	"github.com/aamcrae/discsynth/synth"
)

var configFile = flag.String("config", "discsynth.conf", "Configuration file")
var measure = flag.Duration("measure", time.Second, "Frequency measurement time")

func main() {
	flag.Parse()
	cfg, err := synth.Load(*configFile)
	if err != nil {
		log.Fatalf("%s: %v", *configFile, err)
	}
	mc := &cfg.Motor
	ec := &cfg.Envelope
	if mc.Sensor < 0 || mc.PWM < 0 || ec.Servo < 0 {
		log.Fatalf("%s: sensor, pwm and servo must be configured", *configFile)
	}
	sensor, err := io.EdgePin(mc.Sensor)
	if err != nil {
		log.Fatalf("Pin %d: %v", mc.Sensor, err)
	}
	defer sensor.Close()
	var counter io.PulseCounter
	go func() {
		log.Fatalf("Pin %d: %v", mc.Sensor, io.WatchEdges(sensor, &counter))
	}()
	dp, err := io.NewHwPWM(mc.PWM)
	if err != nil {
		log.Fatalf("PWM unit %d: %v", mc.PWM, err)
	}
	drive := io.NewAnalog(dp, mc.Carrier)
	defer drive.Close()
	sp, err := io.NewHwPWM(ec.Servo)
	if err != nil {
		log.Fatalf("PWM unit %d: %v", ec.Servo, err)
	}
	servo := io.NewServo(sp, ec.MinPulse, ec.MaxPulse)
	defer servo.Close()
	var ref synth.VoltageSource = synth.FixedVoltage(mc.VRef)
	if mc.ADC >= 0 {
		if ref, err = io.NewADC(mc.ADC); err != nil {
			log.Fatalf("ADC: %v", err)
		}
	}
	vref, err := synth.Calibrate(ref, mc.Samples)
	if err != nil {
		log.Fatalf("%v", err)
	}

	reader := bufio.NewReader(os.Stdin)
	volts := 0.0
	degrees := ec.MinPos
	servo.Write(degrees)
	for {
		fmt.Printf("Drive %.4fV, servo %.1f degrees\n", volts, degrees)
		fmt.Print("Enter command ('help' for help) ")
		text, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		text = strings.TrimSpace(text)
		var v float64
		switch {
		case text == "help":
			fmt.Println("  help - print help")
			fmt.Println("  v N.NN - set drive voltage")
			fmt.Println("  s NN - set servo degrees")
			fmt.Println("  min, max - move servo to configured volume positions")
			fmt.Println("  f - measure frequency")
			fmt.Println("  q - quit")
		case text == "q":
			return
		case text == "min":
			degrees = ec.MinPos
			servo.Write(degrees)
		case text == "max":
			degrees = ec.MaxPos
			servo.Write(degrees)
		case text == "f":
			f := frequency(&counter, mc.Pulses)
			fmt.Printf("Frequency %.2f Hz (nearest note %d)\n", f, nearest(f))
		case scan(text, "v %f", &v):
			if v < 0 || v > vref {
				fmt.Printf("Voltage must be between 0 and %.4f\n", vref)
				break
			}
			volts = v
			drive.Write(volts / vref)
		case scan(text, "s %f", &v):
			degrees = v
			servo.Write(degrees)
		default:
			fmt.Printf("Unrecognised input\n")
		}
	}
}

func scan(text, format string, v *float64) bool {
	n, err := fmt.Sscanf(text, format, v)
	return err == nil && n == 1
}

// frequency counts pulses over the measurement time.
func frequency(c *io.PulseCounter, pulses int) float64 {
	start := c.Load()
	t := time.Now()
	time.Sleep(*measure)
	n := c.Load() - start
	return float64(n) / float64(pulses) / time.Since(t).Seconds()
}

// nearest returns the note with the frequency closest to f.
func nearest(f float64) int {
	best := 0
	for n, nf := range synth.Frequencies {
		if math.Abs(nf-f) < math.Abs(synth.Frequencies[best]-f) {
			best = n
		}
	}
	return best
}
