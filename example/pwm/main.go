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

// Program to sweep the analog motor drive output between two levels.

package main

import (
	"flag"
	"log"
	"time"

	"github.com/aamcrae/discsynth/io"
)

var pwmUnit = flag.Int("pwm", 0, "PWM unit for analog output")
var frequency = flag.Float64("frequency", 50000, "PWM frequency in Hz")
var low = flag.Float64("low", 0.4, "Lowest output level")
var high = flag.Float64("high", 0.6, "Highest output level")
var steps = flag.Int("steps", 100, "Steps between levels")

func main() {
	flag.Parse()
	pwm, err := io.NewHwPWM(*pwmUnit)
	if err != nil {
		log.Fatalf("PWM unit %d: %v", *pwmUnit, err)
	}
	out := io.NewAnalog(pwm, *frequency)
	defer out.Close()
	for i := 0; i < 10; i++ {
		for s := 0; s <= *steps; s++ {
			set(out, s)
		}
		for s := *steps; s >= 0; s-- {
			set(out, s)
		}
	}
}

func set(out *io.Analog, s int) {
	v := *low + (*high-*low)*float64(s)/float64(*steps)
	out.Write(v)
	time.Sleep(time.Millisecond * 50)
}
