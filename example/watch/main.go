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

// Program to count edges on an input and display the pulse rate.

package main

import (
	"flag"
	"log"
	"time"

	"github.com/aamcrae/discsynth/io"
)

var gpio = flag.Int("gpio", 17, "GPIO pin for pulse input")
var pulses = flag.Int("pulses", 36, "Pulses per revolution")
var interval = flag.Duration("interval", time.Second, "Display interval")

func main() {
	flag.Parse()
	p, err := io.EdgePin(*gpio)
	if err != nil {
		log.Fatalf("Pin %d: %v", *gpio, err)
	}
	defer p.Close()
	var c io.PulseCounter
	go func() {
		log.Fatalf("Pin %d: %v", *gpio, io.WatchEdges(p, &c))
	}()
	last := c.Load()
	lastTime := time.Now()
	ticker := time.NewTicker(*interval)
	for t := range ticker.C {
		n := c.Load()
		d := n - last
		rate := float64(d) / t.Sub(lastTime).Seconds()
		log.Printf("pin %d: %d pulses, %.1f pulses/sec, %.2f rev/sec", *gpio, d, rate, rate/float64(*pulses))
		last = n
		lastTime = t
	}
}
