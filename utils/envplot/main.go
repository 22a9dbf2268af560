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

// Program to plot the volume envelope for a range of decay settings.

package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/fogleman/gg"

	"github.com/aamcrae/discsynth/loop"
	"github.com/aamcrae/discsynth/synth"
)

var configFile = flag.String("config", "", "Configuration file (default uses built in settings)")
var output = flag.String("output", "envelope.png", "Output PNG file")
var velocity = flag.Int("velocity", 127, "Note velocity")
var length = flag.Duration("length", 2*time.Second, "Time to plot")
var width = flag.Int("width", 1024, "Image width")
var height = flag.Int("height", 512, "Image height")

const margin = 40

// Decay controller settings to plot, with the line colour.
var curves = []struct {
	control uint8
	r, g, b float64
}{
	{0, 1, 0, 0},
	{32, 1, 0.5, 0},
	{64, 0, 0.6, 0},
	{96, 0, 0, 1},
	{127, 0.5, 0, 0.5},
}

// trace records the envelope positions against time.
type trace struct {
	sched *loop.Virtual
	start time.Time
	t     []time.Duration
	pos   []float64
}

func (tr *trace) Write(v float64) {
	tr.t = append(tr.t, tr.sched.Now().Sub(tr.start))
	tr.pos = append(tr.pos, v)
}

func main() {
	flag.Parse()
	cfg := synth.DefaultConfig()
	if *configFile != "" {
		var err error
		if cfg, err = synth.Load(*configFile); err != nil {
			log.Fatalf("%s: %v", *configFile, err)
		}
	}
	ec := &cfg.Envelope
	if *velocity < 0 || *velocity > synth.VelocityMax {
		log.Fatalf("velocity must be 0-%d", synth.VelocityMax)
	}

	dc := gg.NewContext(*width, *height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	x := func(t time.Duration) float64 {
		return margin + float64(t)/float64(*length)*float64(*width-2*margin)
	}
	y := func(p float64) float64 {
		return float64(*height-margin) - (p-ec.MinPos)/(ec.MaxPos-ec.MinPos)*float64(*height-2*margin)
	}
	// Axes and the sustain floor.
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(1)
	dc.DrawLine(margin, margin, margin, float64(*height-margin))
	dc.DrawLine(margin, float64(*height-margin), float64(*width-margin), float64(*height-margin))
	dc.Stroke()
	dc.DrawStringAnchored(length.String(), float64(*width-margin), float64(*height-margin/2), 1, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("%.0f", ec.MaxPos), margin/2, margin, 0.5, 0.5)
	dc.DrawStringAnchored(fmt.Sprintf("%.0f", ec.MinPos), margin/2, float64(*height-margin), 0.5, 0.5)

	for i, c := range curves {
		tr := &trace{sched: loop.NewVirtual(time.Unix(0, 0))}
		tr.start = tr.sched.Now()
		env := synth.NewEnvelope(tr, tr.sched, ec)
		env.SetDecayRate(c.control)
		env.Trigger(uint8(*velocity))
		tr.sched.Advance(*length)
		if i == 0 {
			dc.SetRGB(0.7, 0.7, 0.7)
			dc.SetDash(4, 4)
			dc.DrawLine(margin, y(env.Floor()), float64(*width-margin), y(env.Floor()))
			dc.Stroke()
			dc.SetDash()
		}
		dc.SetRGB(c.r, c.g, c.b)
		dc.SetLineWidth(2)
		// Positions are held between writes.
		dc.MoveTo(x(tr.t[0]), y(tr.pos[0]))
		for j := 1; j < len(tr.t); j++ {
			dc.LineTo(x(tr.t[j]), y(tr.pos[j-1]))
			dc.LineTo(x(tr.t[j]), y(tr.pos[j]))
		}
		dc.LineTo(x(*length), y(tr.pos[len(tr.pos)-1]))
		dc.Stroke()
		dc.DrawStringAnchored(fmt.Sprintf("decay %d (k %.3f)", c.control, env.Rate()),
			float64(*width-margin), float64(margin+i*16), 1, 0.5)
	}
	if err := dc.SavePNG(*output); err != nil {
		log.Fatalf("%s: %v", *output, err)
	}
	log.Printf("Wrote %s", *output)
}
