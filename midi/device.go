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

package midi

import (
	"fmt"
	"log"
	"strings"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// OpenDevice connects to the first MIDI input whose name contains name
// (ignoring case), posting a Dispatch of each message received.
// The returned function closes the device.
func OpenDevice(name string, post func(func()), h Handler) (func(), error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}
	ins, err := drv.Ins()
	if err != nil {
		drv.Close()
		return nil, fmt.Errorf("midi inputs: %w", err)
	}
	var in drivers.In
	for _, i := range ins {
		if strings.Contains(strings.ToLower(i.String()), strings.ToLower(name)) {
			in = i
			break
		}
	}
	if in == nil {
		drv.Close()
		return nil, fmt.Errorf("%s: no matching MIDI input", name)
	}
	if err := in.Open(); err != nil {
		drv.Close()
		return nil, fmt.Errorf("open %q: %w", in.String(), err)
	}
	stop, err := gomidi.ListenTo(in, func(msg gomidi.Message, _ int32) {
		post(func() {
			Dispatch(msg, h)
		})
	}, gomidi.HandleError(func(err error) {
		log.Printf("midi: %s: %v", in.String(), err)
	}))
	if err != nil {
		in.Close()
		drv.Close()
		return nil, fmt.Errorf("listen %q: %w", in.String(), err)
	}
	log.Printf("midi: connected to %s", in.String())
	return func() {
		stop()
		in.Close()
		drv.Close()
	}, nil
}
