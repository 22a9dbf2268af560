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
	"time"

	"github.com/aamcrae/discsynth/loop"
)

func newFakeSched() *loop.Virtual {
	return loop.NewVirtual(time.Date(2021, 6, 1, 12, 0, 0, 0, time.UTC))
}

// recorder is an Output that records every value written.
type recorder struct {
	values []float64
}

func (r *recorder) Write(v float64) {
	r.values = append(r.values, v)
}

func (r *recorder) last() float64 {
	if len(r.values) == 0 {
		return -1
	}
	return r.values[len(r.values)-1]
}

type fakeCounter struct {
	n uint32
}

func (c *fakeCounter) Load() uint32 {
	return c.n
}
