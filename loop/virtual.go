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

package loop

import (
	"time"
)

// Virtual is a Scheduler running on virtual time, used to drive
// timed components without a real clock. Timers only fire from Advance,
// on the caller's goroutine.
type Virtual struct {
	now    time.Time
	timers []*vtimer
}

type vtimer struct {
	when    time.Time
	period  time.Duration
	fn      func()
	stopped bool
}

func (t *vtimer) Stop() {
	t.stopped = true
}

// NewVirtual creates a Virtual scheduler starting at the time.
func NewVirtual(start time.Time) *Virtual {
	return &Virtual{now: start}
}

func (v *Virtual) Now() time.Time {
	return v.now
}

func (v *Virtual) After(d time.Duration, f func()) Timer {
	return v.add(&vtimer{when: v.now.Add(d), fn: f})
}

func (v *Virtual) Every(d time.Duration, f func()) Timer {
	return v.add(&vtimer{when: v.now.Add(d), period: d, fn: f})
}

func (v *Virtual) add(t *vtimer) Timer {
	v.timers = append(v.timers, t)
	return t
}

// Active returns the number of timers that may still fire.
func (v *Virtual) Active() int {
	n := 0
	for _, t := range v.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Advance moves time forward, running timers in time order.
// Timers due at the same time run in the order they were created.
func (v *Virtual) Advance(d time.Duration) {
	end := v.now.Add(d)
	for {
		var next *vtimer
		for _, t := range v.timers {
			if t.stopped || t.when.After(end) {
				continue
			}
			if next == nil || t.when.Before(next.when) {
				next = t
			}
		}
		if next == nil {
			break
		}
		v.now = next.when
		if next.period > 0 {
			next.when = next.when.Add(next.period)
		} else {
			next.stopped = true
		}
		next.fn()
	}
	v.now = end
	v.compact()
}

// compact drops stopped timers.
func (v *Virtual) compact() {
	live := v.timers[:0]
	for _, t := range v.timers {
		if !t.stopped {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(v.timers); i++ {
		v.timers[i] = nil
	}
	v.timers = live
}
