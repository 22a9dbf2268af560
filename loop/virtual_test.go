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
	"testing"
	"time"
)

func TestVirtualOrder(t *testing.T) {
	v := NewVirtual(time.Unix(0, 0))
	var got []string
	v.After(20*time.Millisecond, func() { got = append(got, "b") })
	v.After(10*time.Millisecond, func() { got = append(got, "a") })
	v.After(20*time.Millisecond, func() { got = append(got, "c") })
	v.Advance(15 * time.Millisecond)
	if len(got) != 1 || got[0] != "a" {
		t.Fatalf("after 15ms got %v", got)
	}
	v.Advance(5 * time.Millisecond)
	if len(got) != 3 || got[1] != "b" || got[2] != "c" {
		t.Fatalf("after 20ms got %v", got)
	}
	if n := v.Active(); n != 0 {
		t.Errorf("%d timers active, want 0", n)
	}
	if want := time.Unix(0, 0).Add(20 * time.Millisecond); !v.Now().Equal(want) {
		t.Errorf("Now() = %v, want %v", v.Now(), want)
	}
}

func TestVirtualEvery(t *testing.T) {
	v := NewVirtual(time.Unix(0, 0))
	var at []time.Duration
	var tm Timer
	tm = v.Every(10*time.Millisecond, func() {
		at = append(at, v.Now().Sub(time.Unix(0, 0)))
		if len(at) == 3 {
			tm.Stop()
		}
	})
	v.Advance(100 * time.Millisecond)
	if len(at) != 3 || at[0] != 10*time.Millisecond || at[2] != 30*time.Millisecond {
		t.Errorf("ticks at %v", at)
	}
}

func TestVirtualStopPending(t *testing.T) {
	v := NewVirtual(time.Unix(0, 0))
	fired := false
	tm := v.After(time.Millisecond, func() { fired = true })
	// A timer may schedule and cancel others from its callback.
	v.After(time.Microsecond, func() { tm.Stop() })
	v.Advance(time.Second)
	if fired {
		t.Errorf("stopped timer fired")
	}
}
