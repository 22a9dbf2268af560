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

package io

import (
	"errors"
	"sync/atomic"

	"golang.org/x/sys/unix"
)

// PulseCounter is a free running count of edges seen on a sensor input.
// There is a single writer (the edge path) and a single reader (the
// speed control loop). The count wraps at 32 bits; readers must only
// ever use the difference between two samples.
type PulseCounter struct {
	count uint32
}

// Inc adds one pulse. It does not block or allocate.
func (c *PulseCounter) Inc() {
	atomic.AddUint32(&c.count, 1)
}

// Load returns the current count.
func (c *PulseCounter) Load() uint32 {
	return atomic.LoadUint32(&c.count)
}

// EdgeSource blocks until the next edge, returning the new input level.
type EdgeSource interface {
	Get() (int, error)
}

// WatchEdges increments the counter once for every edge reported by
// the source. It only returns if the source fails.
func WatchEdges(src EdgeSource, c *PulseCounter) error {
	for {
		_, err := src.Get()
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return err
		}
		c.Inc()
	}
}
