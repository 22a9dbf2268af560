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

// Package loop runs callbacks one at a time on a single goroutine.
// Timers are driven by the runtime, but their callbacks are queued
// to the loop, so no two callbacks ever run concurrently.

package loop

import (
	"context"
	"sync"
	"time"
)

// Timer is a pending one-shot or periodic callback.
type Timer interface {
	// Stop cancels the timer. When called from the loop goroutine, the
	// callback is guaranteed not to run again, even if the underlying
	// timer has already fired and the callback is waiting in the queue.
	Stop()
}

// Scheduler is the subset of the loop used by the control code.
type Scheduler interface {
	Now() time.Time
	After(time.Duration, func()) Timer
	Every(time.Duration, func()) Timer
}

// Loop is a single threaded callback executor.
type Loop struct {
	events chan func()
	done   chan struct{} // Closed when Run returns
	once   sync.Once
}

type timer struct {
	loop    *Loop
	fn      func()
	stopped bool // Only accessed on the loop goroutine
	t       *time.Timer
	done    chan struct{}
	once    sync.Once
}

// New creates a loop with room for queue pending callbacks.
func New(queue int) *Loop {
	return &Loop{events: make(chan func(), queue), done: make(chan struct{})}
}

// Run executes queued callbacks until the context is cancelled.
// Once Run has returned, posted callbacks are discarded.
func (l *Loop) Run(ctx context.Context) error {
	defer l.once.Do(func() { close(l.done) })
	for {
		select {
		case f := <-l.events:
			f()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Post queues f to be run on the loop. Post is safe to call from any goroutine,
// and blocks while the queue is full, until Run returns.
func (l *Loop) Post(f func()) {
	select {
	case l.events <- f:
	case <-l.done:
	}
}

// Now returns the current time.
func (l *Loop) Now() time.Time {
	return time.Now()
}

// After runs f on the loop once, after d has elapsed.
func (l *Loop) After(d time.Duration, f func()) Timer {
	t := &timer{loop: l, fn: f}
	t.t = time.AfterFunc(d, func() {
		l.Post(t.run)
	})
	return t
}

// Every runs f on the loop every d until stopped. If the loop falls
// behind, ticks are dropped rather than queued.
func (l *Loop) Every(d time.Duration, f func()) Timer {
	t := &timer{loop: l, fn: f, done: make(chan struct{})}
	ticker := time.NewTicker(d)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				select {
				case l.events <- t.run:
				case <-t.done:
					return
				case <-l.done:
					return
				}
			case <-t.done:
				return
			case <-l.done:
				return
			}
		}
	}()
	return t
}

func (t *timer) run() {
	if !t.stopped {
		t.fn()
	}
}

func (t *timer) Stop() {
	t.stopped = true
	if t.t != nil {
		t.t.Stop()
	}
	if t.done != nil {
		t.once.Do(func() { close(t.done) })
	}
}
