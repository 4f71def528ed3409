// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package throttle rate-limits repeated invocations of an action.
//
// A Throttle fires at most once per window. The first call of a burst arms a
// timer; every call made while the timer is pending is dropped. When the
// timer elapses the action runs with the arguments of the first call.
package throttle

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrInvalidWait is returned when the wait duration is negative.
var ErrInvalidWait = errors.New("throttle wait must not be negative")

// Throttle wraps an action so that bursts of calls fire it only once.
type Throttle[T any] struct {
	action func(T)
	wait   time.Duration
	onDrop func(T)
	logger *slog.Logger

	mu    sync.Mutex
	timer *time.Timer
}

// Option configures a Throttle.
type Option[T any] func(*Throttle[T])

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(t *Throttle[T]) {
		if logger == nil {
			logger = slog.Default()
		}
		t.logger = logger
	}
}

// OnDrop registers a callback invoked with the arguments of every dropped call.
func OnDrop[T any](fn func(T)) Option[T] {
	return func(t *Throttle[T]) {
		t.onDrop = fn
	}
}

// New creates a throttle that runs action at most once per wait window.
func New[T any](action func(T), wait time.Duration, opts ...Option[T]) (*Throttle[T], error) {
	if wait < 0 {
		return nil, ErrInvalidWait
	}
	t := &Throttle[T]{
		action: action,
		wait:   wait,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Call schedules the action with arg unless an invocation is already pending,
// in which case the call is dropped. Call never blocks on the action.
func (t *Throttle[T]) Call(arg T) {
	t.mu.Lock()
	if t.timer != nil {
		t.mu.Unlock()
		t.logger.Debug("throttled call dropped")
		if t.onDrop != nil {
			t.onDrop(arg)
		}
		return
	}
	var timer *time.Timer
	timer = time.AfterFunc(t.wait, func() {
		t.fire(&timer, arg)
	})
	t.timer = timer
	t.mu.Unlock()
}

// fire clears the pending flag before running the action, so a slow action
// does not suppress the next burst. A timer cancelled by Stop after it
// elapsed no longer owns the flag and does not run.
func (t *Throttle[T]) fire(timer **time.Timer, arg T) {
	t.mu.Lock()
	if t.timer != *timer {
		t.mu.Unlock()
		return
	}
	t.timer = nil
	t.mu.Unlock()

	t.action(arg)
}

// Pending reports whether an invocation is waiting to fire.
func (t *Throttle[T]) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.timer != nil
}

// Stop cancels a pending invocation. It reports whether one was cancelled.
func (t *Throttle[T]) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer == nil {
		return false
	}
	t.timer.Stop()
	t.timer = nil
	return true
}
