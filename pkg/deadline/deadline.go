// Copyright 2025 Draftpad Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package deadline provides a cancellable deadline primitive so that
// arming, canceling and re-arming a flow-level timeout follow one
// discipline and share one clock.
package deadline

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Supervisor watches a single deadline. Arm starts the watch, Cancel stops
// it. Re-arming cancels the previous watch first, so a Supervisor can be
// reused across manual retries of the same flow.
type Supervisor struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	timeout time.Duration
	gen     int
	stop    chan struct{}
}

// NewSupervisor creates a Supervisor that fires after timeout.
func NewSupervisor(timeout time.Duration, clock clockwork.Clock) *Supervisor {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Supervisor{clock: clock, timeout: timeout}
}

// Arm starts (or restarts) the deadline watch. onExpire runs in its own
// goroutine when the deadline passes without a Cancel. A watch that has been
// superseded by a later Arm never fires.
func (s *Supervisor) Arm(onExpire func()) {
	s.mu.Lock()
	s.cancelLocked()
	s.gen++
	gen := s.gen
	stop := make(chan struct{})
	s.stop = stop
	s.mu.Unlock()

	go func() {
		select {
		case <-s.clock.After(s.timeout):
		case <-stop:
			return
		}
		s.mu.Lock()
		stale := gen != s.gen || s.stop == nil
		s.mu.Unlock()
		if !stale {
			onExpire()
		}
	}()
}

// Cancel stops the current watch. It is a no-op when nothing is armed and is
// safe to call multiple times.
func (s *Supervisor) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

func (s *Supervisor) cancelLocked() {
	if s.stop != nil {
		close(s.stop)
		s.stop = nil
	}
}

// Sleep blocks for d on the Supervisor's clock, returning early when done is
// closed. It reports whether the full duration elapsed.
func (s *Supervisor) Sleep(d time.Duration, done <-chan struct{}) bool {
	select {
	case <-s.clock.After(d):
		return true
	case <-done:
		return false
	}
}

// Clock exposes the Supervisor's clock so callers schedule against the same
// timeline the deadline uses.
func (s *Supervisor) Clock() clockwork.Clock {
	return s.clock
}
