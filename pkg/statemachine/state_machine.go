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

package statemachine

import (
	"fmt"
	"slices"
	"sync"
	"time"
)

// StateHook is triggered after entering a state.
type StateHook[T comparable] func(state T)

// TransitionRecord records one transition in the machine's history.
type TransitionRecord[T comparable] struct {
	From      T
	To        T
	Timestamp time.Time
	Forced    bool
}

// StateMachine is a small generic finite state machine.
//
// Beyond the usual transition table it knows about terminal states: once a
// terminal state has been entered, every later transition is rejected. Two
// racing timelines can therefore both try to finish a run and exactly one of
// them wins.
//
// The StateMachine is safe for concurrent use.
type StateMachine[T comparable] struct {
	mu sync.Mutex

	current  T
	initial  T
	done     bool
	allowed  map[T][]T
	terminal []T
	onEnter  map[T][]StateHook[T]
	history  []TransitionRecord[T]
}

// New creates a StateMachine starting in the given state.
func New[T comparable](initial T) *StateMachine[T] {
	return &StateMachine[T]{
		current: initial,
		initial: initial,
		allowed: make(map[T][]T),
		onEnter: make(map[T][]StateHook[T]),
	}
}

// Allow registers valid transitions out of a state.
func (sm *StateMachine[T]) Allow(from T, to ...T) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for _, target := range to {
		if !slices.Contains(sm.allowed[from], target) {
			sm.allowed[from] = append(sm.allowed[from], target)
		}
	}
	return sm
}

// Terminal marks states as terminal. Entering one latches the machine.
func (sm *StateMachine[T]) Terminal(states ...T) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for _, s := range states {
		if !slices.Contains(sm.terminal, s) {
			sm.terminal = append(sm.terminal, s)
		}
	}
	return sm
}

// OnEnter registers a hook invoked after the machine enters the given state.
func (sm *StateMachine[T]) OnEnter(state T, h StateHook[T]) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.onEnter[state] = append(sm.onEnter[state], h)
	return sm
}

// Current returns the current state.
func (sm *StateMachine[T]) Current() T {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.current
}

// Done reports whether a terminal state has been reached.
func (sm *StateMachine[T]) Done() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.done
}

// Is reports whether the current state equals state.
func (sm *StateMachine[T]) Is(state T) bool {
	return sm.Current() == state
}

// CanTransitTo reports whether a transition from the current state to the
// target is allowed.
func (sm *StateMachine[T]) CanTransitTo(to T) bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return !sm.done && slices.Contains(sm.allowed[sm.current], to)
}

// TransitTo moves the machine from its current state to the target state.
// It fails if the machine is latched or the transition is not registered.
func (sm *StateMachine[T]) TransitTo(to T) error {
	return sm.transit(to, false)
}

// ForceTo moves the machine to the target state regardless of the transition
// table. It still fails once a terminal state has been entered: a forced
// transition can preempt a run, never rewrite its outcome.
func (sm *StateMachine[T]) ForceTo(to T) error {
	return sm.transit(to, true)
}

func (sm *StateMachine[T]) transit(to T, forced bool) error {
	sm.mu.Lock()
	if sm.done {
		from := sm.current
		sm.mu.Unlock()
		return fmt.Errorf("state machine is terminal in %v, refusing transition to %v", from, to)
	}
	from := sm.current
	if !forced && !slices.Contains(sm.allowed[from], to) {
		sm.mu.Unlock()
		return fmt.Errorf("invalid transition: %v -> %v", from, to)
	}

	sm.current = to
	if slices.Contains(sm.terminal, to) {
		sm.done = true
	}
	sm.history = append(sm.history, TransitionRecord[T]{
		From:      from,
		To:        to,
		Timestamp: time.Now(),
		Forced:    forced,
	})
	hooks := sm.onEnter[to]
	sm.mu.Unlock()

	for _, h := range hooks {
		h(to)
	}
	return nil
}

// Reset returns the machine to its initial state and clears the latch and
// history. Used when a run is manually retried.
func (sm *StateMachine[T]) Reset() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.current = sm.initial
	sm.done = false
	sm.history = nil
}

// History returns a copy of the transition history.
func (sm *StateMachine[T]) History() []TransitionRecord[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	out := make([]TransitionRecord[T], len(sm.history))
	copy(out, sm.history)
	return out
}
