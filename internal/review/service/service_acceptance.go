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

package service

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/draftpad/draftpad/internal/review/model"
	"github.com/draftpad/draftpad/internal/review/notify"
	"github.com/draftpad/draftpad/internal/review/repo"
	"github.com/draftpad/draftpad/pkg/deadline"
	"github.com/draftpad/draftpad/pkg/retry"
	"github.com/draftpad/draftpad/pkg/safe"
	"github.com/draftpad/draftpad/pkg/statemachine"
)

// FlowState is the acceptance flow's state. complete, error and timeout are
// terminal; the rest advance strictly in order.
type FlowState string

const (
	StateVerifying FlowState = "verifying"
	StateAccepting FlowState = "accepting"
	StatePreparing FlowState = "preparing"
	StateComplete  FlowState = "complete"
	StateError     FlowState = "error"
	StateTimeout   FlowState = "timeout"
)

// AcceptResult is the terminal outcome of one orchestrator run. States holds
// every state the run passed through, in order, ending in the terminal one.
type AcceptResult struct {
	State    FlowState
	States   []FlowState
	Resource *model.ResourceRef
	Err      error
}

// AcceptanceService sequences token verification, identity and expiry
// checks, the retried acceptance write and the post-acceptance settling
// window. A run always ends in exactly one terminal state: the state machine
// latches on the first terminal transition, so the run deadline firing late
// can never overwrite a real outcome, and a slow step finishing after the
// deadline can never resurrect a timed-out run.
type AcceptanceService struct {
	invRepo  repo.IInvitationRepository
	notifier notify.Notifier
	conf     FlowConf
	clock    clockwork.Clock
	log      *zap.SugaredLogger

	// runSeq survives across manual retries for logging and backoff
	// seeding only; no other state is carried between runs.
	runSeq atomic.Int64
}

func NewAcceptanceService(invRepo repo.IInvitationRepository, notifier notify.Notifier, conf FlowConf, clock clockwork.Clock, log *zap.SugaredLogger) *AcceptanceService {
	conf.Normalize()
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if notifier == nil {
		notifier = notify.Noop()
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &AcceptanceService{
		invRepo:  invRepo,
		notifier: notifier,
		conf:     conf,
		clock:    clock,
		log:      log,
	}
}

func newFlowMachine() *statemachine.StateMachine[FlowState] {
	sm := statemachine.New(StateVerifying)
	sm.Allow(StateVerifying, StateAccepting, StateComplete, StateError, StateTimeout)
	sm.Allow(StateAccepting, StatePreparing, StateError, StateTimeout)
	sm.Allow(StatePreparing, StateComplete, StateError, StateTimeout)
	sm.Terminal(StateComplete, StateError, StateTimeout)
	return sm
}

// Run executes one acceptance attempt for the token on behalf of identity
// and blocks until a terminal state is reached. Manual retries call Run
// again; each run re-verifies from scratch.
func (s *AcceptanceService) Run(ctx context.Context, token string, identity Identity) AcceptResult {
	run := s.runSeq.Add(1)
	logger := s.log.With("run", run, "token", token, "identity", identity.Id)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sm := newFlowMachine()
	done := make(chan AcceptResult, 1)

	// finish publishes a terminal outcome. The machine's terminal latch
	// arbitrates between the step sequence and the deadline watch; the
	// loser's transition is rejected and its outcome discarded.
	sup := deadline.NewSupervisor(s.conf.RunDeadline(), s.clock)
	finish := func(state FlowState, ref *model.ResourceRef, err error) {
		if terr := sm.TransitTo(state); terr != nil {
			logger.Debugw("late terminal outcome discarded",
				"state", state, "current", sm.Current())
			return
		}
		sup.Cancel()
		cancel()
		if err != nil {
			logger.Infow("acceptance finished", "state", state, "err", err)
		} else {
			logger.Infow("acceptance finished", "state", state)
		}
		states := []FlowState{StateVerifying}
		for _, rec := range sm.History() {
			states = append(states, rec.To)
		}
		done <- AcceptResult{State: state, States: states, Resource: ref, Err: err}
	}

	sup.Arm(func() {
		finish(StateTimeout, nil, ErrTimeout)
	})

	go s.execute(ctx, sm, token, identity, logger, finish)

	return <-done
}

func (s *AcceptanceService) execute(ctx context.Context, sm *statemachine.StateMachine[FlowState], token string, identity Identity, logger *zap.SugaredLogger, finish func(FlowState, *model.ResourceRef, error)) {
	defer func() {
		if r := recover(); r != nil {
			finish(StateError, nil, fmt.Errorf("unexpected failure: %v", r))
		}
	}()

	// verifying: fetch the invitation by token, retrying backend failures
	var inv *model.Invitation
	err := s.withRetry(ctx, logger, "fetch invitation", func(ctx context.Context) error {
		var ferr error
		inv, ferr = s.invRepo.GetByToken(ctx, token)
		if errors.Is(ferr, repo.ErrInvitationNotFound) {
			return ErrInvalidToken
		}
		return ferr
	})
	if err != nil {
		finish(StateError, nil, classify(err))
		return
	}

	ref := inv.Ref()

	// Idempotent re-entry: the same identity accepting again is success
	// with no further writes.
	if inv.AcceptedBy != nil && *inv.AcceptedBy == identity.Id {
		finish(StateComplete, &ref, nil)
		return
	}
	if inv.AcceptedBy != nil && *inv.AcceptedBy != identity.Id {
		finish(StateError, nil, ErrAlreadyAccepted)
		return
	}

	if !EmailMatches(inv.TargetEmail, identity.Email) {
		finish(StateError, nil, &EmailMismatchError{
			TargetEmail:   inv.TargetEmail,
			IdentityEmail: identity.Email,
		})
		return
	}

	// Expiry is evaluated now, not cached from issuance.
	if s.clock.Now().After(inv.ExpiresAt) {
		finish(StateError, nil, ErrExpired)
		return
	}

	if terr := sm.TransitTo(StateAccepting); terr != nil {
		return
	}

	var applied bool
	err = s.withRetry(ctx, logger, "accept invitation", func(ctx context.Context) error {
		var werr error
		applied, werr = s.invRepo.Accept(ctx, token, identity.Id, s.clock.Now())
		return werr
	})
	if err != nil {
		finish(StateError, nil, classify(err))
		return
	}
	if !applied {
		// The conditional write matched no row: someone else won the
		// race between our verify and our write.
		cur, ferr := s.invRepo.GetByToken(ctx, token)
		if ferr == nil && cur.AcceptedBy != nil && *cur.AcceptedBy == identity.Id {
			// Benign: our own earlier write already landed.
		} else {
			finish(StateError, nil, ErrAlreadyAccepted)
			return
		}
	}

	if terr := sm.TransitTo(StatePreparing); terr != nil {
		return
	}

	// Settling window for dependent read-models before navigation.
	select {
	case <-s.clock.After(s.conf.SettleDelay):
	case <-ctx.Done():
		return
	}

	safe.Go(func() {
		nctx, ncancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer ncancel()
		if nerr := s.notifier.InviteAccepted(nctx, inv, identity.Email); nerr != nil {
			logger.Warnf("accepted notification failed: %v", nerr)
		}
	})

	finish(StateComplete, &ref, nil)
}

// withRetry wraps one persistence step in the retry policy: bounded
// attempts, linearly growing delay, validation failures never retried.
func (s *AcceptanceService) withRetry(ctx context.Context, logger *zap.SugaredLogger, op string, fn retry.Func) error {
	return retry.Do(ctx, fn,
		retry.WithMaxAttempts(s.conf.MaxAttempts),
		retry.WithBackoff(retry.Linear(s.conf.BaseUnit)),
		retry.WithClock(s.clock),
		retry.WithRetryIf(func(err error) bool {
			return !IsValidationFailure(err) && !errors.Is(err, context.Canceled)
		}),
		retry.WithOnWait(func(attempt int, wait time.Duration) {
			logger.Debugw("retrying step", "op", op, "attempt", attempt, "wait", wait)
		}),
	)
}

// classify folds backend failures into the persistence class; validation
// failures pass through untouched.
func classify(err error) error {
	if IsValidationFailure(err) || errors.Is(err, ErrTimeout) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrPersistence, err)
}
