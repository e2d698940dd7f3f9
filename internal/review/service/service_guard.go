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

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/draftpad/draftpad/internal/review/repo"
	"github.com/draftpad/draftpad/pkg/safe"
)

// GuardDecision tells the session view whether to redirect away from
// owner-only views and where to land instead.
type GuardDecision struct {
	Redirect bool   `json:"redirect"`
	Location string `json:"location,omitempty"`
	Reason   string `json:"reason"`
}

const (
	GuardReasonOwner          = "owner"
	GuardReasonPureReviewer   = "pure_reviewer"
	GuardReasonNoRelationship = "no_relationship"
	GuardReasonFailOpen       = "fail_open"
)

// GuardService decides, once per session-view mount, whether an identity is
// a pure reviewer: someone who owns nothing and holds at least one active
// invitation. Pure reviewers are redirected off owner-only views to a
// neutral landing location. Owning anything disables the redirect outright.
type GuardService struct {
	projectRepo repo.IProjectRepository
	invRepo     repo.IInvitationRepository
	conf        FlowConf
	clock       clockwork.Clock
	log         *zap.SugaredLogger
}

func NewGuardService(projectRepo repo.IProjectRepository, invRepo repo.IInvitationRepository, conf FlowConf, clock clockwork.Clock, log *zap.SugaredLogger) *GuardService {
	conf.Normalize()
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &GuardService{
		projectRepo: projectRepo,
		invRepo:     invRepo,
		conf:        conf,
		clock:       clock,
		log:         log,
	}
}

type ownedResult struct {
	count int64
	err   error
}

type invitesResult struct {
	count int
	err   error
}

// Evaluate runs the two lookups concurrently and waits for both, bounded by
// the guard timeout. On timeout or lookup failure the guard fails open and
// lets rendering proceed.
func (g *GuardService) Evaluate(ctx context.Context, identity Identity) GuardDecision {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ownedCh := make(chan ownedResult, 1)
	invCh := make(chan invitesResult, 1)

	safe.Go(func() {
		count, err := g.projectRepo.CountOwnedBy(ctx, identity.Id)
		ownedCh <- ownedResult{count: count, err: err}
	})
	safe.Go(func() {
		invs, err := g.invRepo.ListActiveByEmail(ctx, identity.Email, g.clock.Now())
		invCh <- invitesResult{count: len(invs), err: err}
	})

	var owned ownedResult
	var invites invitesResult
	gotOwned, gotInvites := false, false
	timeout := g.clock.After(g.conf.GuardTimeout())

	for !(gotOwned && gotInvites) {
		select {
		case owned = <-ownedCh:
			gotOwned = true
		case invites = <-invCh:
			gotInvites = true
		case <-timeout:
			g.log.Warnw("guard lookups unresolved at timeout, failing open",
				"identity", identity.Id, "owned", gotOwned, "invites", gotInvites)
			return GuardDecision{Redirect: false, Reason: GuardReasonFailOpen}
		}
	}

	if owned.err != nil || invites.err != nil {
		g.log.Warnw("guard lookup failed, failing open",
			"identity", identity.Id, "ownedErr", owned.err, "invitesErr", invites.err)
		return GuardDecision{Redirect: false, Reason: GuardReasonFailOpen}
	}

	if owned.count >= 1 {
		return GuardDecision{Redirect: false, Reason: GuardReasonOwner}
	}
	if invites.count >= 1 {
		return GuardDecision{
			Redirect: true,
			Location: g.conf.NeutralLanding,
			Reason:   GuardReasonPureReviewer,
		}
	}
	return GuardDecision{Redirect: false, Reason: GuardReasonNoRelationship}
}
