package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/draftpad/draftpad/internal/review/repo"
	"github.com/draftpad/draftpad/pkg/id"
)

// ErrBadContinuation is returned for a stash request with missing fields or
// a target that is not a local path.
var ErrBadContinuation = errors.New("continuation target and token are required")

// ContinuationService persists the cross-navigation intent that survives the
// external authentication detour. The stash side runs before authentication;
// the claim side runs exactly once afterward and clears the entry atomically.
type ContinuationService struct {
	contRepo repo.IContinuationRepository
	conf     FlowConf
	log      *zap.SugaredLogger
}

func NewContinuationService(contRepo repo.IContinuationRepository, conf FlowConf, log *zap.SugaredLogger) *ContinuationService {
	conf.Normalize()
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &ContinuationService{contRepo: contRepo, conf: conf, log: log}
}

// Stash stores the redirect target and invitation token under a fresh
// single-use state id the client threads through the auth flow.
func (s *ContinuationService) Stash(ctx context.Context, target, token string) (string, error) {
	if target == "" || token == "" {
		return "", ErrBadContinuation
	}
	// Only local paths: a continuation must never become an open redirect.
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return "", ErrBadContinuation
	}

	state := id.InviteToken()
	if err := s.contRepo.Put(ctx, state, repo.Continuation{Target: target, Token: token}, s.conf.ContinuationTTL); err != nil {
		return "", err
	}
	s.log.Debugw("continuation stashed", "state", state, "target", target)
	return state, nil
}

// Resumption is what the client needs to resume after authentication: the
// stored target, the invitation token, and how long to wait before the hard
// navigation.
type Resumption struct {
	Target        string `json:"target"`
	Token         string `json:"token"`
	ResumeAfterMS int64  `json:"resumeAfterMs"`
}

// Claim consumes the continuation. A second claim of the same state returns
// repo.ErrContinuationNotFound.
func (s *ContinuationService) Claim(ctx context.Context, state string) (*Resumption, error) {
	cont, err := s.contRepo.Claim(ctx, state)
	if err != nil {
		return nil, err
	}
	return &Resumption{
		Target:        cont.Target,
		Token:         cont.Token,
		ResumeAfterMS: s.conf.DisplayDelay.Milliseconds(),
	}, nil
}
