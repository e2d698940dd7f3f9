package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/draftpad/draftpad/internal/review/model"
	"github.com/draftpad/draftpad/internal/review/repo"
	"github.com/draftpad/draftpad/pkg/id"
)

// AuthMode tells the client which authentication flow to route the invitee
// through before the orchestrator can run.
type AuthMode string

const (
	AuthModeSignIn AuthMode = "signin"
	AuthModeSignUp AuthMode = "signup"
)

// InviteView is the pre-authentication view of an invitation: everything
// the review URL needs to route the detour and resume afterwards.
type InviteView struct {
	Token       string                 `json:"token"`
	TargetEmail string                 `json:"targetEmail"`
	Resource    model.ResourceRef      `json:"resource"`
	Status      model.InvitationStatus `json:"status"`
	ExpiresAt   time.Time              `json:"expiresAt"`
	Expired     bool                   `json:"expired"`
	AuthMode    AuthMode               `json:"authMode"`
}

// InviteService handles issuance and the read-side operations around the
// acceptance core: pre-auth lookup, the pending list, review completion.
type InviteService struct {
	invRepo      repo.IInvitationRepository
	identityRepo repo.IIdentityRepository
	conf         FlowConf
	clock        clockwork.Clock
	log          *zap.SugaredLogger
}

func NewInviteService(invRepo repo.IInvitationRepository, identityRepo repo.IIdentityRepository, conf FlowConf, clock clockwork.Clock, log *zap.SugaredLogger) *InviteService {
	conf.Normalize()
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &InviteService{
		invRepo:      invRepo,
		identityRepo: identityRepo,
		conf:         conf,
		clock:        clock,
		log:          log,
	}
}

// IssueRequest asks for a review invitation to be created.
type IssueRequest struct {
	TargetEmail string `json:"targetEmail"`
	ProjectId   string `json:"projectId"`
	PromptId    string `json:"promptId"`
	InvitedBy   string `json:"-"`
}

// Issue creates an invitation with a fresh unguessable token and the
// configured expiry window. Sending the email is the mailer's business.
func (s *InviteService) Issue(ctx context.Context, req IssueRequest) (*model.Invitation, error) {
	if req.TargetEmail == "" || req.ProjectId == "" || req.PromptId == "" {
		return nil, fmt.Errorf("targetEmail, projectId and promptId are required")
	}

	inv := &model.Invitation{
		InvitationId: id.GetUlid(),
		Token:        id.InviteToken(),
		TargetEmail:  req.TargetEmail,
		ProjectId:    req.ProjectId,
		PromptId:     req.PromptId,
		InvitedBy:    req.InvitedBy,
		Status:       model.InvitationStatusSent,
		ExpiresAt:    s.clock.Now().Add(s.conf.InviteTTL),
	}
	if err := s.invRepo.Create(ctx, inv); err != nil {
		return nil, err
	}
	s.log.Infow("invitation issued",
		"invitation", inv.InvitationId, "project", inv.ProjectId, "prompt", inv.PromptId)
	return inv, nil
}

// Lookup resolves a token before authentication and decides the auth mode:
// sign-in when the invited email already has an account, sign-up otherwise.
func (s *InviteService) Lookup(ctx context.Context, token string) (*InviteView, error) {
	inv, err := s.invRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repo.ErrInvitationNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	mode := AuthModeSignUp
	exists, err := s.identityRepo.ExistsByEmail(ctx, inv.TargetEmail)
	if err != nil {
		// The auth mode is a routing hint; losing it should not take
		// down the lookup. Default to sign-in so an existing account
		// is never pushed into registration.
		s.log.Warnf("identity existence check failed: %v", err)
		mode = AuthModeSignIn
	} else if exists {
		mode = AuthModeSignIn
	}

	return &InviteView{
		Token:       inv.Token,
		TargetEmail: inv.TargetEmail,
		Resource:    inv.Ref(),
		Status:      inv.Status,
		ExpiresAt:   inv.ExpiresAt,
		Expired:     s.clock.Now().After(inv.ExpiresAt),
		AuthMode:    mode,
	}, nil
}

// Pending returns the identity's active invitations.
func (s *InviteService) Pending(ctx context.Context, email string) ([]*model.Invitation, error) {
	return s.invRepo.ListActiveByEmail(ctx, email, s.clock.Now())
}

// CompleteReview records the downstream review completion, which is what
// removes the invitation from the pending list.
func (s *InviteService) CompleteReview(ctx context.Context, token string) error {
	return s.invRepo.CompleteReview(ctx, token, s.clock.Now())
}

// SuccessLocation is the post-acceptance navigation target: the project
// carrying the invite token and prompt id so the artifact can be
// highlighted for first-time reviewers.
func SuccessLocation(ref model.ResourceRef, token string) string {
	q := url.Values{}
	q.Set("invite", token)
	q.Set("prompt", ref.PromptId)
	return fmt.Sprintf("/projects/%s?%s", ref.ProjectId, q.Encode())
}
