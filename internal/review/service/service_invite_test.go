package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/draftpad/draftpad/internal/review/model"
)

type fakeIdentityRepo struct {
	emails map[string]bool
	err    error
}

func (f *fakeIdentityRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.emails[email], nil
}

func (f *fakeIdentityRepo) GetById(ctx context.Context, identityId string) (*model.Identity, error) {
	return nil, errors.New("not implemented")
}

func TestIssue_PopulatesTokenAndExpiry(t *testing.T) {
	invRepo := &fakeInvRepo{}
	svc := NewInviteService(invRepo, &fakeIdentityRepo{}, FlowConf{InviteTTL: 7 * 24 * time.Hour}, nil, nil)

	inv, err := svc.Issue(context.Background(), IssueRequest{
		TargetEmail: "rev@x.com",
		ProjectId:   "prj-1",
		PromptId:    "pmt-1",
		InvitedBy:   "idn-owner",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, inv.InvitationId)
	assert.Len(t, inv.Token, 22)
	assert.Equal(t, model.InvitationStatusSent, inv.Status)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), inv.ExpiresAt, time.Minute)
}

func TestIssue_RejectsMissingFields(t *testing.T) {
	svc := NewInviteService(&fakeInvRepo{}, &fakeIdentityRepo{}, FlowConf{}, nil, nil)

	_, err := svc.Issue(context.Background(), IssueRequest{TargetEmail: "rev@x.com"})
	assert.Error(t, err)
}

func TestLookup_AuthModeByAccountExistence(t *testing.T) {
	invRepo := &fakeInvRepo{inv: sentInvitation("tok-1", "rev@x.com", time.Now().Add(time.Hour))}

	known := NewInviteService(invRepo, &fakeIdentityRepo{emails: map[string]bool{"rev@x.com": true}}, FlowConf{}, nil, nil)
	view, err := known.Lookup(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, AuthModeSignIn, view.AuthMode)
	assert.Equal(t, "rev@x.com", view.TargetEmail)
	assert.False(t, view.Expired)

	unknown := NewInviteService(invRepo, &fakeIdentityRepo{}, FlowConf{}, nil, nil)
	view, err = unknown.Lookup(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, AuthModeSignUp, view.AuthMode)
}

func TestLookup_IdentityCheckFailureDefaultsToSignIn(t *testing.T) {
	invRepo := &fakeInvRepo{inv: sentInvitation("tok-1", "rev@x.com", time.Now().Add(time.Hour))}
	svc := NewInviteService(invRepo, &fakeIdentityRepo{err: errors.New("db down")}, FlowConf{}, nil, nil)

	view, err := svc.Lookup(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, AuthModeSignIn, view.AuthMode)
}

func TestLookup_UnknownToken(t *testing.T) {
	svc := NewInviteService(&fakeInvRepo{}, &fakeIdentityRepo{}, FlowConf{}, nil, nil)

	_, err := svc.Lookup(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestLookup_ExpiredIsFlaggedNotHidden(t *testing.T) {
	invRepo := &fakeInvRepo{inv: sentInvitation("tok-1", "rev@x.com", time.Now().Add(-time.Minute))}
	svc := NewInviteService(invRepo, &fakeIdentityRepo{}, FlowConf{}, nil, nil)

	view, err := svc.Lookup(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.True(t, view.Expired)
}

func TestSuccessLocation(t *testing.T) {
	loc := SuccessLocation(model.ResourceRef{ProjectId: "prj-1", PromptId: "pmt-1"}, "tok-1")
	assert.Equal(t, "/projects/prj-1?invite=tok-1&prompt=pmt-1", loc)
}
