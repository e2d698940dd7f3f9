package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/draftpad/draftpad/internal/review/model"
)

type fakeProjectRepo struct {
	owned    int64
	err      error
	block    chan struct{}
	getByIds map[string]*model.Project
}

func (f *fakeProjectRepo) CountOwnedBy(ctx context.Context, identityId string) (int64, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return 0, ctx.Err()
		}
	}
	return f.owned, f.err
}

func (f *fakeProjectRepo) GetProject(ctx context.Context, projectId string) (*model.Project, error) {
	if p, ok := f.getByIds[projectId]; ok {
		return p, nil
	}
	return nil, errors.New("project not found")
}

func guardConf() FlowConf {
	return FlowConf{
		BaseUnit:          time.Millisecond,
		GuardTimeoutUnits: 25,
		NeutralLanding:    "/reviews",
	}
}

func activeInviteRepo(email string) *fakeInvRepo {
	return &fakeInvRepo{inv: sentInvitation("tok-1", email, time.Now().Add(time.Hour))}
}

func TestEvaluate_PureReviewerIsRedirected(t *testing.T) {
	g := NewGuardService(&fakeProjectRepo{owned: 0}, activeInviteRepo("rev@x.com"), guardConf(), nil, nil)

	d := g.Evaluate(context.Background(), Identity{Id: "idn-1", Email: "rev@x.com"})

	assert.True(t, d.Redirect)
	assert.Equal(t, "/reviews", d.Location)
	assert.Equal(t, GuardReasonPureReviewer, d.Reason)
}

func TestEvaluate_OwnerNeverRedirected(t *testing.T) {
	g := NewGuardService(&fakeProjectRepo{owned: 1}, activeInviteRepo("rev@x.com"), guardConf(), nil, nil)

	d := g.Evaluate(context.Background(), Identity{Id: "idn-1", Email: "rev@x.com"})

	assert.False(t, d.Redirect)
	assert.Equal(t, GuardReasonOwner, d.Reason)
}

func TestEvaluate_NoRelationship(t *testing.T) {
	g := NewGuardService(&fakeProjectRepo{owned: 0}, &fakeInvRepo{}, guardConf(), nil, nil)

	d := g.Evaluate(context.Background(), Identity{Id: "idn-1", Email: "rev@x.com"})

	assert.False(t, d.Redirect)
	assert.Equal(t, GuardReasonNoRelationship, d.Reason)
}

func TestEvaluate_SlowLookupFailsOpen(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	g := NewGuardService(&fakeProjectRepo{block: block}, activeInviteRepo("rev@x.com"), guardConf(), nil, nil)

	start := time.Now()
	d := g.Evaluate(context.Background(), Identity{Id: "idn-1", Email: "rev@x.com"})

	assert.False(t, d.Redirect)
	assert.Equal(t, GuardReasonFailOpen, d.Reason)
	assert.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)
}

func TestEvaluate_LookupErrorFailsOpen(t *testing.T) {
	g := NewGuardService(&fakeProjectRepo{err: errors.New("db down")}, activeInviteRepo("rev@x.com"), guardConf(), nil, nil)

	d := g.Evaluate(context.Background(), Identity{Id: "idn-1", Email: "rev@x.com"})

	assert.False(t, d.Redirect)
	assert.Equal(t, GuardReasonFailOpen, d.Reason)
}

func TestEvaluate_ExpiredInviteDoesNotRedirect(t *testing.T) {
	invRepo := &fakeInvRepo{inv: sentInvitation("tok-1", "rev@x.com", time.Now().Add(-time.Minute))}
	g := NewGuardService(&fakeProjectRepo{owned: 0}, invRepo, guardConf(), nil, nil)

	d := g.Evaluate(context.Background(), Identity{Id: "idn-1", Email: "rev@x.com"})

	assert.False(t, d.Redirect)
	assert.Equal(t, GuardReasonNoRelationship, d.Reason)
}
