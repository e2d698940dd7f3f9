package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/draftpad/draftpad/internal/review/model"
)

// ErrInvitationNotFound is returned when no invitation matches the token.
var ErrInvitationNotFound = errors.New("invitation not found")

type IInvitationRepository interface {
	Create(ctx context.Context, inv *model.Invitation) error
	// GetByToken fetches the invitation addressed by the opaque token.
	GetByToken(ctx context.Context, token string) (*model.Invitation, error)
	// Accept performs the conditional acceptance write. The update only
	// applies while status is still "sent" or the invitation is already
	// held by the same identity, so concurrent acceptance attempts cannot
	// silently overwrite each other. Returns whether a row was updated.
	Accept(ctx context.Context, token, identityId string, at time.Time) (bool, error)
	// ListActiveByEmail returns the invitee's pending list: invitations
	// addressed to the email (case-insensitive) that are not expired and
	// whose review has not been completed.
	ListActiveByEmail(ctx context.Context, email string, now time.Time) ([]*model.Invitation, error)
	// CompleteReview marks the downstream review as done, which removes
	// the invitation from the pending list.
	CompleteReview(ctx context.Context, token string, at time.Time) error
}

type InvitationRepo struct {
	db *gorm.DB
}

func NewInvitationRepo(db *gorm.DB) IInvitationRepository {
	return &InvitationRepo{db: db}
}

func (r *InvitationRepo) Create(ctx context.Context, inv *model.Invitation) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *InvitationRepo) GetByToken(ctx context.Context, token string) (*model.Invitation, error) {
	var inv model.Invitation
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvitationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InvitationRepo) Accept(ctx context.Context, token, identityId string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Invitation{}).
		Where("token = ? AND (status = ? OR accepted_by = ?)",
			token, model.InvitationStatusSent, identityId).
		Updates(map[string]any{
			"status":      model.InvitationStatusAccepted,
			"accepted_by": identityId,
			"accepted_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *InvitationRepo) ListActiveByEmail(ctx context.Context, email string, now time.Time) ([]*model.Invitation, error) {
	var invs []*model.Invitation
	err := r.db.WithContext(ctx).
		Where("LOWER(target_email) = LOWER(?) AND expires_at > ? AND review_completed_at IS NULL", email, now).
		Order("created_at DESC").
		Find(&invs).Error
	if err != nil {
		return nil, err
	}
	return invs, nil
}

func (r *InvitationRepo) CompleteReview(ctx context.Context, token string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.Invitation{}).
		Where("token = ? AND status = ?", token, model.InvitationStatusAccepted).
		Update("review_completed_at", at)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvitationNotFound
	}
	return nil
}
