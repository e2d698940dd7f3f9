package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/draftpad/draftpad/internal/review/model"
)

type IIdentityRepository interface {
	// ExistsByEmail reports whether an account exists for the email. Used
	// before authentication to route the invitee to sign-in or sign-up.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	GetById(ctx context.Context, identityId string) (*model.Identity, error)
}

type IdentityRepo struct {
	db *gorm.DB
}

func NewIdentityRepo(db *gorm.DB) IIdentityRepository {
	return &IdentityRepo{db: db}
}

func (r *IdentityRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Identity{}).
		Where("LOWER(email) = LOWER(?)", email).
		Count(&count).Error
	return count > 0, err
}

func (r *IdentityRepo) GetById(ctx context.Context, identityId string) (*model.Identity, error) {
	var idn model.Identity
	err := r.db.WithContext(ctx).Where("identity_id = ?", identityId).First(&idn).Error
	if err != nil {
		return nil, err
	}
	return &idn, nil
}
