package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/draftpad/draftpad/internal/review/model"
)

type IProjectRepository interface {
	// CountOwnedBy returns how many projects the identity owns. The access
	// guard uses this to tell owners apart from pure reviewers.
	CountOwnedBy(ctx context.Context, identityId string) (int64, error)
	GetProject(ctx context.Context, projectId string) (*model.Project, error)
}

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) IProjectRepository {
	return &ProjectRepo{db: db}
}

func (r *ProjectRepo) CountOwnedBy(ctx context.Context, identityId string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Project{}).
		Where("owner_id = ?", identityId).
		Count(&count).Error
	return count, err
}

func (r *ProjectRepo) GetProject(ctx context.Context, projectId string) (*model.Project, error) {
	var p model.Project
	err := r.db.WithContext(ctx).Where("project_id = ?", projectId).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}
