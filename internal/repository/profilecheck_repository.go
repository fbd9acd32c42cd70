package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"onboardbot/internal/model"
)

type ProfileCheckRepository struct {
	db *gorm.DB
}

type ProfileCheckRepositoryInterface interface {
	GetByUser(ctx context.Context, userID uuid.UUID) (*model.ProfileCheck, error)
	Upsert(ctx context.Context, check *model.ProfileCheck) error
}

var _ ProfileCheckRepositoryInterface = (*ProfileCheckRepository)(nil)

func NewProfileCheckRepository(db *gorm.DB) *ProfileCheckRepository {
	return &ProfileCheckRepository{db: db}
}

func (r *ProfileCheckRepository) GetByUser(ctx context.Context, userID uuid.UUID) (*model.ProfileCheck, error) {
	var check model.ProfileCheck
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&check).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &check, nil
}

// Upsert overwrites the user's cached analysis. One row per user: an
// existing row is updated in place, never appended to.
func (r *ProfileCheckRepository) Upsert(ctx context.Context, check *model.ProfileCheck) error {
	existing, err := r.GetByUser(ctx, check.UserID)
	if err != nil {
		return err
	}
	if existing != nil {
		check.ID = existing.ID
		check.CreatedAt = existing.CreatedAt
		return r.db.WithContext(ctx).Save(check).Error
	}
	return r.db.WithContext(ctx).Create(check).Error
}
