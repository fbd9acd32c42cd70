package repository

import (
	"context"
	"errors"
	"time"

	"onboardbot/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

type UserRepositoryInterface interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByPlatformID(ctx context.Context, platformUserID string) (*model.User, error)
	Save(ctx context.Context, user *model.User) error
	MarkOnboardingComplete(ctx context.Context, id uuid.UUID, at time.Time) error
	DigestCounts(ctx context.Context) (total, completed, inProgress int64, err error)
}

var _ UserRepositoryInterface = (*UserRepository)(nil)

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

func (r *UserRepository) GetByPlatformID(ctx context.Context, platformUserID string) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).Where("platform_user_id = ?", platformUserID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &user, err
}

func (r *UserRepository) Save(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// MarkOnboardingComplete flips the completion flag exactly once. The guard
// on onboarding_completed keeps the original completion timestamp intact
// when the evaluator runs again after further status changes.
func (r *UserRepository) MarkOnboardingComplete(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Model(&model.User{}).
		Where("id = ? AND onboarding_completed = ?", id, false).
		Updates(map[string]interface{}{
			"onboarding_completed":    true,
			"onboarding_completed_at": at,
		}).Error
}

// DigestCounts returns the aggregate numbers for the scheduler digest:
// total users, users with onboarding completed, and users still working
// through an assigned task set.
func (r *UserRepository) DigestCounts(ctx context.Context) (total, completed, inProgress int64, err error) {
	db := r.db.WithContext(ctx)
	if err = db.Model(&model.User{}).Count(&total).Error; err != nil {
		return
	}
	if err = db.Model(&model.User{}).Where("onboarding_completed = ?", true).Count(&completed).Error; err != nil {
		return
	}
	sub := r.db.WithContext(ctx).Model(&model.OnboardingTask{}).Select("user_id")
	err = db.Model(&model.User{}).
		Where("onboarding_completed = ?", false).
		Where("id IN (?)", sub).
		Count(&inProgress).Error
	return
}
