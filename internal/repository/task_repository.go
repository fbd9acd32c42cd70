package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"onboardbot/internal/model"
)

type TaskRepository struct {
	db *gorm.DB
}

type TaskRepositoryInterface interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.OnboardingTask, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.OnboardingTask, error)
	ReplaceForUser(ctx context.Context, userID uuid.UUID, tasks []model.OnboardingTask, reminders []model.TaskReminder) error
	UpdateStatus(ctx context.Context, task *model.OnboardingTask) error
	CountMandatoryIncomplete(ctx context.Context, userID uuid.UUID) (int64, error)
}

var _ TaskRepositoryInterface = (*TaskRepository)(nil)

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// GetByID retrieves a task by its ID
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.OnboardingTask, error) {
	var task model.OnboardingTask
	result := r.db.WithContext(ctx).First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// ListByUser retrieves a user's tasks in the order they are presented:
// position ascending. Position is assigned once per batch from the
// (priority, due date) sort, so the ordinal a user refers to stays stable
// for the lifetime of the assignment generation.
func (r *TaskRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.OnboardingTask, error) {
	var tasks []model.OnboardingTask
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("position").
		Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// ReplaceForUser atomically swaps a user's task set. The previous batch and
// its reminder rows are deleted and the new batch inserted inside one
// transaction: a failure anywhere rolls everything back, so the user never
// ends up with a half-replaced set or reminders pointing at deleted tasks.
func (r *TaskRepository) ReplaceForUser(ctx context.Context, userID uuid.UUID, tasks []model.OnboardingTask, reminders []model.TaskReminder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.TaskReminder{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&model.OnboardingTask{}).Error; err != nil {
			return err
		}
		if len(tasks) > 0 {
			if err := tx.Create(&tasks).Error; err != nil {
				return err
			}
		}
		if len(reminders) > 0 {
			if err := tx.Create(&reminders).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateStatus persists a single status change. Each change commits
// immediately since it corresponds to one independent user action.
func (r *TaskRepository) UpdateStatus(ctx context.Context, task *model.OnboardingTask) error {
	result := r.db.WithContext(ctx).Model(&model.OnboardingTask{}).
		Where("id = ?", task.ID).
		Updates(map[string]interface{}{
			"status":       task.Status,
			"started_at":   task.StartedAt,
			"completed_at": task.CompletedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

// CountMandatoryIncomplete returns how many mandatory tasks are not yet
// completed for the user. Zero means onboarding is done.
func (r *TaskRepository) CountMandatoryIncomplete(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.OnboardingTask{}).
		Where("user_id = ? AND mandatory = ? AND status <> ?", userID, true, model.TaskCompleted).
		Count(&count).Error
	return count, err
}
