package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"onboardbot/internal/model"
)

type ReminderRepository struct {
	db *gorm.DB
}

type ReminderRepositoryInterface interface {
	DueForScan(ctx context.Context, now time.Time) ([]model.TaskReminder, error)
	Save(ctx context.Context, reminder *model.TaskReminder) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.TaskReminder, error)
}

var _ ReminderRepositoryInterface = (*ReminderRepository)(nil)

func NewReminderRepository(db *gorm.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

// DueForScan returns pending reminders whose next_reminder_due has passed
// and whose task is still open. Task and User are preloaded because the
// scheduler needs them to compose the notification.
func (r *ReminderRepository) DueForScan(ctx context.Context, now time.Time) ([]model.TaskReminder, error) {
	var reminders []model.TaskReminder
	result := r.db.WithContext(ctx).
		Preload("Task").
		Preload("User").
		Joins("JOIN onboarding_tasks ON onboarding_tasks.id = task_reminders.task_id").
		Where("task_reminders.status = ?", model.ReminderPending).
		Where("task_reminders.next_reminder_due <= ?", now).
		Where("onboarding_tasks.status <> ?", model.TaskCompleted).
		Order("task_reminders.next_reminder_due").
		Find(&reminders)
	if result.Error != nil {
		return nil, result.Error
	}
	return reminders, nil
}

func (r *ReminderRepository) Save(ctx context.Context, reminder *model.TaskReminder) error {
	result := r.db.WithContext(ctx).Model(&model.TaskReminder{}).
		Where("id = ?", reminder.ID).
		Updates(map[string]interface{}{
			"reminder_count":      reminder.ReminderCount,
			"last_reminder_sent":  reminder.LastReminderSent,
			"next_reminder_due":   reminder.NextReminderDue,
			"status":              reminder.Status,
			"manager_notified":    reminder.ManagerNotified,
			"manager_notified_at": reminder.ManagerNotifiedAt,
			"escalation_reason":   reminder.EscalationReason,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReminderNotFound
	}
	return nil
}

func (r *ReminderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.TaskReminder, error) {
	var reminders []model.TaskReminder
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&reminders)
	if result.Error != nil {
		return nil, result.Error
	}
	return reminders, nil
}
