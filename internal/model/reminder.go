package model

import (
	"time"

	"github.com/google/uuid"
)

// TaskReminder holds the nudge/escalation state for exactly one task.
// Rows live and die with their task: the assignment engine deletes them in
// the same transaction that replaces the task batch.
type TaskReminder struct {
	ID                uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TaskID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;index"`
	ReminderCount     int       `gorm:"not null;default:0"`
	MaxReminders      int       `gorm:"not null;default:2"`
	LastReminderSent  *time.Time
	NextReminderDue   *time.Time
	Status            ReminderStatus `gorm:"not null;default:'pending'"`
	ManagerNotified   bool           `gorm:"not null;default:false"`
	ManagerNotifiedAt *time.Time
	EscalationReason  string
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`

	Task OnboardingTask `gorm:"foreignKey:TaskID"`
	User User           `gorm:"foreignKey:UserID"`
}
