package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type OnboardingTask struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Name         string    `gorm:"not null"`
	Description  string
	Category     string
	Role         RoleTag
	Priority     int `gorm:"not null;default:1"` // 1=high, 2=medium, 3=low
	DueDate      *time.Time
	Status       TaskStatus `gorm:"not null;default:'not_started'"`
	StartedAt    *time.Time
	CompletedAt  *time.Time
	Mandatory    bool `gorm:"not null;default:true"`
	EstimatedMin int  `gorm:"not null;default:30"`
	Instructions string
	Resources    datatypes.JSON // ordered list of resource strings
	// Position fixes the ordinal a user addresses the task by ("completed
	// task 3"). Assigned once per batch, ordered by priority then due date.
	Position  int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	User User `gorm:"foreignKey:UserID"`
}
