package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                    uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	PlatformUserID        string    `gorm:"uniqueIndex;not null"`
	Email                 string    `gorm:"index"`
	FullName              string
	DisplayName           string
	JobTitle              string
	Phone                 string
	Department            string
	ManagerEmail          string
	Role                  RoleTag `gorm:"not null;default:'other'"`
	StartDate             *time.Time
	OnboardingCompleted   bool `gorm:"not null;default:false"`
	OnboardingCompletedAt *time.Time
	CreatedAt             time.Time `gorm:"autoCreateTime"`
	UpdatedAt             time.Time `gorm:"autoUpdateTime"`
}
