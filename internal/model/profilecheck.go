package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProfileCheck caches the most recent completeness analysis for a user.
// One row per user, overwritten on each re-check.
type ProfileCheck struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	HasRealName     bool      `gorm:"not null;default:false"`
	HasDisplayName  bool      `gorm:"not null;default:false"`
	HasProfileImage bool      `gorm:"not null;default:false"`
	HasJobTitle     bool      `gorm:"not null;default:false"`
	HasDepartment   bool      `gorm:"not null;default:false"`
	HasPhone        bool      `gorm:"not null;default:false"`
	HasManagerInfo  bool      `gorm:"not null;default:false"`
	HasStartDate    bool      `gorm:"not null;default:false"`
	CompletionScore int       `gorm:"not null;default:0"` // 0-100
	MissingFields   datatypes.JSON
	Status          ProfileStatus `gorm:"not null;default:'incomplete'"`
	LastCheckedAt   time.Time
	CompletedAt     *time.Time
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`

	User User `gorm:"foreignKey:UserID"`
}
