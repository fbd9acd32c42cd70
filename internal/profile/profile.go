package profile

import (
	"context"
	"time"
)

// Profile is the external directory's view of a user. Absent fields are
// empty values, not errors.
type Profile struct {
	RealName    string     `json:"real_name"`
	DisplayName string     `json:"display_name"`
	Email       string     `json:"email"`
	JobTitle    string     `json:"job_title"`
	Phone       string     `json:"phone"`
	Department  string     `json:"department"`
	ManagerRef  string     `json:"manager"`
	ImageURL    string     `json:"image_url"`
	StartDate   *time.Time `json:"start_date"`
	IsBot       bool       `json:"is_bot"`
}

// Source fetches a profile from the external directory by platform user id.
type Source interface {
	FetchProfile(ctx context.Context, platformUserID string) (*Profile, error)
}
