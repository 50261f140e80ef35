package user

import (
	"time"

	"github.com/taskboard-app/taskboard/internal"
	"github.com/taskboard-app/taskboard/internal/core/datamodel/jsonblob"
	usermodel "github.com/taskboard-app/taskboard/internal/core/datamodel/user"
)

// UpdateProfileDTO carries the mutable profile fields. Nil pointers mean
// "leave unchanged".
type UpdateProfileDTO struct {
	Name              *string      `json:"name"`
	AvatarURL         *string      `json:"avatar_url"`
	NotificationPrefs *jsonblob.Map `json:"notification_prefs"`
}

func (d UpdateProfileDTO) Validate() error {
	if d.Name != nil && *d.Name == "" {
		return internal.NewValidationError("name cannot be empty", internal.ErrCodeValidationFailed)
	}
	return nil
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (d ChangePasswordDTO) Validate() error {
	if d.CurrentPassword == "" {
		return internal.NewValidationError("current password is required", internal.ErrCodeValidationFailed)
	}
	if len(d.NewPassword) < 8 {
		return internal.NewValidationError("new password must be at least 8 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}

// ApprovalDecisionDTO is the admin verdict on a pending registration.
type ApprovalDecisionDTO struct {
	Status string `json:"status"`
}

func (d ApprovalDecisionDTO) Validate() error {
	if d.Status != usermodel.ApprovalApproved && d.Status != usermodel.ApprovalRejected {
		return internal.NewValidationError("status must be approved or rejected", internal.ErrCodeInvalidStatus)
	}
	return nil
}

// ProfileView is the full self-view including notification preferences.
type ProfileView struct {
	ID                string       `json:"id"`
	Email             string       `json:"email"`
	Name              string       `json:"name"`
	Role              string       `json:"role"`
	ApprovalStatus    string       `json:"approval_status"`
	AvatarURL         *string      `json:"avatar_url,omitempty"`
	NotificationPrefs jsonblob.Map `json:"notification_prefs"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

func ToProfileView(u *usermodel.User) ProfileView {
	prefs := u.NotificationPrefs
	if prefs == nil {
		prefs = jsonblob.Map{}
	}
	return ProfileView{
		ID:                u.ID,
		Email:             u.Email,
		Name:              u.Name,
		Role:              u.Role,
		ApprovalStatus:    u.ApprovalStatus,
		AvatarURL:         u.AvatarURL,
		NotificationPrefs: prefs,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

// SummaryView is the projection exposed to other users.
type SummaryView struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	Name      string  `json:"name"`
	Role      string  `json:"role"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

func ToSummaryView(u *usermodel.User) SummaryView {
	return SummaryView{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		AvatarURL: u.AvatarURL,
	}
}

func ToSummaryViews(users []usermodel.User) []SummaryView {
	views := make([]SummaryView, 0, len(users))
	for i := range users {
		views = append(views, ToSummaryView(&users[i]))
	}
	return views
}
