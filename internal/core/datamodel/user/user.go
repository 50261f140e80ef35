package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taskboard-app/taskboard/internal/core/datamodel/jsonblob"
)

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"

	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

type User struct {
	ID                string         `gorm:"primaryKey;size:36"`
	Email             string         `gorm:"column:email;uniqueIndex;not null"`
	Name              string         `gorm:"column:name;not null"`
	PasswordHash      string         `gorm:"column:password_hash;not null"`
	Role              string         `gorm:"column:role;not null;default:user"`
	ApprovalStatus    string         `gorm:"column:approval_status;not null;default:pending"`
	AvatarURL         *string        `gorm:"column:avatar_url"`
	NotificationPrefs jsonblob.Map   `gorm:"column:notification_prefs;type:text"`
	CreatedAt         time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt         gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// Session is a server-held login record. The token column is the source of
// truth for revocation: deleting the row invalidates the token regardless of
// its embedded expiry.
type Session struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Token     string    `gorm:"column:token;uniqueIndex;not null"`
	UserID    string    `gorm:"column:user_id;size:36;not null;index"`
	IssuedAt  time.Time `gorm:"column:issued_at;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (Session) TableName() string {
	return "sessions"
}

func (s *Session) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// Expired reports whether the session is past its expiry at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

func ValidApprovalStatus(status string) bool {
	switch status {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}
