package project

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taskboard-app/taskboard/internal/core/datamodel/user"
)

const (
	MemberRoleOwner  = "owner"
	MemberRoleAdmin  = "admin"
	MemberRoleMember = "member"
)

type Project struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Name        string    `gorm:"column:name;not null"`
	Description string    `gorm:"column:description"`
	Color       string    `gorm:"column:color"`
	OwnerID     string    `gorm:"column:owner_id;size:36;not null;index"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Owner *user.User `gorm:"foreignKey:OwnerID"`
}

func (Project) TableName() string {
	return "projects"
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// ProjectMember grants a user access to a project. The project's owner_id
// column stays authoritative for ownership; membership rows only widen
// access.
type ProjectMember struct {
	ID        string    `gorm:"primaryKey;size:36"`
	ProjectID string    `gorm:"column:project_id;size:36;not null;uniqueIndex:uk_project_user"`
	UserID    string    `gorm:"column:user_id;size:36;not null;uniqueIndex:uk_project_user;index"`
	Role      string    `gorm:"column:role;not null;default:member"`
	JoinedAt  time.Time `gorm:"column:joined_at;autoCreateTime"`

	Project *Project   `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	User    *user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (ProjectMember) TableName() string {
	return "project_members"
}

func (m *ProjectMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func ValidMemberRole(role string) bool {
	switch role {
	case MemberRoleOwner, MemberRoleAdmin, MemberRoleMember:
		return true
	}
	return false
}
