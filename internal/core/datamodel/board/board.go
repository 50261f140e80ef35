package board

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taskboard-app/taskboard/internal/core/datamodel/jsonblob"
	"github.com/taskboard-app/taskboard/internal/core/datamodel/project"
)

const (
	VisibilityPrivate = "private"
	VisibilityPublic  = "public"
)

// Board inherits its access control from the owning project; visibility only
// affects discoverability for non-members.
type Board struct {
	ID          string       `gorm:"primaryKey;size:36"`
	Name        string       `gorm:"column:name;not null"`
	Description string       `gorm:"column:description"`
	ProjectID   string       `gorm:"column:project_id;size:36;not null;index"`
	Visibility  string       `gorm:"column:visibility;not null;default:private"`
	Color       string       `gorm:"column:color"`
	Settings    jsonblob.Map `gorm:"column:settings;type:text"`
	CreatedBy   string       `gorm:"column:created_by;size:36;not null"`
	CreatedAt   time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time    `gorm:"column:updated_at;autoUpdateTime"`

	Project *project.Project `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

func (Board) TableName() string {
	return "boards"
}

func (b *Board) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

func ValidVisibility(v string) bool {
	return v == VisibilityPrivate || v == VisibilityPublic
}
