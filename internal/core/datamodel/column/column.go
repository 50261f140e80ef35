package column

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taskboard-app/taskboard/internal/core/datamodel/board"
	"github.com/taskboard-app/taskboard/internal/core/datamodel/jsonblob"
)

// Column positions are monotonic left-to-right within a board; creation
// appends with max(position)+1, so the sequence may be sparse after deletes.
type Column struct {
	ID        string       `gorm:"primaryKey;size:36"`
	Title     string       `gorm:"column:title;not null"`
	BoardID   string       `gorm:"column:board_id;size:36;not null;index"`
	Position  int          `gorm:"column:position;not null;default:0"`
	Color     string       `gorm:"column:color"`
	Settings  jsonblob.Map `gorm:"column:settings;type:text"`
	CreatedBy string       `gorm:"column:created_by;size:36;not null"`
	CreatedAt time.Time    `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time    `gorm:"column:updated_at;autoUpdateTime"`

	Board *board.Board `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE"`
}

func (Column) TableName() string {
	return "columns"
}

func (c *Column) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
