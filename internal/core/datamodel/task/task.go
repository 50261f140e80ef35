package task

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/taskboard-app/taskboard/internal/core/datamodel/column"
	"github.com/taskboard-app/taskboard/internal/core/datamodel/jsonblob"
)

const (
	StatusTodo       = "todo"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
	StatusArchived   = "archived"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Task carries denormalized board and project ids so list filters and the
// access climb avoid multi-hop joins. column_id stays the authoritative
// parent; the denormalized pair must always match the column's board.
type Task struct {
	ID             string           `gorm:"primaryKey;size:36"`
	Title          string           `gorm:"column:title;not null"`
	Description    string           `gorm:"column:description"`
	ColumnID       string           `gorm:"column:column_id;size:36;not null;index"`
	BoardID        string           `gorm:"column:board_id;size:36;not null;index"`
	ProjectID      string           `gorm:"column:project_id;size:36;not null;index"`
	Status         string           `gorm:"column:status;not null;default:todo"`
	Priority       string           `gorm:"column:priority;not null;default:medium"`
	AssigneeID     *string          `gorm:"column:assignee_id;size:36;index"`
	ReporterID     *string          `gorm:"column:reporter_id;size:36"`
	ParentTaskID   *string          `gorm:"column:parent_task_id;size:36;index"`
	DueDate        *time.Time       `gorm:"column:due_date"`
	EstimatedHours *float64         `gorm:"column:estimated_hours"`
	ActualHours    *float64         `gorm:"column:actual_hours"`
	Tags           jsonblob.Strings `gorm:"column:tags;type:text"`
	Settings       jsonblob.Map     `gorm:"column:settings;type:text"`
	CreatedBy      string           `gorm:"column:created_by;size:36;not null"`
	CreatedAt      time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time        `gorm:"column:updated_at;autoUpdateTime"`

	Column *column.Column `gorm:"foreignKey:ColumnID;constraint:OnDelete:CASCADE"`
	Parent *Task          `gorm:"foreignKey:ParentTaskID"`
}

func (Task) TableName() string {
	return "tasks"
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

func ValidStatus(status string) bool {
	switch status {
	case StatusTodo, StatusInProgress, StatusDone, StatusArchived:
		return true
	}
	return false
}

func ValidPriority(priority string) bool {
	switch priority {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Statuses lists the allowed status values in a stable order, used by the
// migrator when installing the check constraint.
func Statuses() []string {
	return []string{StatusTodo, StatusInProgress, StatusDone, StatusArchived}
}
