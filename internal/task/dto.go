package task

import (
	"time"

	"github.com/taskboard-app/taskboard/internal"
	"github.com/taskboard-app/taskboard/internal/core/datamodel/jsonblob"
	taskmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/task"
)

type CreateTaskDTO struct {
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	ColumnID       string           `json:"column_id"`
	Status         string           `json:"status"`
	Priority       string           `json:"priority"`
	AssigneeID     *string          `json:"assignee_id"`
	ParentTaskID   *string          `json:"parent_task_id"`
	DueDate        *time.Time       `json:"due_date"`
	EstimatedHours *float64         `json:"estimated_hours"`
	Tags           jsonblob.Strings `json:"tags"`
	Settings       jsonblob.Map     `json:"settings"`
}

func (d CreateTaskDTO) Validate() error {
	if d.Title == "" {
		return internal.NewValidationError("title is required", internal.ErrCodeValidationFailed)
	}
	if d.ColumnID == "" {
		return internal.NewValidationError("column_id is required", internal.ErrCodeValidationFailed)
	}
	if d.Status != "" && !taskmodel.ValidStatus(d.Status) {
		return internal.NewValidationError("status must be one of todo, in_progress, done, archived", internal.ErrCodeInvalidStatus)
	}
	if d.Priority != "" && !taskmodel.ValidPriority(d.Priority) {
		return internal.NewValidationError("priority must be one of low, medium, high, urgent", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateTaskDTO struct {
	Title          *string           `json:"title"`
	Description    *string           `json:"description"`
	Status         *string           `json:"status"`
	Priority       *string           `json:"priority"`
	AssigneeID     *string           `json:"assignee_id"`
	DueDate        *time.Time        `json:"due_date"`
	EstimatedHours *float64          `json:"estimated_hours"`
	ActualHours    *float64          `json:"actual_hours"`
	Tags           *jsonblob.Strings `json:"tags"`
	Settings       *jsonblob.Map     `json:"settings"`
}

func (d UpdateTaskDTO) Validate() error {
	if d.Title != nil && *d.Title == "" {
		return internal.NewValidationError("title cannot be empty", internal.ErrCodeValidationFailed)
	}
	if d.Status != nil && !taskmodel.ValidStatus(*d.Status) {
		return internal.NewValidationError("status must be one of todo, in_progress, done, archived", internal.ErrCodeInvalidStatus)
	}
	if d.Priority != nil && !taskmodel.ValidPriority(*d.Priority) {
		return internal.NewValidationError("priority must be one of low, medium, high, urgent", internal.ErrCodeValidationFailed)
	}
	return nil
}

// MoveTaskDTO relocates a task to another column, which may live on a
// different board of the same project.
type MoveTaskDTO struct {
	ColumnID string `json:"column_id"`
}

func (d MoveTaskDTO) Validate() error {
	if d.ColumnID == "" {
		return internal.NewValidationError("column_id is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type TaskView struct {
	ID             string           `json:"id"`
	Title          string           `json:"title"`
	Description    string           `json:"description,omitempty"`
	ColumnID       string           `json:"column_id"`
	BoardID        string           `json:"board_id"`
	ProjectID      string           `json:"project_id"`
	Status         string           `json:"status"`
	Priority       string           `json:"priority"`
	AssigneeID     *string          `json:"assignee_id,omitempty"`
	ReporterID     *string          `json:"reporter_id,omitempty"`
	ParentTaskID   *string          `json:"parent_task_id,omitempty"`
	DueDate        *time.Time       `json:"due_date,omitempty"`
	EstimatedHours *float64         `json:"estimated_hours,omitempty"`
	ActualHours    *float64         `json:"actual_hours,omitempty"`
	Tags           jsonblob.Strings `json:"tags"`
	Settings       jsonblob.Map     `json:"settings"`
	CreatedBy      string           `json:"created_by"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func ToTaskView(t *taskmodel.Task) TaskView {
	tags := t.Tags
	if tags == nil {
		tags = jsonblob.Strings{}
	}
	settings := t.Settings
	if settings == nil {
		settings = jsonblob.Map{}
	}
	return TaskView{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		ColumnID:       t.ColumnID,
		BoardID:        t.BoardID,
		ProjectID:      t.ProjectID,
		Status:         t.Status,
		Priority:       t.Priority,
		AssigneeID:     t.AssigneeID,
		ReporterID:     t.ReporterID,
		ParentTaskID:   t.ParentTaskID,
		DueDate:        t.DueDate,
		EstimatedHours: t.EstimatedHours,
		ActualHours:    t.ActualHours,
		Tags:           tags,
		Settings:       settings,
		CreatedBy:      t.CreatedBy,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

func ToTaskViews(tasks []taskmodel.Task) []TaskView {
	views := make([]TaskView, 0, len(tasks))
	for i := range tasks {
		views = append(views, ToTaskView(&tasks[i]))
	}
	return views
}
