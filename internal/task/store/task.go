package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/taskboard-app/taskboard/internal"
	taskmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/task"
	"github.com/taskboard-app/taskboard/internal/storage"
	"github.com/taskboard-app/taskboard/internal/task"
)

type Repository struct {
	db     *gorm.DB
	engine storage.Engine
}

func NewRepository(db *gorm.DB, engine storage.Engine) task.Repository {
	return &Repository{db: db, engine: engine}
}

// Create revalidates the enumerations at the storage boundary so both
// engines reject bad values identically, whether or not a check constraint
// is installed.
func (r *Repository) Create(t *taskmodel.Task) error {
	if !taskmodel.ValidStatus(t.Status) {
		return internal.NewValidationError("invalid task status", internal.ErrCodeInvalidStatus)
	}
	if !taskmodel.ValidPriority(t.Priority) {
		return internal.NewValidationError("invalid task priority", internal.ErrCodeValidationFailed)
	}
	if err := r.db.Create(t).Error; err != nil {
		return storage.ClassifyWriteError(err, r.engine, "failed to create task")
	}
	return nil
}

func (r *Repository) GetByID(id string) (*taskmodel.Task, error) {
	var t taskmodel.Task
	err := r.db.Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrTaskNotFound
		}
		return nil, internal.NewStorageError("failed to load task", err)
	}
	return &t, nil
}

func (r *Repository) List(f task.Filter) ([]taskmodel.Task, error) {
	query := r.db.Model(&taskmodel.Task{})
	switch {
	case f.ColumnID != "":
		query = query.Where("column_id = ?", f.ColumnID)
	case f.BoardID != "":
		query = query.Where("board_id = ?", f.BoardID)
	case f.ProjectID != "":
		query = query.Where("project_id = ?", f.ProjectID)
	}
	if f.AssigneeID != "" {
		query = query.Where("assignee_id = ?", f.AssigneeID)
	}
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}

	var tasks []taskmodel.Task
	if err := query.Order("created_at ASC").Find(&tasks).Error; err != nil {
		return nil, internal.NewStorageError("failed to list tasks", err)
	}
	return tasks, nil
}

func (r *Repository) ListSubtasks(parentID string) ([]taskmodel.Task, error) {
	var tasks []taskmodel.Task
	err := r.db.Where("parent_task_id = ?", parentID).Order("created_at ASC").Find(&tasks).Error
	if err != nil {
		return nil, internal.NewStorageError("failed to list subtasks", err)
	}
	return tasks, nil
}

func (r *Repository) Update(t *taskmodel.Task) error {
	if !taskmodel.ValidStatus(t.Status) {
		return internal.NewValidationError("invalid task status", internal.ErrCodeInvalidStatus)
	}
	if !taskmodel.ValidPriority(t.Priority) {
		return internal.NewValidationError("invalid task priority", internal.ErrCodeValidationFailed)
	}
	if err := r.db.Save(t).Error; err != nil {
		return storage.ClassifyWriteError(err, r.engine, "failed to update task")
	}
	return nil
}

func (r *Repository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&taskmodel.Task{})
	if result.Error != nil {
		return storage.ClassifyWriteError(result.Error, r.engine, "failed to delete task")
	}
	if result.RowsAffected == 0 {
		return internal.ErrTaskNotFound
	}
	return nil
}

func (r *Repository) ColumnHome(columnID string) (string, string, error) {
	var row struct {
		BoardID   string
		ProjectID string
	}
	err := r.db.Table("columns").
		Select("columns.board_id AS board_id", "boards.project_id AS project_id").
		Joins("JOIN boards ON boards.id = columns.board_id").
		Where("columns.id = ?", columnID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", internal.ErrColumnNotFound
		}
		return "", "", internal.NewStorageError("failed to resolve column", err)
	}
	return row.BoardID, row.ProjectID, nil
}
