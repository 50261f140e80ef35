// Package task is the leaf of the entity hierarchy: cards on a board
// column, with assignees, subtasks, and movement between columns.
package task

import (
	taskmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/task"
)

// Filter narrows task listings. Exactly one parent scope (column, board, or
// project) is required; assignee and status are optional refinements.
type Filter struct {
	ColumnID   string
	BoardID    string
	ProjectID  string
	AssigneeID string
	Status     string
}

type Repository interface {
	Create(t *taskmodel.Task) error
	GetByID(id string) (*taskmodel.Task, error)
	List(f Filter) ([]taskmodel.Task, error)
	ListSubtasks(parentID string) ([]taskmodel.Task, error)
	Update(t *taskmodel.Task) error
	Delete(id string) error
	// ColumnHome resolves a column's board and project, used when creating
	// and moving tasks.
	ColumnHome(columnID string) (boardID, projectID string, err error)
}
