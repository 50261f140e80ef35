// Package board manages boards within a project, including the public
// visibility escape hatch.
package board

import (
	boardmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/board"
)

type Repository interface {
	Create(b *boardmodel.Board) error
	GetByID(id string) (*boardmodel.Board, error)
	ListByProject(projectID string) ([]boardmodel.Board, error)
	// ListPublicByProject returns only boards visible to non-members.
	ListPublicByProject(projectID string) ([]boardmodel.Board, error)
	Update(b *boardmodel.Board) error
	Delete(id string) error
}
