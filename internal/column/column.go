// Package column manages the ordered columns of a board. Positions are
// 1-based and contiguous within a board; all position arithmetic happens in
// transactions on the store side.
package column

import (
	columnmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/column"
)

type Repository interface {
	// CreateAppend inserts the column at max(position)+1 within its board,
	// atomically with the position read.
	CreateAppend(c *columnmodel.Column) error
	GetByID(id string) (*columnmodel.Column, error)
	ListByBoard(boardID string) ([]columnmodel.Column, error)
	Update(c *columnmodel.Column) error
	// Reorder moves the column to the target position, shifting its
	// neighbors so positions stay contiguous.
	Reorder(id string, position int) (*columnmodel.Column, error)
	Delete(id string) error
}
