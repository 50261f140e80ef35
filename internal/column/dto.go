package column

import (
	"time"

	"github.com/taskboard-app/taskboard/internal"
	columnmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/column"
	"github.com/taskboard-app/taskboard/internal/core/datamodel/jsonblob"
)

type CreateColumnDTO struct {
	Title    string       `json:"title"`
	BoardID  string       `json:"board_id"`
	Color    string       `json:"color"`
	Settings jsonblob.Map `json:"settings"`
}

func (d CreateColumnDTO) Validate() error {
	if d.Title == "" {
		return internal.NewValidationError("title is required", internal.ErrCodeValidationFailed)
	}
	if d.BoardID == "" {
		return internal.NewValidationError("board_id is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateColumnDTO struct {
	Title    *string       `json:"title"`
	Color    *string       `json:"color"`
	Settings *jsonblob.Map `json:"settings"`
}

func (d UpdateColumnDTO) Validate() error {
	if d.Title != nil && *d.Title == "" {
		return internal.NewValidationError("title cannot be empty", internal.ErrCodeValidationFailed)
	}
	return nil
}

type ReorderColumnDTO struct {
	Position int `json:"position"`
}

func (d ReorderColumnDTO) Validate() error {
	if d.Position < 1 {
		return internal.NewValidationError("position must be at least 1", internal.ErrCodeInvalidPosition)
	}
	return nil
}

type ColumnView struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	BoardID   string       `json:"board_id"`
	Position  int          `json:"position"`
	Color     string       `json:"color,omitempty"`
	Settings  jsonblob.Map `json:"settings"`
	CreatedBy string       `json:"created_by"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func ToColumnView(c *columnmodel.Column) ColumnView {
	settings := c.Settings
	if settings == nil {
		settings = jsonblob.Map{}
	}
	return ColumnView{
		ID:        c.ID,
		Title:     c.Title,
		BoardID:   c.BoardID,
		Position:  c.Position,
		Color:     c.Color,
		Settings:  settings,
		CreatedBy: c.CreatedBy,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func ToColumnViews(columns []columnmodel.Column) []ColumnView {
	views := make([]ColumnView, 0, len(columns))
	for i := range columns {
		views = append(views, ToColumnView(&columns[i]))
	}
	return views
}
