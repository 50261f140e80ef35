package board

import (
	"time"

	"github.com/taskboard-app/taskboard/internal"
	boardmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/board"
	"github.com/taskboard-app/taskboard/internal/core/datamodel/jsonblob"
)

type CreateBoardDTO struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	ProjectID   string       `json:"project_id"`
	Visibility  string       `json:"visibility"`
	Color       string       `json:"color"`
	Settings    jsonblob.Map `json:"settings"`
}

func (d CreateBoardDTO) Validate() error {
	if d.Name == "" {
		return internal.NewValidationError("name is required", internal.ErrCodeValidationFailed)
	}
	if d.ProjectID == "" {
		return internal.NewValidationError("project_id is required", internal.ErrCodeValidationFailed)
	}
	if d.Visibility != "" && !boardmodel.ValidVisibility(d.Visibility) {
		return internal.NewValidationError("visibility must be private or public", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateBoardDTO struct {
	Name        *string       `json:"name"`
	Description *string       `json:"description"`
	Visibility  *string       `json:"visibility"`
	Color       *string       `json:"color"`
	Settings    *jsonblob.Map `json:"settings"`
}

func (d UpdateBoardDTO) Validate() error {
	if d.Name != nil && *d.Name == "" {
		return internal.NewValidationError("name cannot be empty", internal.ErrCodeValidationFailed)
	}
	if d.Visibility != nil && !boardmodel.ValidVisibility(*d.Visibility) {
		return internal.NewValidationError("visibility must be private or public", internal.ErrCodeValidationFailed)
	}
	return nil
}

type BoardView struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	ProjectID   string       `json:"project_id"`
	Visibility  string       `json:"visibility"`
	Color       string       `json:"color,omitempty"`
	Settings    jsonblob.Map `json:"settings"`
	CreatedBy   string       `json:"created_by"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func ToBoardView(b *boardmodel.Board) BoardView {
	settings := b.Settings
	if settings == nil {
		settings = jsonblob.Map{}
	}
	return BoardView{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		ProjectID:   b.ProjectID,
		Visibility:  b.Visibility,
		Color:       b.Color,
		Settings:    settings,
		CreatedBy:   b.CreatedBy,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

func ToBoardViews(boards []boardmodel.Board) []BoardView {
	views := make([]BoardView, 0, len(boards))
	for i := range boards {
		views = append(views, ToBoardView(&boards[i]))
	}
	return views
}
