package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/taskboard-app/taskboard/internal"
	"github.com/taskboard-app/taskboard/internal/access"
	boardmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/board"
	columnmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/column"
	projectmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/project"
	taskmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/task"
)

// Repository implements the authorization probes with narrow selects so the
// resolver never loads full rows.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) access.Repository {
	return &Repository{db: db}
}

func (r *Repository) ProjectFacts(projectID string) (*access.ProjectFacts, error) {
	var row struct {
		ID       string
		OwnerID  string
		IsActive bool
	}
	err := r.db.Model(&projectmodel.Project{}).
		Select("id", "owner_id", "is_active").
		Where("id = ?", projectID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrProjectNotFound
		}
		return nil, internal.NewStorageError("failed to load project facts", err)
	}
	return &access.ProjectFacts{ID: row.ID, OwnerID: row.OwnerID, IsActive: row.IsActive}, nil
}

func (r *Repository) MemberRole(projectID, userID string) (string, error) {
	var role string
	err := r.db.Model(&projectmodel.ProjectMember{}).
		Select("role").
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Take(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", internal.NewStorageError("failed to load membership", err)
	}
	return role, nil
}

func (r *Repository) BoardFacts(boardID string) (*access.BoardFacts, error) {
	var row struct {
		ProjectID  string
		Visibility string
	}
	err := r.db.Model(&boardmodel.Board{}).
		Select("project_id", "visibility").
		Where("id = ?", boardID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrBoardNotFound
		}
		return nil, internal.NewStorageError("failed to load board facts", err)
	}
	return &access.BoardFacts{ProjectID: row.ProjectID, Visibility: row.Visibility}, nil
}

// ColumnRefs climbs column→board→project with a single join.
func (r *Repository) ColumnRefs(columnID string) (string, string, error) {
	var row struct {
		BoardID   string
		ProjectID string
	}
	err := r.db.Model(&columnmodel.Column{}).
		Select("columns.board_id", "boards.project_id").
		Joins("JOIN boards ON boards.id = columns.board_id").
		Where("columns.id = ?", columnID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", internal.ErrColumnNotFound
		}
		return "", "", internal.NewStorageError("failed to resolve column refs", err)
	}
	return row.BoardID, row.ProjectID, nil
}

func (r *Repository) TaskRefs(taskID string) (string, string, error) {
	var row struct {
		BoardID   string
		ProjectID string
	}
	err := r.db.Model(&taskmodel.Task{}).
		Select("board_id", "project_id").
		Where("id = ?", taskID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", internal.ErrTaskNotFound
		}
		return "", "", internal.NewStorageError("failed to resolve task refs", err)
	}
	return row.BoardID, row.ProjectID, nil
}
