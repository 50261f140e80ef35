package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/taskboard-app/taskboard/internal"
	"github.com/taskboard-app/taskboard/internal/board"
	boardmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/board"
	"github.com/taskboard-app/taskboard/internal/storage"
)

type Repository struct {
	db     *gorm.DB
	engine storage.Engine
}

func NewRepository(db *gorm.DB, engine storage.Engine) board.Repository {
	return &Repository{db: db, engine: engine}
}

func (r *Repository) Create(b *boardmodel.Board) error {
	if err := r.db.Create(b).Error; err != nil {
		return storage.ClassifyWriteError(err, r.engine, "failed to create board")
	}
	return nil
}

func (r *Repository) GetByID(id string) (*boardmodel.Board, error) {
	var b boardmodel.Board
	err := r.db.Where("id = ?", id).First(&b).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrBoardNotFound
		}
		return nil, internal.NewStorageError("failed to load board", err)
	}
	return &b, nil
}

func (r *Repository) ListByProject(projectID string) ([]boardmodel.Board, error) {
	var boards []boardmodel.Board
	err := r.db.Where("project_id = ?", projectID).Order("created_at ASC").Find(&boards).Error
	if err != nil {
		return nil, internal.NewStorageError("failed to list boards", err)
	}
	return boards, nil
}

func (r *Repository) ListPublicByProject(projectID string) ([]boardmodel.Board, error) {
	var boards []boardmodel.Board
	err := r.db.
		Where("project_id = ? AND visibility = ?", projectID, boardmodel.VisibilityPublic).
		Order("created_at ASC").
		Find(&boards).Error
	if err != nil {
		return nil, internal.NewStorageError("failed to list boards", err)
	}
	return boards, nil
}

func (r *Repository) Update(b *boardmodel.Board) error {
	if err := r.db.Save(b).Error; err != nil {
		return storage.ClassifyWriteError(err, r.engine, "failed to update board")
	}
	return nil
}

func (r *Repository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&boardmodel.Board{})
	if result.Error != nil {
		return storage.ClassifyWriteError(result.Error, r.engine, "failed to delete board")
	}
	if result.RowsAffected == 0 {
		return internal.ErrBoardNotFound
	}
	return nil
}
