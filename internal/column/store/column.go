package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/taskboard-app/taskboard/internal"
	"github.com/taskboard-app/taskboard/internal/column"
	columnmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/column"
	"github.com/taskboard-app/taskboard/internal/storage"
)

type Repository struct {
	db     *gorm.DB
	engine storage.Engine
}

func NewRepository(db *gorm.DB, engine storage.Engine) column.Repository {
	return &Repository{db: db, engine: engine}
}

// CreateAppend reads max(position) and inserts in one transaction, so two
// concurrent creates on the same board cannot claim the same slot.
func (r *Repository) CreateAppend(c *columnmodel.Column) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var maxPos int
		err := tx.Model(&columnmodel.Column{}).
			Where("board_id = ?", c.BoardID).
			Select("COALESCE(MAX(position), 0)").
			Scan(&maxPos).Error
		if err != nil {
			return err
		}
		c.Position = maxPos + 1
		return tx.Create(c).Error
	})
	if err != nil {
		return storage.ClassifyWriteError(err, r.engine, "failed to create column")
	}
	return nil
}

func (r *Repository) GetByID(id string) (*columnmodel.Column, error) {
	var c columnmodel.Column
	err := r.db.Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrColumnNotFound
		}
		return nil, internal.NewStorageError("failed to load column", err)
	}
	return &c, nil
}

func (r *Repository) ListByBoard(boardID string) ([]columnmodel.Column, error) {
	var columns []columnmodel.Column
	err := r.db.Where("board_id = ?", boardID).Order("position ASC").Find(&columns).Error
	if err != nil {
		return nil, internal.NewStorageError("failed to list columns", err)
	}
	return columns, nil
}

func (r *Repository) Update(c *columnmodel.Column) error {
	if err := r.db.Save(c).Error; err != nil {
		return storage.ClassifyWriteError(err, r.engine, "failed to update column")
	}
	return nil
}

// Reorder shifts the neighbors between the old and new slots, then moves the
// column. A target beyond the end clamps to the last position.
func (r *Repository) Reorder(id string, position int) (*columnmodel.Column, error) {
	var moved columnmodel.Column
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&moved).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&columnmodel.Column{}).Where("board_id = ?", moved.BoardID).Count(&count).Error; err != nil {
			return err
		}
		if int64(position) > count {
			position = int(count)
		}
		if position == moved.Position {
			return nil
		}

		if position < moved.Position {
			err := tx.Model(&columnmodel.Column{}).
				Where("board_id = ? AND position >= ? AND position < ?", moved.BoardID, position, moved.Position).
				Update("position", gorm.Expr("position + 1")).Error
			if err != nil {
				return err
			}
		} else {
			err := tx.Model(&columnmodel.Column{}).
				Where("board_id = ? AND position > ? AND position <= ?", moved.BoardID, moved.Position, position).
				Update("position", gorm.Expr("position - 1")).Error
			if err != nil {
				return err
			}
		}

		moved.Position = position
		return tx.Model(&columnmodel.Column{}).Where("id = ?", id).Update("position", position).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrColumnNotFound
		}
		return nil, storage.ClassifyWriteError(err, r.engine, "failed to reorder column")
	}
	return &moved, nil
}

// Delete closes the position gap left by the removed column in the same
// transaction.
func (r *Repository) Delete(id string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var c columnmodel.Column
		if err := tx.Where("id = ?", id).First(&c).Error; err != nil {
			return err
		}
		if err := tx.Where("id = ?", id).Delete(&columnmodel.Column{}).Error; err != nil {
			return err
		}
		return tx.Model(&columnmodel.Column{}).
			Where("board_id = ? AND position > ?", c.BoardID, c.Position).
			Update("position", gorm.Expr("position - 1")).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return internal.ErrColumnNotFound
		}
		return storage.ClassifyWriteError(err, r.engine, "failed to delete column")
	}
	return nil
}
