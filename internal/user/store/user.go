package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/taskboard-app/taskboard/internal"
	usermodel "github.com/taskboard-app/taskboard/internal/core/datamodel/user"
	"github.com/taskboard-app/taskboard/internal/storage"
	"github.com/taskboard-app/taskboard/internal/user"
)

type Repository struct {
	db     *gorm.DB
	engine storage.Engine
}

func NewRepository(db *gorm.DB, engine storage.Engine) user.Repository {
	return &Repository{db: db, engine: engine}
}

func (r *Repository) GetByID(id string) (*usermodel.User, error) {
	var u usermodel.User
	err := r.db.Where("id = ?", id).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, internal.NewStorageError("failed to load user", err)
	}
	return &u, nil
}

func (r *Repository) Update(u *usermodel.User) error {
	if err := r.db.Save(u).Error; err != nil {
		return storage.ClassifyWriteError(err, r.engine, "failed to update user")
	}
	return nil
}

func (r *Repository) ListByApproval(status string) ([]usermodel.User, error) {
	var users []usermodel.User
	err := r.db.Where("approval_status = ?", status).Order("created_at ASC").Find(&users).Error
	if err != nil {
		return nil, internal.NewStorageError("failed to list users", err)
	}
	return users, nil
}

func (r *Repository) List() ([]usermodel.User, error) {
	var users []usermodel.User
	if err := r.db.Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, internal.NewStorageError("failed to list users", err)
	}
	return users, nil
}
