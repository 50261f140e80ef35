package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/taskboard-app/taskboard/internal"
	"github.com/taskboard-app/taskboard/internal/auth"
	usermodel "github.com/taskboard-app/taskboard/internal/core/datamodel/user"
	"github.com/taskboard-app/taskboard/internal/storage"
)

// Repository implements auth.Repository on the shared gorm handle.
type Repository struct {
	db     *gorm.DB
	engine storage.Engine
}

func NewRepository(db *gorm.DB, engine storage.Engine) auth.Repository {
	return &Repository{db: db, engine: engine}
}

func (r *Repository) CreateUser(u *usermodel.User) error {
	if err := r.db.Create(u).Error; err != nil {
		return storage.ClassifyWriteError(err, r.engine, "failed to create user")
	}
	return nil
}

func (r *Repository) GetUserByEmail(email string) (*usermodel.User, error) {
	var u usermodel.User
	err := r.db.Where("email = ?", email).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrUserNotFound
		}
		return nil, internal.NewStorageError("failed to load user", err)
	}
	return &u, nil
}

func (r *Repository) GetUserByID(id string) (*usermodel.User, error) {
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

// ReplaceSessions implements the login supersession policy: prior sessions
// for the user go away in the same transaction that records the new one, so
// a failed insert leaves the old sessions intact.
func (r *Repository) ReplaceSessions(session *usermodel.Session) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", session.UserID).Delete(&usermodel.Session{}).Error; err != nil {
			return err
		}
		return tx.Create(session).Error
	})
	if err != nil {
		return storage.ClassifyWriteError(err, r.engine, "failed to record session")
	}
	return nil
}

func (r *Repository) GetSessionByToken(token string) (*usermodel.Session, error) {
	var session usermodel.Session
	err := r.db.Where("token = ?", token).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrInvalidToken
		}
		return nil, internal.NewStorageError("failed to load session", err)
	}
	return &session, nil
}

func (r *Repository) DeleteSessionByToken(token string) error {
	// deleting an absent token is a no-op, logout is idempotent
	if err := r.db.Where("token = ?", token).Delete(&usermodel.Session{}).Error; err != nil {
		return internal.NewStorageError("failed to delete session", err)
	}
	return nil
}
