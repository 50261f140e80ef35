package store

import (
	"errors"

	"gorm.io/gorm"

	"github.com/taskboard-app/taskboard/internal"
	projectmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/project"
	"github.com/taskboard-app/taskboard/internal/project"
	"github.com/taskboard-app/taskboard/internal/storage"
)

type Repository struct {
	db     *gorm.DB
	engine storage.Engine
}

func NewRepository(db *gorm.DB, engine storage.Engine) project.Repository {
	return &Repository{db: db, engine: engine}
}

// Create inserts the project row and the owner's membership row together, so
// a project can never exist without its owner listed among the members.
func (r *Repository) Create(p *projectmodel.Project) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		owner := &projectmodel.ProjectMember{
			ProjectID: p.ID,
			UserID:    p.OwnerID,
			Role:      projectmodel.MemberRoleOwner,
		}
		return tx.Create(owner).Error
	})
	if err != nil {
		return storage.ClassifyWriteError(err, r.engine, "failed to create project")
	}
	return nil
}

func (r *Repository) GetByID(id string) (*projectmodel.Project, error) {
	var p projectmodel.Project
	err := r.db.Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrProjectNotFound
		}
		return nil, internal.NewStorageError("failed to load project", err)
	}
	return &p, nil
}

func (r *Repository) ListForUser(userID string) ([]projectmodel.Project, error) {
	var projects []projectmodel.Project
	err := r.db.
		Distinct("projects.*").
		Joins("LEFT JOIN project_members ON project_members.project_id = projects.id").
		Where("projects.owner_id = ? OR project_members.user_id = ?", userID, userID).
		Order("projects.created_at ASC").
		Find(&projects).Error
	if err != nil {
		return nil, internal.NewStorageError("failed to list projects", err)
	}
	return projects, nil
}

func (r *Repository) Update(p *projectmodel.Project) error {
	if err := r.db.Save(p).Error; err != nil {
		return storage.ClassifyWriteError(err, r.engine, "failed to update project")
	}
	return nil
}

func (r *Repository) HasBoards(projectID string) (bool, error) {
	var count int64
	err := r.db.Table("boards").Where("project_id = ?", projectID).Count(&count).Error
	if err != nil {
		return false, internal.NewStorageError("failed to count boards", err)
	}
	return count > 0, nil
}

func (r *Repository) Delete(projectID string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", projectID).Delete(&projectmodel.ProjectMember{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", projectID).Delete(&projectmodel.Project{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return internal.ErrProjectNotFound
		}
		return nil
	})
	if err != nil {
		if appErr, ok := internal.IsAppError(err); ok {
			return appErr
		}
		return storage.ClassifyWriteError(err, r.engine, "failed to delete project")
	}
	return nil
}

func (r *Repository) ListMembers(projectID string) ([]projectmodel.ProjectMember, error) {
	var members []projectmodel.ProjectMember
	err := r.db.
		Preload("User").
		Where("project_id = ?", projectID).
		Order("joined_at ASC").
		Find(&members).Error
	if err != nil {
		return nil, internal.NewStorageError("failed to list members", err)
	}
	return members, nil
}

func (r *Repository) GetMember(projectID, userID string) (*projectmodel.ProjectMember, error) {
	var m projectmodel.ProjectMember
	err := r.db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrMemberNotFound
		}
		return nil, internal.NewStorageError("failed to load member", err)
	}
	return &m, nil
}

func (r *Repository) AddMember(m *projectmodel.ProjectMember) error {
	if err := r.db.Create(m).Error; err != nil {
		return storage.ClassifyWriteError(err, r.engine, "failed to add member")
	}
	return nil
}

func (r *Repository) UpdateMemberRole(projectID, userID, role string) error {
	result := r.db.Model(&projectmodel.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Update("role", role)
	if result.Error != nil {
		return storage.ClassifyWriteError(result.Error, r.engine, "failed to update member role")
	}
	if result.RowsAffected == 0 {
		return internal.ErrMemberNotFound
	}
	return nil
}

func (r *Repository) RemoveMember(projectID, userID string) error {
	result := r.db.
		Where("project_id = ? AND user_id = ?", projectID, userID).
		Delete(&projectmodel.ProjectMember{})
	if result.Error != nil {
		return storage.ClassifyWriteError(result.Error, r.engine, "failed to remove member")
	}
	if result.RowsAffected == 0 {
		return internal.ErrMemberNotFound
	}
	return nil
}
