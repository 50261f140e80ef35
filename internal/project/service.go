package project

import (
	"context"
	"log/slog"

	"github.com/taskboard-app/taskboard/internal"
	"github.com/taskboard-app/taskboard/internal/access"
	projectmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/project"
	"github.com/taskboard-app/taskboard/internal/core/events"
)

type Service struct {
	repo     Repository
	resolver *access.Resolver
	bus      events.Publisher
	logger   *slog.Logger
}

func NewService(repo Repository, resolver *access.Resolver, bus events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		bus:      bus,
		logger:   logger,
	}
}

func (s *Service) Create(actor *internal.Identity, dto CreateProjectDTO) (*projectmodel.Project, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	p := &projectmodel.Project{
		Name:        dto.Name,
		Description: dto.Description,
		Color:       dto.Color,
		OwnerID:     actor.UserID,
		IsActive:    true,
	}
	if err := s.repo.Create(p); err != nil {
		s.logger.Error("failed to create project", "error", err, "owner_id", actor.UserID)
		return nil, err
	}

	s.logger.Info("project created", "project_id", p.ID, "owner_id", actor.UserID)
	return p, nil
}

func (s *Service) Get(actor *internal.Identity, id string) (*projectmodel.Project, error) {
	if err := s.resolver.CheckProject(actor.UserID, id, access.ActionRead); err != nil {
		return nil, err
	}
	return s.repo.GetByID(id)
}

func (s *Service) List(actor *internal.Identity) ([]projectmodel.Project, error) {
	return s.repo.ListForUser(actor.UserID)
}

func (s *Service) Update(actor *internal.Identity, id string, dto UpdateProjectDTO) (*projectmodel.Project, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.resolver.CheckProject(actor.UserID, id, access.ActionManage); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		p.Name = *dto.Name
	}
	if dto.Description != nil {
		p.Description = *dto.Description
	}
	if dto.Color != nil {
		p.Color = *dto.Color
	}

	if err := s.repo.Update(p); err != nil {
		s.logger.Error("failed to update project", "error", err, "project_id", id)
		return nil, err
	}
	return p, nil
}

// SetActive toggles the activation flag. Only the owner may deactivate or
// reactivate, regardless of member roles.
func (s *Service) SetActive(actor *internal.Identity, id string, dto SetActiveDTO) (*projectmodel.Project, error) {
	p, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != actor.UserID {
		return nil, internal.ErrAccessDenied
	}

	p.IsActive = dto.IsActive
	if err := s.repo.Update(p); err != nil {
		s.logger.Error("failed to change project activation", "error", err, "project_id", id)
		return nil, err
	}

	s.logger.Info("project activation changed", "project_id", id, "is_active", dto.IsActive)
	return p, nil
}

// Delete removes a project outright when no boards reference it. With boards
// present it deactivates instead, so work history survives; the returned
// project is non-nil exactly in that case. Owner-only, like deactivation.
func (s *Service) Delete(actor *internal.Identity, id string) (*projectmodel.Project, error) {
	p, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != actor.UserID {
		return nil, internal.ErrAccessDenied
	}

	hasBoards, err := s.repo.HasBoards(id)
	if err != nil {
		return nil, err
	}
	if hasBoards {
		p.IsActive = false
		if err := s.repo.Update(p); err != nil {
			s.logger.Error("failed to deactivate project", "error", err, "project_id", id)
			return nil, err
		}
		s.logger.Info("project deactivated instead of deleted", "project_id", id)
		return p, nil
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete project", "error", err, "project_id", id)
		return nil, err
	}
	s.logger.Info("project deleted", "project_id", id, "deleted_by", actor.UserID)
	return nil, nil
}

func (s *Service) ListMembers(actor *internal.Identity, projectID string) ([]projectmodel.ProjectMember, error) {
	if err := s.resolver.CheckProject(actor.UserID, projectID, access.ActionRead); err != nil {
		return nil, err
	}
	return s.repo.ListMembers(projectID)
}

func (s *Service) AddMember(ctx context.Context, actor *internal.Identity, projectID string, dto AddMemberDTO) (*projectmodel.ProjectMember, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.resolver.CheckProject(actor.UserID, projectID, access.ActionManage); err != nil {
		return nil, err
	}

	m := &projectmodel.ProjectMember{
		ProjectID: projectID,
		UserID:    dto.UserID,
		Role:      dto.Role,
	}
	if err := s.repo.AddMember(m); err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.Type == internal.ErrorTypeConflict {
			return nil, internal.ErrDuplicateMember
		}
		s.logger.Error("failed to add member", "error", err, "project_id", projectID, "user_id", dto.UserID)
		return nil, err
	}

	s.bus.Publish(ctx, events.New(events.ProjectMemberAdded, actor.UserID, dto.UserID, map[string]any{
		"project_id": projectID,
		"member_id":  m.ID,
		"role":       dto.Role,
	}))

	s.logger.Info("member added", "project_id", projectID, "user_id", dto.UserID, "role", dto.Role)
	return m, nil
}

// ChangeMemberRole rewrites a membership row's role. The owner's row is
// immutable through this path.
func (s *Service) ChangeMemberRole(actor *internal.Identity, projectID, userID string, dto ChangeMemberRoleDTO) (*projectmodel.ProjectMember, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.resolver.CheckProject(actor.UserID, projectID, access.ActionManage); err != nil {
		return nil, err
	}

	p, err := s.repo.GetByID(projectID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID == userID {
		return nil, internal.NewConflictError("cannot change the owner's membership", internal.ErrCodeInvalidRole)
	}

	if _, err := s.repo.GetMember(projectID, userID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateMemberRole(projectID, userID, dto.Role); err != nil {
		s.logger.Error("failed to change member role", "error", err, "project_id", projectID, "user_id", userID)
		return nil, err
	}
	return s.repo.GetMember(projectID, userID)
}

// RemoveMember deletes a membership row. Managers may remove anyone except
// the owner; any member may remove themselves.
func (s *Service) RemoveMember(actor *internal.Identity, projectID, userID string) error {
	if actor.UserID != userID {
		if err := s.resolver.CheckProject(actor.UserID, projectID, access.ActionManage); err != nil {
			return err
		}
	}

	p, err := s.repo.GetByID(projectID)
	if err != nil {
		return err
	}
	if p.OwnerID == userID {
		return internal.NewConflictError("cannot remove the project owner", internal.ErrCodeInvalidRole)
	}

	if _, err := s.repo.GetMember(projectID, userID); err != nil {
		return err
	}
	if err := s.repo.RemoveMember(projectID, userID); err != nil {
		s.logger.Error("failed to remove member", "error", err, "project_id", projectID, "user_id", userID)
		return err
	}

	s.logger.Info("member removed", "project_id", projectID, "user_id", userID)
	return nil
}
