package board

import (
	"errors"
	"log/slog"

	"github.com/taskboard-app/taskboard/internal"
	"github.com/taskboard-app/taskboard/internal/access"
	boardmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/board"
)

type Service struct {
	repo     Repository
	resolver *access.Resolver
	logger   *slog.Logger
}

func NewService(repo Repository, resolver *access.Resolver, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		resolver: resolver,
		logger:   logger,
	}
}

func (s *Service) Create(actor *internal.Identity, dto CreateBoardDTO) (*boardmodel.Board, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.resolver.CheckProject(actor.UserID, dto.ProjectID, access.ActionWrite); err != nil {
		return nil, err
	}

	visibility := dto.Visibility
	if visibility == "" {
		visibility = boardmodel.VisibilityPrivate
	}

	b := &boardmodel.Board{
		Name:        dto.Name,
		Description: dto.Description,
		ProjectID:   dto.ProjectID,
		Visibility:  visibility,
		Color:       dto.Color,
		Settings:    dto.Settings,
		CreatedBy:   actor.UserID,
	}
	if err := s.repo.Create(b); err != nil {
		s.logger.Error("failed to create board", "error", err, "project_id", dto.ProjectID)
		return nil, err
	}

	s.logger.Info("board created", "board_id", b.ID, "project_id", dto.ProjectID)
	return b, nil
}

func (s *Service) Get(actor *internal.Identity, id string) (*boardmodel.Board, error) {
	if err := s.resolver.CheckBoard(actor.UserID, id, access.ActionRead); err != nil {
		return nil, err
	}
	return s.repo.GetByID(id)
}

// ListByProject degrades for non-members: instead of a flat denial they see
// the project's public boards, matching what Get would let them open. With
// nothing public the denial stands, so outsiders cannot probe project ids.
func (s *Service) ListByProject(actor *internal.Identity, projectID string) ([]boardmodel.Board, error) {
	err := s.resolver.CheckProject(actor.UserID, projectID, access.ActionRead)
	if err == nil {
		return s.repo.ListByProject(projectID)
	}

	// only a plain membership denial degrades; an inactive-project denial
	// propagates, since deactivation withdraws public visibility
	if errors.Is(err, internal.ErrAccessDenied) {
		public, listErr := s.repo.ListPublicByProject(projectID)
		if listErr != nil {
			return nil, listErr
		}
		if len(public) == 0 {
			return nil, err
		}
		return public, nil
	}
	return nil, err
}

func (s *Service) Update(actor *internal.Identity, id string, dto UpdateBoardDTO) (*boardmodel.Board, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.resolver.CheckBoard(actor.UserID, id, access.ActionWrite); err != nil {
		return nil, err
	}

	b, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		b.Name = *dto.Name
	}
	if dto.Description != nil {
		b.Description = *dto.Description
	}
	if dto.Visibility != nil {
		b.Visibility = *dto.Visibility
	}
	if dto.Color != nil {
		b.Color = *dto.Color
	}
	if dto.Settings != nil {
		b.Settings = *dto.Settings
	}

	if err := s.repo.Update(b); err != nil {
		s.logger.Error("failed to update board", "error", err, "board_id", id)
		return nil, err
	}
	return b, nil
}

// Delete removes the board and, via foreign key cascade, its columns and
// tasks. Destructive, so it needs Manage on the project.
func (s *Service) Delete(actor *internal.Identity, id string) error {
	if err := s.resolver.CheckBoard(actor.UserID, id, access.ActionManage); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete board", "error", err, "board_id", id)
		return err
	}

	s.logger.Info("board deleted", "board_id", id, "deleted_by", actor.UserID)
	return nil
}
