package column

import (
	"log/slog"

	"github.com/taskboard-app/taskboard/internal"
	"github.com/taskboard-app/taskboard/internal/access"
	columnmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/column"
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

func (s *Service) Create(actor *internal.Identity, dto CreateColumnDTO) (*columnmodel.Column, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.resolver.CheckBoard(actor.UserID, dto.BoardID, access.ActionWrite); err != nil {
		return nil, err
	}

	c := &columnmodel.Column{
		Title:     dto.Title,
		BoardID:   dto.BoardID,
		Color:     dto.Color,
		Settings:  dto.Settings,
		CreatedBy: actor.UserID,
	}
	if err := s.repo.CreateAppend(c); err != nil {
		s.logger.Error("failed to create column", "error", err, "board_id", dto.BoardID)
		return nil, err
	}

	s.logger.Info("column created", "column_id", c.ID, "board_id", dto.BoardID, "position", c.Position)
	return c, nil
}

func (s *Service) Get(actor *internal.Identity, id string) (*columnmodel.Column, error) {
	if err := s.resolver.CheckColumn(actor.UserID, id, access.ActionRead); err != nil {
		return nil, err
	}
	return s.repo.GetByID(id)
}

func (s *Service) ListByBoard(actor *internal.Identity, boardID string) ([]columnmodel.Column, error) {
	if err := s.resolver.CheckBoard(actor.UserID, boardID, access.ActionRead); err != nil {
		return nil, err
	}
	return s.repo.ListByBoard(boardID)
}

func (s *Service) Update(actor *internal.Identity, id string, dto UpdateColumnDTO) (*columnmodel.Column, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.resolver.CheckColumn(actor.UserID, id, access.ActionWrite); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if dto.Title != nil {
		c.Title = *dto.Title
	}
	if dto.Color != nil {
		c.Color = *dto.Color
	}
	if dto.Settings != nil {
		c.Settings = *dto.Settings
	}

	if err := s.repo.Update(c); err != nil {
		s.logger.Error("failed to update column", "error", err, "column_id", id)
		return nil, err
	}
	return c, nil
}

func (s *Service) Reorder(actor *internal.Identity, id string, dto ReorderColumnDTO) (*columnmodel.Column, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.resolver.CheckColumn(actor.UserID, id, access.ActionWrite); err != nil {
		return nil, err
	}

	c, err := s.repo.Reorder(id, dto.Position)
	if err != nil {
		s.logger.Error("failed to reorder column", "error", err, "column_id", id)
		return nil, err
	}

	s.logger.Info("column reordered", "column_id", id, "position", c.Position)
	return c, nil
}

// Delete removes the column and, via cascade, its tasks.
func (s *Service) Delete(actor *internal.Identity, id string) error {
	if err := s.resolver.CheckColumn(actor.UserID, id, access.ActionWrite); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete column", "error", err, "column_id", id)
		return err
	}

	s.logger.Info("column deleted", "column_id", id, "deleted_by", actor.UserID)
	return nil
}
