package task

import (
	"context"
	"log/slog"

	"github.com/taskboard-app/taskboard/internal"
	"github.com/taskboard-app/taskboard/internal/access"
	taskmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/task"
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

// Create places a task in a column. The denormalized board and project ids
// are derived from the column here, never accepted from the caller.
func (s *Service) Create(ctx context.Context, actor *internal.Identity, dto CreateTaskDTO) (*taskmodel.Task, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.resolver.CheckColumn(actor.UserID, dto.ColumnID, access.ActionWrite); err != nil {
		return nil, err
	}

	boardID, projectID, err := s.repo.ColumnHome(dto.ColumnID)
	if err != nil {
		return nil, err
	}

	if dto.ParentTaskID != nil {
		parent, err := s.repo.GetByID(*dto.ParentTaskID)
		if err != nil {
			return nil, err
		}
		if parent.BoardID != boardID {
			return nil, internal.NewValidationError("parent task must be on the same board", internal.ErrCodeValidationFailed)
		}
		if parent.ParentTaskID != nil {
			return nil, internal.NewValidationError("subtasks cannot be nested", internal.ErrCodeValidationFailed)
		}
	}

	status := dto.Status
	if status == "" {
		status = taskmodel.StatusTodo
	}
	priority := dto.Priority
	if priority == "" {
		priority = taskmodel.PriorityMedium
	}

	reporter := actor.UserID
	t := &taskmodel.Task{
		Title:          dto.Title,
		Description:    dto.Description,
		ColumnID:       dto.ColumnID,
		BoardID:        boardID,
		ProjectID:      projectID,
		Status:         status,
		Priority:       priority,
		AssigneeID:     dto.AssigneeID,
		ReporterID:     &reporter,
		ParentTaskID:   dto.ParentTaskID,
		DueDate:        dto.DueDate,
		EstimatedHours: dto.EstimatedHours,
		Tags:           dto.Tags,
		Settings:       dto.Settings,
		CreatedBy:      actor.UserID,
	}
	if err := s.repo.Create(t); err != nil {
		s.logger.Error("failed to create task", "error", err, "column_id", dto.ColumnID)
		return nil, err
	}

	recipient := ""
	if t.AssigneeID != nil {
		recipient = *t.AssigneeID
	}
	s.bus.Publish(ctx, events.New(events.TaskCreated, actor.UserID, recipient, map[string]any{
		"task_id":    t.ID,
		"project_id": t.ProjectID,
		"board_id":   t.BoardID,
		"title":      t.Title,
	}))

	s.logger.Info("task created", "task_id", t.ID, "column_id", t.ColumnID, "status", t.Status)
	return t, nil
}

func (s *Service) Get(actor *internal.Identity, id string) (*taskmodel.Task, error) {
	if err := s.resolver.CheckTask(actor.UserID, id, access.ActionRead); err != nil {
		return nil, err
	}
	return s.repo.GetByID(id)
}

// List requires exactly one parent scope and authorizes against it before
// touching task rows.
func (s *Service) List(actor *internal.Identity, f Filter) ([]taskmodel.Task, error) {
	if f.Status != "" && !taskmodel.ValidStatus(f.Status) {
		return nil, internal.NewValidationError("status must be one of todo, in_progress, done, archived", internal.ErrCodeInvalidStatus)
	}

	var err error
	switch {
	case f.ColumnID != "":
		err = s.resolver.CheckColumn(actor.UserID, f.ColumnID, access.ActionRead)
	case f.BoardID != "":
		err = s.resolver.CheckBoard(actor.UserID, f.BoardID, access.ActionRead)
	case f.ProjectID != "":
		err = s.resolver.CheckProject(actor.UserID, f.ProjectID, access.ActionRead)
	default:
		return nil, internal.NewValidationError("one of column_id, board_id, or project_id is required", internal.ErrCodeValidationFailed)
	}
	if err != nil {
		return nil, err
	}

	return s.repo.List(f)
}

func (s *Service) ListSubtasks(actor *internal.Identity, parentID string) ([]taskmodel.Task, error) {
	if err := s.resolver.CheckTask(actor.UserID, parentID, access.ActionRead); err != nil {
		return nil, err
	}
	return s.repo.ListSubtasks(parentID)
}

func (s *Service) Update(ctx context.Context, actor *internal.Identity, id string, dto UpdateTaskDTO) (*taskmodel.Task, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.resolver.CheckTask(actor.UserID, id, access.ActionWrite); err != nil {
		return nil, err
	}

	t, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	previousStatus := t.Status

	if dto.Title != nil {
		t.Title = *dto.Title
	}
	if dto.Description != nil {
		t.Description = *dto.Description
	}
	if dto.Status != nil {
		t.Status = *dto.Status
	}
	if dto.Priority != nil {
		t.Priority = *dto.Priority
	}
	if dto.AssigneeID != nil {
		t.AssigneeID = dto.AssigneeID
	}
	if dto.DueDate != nil {
		t.DueDate = dto.DueDate
	}
	if dto.EstimatedHours != nil {
		t.EstimatedHours = dto.EstimatedHours
	}
	if dto.ActualHours != nil {
		t.ActualHours = dto.ActualHours
	}
	if dto.Tags != nil {
		t.Tags = *dto.Tags
	}
	if dto.Settings != nil {
		t.Settings = *dto.Settings
	}

	if err := s.repo.Update(t); err != nil {
		s.logger.Error("failed to update task", "error", err, "task_id", id)
		return nil, err
	}

	if t.Status != previousStatus {
		recipient := ""
		if t.AssigneeID != nil {
			recipient = *t.AssigneeID
		}
		s.bus.Publish(ctx, events.New(events.TaskStatusChanged, actor.UserID, recipient, map[string]any{
			"task_id":         t.ID,
			"project_id":      t.ProjectID,
			"previous_status": previousStatus,
			"status":          t.Status,
		}))
	}

	return t, nil
}

// Move relocates the task under a new column and refreshes the denormalized
// board id. The target must belong to the same project.
func (s *Service) Move(actor *internal.Identity, id string, dto MoveTaskDTO) (*taskmodel.Task, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.resolver.CheckTask(actor.UserID, id, access.ActionWrite); err != nil {
		return nil, err
	}
	if err := s.resolver.CheckColumn(actor.UserID, dto.ColumnID, access.ActionWrite); err != nil {
		return nil, err
	}

	t, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	boardID, projectID, err := s.repo.ColumnHome(dto.ColumnID)
	if err != nil {
		return nil, err
	}
	if projectID != t.ProjectID {
		return nil, internal.NewValidationError("cannot move a task to another project", internal.ErrCodeValidationFailed)
	}

	t.ColumnID = dto.ColumnID
	t.BoardID = boardID
	if err := s.repo.Update(t); err != nil {
		s.logger.Error("failed to move task", "error", err, "task_id", id)
		return nil, err
	}

	s.logger.Info("task moved", "task_id", id, "column_id", dto.ColumnID)
	return t, nil
}

func (s *Service) Delete(actor *internal.Identity, id string) error {
	if err := s.resolver.CheckTask(actor.UserID, id, access.ActionWrite); err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete task", "error", err, "task_id", id)
		return err
	}

	s.logger.Info("task deleted", "task_id", id, "deleted_by", actor.UserID)
	return nil
}
