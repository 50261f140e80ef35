package user

import (
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskboard-app/taskboard/internal"
	usermodel "github.com/taskboard-app/taskboard/internal/core/datamodel/user"
)

type Service struct {
	repo       Repository
	logger     *slog.Logger
	bcryptCost int
}

func NewService(repo Repository, cfg internal.SecurityConfig, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		logger:     logger,
		bcryptCost: cfg.HashCost(),
	}
}

func (s *Service) GetProfile(userID string) (*usermodel.User, error) {
	return s.repo.GetByID(userID)
}

func (s *Service) UpdateProfile(userID string, dto UpdateProfileDTO) (*usermodel.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		u.Name = *dto.Name
	}
	if dto.AvatarURL != nil {
		u.AvatarURL = dto.AvatarURL
	}
	if dto.NotificationPrefs != nil {
		u.NotificationPrefs = *dto.NotificationPrefs
	}

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to update profile", "error", err, "user_id", userID)
		return nil, err
	}
	return u, nil
}

// ChangePassword re-verifies the current password before replacing the hash.
// A bearer token alone is not enough to rotate credentials.
func (s *Service) ChangePassword(userID string, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	u, err := s.repo.GetByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.CurrentPassword)); err != nil {
		return internal.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.NewPassword), s.bcryptCost)
	if err != nil {
		return internal.NewStorageError("failed to hash password", err)
	}
	u.PasswordHash = string(hash)

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to change password", "error", err, "user_id", userID)
		return err
	}

	s.logger.Info("password changed", "user_id", userID)
	return nil
}

func (s *Service) GetUser(id string) (*usermodel.User, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListUsers(actor *internal.Identity) ([]usermodel.User, error) {
	if actor.Role != usermodel.RoleAdmin {
		return nil, internal.ErrAccessDenied
	}
	return s.repo.List()
}

func (s *Service) ListPendingUsers(actor *internal.Identity) ([]usermodel.User, error) {
	if actor.Role != usermodel.RoleAdmin {
		return nil, internal.ErrAccessDenied
	}
	return s.repo.ListByApproval(usermodel.ApprovalPending)
}

// DecideApproval records the admin verdict. Re-deciding an already decided
// account is allowed; rejecting an approved user locks them out on the next
// session resolution.
func (s *Service) DecideApproval(actor *internal.Identity, userID string, dto ApprovalDecisionDTO) (*usermodel.User, error) {
	if actor.Role != usermodel.RoleAdmin {
		return nil, internal.ErrAccessDenied
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	u.ApprovalStatus = dto.Status
	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to record approval decision", "error", err, "user_id", userID)
		return nil, err
	}

	s.logger.Info("approval decision recorded",
		"user_id", userID, "status", dto.Status, "decided_by", actor.UserID)
	return u, nil
}
