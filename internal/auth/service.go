package auth

import (
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/taskboard-app/taskboard/internal"
	usermodel "github.com/taskboard-app/taskboard/internal/core/datamodel/user"
)

// Service owns all token issuance and validation. Nothing else in the
// process mints session tokens.
type Service struct {
	repo        Repository
	tokens      TokenGenerator
	logger      *slog.Logger
	sessionTTL  time.Duration
	bcryptCost  int
	autoApprove bool
	now         func() time.Time
}

func NewService(repo Repository, tokens TokenGenerator, cfg internal.SecurityConfig, logger *slog.Logger) *Service {
	return &Service{
		repo:        repo,
		tokens:      tokens,
		logger:      logger,
		sessionTTL:  cfg.SessionTTL(),
		bcryptCost:  cfg.HashCost(),
		autoApprove: cfg.AutoApprove,
		now:         time.Now,
	}
}

// Register creates a new user with a salted adaptive hash of the password.
// The plaintext never reaches storage.
func (s *Service) Register(dto RegisterDTO) (*usermodel.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		return nil, internal.NewStorageError("failed to hash password", err)
	}

	approval := usermodel.ApprovalPending
	if s.autoApprove {
		approval = usermodel.ApprovalApproved
	}

	u := &usermodel.User{
		Email:          dto.Email,
		Name:           dto.Name,
		PasswordHash:   hash,
		Role:           usermodel.RoleUser,
		ApprovalStatus: approval,
	}

	if err := s.repo.CreateUser(u); err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.Type == internal.ErrorTypeConflict {
			return nil, internal.ErrDuplicateEmail
		}
		s.logger.Error("failed to create user", "error", err, "email", dto.Email)
		return nil, err
	}

	s.logger.Info("user registered", "user_id", u.ID, "approval_status", approval)
	return u, nil
}

// Login verifies credentials and issues a fresh session. Prior sessions for
// the user are superseded in the same transaction that records the new one.
func (s *Service) Login(dto LoginDTO) (*LoginResult, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetUserByEmail(dto.Email)
	if err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, internal.ErrInvalidCredentials
	}

	if u.ApprovalStatus != usermodel.ApprovalApproved {
		return nil, internal.ErrUserNotApproved
	}

	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.sessionTTL)

	token, err := s.tokens.Generate(u, issuedAt, expiresAt)
	if err != nil {
		return nil, internal.NewStorageError("failed to issue session token", err)
	}

	session := &usermodel.Session{
		Token:     token,
		UserID:    u.ID,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}
	if err := s.repo.ReplaceSessions(session); err != nil {
		s.logger.Error("failed to record session", "error", err, "user_id", u.ID)
		return nil, err
	}

	s.logger.Info("user logged in", "user_id", u.ID, "expires_at", expiresAt)
	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      ToUserView(u),
	}, nil
}

// Resolve turns a bearer token into a caller identity. The session row is
// the source of truth for revocation, so the lookup is mandatory on every
// request; a well-formed token with no row fails.
func (s *Service) Resolve(token string) (*internal.Identity, error) {
	if token == "" {
		return nil, internal.ErrInvalidToken
	}

	if _, err := s.tokens.Parse(token); err != nil {
		if err == ErrTokenExpired {
			return nil, internal.ErrSessionExpired
		}
		return nil, internal.ErrInvalidToken
	}

	session, err := s.repo.GetSessionByToken(token)
	if err != nil {
		return nil, internal.ErrInvalidToken
	}
	if session.Expired(s.now()) {
		return nil, internal.ErrSessionExpired
	}

	u, err := s.repo.GetUserByID(session.UserID)
	if err != nil {
		return nil, internal.ErrInvalidToken
	}
	if u.ApprovalStatus != usermodel.ApprovalApproved {
		return nil, internal.ErrUserNotApproved
	}

	return &internal.Identity{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   u.Role,
	}, nil
}

// Logout deletes the session row. Deleting an unknown token is not an error.
func (s *Service) Logout(token string) error {
	if token == "" {
		return nil
	}
	return s.repo.DeleteSessionByToken(token)
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
