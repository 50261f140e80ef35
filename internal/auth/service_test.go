package auth

import (
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/taskboard-app/taskboard/internal"
	usermodel "github.com/taskboard-app/taskboard/internal/core/datamodel/user"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// mockRepository keeps users and sessions in maps and mimics the store's
// supersession behavior on ReplaceSessions.
type mockRepository struct {
	usersByEmail map[string]*usermodel.User
	usersByID    map[string]*usermodel.User
	sessions     map[string]*usermodel.Session // token -> session
	nextID       int
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		usersByEmail: make(map[string]*usermodel.User),
		usersByID:    make(map[string]*usermodel.User),
		sessions:     make(map[string]*usermodel.Session),
	}
}

func (m *mockRepository) CreateUser(u *usermodel.User) error {
	if _, exists := m.usersByEmail[u.Email]; exists {
		return internal.NewConflictError("duplicate value for a unique field", internal.ErrCodeDuplicateEntry)
	}
	m.nextID++
	u.ID = fmt.Sprintf("user-%d", m.nextID)
	m.usersByEmail[u.Email] = u
	m.usersByID[u.ID] = u
	return nil
}

func (m *mockRepository) GetUserByEmail(email string) (*usermodel.User, error) {
	if u, exists := m.usersByEmail[email]; exists {
		return u, nil
	}
	return nil, internal.ErrUserNotFound
}

func (m *mockRepository) GetUserByID(id string) (*usermodel.User, error) {
	if u, exists := m.usersByID[id]; exists {
		return u, nil
	}
	return nil, internal.ErrUserNotFound
}

func (m *mockRepository) ReplaceSessions(session *usermodel.Session) error {
	for token, existing := range m.sessions {
		if existing.UserID == session.UserID {
			delete(m.sessions, token)
		}
	}
	m.sessions[session.Token] = session
	return nil
}

func (m *mockRepository) GetSessionByToken(token string) (*usermodel.Session, error) {
	if s, exists := m.sessions[token]; exists {
		return s, nil
	}
	return nil, internal.ErrInvalidToken
}

func (m *mockRepository) DeleteSessionByToken(token string) error {
	delete(m.sessions, token)
	return nil
}

func (m *mockRepository) sessionCountFor(userID string) int {
	count := 0
	for _, s := range m.sessions {
		if s.UserID == userID {
			count++
		}
	}
	return count
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service *Service
		repo    *mockRepository
	)

	cfg := internal.SecurityConfig{
		SessionSecret:   "test-secret-key-0123456789abcdef",
		SessionDuration: time.Hour,
		BCryptCost:      4,
		AutoApprove:     true,
	}

	ginkgo.BeforeEach(func() {
		repo = newMockRepository()
		tokens := NewJWTTokenGenerator(cfg.SessionSecret)
		service = NewService(repo, tokens, cfg, slog.Default())
	})

	register := func(email string) *usermodel.User {
		u, err := service.Register(RegisterDTO{
			Email:    email,
			Password: "password123",
			Name:     "Test User",
		})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		return u
	}

	ginkgo.Describe("Register", func() {
		ginkgo.It("hashes the password and never stores the plaintext", func() {
			u := register("user@example.com")
			gomega.Expect(u.PasswordHash).ToNot(gomega.BeEmpty())
			gomega.Expect(u.PasswordHash).ToNot(gomega.ContainSubstring("password123"))
		})

		ginkgo.It("rejects a duplicate email with a conflict", func() {
			register("user@example.com")
			_, err := service.Register(RegisterDTO{
				Email:    "user@example.com",
				Password: "password123",
				Name:     "Someone Else",
			})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrDuplicateEmail))
		})

		ginkgo.It("rejects a short password", func() {
			_, err := service.Register(RegisterDTO{
				Email:    "user@example.com",
				Password: "short",
				Name:     "Test User",
			})
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeValidation))
		})

		ginkgo.It("marks users pending when auto-approve is off", func() {
			strictCfg := cfg
			strictCfg.AutoApprove = false
			strict := NewService(repo, NewJWTTokenGenerator(cfg.SessionSecret), strictCfg, slog.Default())

			u, err := strict.Register(RegisterDTO{
				Email:    "pending@example.com",
				Password: "password123",
				Name:     "Pending User",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(u.ApprovalStatus).To(gomega.Equal(usermodel.ApprovalPending))
		})
	})

	ginkgo.Describe("Login and Resolve", func() {
		ginkgo.It("issues a token that resolves to the same user", func() {
			u := register("user@example.com")

			result, err := service.Login(LoginDTO{Email: "user@example.com", Password: "password123"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(result.Token).ToNot(gomega.BeEmpty())

			identity, err := service.Resolve(result.Token)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(identity.UserID).To(gomega.Equal(u.ID))
			gomega.Expect(identity.Email).To(gomega.Equal("user@example.com"))
		})

		ginkgo.It("rejects a wrong password without revealing which field failed", func() {
			register("user@example.com")
			_, err := service.Login(LoginDTO{Email: "user@example.com", Password: "wrong-password"})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidCredentials))
		})

		ginkgo.It("rejects an unknown email with the same error as a wrong password", func() {
			_, err := service.Login(LoginDTO{Email: "nobody@example.com", Password: "password123"})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidCredentials))
		})

		ginkgo.It("refuses login for an unapproved user", func() {
			u := register("user@example.com")
			u.ApprovalStatus = usermodel.ApprovalPending

			_, err := service.Login(LoginDTO{Email: "user@example.com", Password: "password123"})
			gomega.Expect(err).To(gomega.MatchError(internal.ErrUserNotApproved))
		})

		ginkgo.It("supersedes prior sessions on a second login", func() {
			u := register("user@example.com")

			first, err := service.Login(LoginDTO{Email: "user@example.com", Password: "password123"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			// distinct issue time so the two tokens differ
			service.now = func() time.Time { return time.Now().Add(time.Second) }
			second, err := service.Login(LoginDTO{Email: "user@example.com", Password: "password123"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(repo.sessionCountFor(u.ID)).To(gomega.Equal(1))

			_, err = service.Resolve(first.Token)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidToken))

			_, err = service.Resolve(second.Token)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
		})

		ginkgo.It("fails resolution once the session row has expired", func() {
			register("user@example.com")
			result, err := service.Login(LoginDTO{Email: "user@example.com", Password: "password123"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			service.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

			_, err = service.Resolve(result.Token)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrSessionExpired))
		})

		ginkgo.It("rejects a garbage token", func() {
			_, err := service.Resolve("not-a-token")
			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidToken))
		})

		ginkgo.It("rejects a well-formed token with no session row", func() {
			register("user@example.com")
			result, err := service.Login(LoginDTO{Email: "user@example.com", Password: "password123"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(service.Logout(result.Token)).To(gomega.Succeed())

			_, err = service.Resolve(result.Token)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrInvalidToken))
		})

		ginkgo.It("refuses resolution for a user rejected after login", func() {
			u := register("user@example.com")
			result, err := service.Login(LoginDTO{Email: "user@example.com", Password: "password123"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			u.ApprovalStatus = usermodel.ApprovalRejected

			_, err = service.Resolve(result.Token)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrUserNotApproved))
		})
	})

	ginkgo.Describe("Logout", func() {
		ginkgo.It("is idempotent for unknown tokens", func() {
			gomega.Expect(service.Logout("never-issued")).To(gomega.Succeed())
			gomega.Expect(service.Logout("")).To(gomega.Succeed())
		})
	})
})
