package board

import (
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/taskboard-app/taskboard/internal"
	"github.com/taskboard-app/taskboard/internal/access"
	boardmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/board"
)

func TestBoard(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Board Module Suite")
}

type mockRepository struct {
	boards map[string]*boardmodel.Board
	nextID int
}

func newMockRepository() *mockRepository {
	return &mockRepository{boards: make(map[string]*boardmodel.Board)}
}

func (m *mockRepository) Create(b *boardmodel.Board) error {
	m.nextID++
	b.ID = "board-" + string(rune('0'+m.nextID))
	m.boards[b.ID] = b
	return nil
}

func (m *mockRepository) GetByID(id string) (*boardmodel.Board, error) {
	if b, exists := m.boards[id]; exists {
		return b, nil
	}
	return nil, internal.ErrBoardNotFound
}

func (m *mockRepository) ListByProject(projectID string) ([]boardmodel.Board, error) {
	var out []boardmodel.Board
	for _, b := range m.boards {
		if b.ProjectID == projectID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *mockRepository) ListPublicByProject(projectID string) ([]boardmodel.Board, error) {
	var out []boardmodel.Board
	for _, b := range m.boards {
		if b.ProjectID == projectID && b.Visibility == boardmodel.VisibilityPublic {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *mockRepository) Update(b *boardmodel.Board) error {
	m.boards[b.ID] = b
	return nil
}

func (m *mockRepository) Delete(id string) error {
	if _, exists := m.boards[id]; !exists {
		return internal.ErrBoardNotFound
	}
	delete(m.boards, id)
	return nil
}

// accessProbe describes one project owned by "user-owner" with no other
// members, so any other caller is an outsider.
type accessProbe struct {
	repo     *mockRepository
	isActive bool
}

func (a *accessProbe) ProjectFacts(projectID string) (*access.ProjectFacts, error) {
	if projectID != "project-1" {
		return nil, internal.ErrProjectNotFound
	}
	return &access.ProjectFacts{ID: projectID, OwnerID: "user-owner", IsActive: a.isActive}, nil
}

func (a *accessProbe) MemberRole(projectID, userID string) (string, error) {
	return "", nil
}

func (a *accessProbe) BoardFacts(boardID string) (*access.BoardFacts, error) {
	b, err := a.repo.GetByID(boardID)
	if err != nil {
		return nil, err
	}
	return &access.BoardFacts{ProjectID: b.ProjectID, Visibility: b.Visibility}, nil
}

func (a *accessProbe) ColumnRefs(string) (string, string, error) {
	return "", "", internal.ErrColumnNotFound
}

func (a *accessProbe) TaskRefs(string) (string, string, error) {
	return "", "", internal.ErrTaskNotFound
}

var _ = ginkgo.Describe("BoardService listing", func() {
	var (
		service  *Service
		repo     *mockRepository
		probe    *accessProbe
		owner    *internal.Identity
		outsider *internal.Identity
	)

	ginkgo.BeforeEach(func() {
		repo = newMockRepository()
		probe = &accessProbe{repo: repo, isActive: true}
		resolver := access.NewResolver(probe, slog.Default())
		service = NewService(repo, resolver, slog.Default())

		owner = &internal.Identity{UserID: "user-owner", Email: "owner@example.com"}
		outsider = &internal.Identity{UserID: "user-outsider", Email: "outsider@example.com"}
	})

	createBoard := func(name, visibility string) {
		b := &boardmodel.Board{Name: name, ProjectID: "project-1", Visibility: visibility, CreatedBy: owner.UserID}
		gomega.Expect(repo.Create(b)).To(gomega.Succeed())
	}

	ginkgo.It("shows members every board", func() {
		createBoard("internal", boardmodel.VisibilityPrivate)
		createBoard("roadmap", boardmodel.VisibilityPublic)

		boards, err := service.ListByProject(owner, "project-1")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(boards).To(gomega.HaveLen(2))
	})

	ginkgo.It("shows outsiders only the public boards", func() {
		createBoard("internal", boardmodel.VisibilityPrivate)
		createBoard("roadmap", boardmodel.VisibilityPublic)

		boards, err := service.ListByProject(outsider, "project-1")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(boards).To(gomega.HaveLen(1))
		gomega.Expect(boards[0].Name).To(gomega.Equal("roadmap"))
	})

	ginkgo.It("denies outsiders when nothing is public", func() {
		createBoard("internal", boardmodel.VisibilityPrivate)

		_, err := service.ListByProject(outsider, "project-1")
		gomega.Expect(err).To(gomega.MatchError(internal.ErrAccessDenied))
	})

	ginkgo.It("withdraws public visibility from a deactivated project", func() {
		createBoard("roadmap", boardmodel.VisibilityPublic)
		probe.isActive = false

		_, err := service.ListByProject(outsider, "project-1")
		gomega.Expect(err).To(gomega.MatchError(internal.ErrProjectInactive))
	})

	ginkgo.It("reports not-found for a missing project", func() {
		_, err := service.ListByProject(outsider, "missing")
		gomega.Expect(err).To(gomega.MatchError(internal.ErrProjectNotFound))
	})
})
