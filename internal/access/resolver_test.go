package access

import (
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/taskboard-app/taskboard/internal"
	boardmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/board"
	projectmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/project"
)

func TestAccess(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Access Module Suite")
}

type childRef struct {
	boardID   string
	projectID string
}

type mockRepository struct {
	projects map[string]*ProjectFacts
	members  map[string]string // projectID|userID -> role
	boards   map[string]*BoardFacts
	columns  map[string]childRef
	tasks    map[string]childRef
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		projects: make(map[string]*ProjectFacts),
		members:  make(map[string]string),
		boards:   make(map[string]*BoardFacts),
		columns:  make(map[string]childRef),
		tasks:    make(map[string]childRef),
	}
}

func (m *mockRepository) ProjectFacts(projectID string) (*ProjectFacts, error) {
	if facts, exists := m.projects[projectID]; exists {
		return facts, nil
	}
	return nil, internal.ErrProjectNotFound
}

func (m *mockRepository) MemberRole(projectID, userID string) (string, error) {
	return m.members[projectID+"|"+userID], nil
}

func (m *mockRepository) BoardFacts(boardID string) (*BoardFacts, error) {
	if facts, exists := m.boards[boardID]; exists {
		return facts, nil
	}
	return nil, internal.ErrBoardNotFound
}

func (m *mockRepository) ColumnRefs(columnID string) (string, string, error) {
	if ref, exists := m.columns[columnID]; exists {
		return ref.boardID, ref.projectID, nil
	}
	return "", "", internal.ErrColumnNotFound
}

func (m *mockRepository) TaskRefs(taskID string) (string, string, error) {
	if ref, exists := m.tasks[taskID]; exists {
		return ref.boardID, ref.projectID, nil
	}
	return "", "", internal.ErrTaskNotFound
}

var _ = ginkgo.Describe("Resolver", func() {
	var (
		resolver *Resolver
		repo     *mockRepository
	)

	const (
		owner     = "user-owner"
		admin     = "user-admin"
		member    = "user-member"
		outsider  = "user-outsider"
		projectID = "project-1"
	)

	ginkgo.BeforeEach(func() {
		repo = newMockRepository()
		repo.projects[projectID] = &ProjectFacts{ID: projectID, OwnerID: owner, IsActive: true}
		repo.members[projectID+"|"+admin] = projectmodel.MemberRoleAdmin
		repo.members[projectID+"|"+member] = projectmodel.MemberRoleMember
		repo.boards["board-1"] = &BoardFacts{ProjectID: projectID, Visibility: boardmodel.VisibilityPrivate}
		repo.boards["board-pub"] = &BoardFacts{ProjectID: projectID, Visibility: boardmodel.VisibilityPublic}
		repo.columns["column-1"] = childRef{boardID: "board-1", projectID: projectID}
		repo.columns["column-pub"] = childRef{boardID: "board-pub", projectID: projectID}
		repo.tasks["task-1"] = childRef{boardID: "board-1", projectID: projectID}
		repo.tasks["task-pub"] = childRef{boardID: "board-pub", projectID: projectID}

		resolver = NewResolver(repo, slog.Default())
	})

	ginkgo.Describe("project access", func() {
		ginkgo.It("grants the owner every action without a membership row", func() {
			gomega.Expect(resolver.CheckProject(owner, projectID, ActionRead)).To(gomega.Succeed())
			gomega.Expect(resolver.CheckProject(owner, projectID, ActionWrite)).To(gomega.Succeed())
			gomega.Expect(resolver.CheckProject(owner, projectID, ActionManage)).To(gomega.Succeed())
		})

		ginkgo.It("grants admins manage and members read/write only", func() {
			gomega.Expect(resolver.CheckProject(admin, projectID, ActionManage)).To(gomega.Succeed())
			gomega.Expect(resolver.CheckProject(member, projectID, ActionWrite)).To(gomega.Succeed())
			gomega.Expect(resolver.CheckProject(member, projectID, ActionManage)).To(gomega.MatchError(internal.ErrAccessDenied))
		})

		ginkgo.It("forbids a non-member on an existing project", func() {
			err := resolver.CheckProject(outsider, projectID, ActionRead)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrAccessDenied))
		})

		ginkgo.It("reports not-found only when the project truly does not exist", func() {
			err := resolver.CheckProject(outsider, "project-missing", ActionRead)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrProjectNotFound))
		})
	})

	ginkgo.Describe("deactivated projects", func() {
		ginkgo.BeforeEach(func() {
			repo.projects[projectID].IsActive = false
		})

		ginkgo.It("keeps children read-only for the owner", func() {
			gomega.Expect(resolver.CheckTask(owner, "task-1", ActionRead)).To(gomega.Succeed())
			gomega.Expect(resolver.CheckTask(owner, "task-1", ActionWrite)).To(gomega.MatchError(internal.ErrProjectInactive))
		})

		ginkgo.It("forbids members entirely", func() {
			gomega.Expect(resolver.CheckTask(member, "task-1", ActionRead)).To(gomega.MatchError(internal.ErrProjectInactive))
			gomega.Expect(resolver.CheckProject(member, projectID, ActionRead)).To(gomega.MatchError(internal.ErrProjectInactive))
		})

		ginkgo.It("leaves the project row manageable by its owner for reactivation", func() {
			gomega.Expect(resolver.CheckProject(owner, projectID, ActionManage)).To(gomega.Succeed())
		})

		ginkgo.It("withdraws public board visibility", func() {
			err := resolver.CheckBoard(outsider, "board-pub", ActionRead)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrProjectInactive))
		})

		ginkgo.It("withdraws public reads on the board's children too", func() {
			err := resolver.CheckColumn(outsider, "column-pub", ActionRead)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrProjectInactive))
		})
	})

	ginkgo.Describe("board visibility", func() {
		ginkgo.It("lets any authenticated user read a public board", func() {
			gomega.Expect(resolver.CheckBoard(outsider, "board-pub", ActionRead)).To(gomega.Succeed())
		})

		ginkgo.It("never grants write through public visibility", func() {
			err := resolver.CheckBoard(outsider, "board-pub", ActionWrite)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrAccessDenied))
		})

		ginkgo.It("forbids non-members on private boards", func() {
			err := resolver.CheckBoard(outsider, "board-1", ActionRead)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrAccessDenied))
		})

		ginkgo.It("extends public reads to the board's columns and tasks", func() {
			gomega.Expect(resolver.CheckColumn(outsider, "column-pub", ActionRead)).To(gomega.Succeed())
			gomega.Expect(resolver.CheckTask(outsider, "task-pub", ActionRead)).To(gomega.Succeed())
		})

		ginkgo.It("never grants child writes through public visibility", func() {
			gomega.Expect(resolver.CheckColumn(outsider, "column-pub", ActionWrite)).To(gomega.MatchError(internal.ErrAccessDenied))
			gomega.Expect(resolver.CheckTask(outsider, "task-pub", ActionWrite)).To(gomega.MatchError(internal.ErrAccessDenied))
		})

		ginkgo.It("keeps private-board children closed to outsiders", func() {
			gomega.Expect(resolver.CheckColumn(outsider, "column-1", ActionRead)).To(gomega.MatchError(internal.ErrAccessDenied))
		})
	})

	ginkgo.Describe("hierarchy climb", func() {
		ginkgo.It("authorizes columns through their board's project", func() {
			gomega.Expect(resolver.CheckColumn(member, "column-1", ActionWrite)).To(gomega.Succeed())
			gomega.Expect(resolver.CheckColumn(outsider, "column-1", ActionRead)).To(gomega.MatchError(internal.ErrAccessDenied))
		})

		ginkgo.It("authorizes tasks through the denormalized project id", func() {
			gomega.Expect(resolver.CheckTask(admin, "task-1", ActionManage)).To(gomega.Succeed())
		})

		ginkgo.It("distinguishes a missing entity from a denied one", func() {
			gomega.Expect(resolver.CheckTask(member, "task-missing", ActionRead)).To(gomega.MatchError(internal.ErrTaskNotFound))
			gomega.Expect(resolver.CheckColumn(member, "column-missing", ActionRead)).To(gomega.MatchError(internal.ErrColumnNotFound))
			gomega.Expect(resolver.CheckBoard(member, "board-missing", ActionRead)).To(gomega.MatchError(internal.ErrBoardNotFound))
		})
	})
})
