package store

import (
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/taskboard-app/taskboard/internal"
	"github.com/taskboard-app/taskboard/internal/board"
	boardmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/board"
	projectmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/project"
	usermodel "github.com/taskboard-app/taskboard/internal/core/datamodel/user"
	"github.com/taskboard-app/taskboard/internal/storage"
)

func TestBoardStore(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Board Store Suite")
}

var _ = ginkgo.Describe("Board repository", func() {
	var (
		db    *gorm.DB
		repo  board.Repository
		owner usermodel.User
		p     projectmodel.Project
	)

	ginkgo.BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			TranslateError: true,
			Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		err = db.AutoMigrate(
			&usermodel.User{}, &projectmodel.Project{}, &projectmodel.ProjectMember{},
			&boardmodel.Board{},
		)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		owner = usermodel.User{Email: "owner@example.com", Name: "Owner", PasswordHash: "x"}
		gomega.Expect(db.Create(&owner).Error).To(gomega.Succeed())

		p = projectmodel.Project{Name: "P", OwnerID: owner.ID, IsActive: true}
		gomega.Expect(db.Create(&p).Error).To(gomega.Succeed())

		repo = NewRepository(db, &storage.SQLiteEngine{})
	})

	create := func(name, visibility string) *boardmodel.Board {
		b := &boardmodel.Board{Name: name, ProjectID: p.ID, Visibility: visibility, CreatedBy: owner.ID}
		gomega.Expect(repo.Create(b)).To(gomega.Succeed())
		return b
	}

	ginkgo.Describe("listing", func() {
		ginkgo.It("returns every board of the project", func() {
			create("internal", boardmodel.VisibilityPrivate)
			create("roadmap", boardmodel.VisibilityPublic)

			boards, err := repo.ListByProject(p.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(boards).To(gomega.HaveLen(2))
		})

		ginkgo.It("restricts the public listing to public boards", func() {
			create("internal", boardmodel.VisibilityPrivate)
			create("roadmap", boardmodel.VisibilityPublic)

			boards, err := repo.ListPublicByProject(p.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(boards).To(gomega.HaveLen(1))
			gomega.Expect(boards[0].Name).To(gomega.Equal("roadmap"))
		})
	})

	ginkgo.Describe("Delete", func() {
		ginkgo.It("removes an existing board", func() {
			b := create("scratch", boardmodel.VisibilityPrivate)
			gomega.Expect(repo.Delete(b.ID)).To(gomega.Succeed())

			_, err := repo.GetByID(b.ID)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrBoardNotFound))
		})

		ginkgo.It("reports not-found for an absent board", func() {
			gomega.Expect(repo.Delete("missing")).To(gomega.MatchError(internal.ErrBoardNotFound))
		})
	})
})
