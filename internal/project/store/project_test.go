package store

import (
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/taskboard-app/taskboard/internal"
	boardmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/board"
	projectmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/project"
	usermodel "github.com/taskboard-app/taskboard/internal/core/datamodel/user"
	"github.com/taskboard-app/taskboard/internal/project"
	"github.com/taskboard-app/taskboard/internal/storage"
)

func TestProjectStore(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Project Store Suite")
}

var _ = ginkgo.Describe("Project repository", func() {
	var (
		db    *gorm.DB
		repo  project.Repository
		owner usermodel.User
		other usermodel.User
	)

	ginkgo.BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			TranslateError: true,
			Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		err = db.AutoMigrate(&usermodel.User{}, &projectmodel.Project{}, &projectmodel.ProjectMember{}, &boardmodel.Board{})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		owner = usermodel.User{Email: "owner@example.com", Name: "Owner", PasswordHash: "x"}
		gomega.Expect(db.Create(&owner).Error).To(gomega.Succeed())
		other = usermodel.User{Email: "other@example.com", Name: "Other", PasswordHash: "x"}
		gomega.Expect(db.Create(&other).Error).To(gomega.Succeed())

		repo = NewRepository(db, &storage.SQLiteEngine{})
	})

	ginkgo.Describe("Create", func() {
		ginkgo.It("inserts the owner membership row with the project", func() {
			p := &projectmodel.Project{Name: "P", OwnerID: owner.ID, IsActive: true}
			gomega.Expect(repo.Create(p)).To(gomega.Succeed())

			m, err := repo.GetMember(p.ID, owner.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(m.Role).To(gomega.Equal(projectmodel.MemberRoleOwner))
		})
	})

	ginkgo.Describe("ListForUser", func() {
		ginkgo.It("returns owned and joined projects without duplicates", func() {
			owned := &projectmodel.Project{Name: "Owned", OwnerID: owner.ID, IsActive: true}
			gomega.Expect(repo.Create(owned)).To(gomega.Succeed())

			joined := &projectmodel.Project{Name: "Joined", OwnerID: other.ID, IsActive: true}
			gomega.Expect(repo.Create(joined)).To(gomega.Succeed())
			gomega.Expect(repo.AddMember(&projectmodel.ProjectMember{
				ProjectID: joined.ID,
				UserID:    owner.ID,
				Role:      projectmodel.MemberRoleMember,
			})).To(gomega.Succeed())

			projects, err := repo.ListForUser(owner.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(projects).To(gomega.HaveLen(2))
		})

		ginkgo.It("omits projects the user has no relation to", func() {
			foreign := &projectmodel.Project{Name: "Foreign", OwnerID: other.ID, IsActive: true}
			gomega.Expect(repo.Create(foreign)).To(gomega.Succeed())

			projects, err := repo.ListForUser(owner.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(projects).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("Delete", func() {
		var p *projectmodel.Project

		ginkgo.BeforeEach(func() {
			p = &projectmodel.Project{Name: "P", OwnerID: owner.ID, IsActive: true}
			gomega.Expect(repo.Create(p)).To(gomega.Succeed())
		})

		ginkgo.It("reports whether boards still reference the project", func() {
			has, err := repo.HasBoards(p.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(has).To(gomega.BeFalse())

			b := boardmodel.Board{Name: "B", ProjectID: p.ID, Visibility: boardmodel.VisibilityPrivate, CreatedBy: owner.ID}
			gomega.Expect(db.Create(&b).Error).To(gomega.Succeed())

			has, err = repo.HasBoards(p.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(has).To(gomega.BeTrue())
		})

		ginkgo.It("removes the project and its membership rows together", func() {
			gomega.Expect(repo.AddMember(&projectmodel.ProjectMember{
				ProjectID: p.ID, UserID: other.ID, Role: projectmodel.MemberRoleMember,
			})).To(gomega.Succeed())

			gomega.Expect(repo.Delete(p.ID)).To(gomega.Succeed())

			_, err := repo.GetByID(p.ID)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrProjectNotFound))

			var members int64
			gomega.Expect(db.Model(&projectmodel.ProjectMember{}).Where("project_id = ?", p.ID).Count(&members).Error).To(gomega.Succeed())
			gomega.Expect(members).To(gomega.BeZero())
		})

		ginkgo.It("reports not-found for an absent project", func() {
			gomega.Expect(repo.Delete("missing")).To(gomega.MatchError(internal.ErrProjectNotFound))
		})
	})

	ginkgo.Describe("membership", func() {
		var p *projectmodel.Project

		ginkgo.BeforeEach(func() {
			p = &projectmodel.Project{Name: "P", OwnerID: owner.ID, IsActive: true}
			gomega.Expect(repo.Create(p)).To(gomega.Succeed())
		})

		ginkgo.It("rejects a duplicate membership with a conflict", func() {
			m := &projectmodel.ProjectMember{ProjectID: p.ID, UserID: other.ID, Role: projectmodel.MemberRoleMember}
			gomega.Expect(repo.AddMember(m)).To(gomega.Succeed())

			dup := &projectmodel.ProjectMember{ProjectID: p.ID, UserID: other.ID, Role: projectmodel.MemberRoleAdmin}
			err := repo.AddMember(dup)
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeConflict))
		})

		ginkgo.It("updates a member's role in place", func() {
			gomega.Expect(repo.AddMember(&projectmodel.ProjectMember{
				ProjectID: p.ID, UserID: other.ID, Role: projectmodel.MemberRoleMember,
			})).To(gomega.Succeed())

			gomega.Expect(repo.UpdateMemberRole(p.ID, other.ID, projectmodel.MemberRoleAdmin)).To(gomega.Succeed())

			m, err := repo.GetMember(p.ID, other.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(m.Role).To(gomega.Equal(projectmodel.MemberRoleAdmin))
		})

		ginkgo.It("reports not-found when removing an absent membership", func() {
			gomega.Expect(repo.RemoveMember(p.ID, other.ID)).To(gomega.MatchError(internal.ErrMemberNotFound))
		})

		ginkgo.It("removes an existing membership", func() {
			gomega.Expect(repo.AddMember(&projectmodel.ProjectMember{
				ProjectID: p.ID, UserID: other.ID, Role: projectmodel.MemberRoleMember,
			})).To(gomega.Succeed())

			gomega.Expect(repo.RemoveMember(p.ID, other.ID)).To(gomega.Succeed())

			_, err := repo.GetMember(p.ID, other.ID)
			gomega.Expect(err).To(gomega.MatchError(internal.ErrMemberNotFound))
		})
	})
})
