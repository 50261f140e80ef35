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
	columnmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/column"
	"github.com/taskboard-app/taskboard/internal/core/datamodel/jsonblob"
	projectmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/project"
	taskmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/task"
	usermodel "github.com/taskboard-app/taskboard/internal/core/datamodel/user"
	"github.com/taskboard-app/taskboard/internal/storage"
	"github.com/taskboard-app/taskboard/internal/task"
)

func TestTaskStore(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Task Store Suite")
}

var _ = ginkgo.Describe("Task repository", func() {
	var (
		db      *gorm.DB
		repo    task.Repository
		col     columnmodel.Column
		creator usermodel.User
	)

	ginkgo.BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			TranslateError: true,
			Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		err = db.AutoMigrate(
			&usermodel.User{}, &usermodel.Session{},
			&projectmodel.Project{}, &projectmodel.ProjectMember{},
			&boardmodel.Board{}, &columnmodel.Column{}, &taskmodel.Task{},
		)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		creator = usermodel.User{Email: "user@example.com", Name: "User", PasswordHash: "x"}
		gomega.Expect(db.Create(&creator).Error).To(gomega.Succeed())

		project := projectmodel.Project{Name: "P", OwnerID: creator.ID, IsActive: true}
		gomega.Expect(db.Create(&project).Error).To(gomega.Succeed())

		board := boardmodel.Board{Name: "B", ProjectID: project.ID, Visibility: boardmodel.VisibilityPrivate, CreatedBy: creator.ID}
		gomega.Expect(db.Create(&board).Error).To(gomega.Succeed())

		col = columnmodel.Column{Title: "To Do", BoardID: board.ID, Position: 1, CreatedBy: creator.ID}
		gomega.Expect(db.Create(&col).Error).To(gomega.Succeed())

		repo = NewRepository(db, &storage.SQLiteEngine{})
	})

	newTask := func(title string) *taskmodel.Task {
		var b boardmodel.Board
		gomega.Expect(db.Where("id = ?", col.BoardID).First(&b).Error).To(gomega.Succeed())
		return &taskmodel.Task{
			Title:     title,
			ColumnID:  col.ID,
			BoardID:   col.BoardID,
			ProjectID: b.ProjectID,
			Status:    taskmodel.StatusTodo,
			Priority:  taskmodel.PriorityMedium,
			CreatedBy: creator.ID,
		}
	}

	ginkgo.Describe("enum validation", func() {
		ginkgo.It("rejects an invalid status and writes no row", func() {
			t := newTask("bad status")
			t.Status = "doing"

			err := repo.Create(t)
			appErr, ok := internal.IsAppError(err)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeValidation))

			var count int64
			gomega.Expect(db.Model(&taskmodel.Task{}).Count(&count).Error).To(gomega.Succeed())
			gomega.Expect(count).To(gomega.BeZero())
		})

		ginkgo.It("rejects an invalid status on update and leaves the row intact", func() {
			t := newTask("valid")
			gomega.Expect(repo.Create(t)).To(gomega.Succeed())

			t.Status = "doing"
			err := repo.Update(t)
			gomega.Expect(err).To(gomega.HaveOccurred())

			stored, err := repo.GetByID(t.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(stored.Status).To(gomega.Equal(taskmodel.StatusTodo))
		})
	})

	ginkgo.Describe("JSON blob fields", func() {
		ginkgo.It("round-trips tags and settings", func() {
			t := newTask("tagged")
			t.Tags = jsonblob.Strings{"backend", "urgent"}
			t.Settings = jsonblob.Map{"pinned": true, "points": float64(5)}
			gomega.Expect(repo.Create(t)).To(gomega.Succeed())

			stored, err := repo.GetByID(t.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(stored.Tags).To(gomega.Equal(jsonblob.Strings{"backend", "urgent"}))
			gomega.Expect(stored.Settings).To(gomega.HaveKeyWithValue("pinned", true))
			gomega.Expect(stored.Settings).To(gomega.HaveKeyWithValue("points", float64(5)))
		})

		ginkgo.It("scans a malformed stored blob to the empty default", func() {
			t := newTask("corrupted")
			t.Tags = jsonblob.Strings{"keep"}
			gomega.Expect(repo.Create(t)).To(gomega.Succeed())

			err := db.Exec("UPDATE tasks SET tags = ?, settings = ? WHERE id = ?", "{not json", "also not json", t.ID).Error
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			stored, err := repo.GetByID(t.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(stored.Tags).To(gomega.BeEmpty())
			gomega.Expect(stored.Settings).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("listing", func() {
		ginkgo.It("filters by parent scope and refinements", func() {
			assignee := creator.ID

			first := newTask("first")
			first.AssigneeID = &assignee
			gomega.Expect(repo.Create(first)).To(gomega.Succeed())

			second := newTask("second")
			second.Status = taskmodel.StatusDone
			gomega.Expect(repo.Create(second)).To(gomega.Succeed())

			byColumn, err := repo.List(task.Filter{ColumnID: col.ID})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(byColumn).To(gomega.HaveLen(2))

			byAssignee, err := repo.List(task.Filter{ColumnID: col.ID, AssigneeID: assignee})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(byAssignee).To(gomega.HaveLen(1))
			gomega.Expect(byAssignee[0].Title).To(gomega.Equal("first"))

			done, err := repo.List(task.Filter{BoardID: col.BoardID, Status: taskmodel.StatusDone})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(done).To(gomega.HaveLen(1))
			gomega.Expect(done[0].Title).To(gomega.Equal("second"))
		})

		ginkgo.It("lists subtasks of a parent", func() {
			parent := newTask("parent")
			gomega.Expect(repo.Create(parent)).To(gomega.Succeed())

			child := newTask("child")
			child.ParentTaskID = &parent.ID
			gomega.Expect(repo.Create(child)).To(gomega.Succeed())

			subtasks, err := repo.ListSubtasks(parent.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(subtasks).To(gomega.HaveLen(1))
			gomega.Expect(subtasks[0].Title).To(gomega.Equal("child"))
		})
	})

	ginkgo.Describe("ColumnHome", func() {
		ginkgo.It("resolves a column to its board and project", func() {
			boardID, projectID, err := repo.ColumnHome(col.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(boardID).To(gomega.Equal(col.BoardID))
			gomega.Expect(projectID).ToNot(gomega.BeEmpty())
		})

		ginkgo.It("reports not-found for a missing column", func() {
			_, _, err := repo.ColumnHome("missing")
			gomega.Expect(err).To(gomega.MatchError(internal.ErrColumnNotFound))
		})
	})

	ginkgo.Describe("Delete", func() {
		ginkgo.It("reports not-found for an absent task", func() {
			gomega.Expect(repo.Delete("missing")).To(gomega.MatchError(internal.ErrTaskNotFound))
		})
	})
})
