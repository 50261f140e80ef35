package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	projectmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/project"
	usermodel "github.com/taskboard-app/taskboard/internal/core/datamodel/user"
	"github.com/taskboard-app/taskboard/internal/migrate"
	"github.com/taskboard-app/taskboard/internal/storage"
)

func TestCmd(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Cmd Suite")
}

var _ = ginkgo.Describe("Seeder", func() {
	var (
		db    *gorm.DB
		memDB int
	)

	ginkgo.BeforeEach(func() {
		engine := &storage.SQLiteEngine{}

		memDB++
		dsn := fmt.Sprintf("file:seeder_spec_%d?mode=memory&cache=shared", memDB)

		var err error
		db, err = gorm.Open(engine.Dialector(dsn), &gorm.Config{
			TranslateError: true,
			Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		migrator, err := migrate.New(db, engine, slog.Default())
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(migrator.Run(context.Background())).To(gomega.Succeed())
	})

	ginkgo.It("returns the existing row instead of duplicating it", func() {
		first := seedUser(db, "admin@taskboard.local", "Admin", usermodel.RoleAdmin)
		second := seedUser(db, "admin@taskboard.local", "Admin", usermodel.RoleAdmin)
		gomega.Expect(second.ID).To(gomega.Equal(first.ID))
	})

	ginkgo.It("reseeds cleanly after a clear", func() {
		first := seedUser(db, "admin@taskboard.local", "Admin", usermodel.RoleAdmin)
		seedProject(db, "Demo Project", first.ID)

		gomega.Expect(clearSeedData(db)).To(gomega.Succeed())

		// the wipe must not leave soft-deleted ghosts holding unique indexes
		var ghosts int64
		gomega.Expect(db.Unscoped().Model(&usermodel.User{}).Count(&ghosts).Error).To(gomega.Succeed())
		gomega.Expect(ghosts).To(gomega.BeZero())
		gomega.Expect(db.Unscoped().Model(&projectmodel.ProjectMember{}).Count(&ghosts).Error).To(gomega.Succeed())
		gomega.Expect(ghosts).To(gomega.BeZero())

		again := seedUser(db, "admin@taskboard.local", "Admin", usermodel.RoleAdmin)
		gomega.Expect(again.ID).ToNot(gomega.Equal(first.ID))

		var users int64
		gomega.Expect(db.Model(&usermodel.User{}).Count(&users).Error).To(gomega.Succeed())
		gomega.Expect(users).To(gomega.BeEquivalentTo(1))
	})
})
