package cmd

import (
	"context"
	"errors"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	boardmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/board"
	columnmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/column"
	projectmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/project"
	taskmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/task"
	usermodel "github.com/taskboard-app/taskboard/internal/core/datamodel/user"
	"github.com/taskboard-app/taskboard/internal/migrate"
	"github.com/taskboard-app/taskboard/internal/storage"
	"github.com/taskboard-app/taskboard/pkg/logger"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with demo data for development. Safe to run repeatedly.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		logger.Init(cfg.Logging.Format)
		lg := logger.LoggerWrapper()

		db, engine, err := storage.Open(cfg.Database, lg)
		if err != nil {
			log.Fatalf("failed to open database: %v", err)
		}

		migrator, err := migrate.New(db, engine, lg)
		if err != nil {
			log.Fatalf("failed to build migrator: %v", err)
		}
		if err := migrator.Run(context.Background()); err != nil {
			log.Fatalf("migration failed: %v", err)
		}

		if clearData {
			if err := clearSeedData(db); err != nil {
				log.Fatalf("failed to clear data: %v", err)
			}
			lg.Info("cleared existing data")
		}

		admin := seedUser(db, "admin@taskboard.local", "Admin", usermodel.RoleAdmin)
		demo := seedUser(db, "demo@taskboard.local", "Demo User", usermodel.RoleUser)

		project := seedProject(db, "Demo Project", admin.ID)
		seedMember(db, project.ID, demo.ID, projectmodel.MemberRoleMember)

		board := seedBoard(db, project, admin.ID)
		columns := seedColumns(db, board, admin.ID)
		seedTask(db, "Try out the board", columns[0], demo.ID, admin.ID)

		lg.Info("seed complete",
			"admin_email", admin.Email,
			"demo_email", demo.Email,
			"project_id", project.ID)
	},
}

const seedPassword = "taskboard-dev"

// clearSeedData wipes every row, child-first so foreign keys never dangle
// mid-wipe. Unscoped, because a soft-deleted row would keep holding unique
// indexes (the user email, the membership pair) and block the re-seed.
func clearSeedData(db *gorm.DB) error {
	for _, model := range []any{
		&taskmodel.Task{}, &columnmodel.Column{}, &boardmodel.Board{},
		&projectmodel.ProjectMember{}, &projectmodel.Project{},
		&usermodel.Session{}, &usermodel.User{},
	} {
		if err := db.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedUser(db *gorm.DB, email, name, role string) *usermodel.User {
	var existing usermodel.User
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return &existing
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("failed to look up user %s: %v", email, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash seed password: %v", err)
	}

	u := &usermodel.User{
		Email:          email,
		Name:           name,
		PasswordHash:   string(hash),
		Role:           role,
		ApprovalStatus: usermodel.ApprovalApproved,
	}
	if err := db.Create(u).Error; err != nil {
		log.Fatalf("failed to seed user %s: %v", email, err)
	}
	return u
}

func seedProject(db *gorm.DB, name, ownerID string) *projectmodel.Project {
	var existing projectmodel.Project
	err := db.Where("name = ? AND owner_id = ?", name, ownerID).First(&existing).Error
	if err == nil {
		return &existing
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("failed to look up project: %v", err)
	}

	p := &projectmodel.Project{
		Name:        name,
		Description: "Sample project created by the seeder",
		OwnerID:     ownerID,
		IsActive:    true,
	}
	if err := db.Create(p).Error; err != nil {
		log.Fatalf("failed to seed project: %v", err)
	}
	seedMember(db, p.ID, ownerID, projectmodel.MemberRoleOwner)
	return p
}

func seedMember(db *gorm.DB, projectID, userID, role string) {
	var existing projectmodel.ProjectMember
	err := db.Where("project_id = ? AND user_id = ?", projectID, userID).First(&existing).Error
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("failed to look up member: %v", err)
	}

	m := &projectmodel.ProjectMember{ProjectID: projectID, UserID: userID, Role: role}
	if err := db.Create(m).Error; err != nil {
		log.Fatalf("failed to seed member: %v", err)
	}
}

func seedBoard(db *gorm.DB, p *projectmodel.Project, createdBy string) *boardmodel.Board {
	var existing boardmodel.Board
	err := db.Where("project_id = ?", p.ID).First(&existing).Error
	if err == nil {
		return &existing
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Fatalf("failed to look up board: %v", err)
	}

	b := &boardmodel.Board{
		Name:       "Main Board",
		ProjectID:  p.ID,
		Visibility: boardmodel.VisibilityPrivate,
		CreatedBy:  createdBy,
	}
	if err := db.Create(b).Error; err != nil {
		log.Fatalf("failed to seed board: %v", err)
	}
	return b
}

func seedColumns(db *gorm.DB, b *boardmodel.Board, createdBy string) []columnmodel.Column {
	var existing []columnmodel.Column
	if err := db.Where("board_id = ?", b.ID).Order("position ASC").Find(&existing).Error; err != nil {
		log.Fatalf("failed to look up columns: %v", err)
	}
	if len(existing) > 0 {
		return existing
	}

	titles := []string{"To Do", "In Progress", "Done"}
	columns := make([]columnmodel.Column, 0, len(titles))
	for i, title := range titles {
		c := columnmodel.Column{
			Title:     title,
			BoardID:   b.ID,
			Position:  i + 1,
			CreatedBy: createdBy,
		}
		if err := db.Create(&c).Error; err != nil {
			log.Fatalf("failed to seed column %s: %v", title, err)
		}
		columns = append(columns, c)
	}
	return columns
}

func seedTask(db *gorm.DB, title string, c columnmodel.Column, assigneeID, createdBy string) {
	var count int64
	if err := db.Model(&taskmodel.Task{}).Where("column_id = ?", c.ID).Count(&count).Error; err != nil {
		log.Fatalf("failed to count tasks: %v", err)
	}
	if count > 0 {
		return
	}

	var b boardmodel.Board
	if err := db.Where("id = ?", c.BoardID).First(&b).Error; err != nil {
		log.Fatalf("failed to load board for task seed: %v", err)
	}

	t := &taskmodel.Task{
		Title:      title,
		ColumnID:   c.ID,
		BoardID:    c.BoardID,
		ProjectID:  b.ProjectID,
		Status:     taskmodel.StatusTodo,
		Priority:   taskmodel.PriorityMedium,
		AssigneeID: &assigneeID,
		CreatedBy:  createdBy,
	}
	if err := db.Create(t).Error; err != nil {
		log.Fatalf("failed to seed task: %v", err)
	}
}
