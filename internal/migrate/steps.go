package migrate

import (
	"context"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"

	boardmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/board"
	columnmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/column"
	projectmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/project"
	taskmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/task"
	usermodel "github.com/taskboard-app/taskboard/internal/core/datamodel/user"
)

// migrations is the single ordered history. New steps append with the next
// version; existing steps are never edited once released.
func (m *Migrator) migrations() []*goose.Migration {
	return []*goose.Migration{
		m.step(1, "create base tables", m.createBaseTables),
		m.step(2, "add user profile columns", m.addUserProfileColumns),
		m.step(3, "add task hierarchy columns", m.addTaskHierarchyColumns),
		m.step(4, "add settings blobs", m.addSettingsBlobs),
		m.step(5, "unique project membership", m.addMemberUniqueIndex),
		m.step(6, "task status check constraint", m.addTaskStatusCheck),
		m.step(7, "repair sessions.user_id type", m.repairSessionUserIDType),
	}
}

// ordered parent-first so foreign key constraints resolve
func (m *Migrator) createBaseTables(ctx context.Context) error {
	models := []any{
		&usermodel.User{},
		&projectmodel.Project{},
		&projectmodel.ProjectMember{},
		&boardmodel.Board{},
		&columnmodel.Column{},
		&taskmodel.Task{},
		&usermodel.Session{},
	}
	migrator := m.db.WithContext(ctx).Migrator()
	for _, model := range models {
		if migrator.HasTable(model) {
			continue
		}
		if err := migrator.CreateTable(model); err != nil {
			return err
		}
	}
	return nil
}

func (m *Migrator) addUserProfileColumns(ctx context.Context) error {
	return m.addColumns(ctx, &usermodel.User{}, "users", map[string]string{
		"avatar_url":         "AvatarURL",
		"notification_prefs": "NotificationPrefs",
	})
}

func (m *Migrator) addTaskHierarchyColumns(ctx context.Context) error {
	return m.addColumns(ctx, &taskmodel.Task{}, "tasks", map[string]string{
		"parent_task_id": "ParentTaskID",
		"project_id":     "ProjectID",
	})
}

func (m *Migrator) addSettingsBlobs(ctx context.Context) error {
	if err := m.addColumns(ctx, &boardmodel.Board{}, "boards", map[string]string{"settings": "Settings"}); err != nil {
		return err
	}
	if err := m.addColumns(ctx, &columnmodel.Column{}, "columns", map[string]string{"settings": "Settings"}); err != nil {
		return err
	}
	return m.addColumns(ctx, &taskmodel.Task{}, "tasks", map[string]string{
		"settings": "Settings",
		"tags":     "Tags",
	})
}

func (m *Migrator) addMemberUniqueIndex(ctx context.Context) error {
	migrator := m.db.WithContext(ctx).Migrator()
	if migrator.HasIndex(&projectmodel.ProjectMember{}, "uk_project_user") {
		return nil
	}
	return migrator.CreateIndex(&projectmodel.ProjectMember{}, "uk_project_user")
}

// Installed only where ALTER TABLE ... ADD CONSTRAINT exists; the adapter
// validates the enumeration on every write for both engines regardless.
func (m *Migrator) addTaskStatusCheck(ctx context.Context) error {
	if !m.engine.SupportsCheckConstraints() {
		return nil
	}
	const constraint = "chk_tasks_status"
	exists, err := m.engine.HasConstraint(m.sqlxDB, "tasks", constraint)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	quoted := make([]string, 0, len(taskmodel.Statuses()))
	for _, s := range taskmodel.Statuses() {
		quoted = append(quoted, "'"+s+"'")
	}
	ddl := fmt.Sprintf(
		"ALTER TABLE tasks ADD CONSTRAINT %s CHECK (status IN (%s))",
		constraint, strings.Join(quoted, ", "),
	)
	return m.db.WithContext(ctx).Exec(ddl).Error
}

// repairSessionUserIDType rewrites a legacy integer user_id column to text.
// This is the documented destructive path: it drops and re-adds the column,
// so it requires the sessions table to be emptied first and fails loudly
// otherwise. Databases created by this history are never affected.
func (m *Migrator) repairSessionUserIDType(ctx context.Context) error {
	colType, err := m.engine.ColumnType(m.sqlxDB, "sessions", "user_id")
	if err != nil {
		return err
	}
	if !strings.Contains(strings.ToLower(colType), "int") {
		return nil
	}

	var count int64
	if err := m.db.WithContext(ctx).Table("sessions").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("sessions.user_id has a legacy integer type; rebuilding it drops the column, empty the sessions table first (%d rows present)", count)
	}

	migrator := m.db.WithContext(ctx).Migrator()
	if err := migrator.DropColumn(&usermodel.Session{}, "user_id"); err != nil {
		return err
	}
	return migrator.AddColumn(&usermodel.Session{}, "UserID")
}

func (m *Migrator) addColumns(ctx context.Context, model any, table string, columns map[string]string) error {
	migrator := m.db.WithContext(ctx).Migrator()
	for column, field := range columns {
		exists, err := m.engine.HasColumn(m.sqlxDB, table, column)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		if err := migrator.AddColumn(model, field); err != nil {
			return err
		}
	}
	return nil
}
