package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	sqlite3 "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3/database"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/taskboard-app/taskboard/internal"
)

// SQLiteEngine is the embedded-file realization. SQLite has no
// information_schema and no native enum support, so introspection goes
// through PRAGMA and sqlite_master, and enum enforcement is left entirely to
// the adapter-side validation.
type SQLiteEngine struct{}

func (e *SQLiteEngine) Name() string {
	return "sqlite"
}

func (e *SQLiteEngine) Dialector(source string) gorm.Dialector {
	// A plain :memory: DSN gives every pooled connection its own private
	// database, so goose's version ledger and the migration steps would land
	// in different databases. Shared cache keeps the pool on one database.
	if source == ":memory:" {
		source = "file::memory:?cache=shared"
	}
	// foreign key enforcement is off by default in sqlite
	if !strings.Contains(source, "_fk=") && !strings.Contains(source, "foreign_keys") {
		if strings.Contains(source, "?") {
			source += "&_fk=1"
		} else {
			source += "?_fk=1"
		}
	}
	return sqlite.Open(source)
}

func (e *SQLiteEngine) GooseDialect() database.Dialect {
	return database.DialectSQLite3
}

func (e *SQLiteEngine) SQLXDriver() string {
	return "sqlite3"
}

func (e *SQLiteEngine) TranslateError(err error) *internal.AppError {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return nil
	}
	switch sqliteErr.ExtendedCode {
	case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
		return internal.NewConflictError("duplicate value for a unique field", internal.ErrCodeDuplicateEntry).WithCause(err)
	case sqlite3.ErrConstraintForeignKey:
		return internal.NewReferenceError("referenced entity does not exist", internal.ErrCodeDanglingReference).WithCause(err)
	case sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull:
		return internal.NewValidationError("value rejected by a storage constraint", internal.ErrCodeValidationFailed).WithCause(err)
	}
	if sqliteErr.Code == sqlite3.ErrConstraint {
		return internal.NewConflictError("storage constraint violated", internal.ErrCodeDuplicateEntry).WithCause(err)
	}
	return nil
}

type sqliteColumn struct {
	CID       int     `db:"cid"`
	Name      string  `db:"name"`
	Type      string  `db:"type"`
	NotNull   int     `db:"notnull"`
	Default   *string `db:"dflt_value"`
	PrimaryKy int     `db:"pk"`
}

func (e *SQLiteEngine) columns(db *sqlx.DB, table string) ([]sqliteColumn, error) {
	// PRAGMA cannot take bind parameters; the table name is our own constant
	var cols []sqliteColumn
	if err := db.Select(&cols, fmt.Sprintf("PRAGMA table_info(%q)", table)); err != nil {
		return nil, err
	}
	return cols, nil
}

func (e *SQLiteEngine) HasColumn(db *sqlx.DB, table, column string) (bool, error) {
	cols, err := e.columns(db, table)
	if err != nil {
		return false, err
	}
	for _, col := range cols {
		if col.Name == column {
			return true, nil
		}
	}
	return false, nil
}

func (e *SQLiteEngine) ColumnType(db *sqlx.DB, table, column string) (string, error) {
	cols, err := e.columns(db, table)
	if err != nil {
		return "", err
	}
	for _, col := range cols {
		if col.Name == column {
			return strings.ToLower(col.Type), nil
		}
	}
	return "", fmt.Errorf("column %s.%s not found", table, column)
}

func (e *SQLiteEngine) HasConstraint(db *sqlx.DB, table, constraint string) (bool, error) {
	var ddl string
	query := `SELECT COALESCE(sql, '') FROM sqlite_master WHERE type = 'table' AND name = ?`
	if err := db.Get(&ddl, query, table); err != nil {
		return false, err
	}
	return strings.Contains(ddl, constraint), nil
}

func (e *SQLiteEngine) SupportsCheckConstraints() bool {
	// CHECK exists in sqlite, but constraints cannot be added to an existing
	// table without a rebuild, so the migrator treats it as unsupported.
	return false
}
