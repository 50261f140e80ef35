package storage

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3/database"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/taskboard-app/taskboard/internal"
)

// PostgresEngine is the client/server realization. Identifier columns are
// TEXT like everywhere else; the engine contributes DSN handling, SQLSTATE
// classification, and information_schema introspection.
type PostgresEngine struct{}

const (
	pgCodeUniqueViolation     = "23505"
	pgCodeForeignKeyViolation = "23503"
	pgCodeNotNullViolation    = "23502"
	pgCodeCheckViolation      = "23514"
)

func (e *PostgresEngine) Name() string {
	return "postgres"
}

func (e *PostgresEngine) Dialector(source string) gorm.Dialector {
	return postgres.Open(source)
}

func (e *PostgresEngine) GooseDialect() database.Dialect {
	return database.DialectPostgres
}

func (e *PostgresEngine) SQLXDriver() string {
	return "pgx"
}

func (e *PostgresEngine) TranslateError(err error) *internal.AppError {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}
	switch pgErr.Code {
	case pgCodeUniqueViolation:
		return internal.NewConflictError("duplicate value for a unique field", internal.ErrCodeDuplicateEntry).WithCause(err)
	case pgCodeForeignKeyViolation:
		return internal.NewReferenceError("referenced entity does not exist", internal.ErrCodeDanglingReference).WithCause(err)
	case pgCodeNotNullViolation, pgCodeCheckViolation:
		return internal.NewValidationError("value rejected by a storage constraint", internal.ErrCodeValidationFailed).WithCause(err)
	}
	return nil
}

func (e *PostgresEngine) HasColumn(db *sqlx.DB, table, column string) (bool, error) {
	var count int
	query := db.Rebind(`SELECT COUNT(*) FROM information_schema.columns WHERE table_name = ? AND column_name = ?`)
	if err := db.Get(&count, query, table, column); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (e *PostgresEngine) ColumnType(db *sqlx.DB, table, column string) (string, error) {
	var dataType string
	query := db.Rebind(`SELECT data_type FROM information_schema.columns WHERE table_name = ? AND column_name = ?`)
	if err := db.Get(&dataType, query, table, column); err != nil {
		return "", err
	}
	return dataType, nil
}

func (e *PostgresEngine) HasConstraint(db *sqlx.DB, table, constraint string) (bool, error) {
	var count int
	query := db.Rebind(`SELECT COUNT(*) FROM information_schema.table_constraints WHERE table_name = ? AND constraint_name = ?`)
	if err := db.Get(&count, query, table, constraint); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (e *PostgresEngine) SupportsCheckConstraints() bool {
	return true
}
