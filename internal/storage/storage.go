// Package storage selects and wraps the storage engine for the whole
// process. One logical contract, two realizations: an embedded SQLite file
// and a client/server PostgreSQL. Everything above this package is
// engine-neutral: ids are opaque strings, timestamps are time.Time, and
// constraint violations surface as the shared error taxonomy.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3/database"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/taskboard-app/taskboard/internal"
)

// Engine captures everything that actually differs between the two storage
// engines: dialector construction, raw error classification, and schema
// introspection. CRUD code never sees it; the migrator and the open path do.
type Engine interface {
	Name() string
	Dialector(source string) gorm.Dialector
	GooseDialect() database.Dialect
	// SQLXDriver is the driver name sqlx uses for bindvar rewriting.
	SQLXDriver() string

	// TranslateError classifies an engine-level error into the shared
	// taxonomy, or returns nil when the error carries no engine-specific
	// meaning.
	TranslateError(err error) *internal.AppError

	HasColumn(db *sqlx.DB, table, column string) (bool, error)
	ColumnType(db *sqlx.DB, table, column string) (string, error)
	HasConstraint(db *sqlx.DB, table, constraint string) (bool, error)
	SupportsCheckConstraints() bool
}

// ForDriver returns the engine for a configured driver name.
func ForDriver(driver string) (Engine, error) {
	switch driver {
	case "postgres":
		return &PostgresEngine{}, nil
	case "sqlite":
		return &SQLiteEngine{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// Open connects the configured engine and tunes the shared connection pool.
// TranslateError is enabled so CRUD paths get uniform gorm sentinels for
// duplicate-key and foreign-key violations on both engines.
func Open(cfg internal.DatabaseConfig, logger *slog.Logger) (*gorm.DB, Engine, error) {
	engine, err := ForDriver(cfg.Driver)
	if err != nil {
		return nil, nil, err
	}

	db, err := gorm.Open(engine.Dialector(cfg.Source), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s database: %w", engine.Name(), err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to access connection pool: %w", err)
	}

	tunePool(sqlDB, cfg)

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, nil, fmt.Errorf("failed to ping %s database: %w", engine.Name(), err)
	}

	logger.Info("storage engine ready", "engine", engine.Name())
	return db, engine, nil
}

func tunePool(sqlDB *sql.DB, cfg internal.DatabaseConfig) {
	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
}

// SQLX wraps the already-open connection pool for raw introspection queries
// and existence probes, without opening a second connection.
func SQLX(db *gorm.DB, engine Engine) (*sqlx.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return sqlx.NewDb(sqlDB, engine.SQLXDriver()), nil
}

// ClassifyWriteError maps a failed write into the taxonomy: conflict for
// duplicates, reference for dangling foreign keys, storage for everything
// else. Engine-specific codes are consulted after the portable gorm
// sentinels so raw-SQL paths classify identically.
func ClassifyWriteError(err error, engine Engine, message string) *internal.AppError {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return internal.NewConflictError("duplicate value for a unique field", internal.ErrCodeDuplicateEntry).WithCause(err)
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return internal.NewReferenceError("referenced entity does not exist", internal.ErrCodeDanglingReference).WithCause(err)
	}
	if engine != nil {
		if appErr := engine.TranslateError(err); appErr != nil {
			return appErr
		}
	}
	return internal.NewStorageError(message, err)
}

// PingWithTimeout verifies connectivity within the given budget; used by the
// readiness probe so an unreachable engine surfaces quickly.
func PingWithTimeout(db *gorm.DB, timeout time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := internal.WithTimeout(context.Background(), timeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
