// Package migrate applies the ordered, additive schema history to whichever
// engine is active. Steps run through goose so applied versions are
// recorded, but every step also introspects the live schema before mutating
// it, so a run is a no-op on an already-migrated database even if the
// version ledger was lost. Additive steps never touch existing rows; the one
// destructive repair step refuses to run against a non-empty table.
package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"gorm.io/gorm"

	"github.com/taskboard-app/taskboard/internal/storage"
)

type Migrator struct {
	db     *gorm.DB
	sqlxDB *sqlx.DB
	engine storage.Engine
	logger *slog.Logger
}

func New(db *gorm.DB, engine storage.Engine, logger *slog.Logger) (*Migrator, error) {
	sqlxDB, err := storage.SQLX(db, engine)
	if err != nil {
		return nil, fmt.Errorf("failed to wrap connection for introspection: %w", err)
	}
	return &Migrator{
		db:     db,
		sqlxDB: sqlxDB,
		engine: engine,
		logger: logger,
	}, nil
}

// Run applies all pending steps in order. A failing step halts the run and
// is reported by name; partial DDL is not rolled back, the operator corrects
// the schema and re-runs.
func (m *Migrator) Run(ctx context.Context) error {
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}

	provider, err := goose.NewProvider(
		m.engine.GooseDialect(),
		sqlDB,
		nil,
		goose.WithGoMigrations(m.migrations()...),
		goose.WithDisableGlobalRegistry(true),
	)
	if err != nil {
		return fmt.Errorf("failed to build migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	for _, res := range results {
		m.logger.Info("migration applied",
			"version", res.Source.Version,
			"duration_ms", res.Duration.Milliseconds())
	}
	if err != nil {
		return fmt.Errorf("migration run halted: %w", err)
	}
	if len(results) == 0 {
		m.logger.Info("schema already up to date", "engine", m.engine.Name())
	}
	return nil
}

// step wraps a named, introspection-guarded schema change as a goose Go
// migration. Guards live inside fn; goose only contributes ordering and the
// version ledger.
func (m *Migrator) step(version int64, name string, fn func(ctx context.Context) error) *goose.Migration {
	return goose.NewGoMigration(
		version,
		&goose.GoFunc{
			Mode: goose.TransactionDisabled,
			RunDB: func(ctx context.Context, _ *sql.DB) error {
				m.logger.Info("applying migration step", "version", version, "name", name)
				if err := fn(ctx); err != nil {
					return fmt.Errorf("step %d (%s): %w", version, name, err)
				}
				return nil
			},
		},
		nil,
	)
}
