package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"github.com/taskboard-app/taskboard/internal/migrate"
	"github.com/taskboard-app/taskboard/internal/storage"
	"github.com/taskboard-app/taskboard/pkg/logger"
)

var migrateCmd = &cobra.Command{
	RunE:  runMigration,
	Use:   "migrate",
	Short: "apply pending schema migrations to the configured engine",
}

func runMigration(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig(".")
	if err != nil {
		log.Fatal(err)
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

	lg.Info("migrations complete", "engine", engine.Name())
	return nil
}
