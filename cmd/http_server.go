package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"

	"github.com/taskboard-app/taskboard/internal/access"
	accessstore "github.com/taskboard-app/taskboard/internal/access/store"
	"github.com/taskboard-app/taskboard/internal/auth"
	authstore "github.com/taskboard-app/taskboard/internal/auth/store"
	"github.com/taskboard-app/taskboard/internal/board"
	boardstore "github.com/taskboard-app/taskboard/internal/board/store"
	"github.com/taskboard-app/taskboard/internal/column"
	columnstore "github.com/taskboard-app/taskboard/internal/column/store"
	"github.com/taskboard-app/taskboard/internal/core/datamodel/jsonblob"
	"github.com/taskboard-app/taskboard/internal/core/events"
	"github.com/taskboard-app/taskboard/internal/project"
	projectstore "github.com/taskboard-app/taskboard/internal/project/store"
	"github.com/taskboard-app/taskboard/internal/storage"
	"github.com/taskboard-app/taskboard/internal/task"
	taskstore "github.com/taskboard-app/taskboard/internal/task/store"
	"github.com/taskboard-app/taskboard/internal/transport/rest"
	"github.com/taskboard-app/taskboard/internal/transport/swagger"
	"github.com/taskboard-app/taskboard/internal/user"
	userstore "github.com/taskboard-app/taskboard/internal/user/store"
	"github.com/taskboard-app/taskboard/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

const openapiPath = "./api/openapi.yml"

func startHTTPServer() {
	cfg, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Format)
	lg := logger.LoggerWrapper()

	db, engine, err := storage.Open(cfg.Database, lg)
	if err != nil {
		lg.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	if _, err := os.Stat(openapiPath); err == nil {
		if err := swagger.ValidateDocument(openapiPath); err != nil {
			lg.Error("openapi document is invalid", "error", err)
			os.Exit(1)
		}
	} else {
		lg.Warn("openapi document not found, swagger UI will be empty", "path", openapiPath)
	}

	// stores
	authRepo := authstore.NewRepository(db, engine)
	userRepo := userstore.NewRepository(db, engine)
	projectRepo := projectstore.NewRepository(db, engine)
	boardRepo := boardstore.NewRepository(db, engine)
	columnRepo := columnstore.NewRepository(db, engine)
	taskRepo := taskstore.NewRepository(db, engine)
	accessRepo := accessstore.NewRepository(db)

	resolver := access.NewResolver(accessRepo, lg)

	bus := events.NewBus(lg)
	notifier := events.NewNotificationLogger(func(userID string) (jsonblob.Map, error) {
		u, err := userRepo.GetByID(userID)
		if err != nil {
			return nil, err
		}
		return u.NotificationPrefs, nil
	}, lg)
	notifier.Register(bus)

	// services
	tokens := auth.NewJWTTokenGenerator(cfg.Security.SessionSecret)
	authService := auth.NewService(authRepo, tokens, cfg.Security, lg)
	userService := user.NewService(userRepo, cfg.Security, lg)
	projectService := project.NewService(projectRepo, resolver, bus, lg)
	boardService := board.NewService(boardRepo, resolver, lg)
	columnService := column.NewService(columnRepo, resolver, lg)
	taskService := task.NewService(taskRepo, resolver, bus, lg)

	handlers := rest.Handlers{
		Auth:    auth.NewHandler(authService),
		User:    user.NewHandler(userService),
		Project: project.NewHandler(projectService),
		Board:   board.NewHandler(boardService),
		Column:  column.NewHandler(columnService),
		Task:    task.NewHandler(taskService),
	}

	sqlDB, err := db.DB()
	if err != nil {
		lg.Error("failed to access connection pool", "error", err)
		os.Exit(1)
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, sqlDB, handlers, cfg.Server, lg)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	lg.Info("starting HTTP server", "address", addr, "engine", engine.Name())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		lg.Info("received signal, shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			lg.Error("server shutdown error", "error", err)
		}
		if err := sqlDB.Close(); err != nil {
			lg.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			lg.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	lg.Info("server stopped")
}
