package rest

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"

	"github.com/taskboard-app/taskboard/internal"
	"github.com/taskboard-app/taskboard/internal/auth"
	"github.com/taskboard-app/taskboard/internal/board"
	"github.com/taskboard-app/taskboard/internal/column"
	"github.com/taskboard-app/taskboard/internal/project"
	"github.com/taskboard-app/taskboard/internal/task"
	"github.com/taskboard-app/taskboard/internal/transport/middleware"
	"github.com/taskboard-app/taskboard/internal/transport/swagger"
	"github.com/taskboard-app/taskboard/internal/user"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth    *auth.Handler
	User    *user.Handler
	Project *project.Handler
	Board   *board.Handler
	Column  *column.Handler
	Task    *task.Handler
}

// RegisterAllRoutes wires the full HTTP surface under /api/v1, with the
// OpenAPI document and Swagger UI served at root.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, serverCfg internal.ServerConfig, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	router.Use(middleware.CORS(splitOrigins(serverCfg.AllowedOrigins)))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.Logging(logger))

	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/register", h.Auth.Register)
			sr.Post("/login", h.Auth.Login)
			sr.Post("/logout", h.Auth.Logout)
		})

		// everything below requires a resolved session
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			pr.Get("/users/me", h.Auth.Me)
			pr.Get("/profile", h.User.GetProfile)
			pr.Patch("/profile", h.User.UpdateProfile)
			pr.Post("/profile/password", h.User.ChangePassword)
			pr.Get("/users/{userID}", h.User.GetUser)

			pr.Route("/admin/users", func(ar chi.Router) {
				ar.Get("/", h.User.ListUsers)
				ar.Get("/pending", h.User.ListPendingUsers)
				ar.Post("/{userID}/approval", h.User.DecideApproval)
			})

			pr.Route("/projects", func(pjr chi.Router) {
				pjr.Post("/", h.Project.Create)
				pjr.Get("/", h.Project.List)
				pjr.Get("/{projectID}", h.Project.Get)
				pjr.Patch("/{projectID}", h.Project.Update)
				pjr.Put("/{projectID}/activation", h.Project.SetActive)
				pjr.Delete("/{projectID}", h.Project.Delete)

				pjr.Get("/{projectID}/members", h.Project.ListMembers)
				pjr.Post("/{projectID}/members", h.Project.AddMember)
				pjr.Put("/{projectID}/members/{userID}", h.Project.ChangeMemberRole)
				pjr.Delete("/{projectID}/members/{userID}", h.Project.RemoveMember)

				pjr.Get("/{projectID}/boards", h.Board.ListByProject)
			})

			pr.Route("/boards", func(br chi.Router) {
				br.Post("/", h.Board.Create)
				br.Get("/{boardID}", h.Board.Get)
				br.Patch("/{boardID}", h.Board.Update)
				br.Delete("/{boardID}", h.Board.Delete)

				br.Get("/{boardID}/columns", h.Column.ListByBoard)
			})

			pr.Route("/columns", func(cr chi.Router) {
				cr.Post("/", h.Column.Create)
				cr.Get("/{columnID}", h.Column.Get)
				cr.Patch("/{columnID}", h.Column.Update)
				cr.Put("/{columnID}/position", h.Column.Reorder)
				cr.Delete("/{columnID}", h.Column.Delete)
			})

			pr.Route("/tasks", func(tr chi.Router) {
				tr.Post("/", h.Task.Create)
				tr.Get("/", h.Task.List)
				tr.Get("/{taskID}", h.Task.Get)
				tr.Get("/{taskID}/subtasks", h.Task.ListSubtasks)
				tr.Patch("/{taskID}", h.Task.Update)
				tr.Put("/{taskID}/column", h.Task.Move)
				tr.Delete("/{taskID}", h.Task.Delete)
			})
		})
	})
}

func splitOrigins(origins string) []string {
	if origins == "" {
		return nil
	}
	parts := strings.Split(origins, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
