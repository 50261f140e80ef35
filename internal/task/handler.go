package task

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/taskboard-app/taskboard/internal"
	taskmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/task"
	"github.com/taskboard-app/taskboard/internal/transport"
	"github.com/taskboard-app/taskboard/pkg/logger"
)

type ServiceAPI interface {
	Create(ctx context.Context, actor *internal.Identity, dto CreateTaskDTO) (*taskmodel.Task, error)
	Get(actor *internal.Identity, id string) (*taskmodel.Task, error)
	List(actor *internal.Identity, f Filter) ([]taskmodel.Task, error)
	ListSubtasks(actor *internal.Identity, parentID string) ([]taskmodel.Task, error)
	Update(ctx context.Context, actor *internal.Identity, id string, dto UpdateTaskDTO) (*taskmodel.Task, error)
	Move(actor *internal.Identity, id string, dto MoveTaskDTO) (*taskmodel.Task, error)
	Delete(actor *internal.Identity, id string) error
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

func (h *Handler) identity(w http.ResponseWriter, r *http.Request) (*internal.Identity, bool) {
	identity, ok := internal.IdentityFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return nil, false
	}
	return identity, true
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	var dto CreateTaskDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.Service.Create(r.Context(), identity, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusCreated, ToTaskView(t))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	t, err := h.Service.Get(identity, chi.URLParam(r, "taskID"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, ToTaskView(t))
}

// List reads the parent scope and refinements from query parameters.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	f := Filter{
		ColumnID:   r.URL.Query().Get("column_id"),
		BoardID:    r.URL.Query().Get("board_id"),
		ProjectID:  r.URL.Query().Get("project_id"),
		AssigneeID: r.URL.Query().Get("assignee_id"),
		Status:     r.URL.Query().Get("status"),
	}

	tasks, err := h.Service.List(identity, f)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, ToTaskViews(tasks))
}

func (h *Handler) ListSubtasks(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	tasks, err := h.Service.ListSubtasks(identity, chi.URLParam(r, "taskID"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, ToTaskViews(tasks))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	var dto UpdateTaskDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.Service.Update(r.Context(), identity, chi.URLParam(r, "taskID"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, ToTaskView(t))
}

func (h *Handler) Move(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	var dto MoveTaskDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	t, err := h.Service.Move(identity, chi.URLParam(r, "taskID"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, ToTaskView(t))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(identity, chi.URLParam(r, "taskID")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, map[string]string{"status": "task_deleted"})
}
