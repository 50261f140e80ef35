package project

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/taskboard-app/taskboard/internal"
	projectmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/project"
	"github.com/taskboard-app/taskboard/internal/transport"
	"github.com/taskboard-app/taskboard/pkg/logger"
)

type ServiceAPI interface {
	Create(actor *internal.Identity, dto CreateProjectDTO) (*projectmodel.Project, error)
	Get(actor *internal.Identity, id string) (*projectmodel.Project, error)
	List(actor *internal.Identity) ([]projectmodel.Project, error)
	Update(actor *internal.Identity, id string, dto UpdateProjectDTO) (*projectmodel.Project, error)
	SetActive(actor *internal.Identity, id string, dto SetActiveDTO) (*projectmodel.Project, error)
	Delete(actor *internal.Identity, id string) (*projectmodel.Project, error)
	ListMembers(actor *internal.Identity, projectID string) ([]projectmodel.ProjectMember, error)
	AddMember(ctx context.Context, actor *internal.Identity, projectID string, dto AddMemberDTO) (*projectmodel.ProjectMember, error)
	ChangeMemberRole(actor *internal.Identity, projectID, userID string, dto ChangeMemberRoleDTO) (*projectmodel.ProjectMember, error)
	RemoveMember(actor *internal.Identity, projectID, userID string) error
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

	var dto CreateProjectDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.Create(identity, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusCreated, ToProjectView(p))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	p, err := h.Service.Get(identity, chi.URLParam(r, "projectID"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, ToProjectView(p))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	projects, err := h.Service.List(identity)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, ToProjectViews(projects))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	var dto UpdateProjectDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.Update(identity, chi.URLParam(r, "projectID"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, ToProjectView(p))
}

func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	var dto SetActiveDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.Service.SetActive(identity, chi.URLParam(r, "projectID"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, ToProjectView(p))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	p, err := h.Service.Delete(identity, chi.URLParam(r, "projectID"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	if p != nil {
		h.WriteData(w, http.StatusOK, map[string]any{
			"status":  "project_deactivated",
			"project": ToProjectView(p),
		})
		return
	}
	h.WriteData(w, http.StatusOK, map[string]string{"status": "project_deleted"})
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	members, err := h.Service.ListMembers(identity, chi.URLParam(r, "projectID"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, ToMemberViews(members))
}

func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	var dto AddMemberDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.Service.AddMember(r.Context(), identity, chi.URLParam(r, "projectID"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusCreated, ToMemberView(m))
}

func (h *Handler) ChangeMemberRole(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	var dto ChangeMemberRoleDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.Service.ChangeMemberRole(identity, chi.URLParam(r, "projectID"), chi.URLParam(r, "userID"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, ToMemberView(m))
}

func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	err := h.Service.RemoveMember(identity, chi.URLParam(r, "projectID"), chi.URLParam(r, "userID"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, map[string]string{"status": "member_removed"})
}
