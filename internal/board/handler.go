package board

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/taskboard-app/taskboard/internal"
	boardmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/board"
	"github.com/taskboard-app/taskboard/internal/transport"
	"github.com/taskboard-app/taskboard/pkg/logger"
)

type ServiceAPI interface {
	Create(actor *internal.Identity, dto CreateBoardDTO) (*boardmodel.Board, error)
	Get(actor *internal.Identity, id string) (*boardmodel.Board, error)
	ListByProject(actor *internal.Identity, projectID string) ([]boardmodel.Board, error)
	Update(actor *internal.Identity, id string, dto UpdateBoardDTO) (*boardmodel.Board, error)
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

	var dto CreateBoardDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := h.Service.Create(identity, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusCreated, ToBoardView(b))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	b, err := h.Service.Get(identity, chi.URLParam(r, "boardID"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, ToBoardView(b))
}

func (h *Handler) ListByProject(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	boards, err := h.Service.ListByProject(identity, chi.URLParam(r, "projectID"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, ToBoardViews(boards))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	var dto UpdateBoardDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b, err := h.Service.Update(identity, chi.URLParam(r, "boardID"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, ToBoardView(b))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(identity, chi.URLParam(r, "boardID")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, map[string]string{"status": "board_deleted"})
}
