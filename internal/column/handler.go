package column

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"

	"github.com/taskboard-app/taskboard/internal"
	columnmodel "github.com/taskboard-app/taskboard/internal/core/datamodel/column"
	"github.com/taskboard-app/taskboard/internal/transport"
	"github.com/taskboard-app/taskboard/pkg/logger"
)

type ServiceAPI interface {
	Create(actor *internal.Identity, dto CreateColumnDTO) (*columnmodel.Column, error)
	Get(actor *internal.Identity, id string) (*columnmodel.Column, error)
	ListByBoard(actor *internal.Identity, boardID string) ([]columnmodel.Column, error)
	Update(actor *internal.Identity, id string, dto UpdateColumnDTO) (*columnmodel.Column, error)
	Reorder(actor *internal.Identity, id string, dto ReorderColumnDTO) (*columnmodel.Column, error)
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

	var dto CreateColumnDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.Create(identity, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusCreated, ToColumnView(c))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	c, err := h.Service.Get(identity, chi.URLParam(r, "columnID"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, ToColumnView(c))
}

func (h *Handler) ListByBoard(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	columns, err := h.Service.ListByBoard(identity, chi.URLParam(r, "boardID"))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, ToColumnViews(columns))
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	var dto UpdateColumnDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.Update(identity, chi.URLParam(r, "columnID"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, ToColumnView(c))
}

func (h *Handler) Reorder(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	var dto ReorderColumnDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.Reorder(identity, chi.URLParam(r, "columnID"), dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, ToColumnView(c))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := h.identity(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(identity, chi.URLParam(r, "columnID")); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, map[string]string{"status": "column_deleted"})
}
