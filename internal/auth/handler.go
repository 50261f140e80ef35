package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/taskboard-app/taskboard/internal"
	usermodel "github.com/taskboard-app/taskboard/internal/core/datamodel/user"
	"github.com/taskboard-app/taskboard/internal/transport"
	"github.com/taskboard-app/taskboard/pkg/logger"
)

type ServiceAPI interface {
	Register(dto RegisterDTO) (*usermodel.User, error)
	Login(dto LoginDTO) (*LoginResult, error)
	Resolve(token string) (*internal.Identity, error)
	Logout(token string) error
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

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var dto RegisterDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	u, err := h.Service.Register(dto)
	if err != nil {
		h.Logger.Error("registration failed", "error", err, "email", dto.Email)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusCreated, ToUserView(u))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var dto LoginDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.Login(dto)
	if err != nil {
		h.Logger.Error("authentication failed", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteData(w, http.StatusOK, result)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := h.ExtractTokenFromHeader(r)
	if err := h.Service.Logout(token); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteData(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

// Me returns the identity resolved from the bearer token; handlers behind
// the middleware read it from context.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := internal.IdentityFromContext(r.Context())
	if !ok || identity == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	h.WriteData(w, http.StatusOK, identity)
}

// AuthMiddleware resolves the bearer token against the session store on
// every request and attaches the caller identity to the context.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.ExtractTokenFromHeader(r)
		if token == "" {
			h.WriteError(w, http.StatusUnauthorized, "missing authorization token")
			return
		}

		identity, err := h.Service.Resolve(token)
		if err != nil {
			h.Logger.Warn("session resolution failed", "error", err)
			h.HandleServiceError(w, err)
			return
		}

		ctx := internal.ContextWithIdentity(r.Context(), identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
