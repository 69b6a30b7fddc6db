package user

import (
	"log/slog"
	"net/http"

	errs "github.com/averoza/stockroom/internal"
	"github.com/averoza/stockroom/internal/transport"
	"github.com/averoza/stockroom/pkg/logger"
)

type ServiceAPI interface {
	GetByID(id int64) (*User, error)
	List() ([]*User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

// GetCurrentUser resolves the session owner from context.
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	userID := errs.UserIDFromContext(r.Context())
	if userID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	u, err := h.Service.GetByID(userID)
	if err != nil {
		switch err {
		case ErrUserNotFound:
			h.HandleServiceError(w, errs.NewNotFoundError("user not found", errs.ErrCodeUserNotFound))
		default:
			h.HandleServiceError(w, err)
		}
		return
	}
	h.WriteJSON(w, http.StatusOK, u)
}

// ListUsers is an administrative listing; routing gates it.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Service.List()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, users)
}
