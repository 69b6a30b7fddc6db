package audit

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/averoza/stockroom/internal/transport"
	"github.com/averoza/stockroom/pkg/logger"
)

type ServiceAPI interface {
	List(limit int) ([]*AuditLog, error)
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

// ListAuditLogs returns the newest entries. Routing restricts this to
// administrators.
func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	limit := MaxListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			h.WriteError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	entries, err := h.Service.List(limit)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, entries)
}
