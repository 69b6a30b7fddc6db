package dashboard

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/averoza/stockroom/internal/material"
	"github.com/averoza/stockroom/internal/transport"
	"github.com/averoza/stockroom/pkg/logger"
)

type ServiceAPI interface {
	Stats(from, to *time.Time) (*Stats, error)
	LowStock() ([]*material.Material, error)
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

// GetStats serves the overview counters, optionally windowed with RFC 3339
// `from` and `to` bounds.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	from, ok := h.timeParam(w, r, "from")
	if !ok {
		return
	}
	to, ok := h.timeParam(w, r, "to")
	if !ok {
		return
	}

	stats, err := h.Service.Stats(from, to)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) GetLowStock(w http.ResponseWriter, r *http.Request) {
	materials, err := h.Service.LowStock()
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, materials)
}

func (h *Handler) timeParam(w http.ResponseWriter, r *http.Request, name string) (*time.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid "+name+" timestamp")
		return nil, false
	}
	return &t, true
}
