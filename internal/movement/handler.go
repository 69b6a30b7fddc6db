package movement

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	errs "github.com/averoza/stockroom/internal"
	"github.com/averoza/stockroom/internal/auth"
	"github.com/averoza/stockroom/internal/material"
	"github.com/averoza/stockroom/internal/transport"
	"github.com/averoza/stockroom/pkg/logger"
)

type ServiceAPI interface {
	Create(dto CreateMovementDTO, actorID int64) (*StockMovement, error)
	List(materialID *int64) ([]*StockMovement, error)
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

func (h *Handler) CreateMovement(w http.ResponseWriter, r *http.Request) {
	actor := auth.UserFromContext(r.Context())
	if actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateMovementDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	mv, err := h.Service.Create(dto, actor.ID)
	if err != nil {
		switch err {
		case material.ErrMaterialNotFound, ErrMovementMaterialNotFound:
			h.HandleServiceError(w, errs.NewNotFoundError("material not found", errs.ErrCodeMaterialNotFound))
		default:
			h.HandleServiceError(w, err)
		}
		return
	}

	h.WriteJSON(w, http.StatusCreated, mv)
}

func (h *Handler) ListMovements(w http.ResponseWriter, r *http.Request) {
	var materialID *int64
	if raw := r.URL.Query().Get("material_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid material_id filter")
			return
		}
		materialID = &id
	}

	movements, err := h.Service.List(materialID)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, movements)
}
