package material

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	errs "github.com/averoza/stockroom/internal"
	"github.com/averoza/stockroom/internal/auth"
	"github.com/averoza/stockroom/internal/transport"
	"github.com/averoza/stockroom/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	List() ([]*Material, error)
	GetByID(id int64) (*Material, error)
	Create(dto CreateMaterialDTO, actorID int64) (*Material, error)
	Update(id int64, dto UpdateMaterialDTO, actorID int64) (*Material, error)
	Delete(id int64, actorID int64) error
	ListLowStock() ([]*Material, error)
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

func (h *Handler) ListMaterials(w http.ResponseWriter, r *http.Request) {
	materials, err := h.Service.List()
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, materials)
}

func (h *Handler) GetMaterial(w http.ResponseWriter, r *http.Request) {
	id, ok := h.materialID(w, r)
	if !ok {
		return
	}

	m, err := h.Service.GetByID(id)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) CreateMaterial(w http.ResponseWriter, r *http.Request) {
	actor := auth.UserFromContext(r.Context())
	if actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateMaterialDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.Service.Create(dto, actor.ID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.Logger.Info("material created", "material_id", m.ID, "code", m.Code, "actor_id", actor.ID)
	h.WriteJSON(w, http.StatusCreated, m)
}

func (h *Handler) UpdateMaterial(w http.ResponseWriter, r *http.Request) {
	actor := auth.UserFromContext(r.Context())
	if actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok := h.materialID(w, r)
	if !ok {
		return
	}

	var dto UpdateMaterialDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	m, err := h.Service.Update(id, dto, actor.ID)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, m)
}

func (h *Handler) DeleteMaterial(w http.ResponseWriter, r *http.Request) {
	actor := auth.UserFromContext(r.Context())
	if actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok := h.materialID(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(id, actor.ID); err != nil {
		h.handleError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListLowStock(w http.ResponseWriter, r *http.Request) {
	materials, err := h.Service.ListLowStock()
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, materials)
}

func (h *Handler) materialID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid material ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) handleError(w http.ResponseWriter, err error) {
	switch err {
	case ErrMaterialNotFound:
		h.HandleServiceError(w, errs.NewNotFoundError("material not found", errs.ErrCodeMaterialNotFound))
	case ErrDuplicateCode:
		h.HandleServiceError(w, errs.NewValidationError("material code already exists", errs.ErrCodeDuplicateCode))
	case ErrMaterialInUse:
		h.HandleServiceError(w, errs.NewConflictError("material is referenced by movements or requisitions", errs.ErrCodeMaterialInUse))
	default:
		h.HandleServiceError(w, err)
	}
}
