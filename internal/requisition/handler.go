package requisition

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	errs "github.com/averoza/stockroom/internal"
	"github.com/averoza/stockroom/internal/auth"
	"github.com/averoza/stockroom/internal/material"
	"github.com/averoza/stockroom/internal/transport"
	"github.com/averoza/stockroom/internal/user"
	"github.com/averoza/stockroom/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(dto CreateRequisitionDTO, actorID int64) (*Requisition, error)
	GetByID(id int64) (*Requisition, error)
	ListAll() ([]*Detail, error)
	ListForEmployee(employeeID int64) ([]*Detail, error)
	Sign(id int64, device, ip *string, signerID *int64, actorID int64) (*Requisition, error)
	Cancel(id int64, actorID int64) (*Requisition, error)
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

func (h *Handler) CreateRequisition(w http.ResponseWriter, r *http.Request) {
	actor := auth.UserFromContext(r.Context())
	if actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateRequisitionDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := h.Service.Create(dto, actor.ID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	h.Logger.Info("requisition created", "requisition_id", req.ID, "actor_id", actor.ID)
	h.WriteJSON(w, http.StatusCreated, req)
}

// ListRequisitions returns every requisition for ADMIN and STOCK staff;
// employee-role sessions only see their own.
func (h *Handler) ListRequisitions(w http.ResponseWriter, r *http.Request) {
	actor := auth.UserFromContext(r.Context())
	if actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var (
		details []*Detail
		err     error
	)
	if actor.IsEmployee() {
		details, err = h.Service.ListForEmployee(actor.ID)
	} else {
		details, err = h.Service.ListAll()
	}
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, details)
}

func (h *Handler) GetRequisition(w http.ResponseWriter, r *http.Request) {
	id, ok := h.requisitionID(w, r)
	if !ok {
		return
	}

	req, err := h.Service.GetByID(id)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, req)
}

// SignRequisition confirms the withdrawal. Staff with the EMPLOYEE role may
// only sign their own requisitions; ADMIN and STOCK sign on behalf of anyone.
func (h *Handler) SignRequisition(w http.ResponseWriter, r *http.Request) {
	actor := auth.UserFromContext(r.Context())
	if actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok := h.requisitionID(w, r)
	if !ok {
		return
	}

	var signerID *int64
	if actor.IsEmployee() {
		signerID = &actor.ID
	}

	h.sign(w, r, id, signerID, actor.ID)
}

// SignOwnRequisition is the employee portal path: the session owner is always
// the required signer.
func (h *Handler) SignOwnRequisition(w http.ResponseWriter, r *http.Request) {
	actor := auth.UserFromContext(r.Context())
	if actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok := h.requisitionID(w, r)
	if !ok {
		return
	}

	h.sign(w, r, id, &actor.ID, actor.ID)
}

// ListOwnRequisitions serves the employee portal listing.
func (h *Handler) ListOwnRequisitions(w http.ResponseWriter, r *http.Request) {
	actor := auth.UserFromContext(r.Context())
	if actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	details, err := h.Service.ListForEmployee(actor.ID)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, details)
}

func (h *Handler) CancelRequisition(w http.ResponseWriter, r *http.Request) {
	actor := auth.UserFromContext(r.Context())
	if actor == nil {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id, ok := h.requisitionID(w, r)
	if !ok {
		return
	}

	req, err := h.Service.Cancel(id, actor.ID)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) sign(w http.ResponseWriter, r *http.Request, id int64, signerID *int64, actorID int64) {
	var dto SignRequisitionDTO
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	device := dto.Device
	if device == nil {
		if ua := r.UserAgent(); ua != "" {
			device = &ua
		}
	}
	ip := h.ClientIP(r)

	req, err := h.Service.Sign(id, device, &ip, signerID, actorID)
	if err != nil {
		h.handleError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, req)
}

func (h *Handler) requisitionID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid requisition ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) handleError(w http.ResponseWriter, err error) {
	switch err {
	case ErrRequisitionNotFound:
		h.HandleServiceError(w, errs.NewNotFoundError("requisition not found", errs.ErrCodeRequisitionNotFound))
	case ErrAlreadySigned:
		h.HandleServiceError(w, errs.NewValidationError("requisition already signed", errs.ErrCodeAlreadySigned))
	case ErrAlreadyCancelled:
		h.HandleServiceError(w, errs.NewConflictError("requisition already cancelled", errs.ErrCodeAlreadyCancelled))
	case ErrNotOwner:
		h.HandleServiceError(w, errs.NewForbiddenError("requisition belongs to another employee", errs.ErrCodeNotOwner))
	case user.ErrUserNotFound:
		h.HandleServiceError(w, errs.NewNotFoundError("employee not found", errs.ErrCodeUserNotFound))
	case user.ErrNotAnEmployee:
		h.HandleServiceError(w, errs.NewValidationError("user is not an employee", errs.ErrCodeNotAnEmployee))
	case material.ErrMaterialNotFound:
		h.HandleServiceError(w, errs.NewNotFoundError("material not found", errs.ErrCodeMaterialNotFound))
	default:
		h.HandleServiceError(w, err)
	}
}
