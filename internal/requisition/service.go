package requisition

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/averoza/stockroom/internal/core/events"
	"github.com/averoza/stockroom/internal/material"
	"github.com/averoza/stockroom/internal/user"
)

type MaterialStore interface {
	GetByID(id int64) (*material.Material, error)
}

type UserStore interface {
	GetByID(id int64) (*user.User, error)
}

type Service struct {
	repo      Repository
	materials MaterialStore
	users     UserStore
	bus       *events.EventBus
	logger    *slog.Logger
}

func NewService(repo Repository, materials MaterialStore, users UserStore, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		materials: materials,
		users:     users,
		bus:       bus,
		logger:    logger,
	}
}

// Create raises a requisition in PENDING state. The target employee must
// exist and carry the EMPLOYEE role.
func (s *Service) Create(dto CreateRequisitionDTO, actorID int64) (*Requisition, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	employee, err := s.users.GetByID(dto.EmployeeID)
	if err != nil {
		return nil, user.ErrUserNotFound
	}
	if !employee.IsEmployee() {
		return nil, user.ErrNotAnEmployee
	}

	if _, err := s.materials.GetByID(dto.MaterialID); err != nil {
		return nil, material.ErrMaterialNotFound
	}

	now := time.Now()
	req := &Requisition{
		EmployeeID:  dto.EmployeeID,
		MaterialID:  dto.MaterialID,
		Quantity:    dto.Quantity,
		Note:        dto.Note,
		Status:      StatusPending,
		CreatedByID: actorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(req); err != nil {
		s.logger.Error("failed to create requisition", "error", err,
			"employee_id", dto.EmployeeID, "material_id", dto.MaterialID)
		return nil, err
	}

	s.publishAudit(actorID, "requisition.created", req.ID, req, nil, nil)
	return req, nil
}

// Sign confirms a withdrawal. When signerID is set (the employee self-service
// path) it must match the requisition's employee; the ownership check happens
// before any mutation so a forbidden attempt produces no movement. The
// repository performs the status transition, the derived outbound movement
// and the stock decrement in a single transaction.
func (s *Service) Sign(id int64, device, ip *string, signerID *int64, actorID int64) (*Requisition, error) {
	req, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if signerID != nil && *signerID != req.EmployeeID {
		s.logger.Warn("sign rejected: signer does not own requisition",
			"requisition_id", id, "signer_id", *signerID, "employee_id", req.EmployeeID)
		return nil, ErrNotOwner
	}

	signed, err := s.repo.Sign(id, SignMeta{
		SignedAt: time.Now(),
		Device:   device,
		IP:       ip,
	})
	if err != nil {
		if err != ErrAlreadySigned && err != ErrAlreadyCancelled && err != ErrRequisitionNotFound {
			s.logger.Error("failed to sign requisition", "error", err, "requisition_id", id)
		}
		return nil, err
	}

	s.logger.Info("requisition signed",
		"requisition_id", signed.ID,
		"employee_id", signed.EmployeeID,
		"material_id", signed.MaterialID,
		"quantity", signed.Quantity)

	s.publishAudit(actorID, "requisition.signed", signed.ID, signed, ip, device)
	return signed, nil
}

// Cancel voids a pending requisition. Signed or already cancelled
// requisitions are terminal.
func (s *Service) Cancel(id int64, actorID int64) (*Requisition, error) {
	cancelled, err := s.repo.Cancel(id)
	if err != nil {
		return nil, err
	}

	s.publishAudit(actorID, "requisition.cancelled", cancelled.ID, cancelled, nil, nil)
	return cancelled, nil
}

func (s *Service) GetByID(id int64) (*Requisition, error) {
	return s.repo.GetByID(id)
}

func (s *Service) ListAll() ([]*Detail, error) {
	return s.repo.ListAll()
}

func (s *Service) ListForEmployee(employeeID int64) ([]*Detail, error) {
	return s.repo.ListForEmployee(employeeID)
}

func (s *Service) publishAudit(actorID int64, action string, entityID int64, changes interface{}, ip, device *string) {
	if s.bus == nil {
		return
	}
	payload := ""
	if changes != nil {
		if b, err := json.Marshal(changes); err == nil {
			payload = string(b)
		}
	}
	_ = s.bus.Publish(context.Background(),
		events.NewAuditEntryEvent(actorID, action, "requisition", entityID, payload, ip, device))
}
