package material

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/averoza/stockroom/internal/core/events"
)

// Service handles materials catalog business logic.
type Service struct {
	repo   Repository
	bus    *events.EventBus
	logger *slog.Logger
}

func NewService(repo Repository, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: logger,
	}
}

func (s *Service) List() ([]*Material, error) {
	return s.repo.List()
}

func (s *Service) GetByID(id int64) (*Material, error) {
	return s.repo.GetByID(id)
}

// Create persists a new material. CurrentStock always starts at zero; stock is
// only ever established through movements.
func (s *Service) Create(dto CreateMaterialDTO, actorID int64) (*Material, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByCode(dto.Code); err == nil && existing != nil {
		return nil, ErrDuplicateCode
	}

	now := time.Now()
	m := &Material{
		Name:         dto.Name,
		Code:         dto.Code,
		Unit:         dto.Unit,
		UnitPrice:    dto.UnitPrice,
		MinimumStock: dto.MinimumStock,
		CurrentStock: 0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(m); err != nil {
		s.logger.Error("failed to create material", "error", err, "code", dto.Code)
		return nil, err
	}

	s.publishAudit(actorID, "material.created", m.ID, m)
	return m, nil
}

func (s *Service) Update(id int64, dto UpdateMaterialDTO, actorID int64) (*Material, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	m, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if dto.Code != nil && *dto.Code != m.Code {
		if existing, err := s.repo.GetByCode(*dto.Code); err == nil && existing != nil {
			return nil, ErrDuplicateCode
		}
		m.Code = *dto.Code
	}
	if dto.Name != nil {
		m.Name = *dto.Name
	}
	if dto.Unit != nil {
		m.Unit = *dto.Unit
	}
	if dto.UnitPrice != nil {
		m.UnitPrice = dto.UnitPrice
	}
	if dto.MinimumStock != nil {
		m.MinimumStock = *dto.MinimumStock
	}
	m.UpdatedAt = time.Now()

	if err := s.repo.Update(m); err != nil {
		s.logger.Error("failed to update material", "error", err, "material_id", id)
		return nil, err
	}

	s.publishAudit(actorID, "material.updated", m.ID, dto)
	return m, nil
}

// Delete removes a material that is not referenced by any movement or
// requisition. Referenced materials are kept so the ledger stays resolvable.
func (s *Service) Delete(id int64, actorID int64) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}

	referenced, err := s.repo.IsReferenced(id)
	if err != nil {
		return err
	}
	if referenced {
		return ErrMaterialInUse
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete material", "error", err, "material_id", id)
		return err
	}

	s.publishAudit(actorID, "material.deleted", id, nil)
	return nil
}

func (s *Service) ListLowStock() ([]*Material, error) {
	return s.repo.ListLowStock()
}

func (s *Service) publishAudit(actorID int64, action string, entityID int64, changes interface{}) {
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
		events.NewAuditEntryEvent(actorID, action, "material", entityID, payload, nil, nil))
}
