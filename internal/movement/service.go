package movement

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/averoza/stockroom/internal/core/events"
	"github.com/averoza/stockroom/internal/material"
)

// MaterialStore is the slice of the materials catalog the movement service
// needs to validate references.
type MaterialStore interface {
	GetByID(id int64) (*material.Material, error)
}

type Service struct {
	repo      Repository
	materials MaterialStore
	bus       *events.EventBus
	logger    *slog.Logger
}

func NewService(repo Repository, materials MaterialStore, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		materials: materials,
		bus:       bus,
		logger:    logger,
	}
}

// Create validates and records a stock movement attributed to actorID. The
// repository applies the stock delta atomically with the insert.
func (s *Service) Create(dto CreateMovementDTO, actorID int64) (*StockMovement, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.materials.GetByID(dto.MaterialID); err != nil {
		return nil, material.ErrMaterialNotFound
	}

	mv := &StockMovement{
		MaterialID: dto.MaterialID,
		Type:       dto.Type,
		Quantity:   dto.Quantity,
		UnitPrice:  dto.UnitPrice,
		Note:       dto.Note,
		UserID:     actorID,
		CreatedAt:  time.Now(),
	}

	if err := s.repo.Create(mv); err != nil {
		s.logger.Error("failed to record stock movement", "error", err,
			"material_id", dto.MaterialID, "type", dto.Type)
		return nil, err
	}

	s.logger.Info("stock movement recorded",
		"movement_id", mv.ID,
		"material_id", mv.MaterialID,
		"type", mv.Type,
		"quantity", mv.Quantity)

	s.publishAudit(actorID, "movement.created", mv.ID, mv)
	return mv, nil
}

func (s *Service) List(materialID *int64) ([]*StockMovement, error) {
	return s.repo.List(materialID)
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
		events.NewAuditEntryEvent(actorID, action, "stock_movement", entityID, payload, nil, nil))
}
