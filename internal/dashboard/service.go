package dashboard

import (
	"log/slog"
	"time"

	"github.com/averoza/stockroom/internal/material"
)

type RequisitionCounter interface {
	CountCreatedBetween(from, to *time.Time) (int64, error)
}

type MovementCounter interface {
	CountCreatedBetween(from, to *time.Time) (int64, error)
}

type MaterialStore interface {
	ListLowStock() ([]*material.Material, error)
}

type Service struct {
	requisitions RequisitionCounter
	movements    MovementCounter
	materials    MaterialStore
	logger       *slog.Logger
}

func NewService(requisitions RequisitionCounter, movements MovementCounter, materials MaterialStore, logger *slog.Logger) *Service {
	return &Service{
		requisitions: requisitions,
		movements:    movements,
		materials:    materials,
		logger:       logger,
	}
}

// Stats counts requisitions and movements created in the window (everything
// when both bounds are nil) plus the current low-stock and critical totals.
func (s *Service) Stats(from, to *time.Time) (*Stats, error) {
	reqCount, err := s.requisitions.CountCreatedBetween(from, to)
	if err != nil {
		s.logger.Error("failed to count requisitions", "error", err)
		return nil, err
	}

	mvCount, err := s.movements.CountCreatedBetween(from, to)
	if err != nil {
		s.logger.Error("failed to count movements", "error", err)
		return nil, err
	}

	lowStock, err := s.materials.ListLowStock()
	if err != nil {
		s.logger.Error("failed to list low stock materials", "error", err)
		return nil, err
	}

	var critical int64
	for _, m := range lowStock {
		if m.IsCritical() {
			critical++
		}
	}

	return &Stats{
		RequisitionCount: reqCount,
		MovementCount:    mvCount,
		LowStockCount:    int64(len(lowStock)),
		CriticalCount:    critical,
		From:             from,
		To:               to,
	}, nil
}

// LowStock returns the materials at or below their minimum, zero stock
// included.
func (s *Service) LowStock() ([]*material.Material, error) {
	return s.materials.ListLowStock()
}
