package memory

import (
	"sync"
	"time"

	"github.com/averoza/stockroom/internal/audit"
	"github.com/averoza/stockroom/internal/material"
	"github.com/averoza/stockroom/internal/movement"
	"github.com/averoza/stockroom/internal/requisition"
	"github.com/averoza/stockroom/internal/user"
)

// Store is the volatile storage backend: plain maps guarded by one RWMutex.
// Every repository view shares the same lock so cross-entity operations like
// signing a requisition stay atomic. Contents are lost on restart.
//
// The store keeps its own copies of every row and hands out copies on reads,
// so callers never alias internal state.
type Store struct {
	mu sync.RWMutex

	materials    map[int64]material.Material
	movements    []movement.StockMovement
	requisitions map[int64]requisition.Requisition
	users        map[int64]user.User
	auditLogs    []audit.AuditLog

	nextMaterialID    int64
	nextMovementID    int64
	nextRequisitionID int64
	nextUserID        int64
	nextAuditID       int64
}

func NewStore() *Store {
	return &Store{
		materials:    make(map[int64]material.Material),
		requisitions: make(map[int64]requisition.Requisition),
		users:        make(map[int64]user.User),
	}
}

// applyStockDelta adjusts a material's stock clamped at zero. Callers hold
// the write lock.
func (s *Store) applyStockDelta(materialID, delta int64) bool {
	m, ok := s.materials[materialID]
	if !ok {
		return false
	}
	next := m.CurrentStock + delta
	if next < 0 {
		next = 0
	}
	m.CurrentStock = next
	m.UpdatedAt = time.Now()
	s.materials[materialID] = m
	return true
}
