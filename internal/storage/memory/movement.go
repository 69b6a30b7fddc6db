package memory

import (
	"time"

	"github.com/averoza/stockroom/internal/movement"
)

type MovementRepository struct {
	store *Store
}

func NewMovementRepository(store *Store) movement.Repository {
	return &MovementRepository{store: store}
}

// Create appends the movement and applies its delta under one lock, matching
// the relational backend's transaction.
func (r *MovementRepository) Create(mv *movement.StockMovement) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.materials[mv.MaterialID]; !ok {
		return movement.ErrMovementMaterialNotFound
	}

	s.nextMovementID++
	mv.ID = s.nextMovementID
	if mv.CreatedAt.IsZero() {
		mv.CreatedAt = time.Now()
	}

	s.movements = append(s.movements, *mv)
	s.applyStockDelta(mv.MaterialID, mv.Delta())
	return nil
}

func (r *MovementRepository) List(materialID *int64) ([]*movement.StockMovement, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*movement.StockMovement
	// Movements append in ID order; walk backwards for newest-first.
	for i := len(s.movements) - 1; i >= 0; i-- {
		mv := s.movements[i]
		if materialID != nil && mv.MaterialID != *materialID {
			continue
		}
		found := mv
		out = append(out, &found)
	}
	return out, nil
}

func (r *MovementRepository) CountCreatedBetween(from, to *time.Time) (int64, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, mv := range s.movements {
		if inRange(mv.CreatedAt, from, to) {
			count++
		}
	}
	return count, nil
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}
