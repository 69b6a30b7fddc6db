package memory

import (
	"sort"
	"time"

	"github.com/averoza/stockroom/internal/material"
)

// MaterialRepository is the in-memory view over the shared store.
type MaterialRepository struct {
	store *Store
}

func NewMaterialRepository(store *Store) material.Repository {
	return &MaterialRepository{store: store}
}

func (r *MaterialRepository) Create(m *material.Material) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextMaterialID++
	m.ID = s.nextMaterialID
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
		m.UpdatedAt = m.CreatedAt
	}
	s.materials[m.ID] = *m
	return nil
}

func (r *MaterialRepository) GetByID(id int64) (*material.Material, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.materials[id]
	if !ok {
		return nil, material.ErrMaterialNotFound
	}
	return &m, nil
}

func (r *MaterialRepository) GetByCode(code string) (*material.Material, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.materials {
		if m.Code == code {
			found := m
			return &found, nil
		}
	}
	return nil, material.ErrMaterialNotFound
}

func (r *MaterialRepository) List() ([]*material.Material, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*material.Material, 0, len(s.materials))
	for _, m := range s.materials {
		found := m
		out = append(out, &found)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MaterialRepository) Update(m *material.Material) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.materials[m.ID]
	if !ok {
		return material.ErrMaterialNotFound
	}
	// Stock is owned by the movement path; keep the stored value.
	m.CurrentStock = existing.CurrentStock
	m.UpdatedAt = time.Now()
	s.materials[m.ID] = *m
	return nil
}

func (r *MaterialRepository) Delete(id int64) error {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.materials[id]; !ok {
		return material.ErrMaterialNotFound
	}
	delete(s.materials, id)
	return nil
}

func (r *MaterialRepository) ListLowStock() ([]*material.Material, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*material.Material
	for _, m := range s.materials {
		if m.CurrentStock <= m.MinimumStock {
			found := m
			out = append(out, &found)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *MaterialRepository) IsReferenced(id int64) (bool, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, mv := range s.movements {
		if mv.MaterialID == id {
			return true, nil
		}
	}
	for _, req := range s.requisitions {
		if req.MaterialID == id {
			return true, nil
		}
	}
	return false, nil
}
